package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"user-account/models"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) models.Result
}

type AuthController struct {
	auth AuthService
}

func NewAuthController(auth AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Login godoc
// @Summary User login
// @Description Exchange email and password for a bearer token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login Request"
// @Success 200 {object} models.Envelope
// @Router /auth [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusOK, models.Failure(http.StatusBadRequest, "Enter a valid email and password"))
		return
	}

	result := ctrl.auth.Login(c.Request.Context(), req.Email, req.Password)
	c.JSON(http.StatusOK, result.Body(result.Status))
}
