package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-account/libs"
	"user-account/middleware"
	"user-account/models"
	"user-account/services"
)

type UserService interface {
	RegisterUser(ctx context.Context, sub models.Submission) models.Result
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	GetAllUsers(ctx context.Context) models.Result
	UpdateUser(ctx context.Context, user *models.User) error
	SanitizeUser(user models.User) models.PublicUser
}

type UserController struct {
	users  UserService
	files  libs.FileStore
	logger *zap.Logger
}

// NewUserController builds the controller. files is used to clean up
// pictures that are no longer referenced and may be nil.
func NewUserController(users UserService, files libs.FileStore, logger *zap.Logger) *UserController {
	return &UserController{users: users, files: files, logger: logger}
}

// Register godoc
// @Summary Register new user
// @Description Create an account; an optional profile picture can be sent in the same multipart form
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param email formData string true "Email"
// @Param phone formData string false "10 digit phone number"
// @Param password formData string true "Password (6 or more characters)"
// @Param profile_picture formData file false "jpeg, jpg, png or jfif image"
// @Success 200 {object} models.Envelope
// @Router /user [post]
func (ctrl *UserController) Register(c *gin.Context) {
	ctx := c.Request.Context()
	sub := middleware.Submission(c)

	file, uploaded := middleware.UploadedFile(c)
	if uploaded {
		sub.ProfilePicture = file.Filename
	}

	result := ctrl.users.RegisterUser(ctx, sub)
	if uploaded && result.Status != http.StatusOK {
		ctrl.removeFile(ctx, file.Filename)
	}

	c.JSON(http.StatusOK, result.Body(result.Status))
}

// Profile godoc
// @Summary Get own profile
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Envelope
// @Router /user [get]
func (ctrl *UserController) Profile(c *gin.Context) {
	userID := c.GetInt(middleware.UserIDKey)

	user, err := ctrl.users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusOK, models.Failure(http.StatusNotFound, "There was en error fetching your profile"))
			return
		}
		ctrl.logger.Error("fetch profile failed", zap.Int("user_id", userID), zap.Error(err))
		c.JSON(http.StatusOK, models.Failure(http.StatusInternalServerError, "There was en error fetching your profile"))
		return
	}

	c.JSON(http.StatusOK, models.Envelope{
		Data:       ctrl.users.SanitizeUser(*user),
		Success:    true,
		StatusCode: http.StatusOK,
	})
}

// List godoc
// @Summary List all users
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Envelope
// @Router /user/all [get]
func (ctrl *UserController) List(c *gin.Context) {
	result := ctrl.users.GetAllUsers(c.Request.Context())

	c.JSON(http.StatusOK, result.Body(http.StatusOK))
}

// Update godoc
// @Summary Update own profile
// @Description Fields left out keep their stored value. The password cannot be changed here.
// @Tags Users
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param name formData string false "Name"
// @Param email formData string false "Email"
// @Param phone formData string false "10 digit phone number"
// @Param profile_picture formData file false "jpeg, jpg, png or jfif image"
// @Success 200 {object} models.Envelope
// @Router /user/update [post]
func (ctrl *UserController) Update(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt(middleware.UserIDKey)
	sub := middleware.Submission(c)

	file, uploaded := middleware.UploadedFile(c)
	if uploaded {
		sub.ProfilePicture = file.Filename
	}

	current, err := ctrl.users.GetUserByID(ctx, userID)
	if err != nil {
		if uploaded {
			ctrl.removeFile(ctx, file.Filename)
		}
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusOK, models.Failure(http.StatusNotFound, "There was en error fetching your profile"))
			return
		}
		ctrl.logger.Error("fetch user for update failed", zap.Int("user_id", userID), zap.Error(err))
		c.JSON(http.StatusOK, models.Failure(http.StatusInternalServerError, "There was an issue updating the user"))
		return
	}

	updated := models.MergeUser(*current, sub)

	if err := ctrl.users.UpdateUser(ctx, &updated); err != nil {
		ctrl.logger.Warn("update user failed", zap.Int("user_id", userID), zap.Error(err))
		if uploaded {
			ctrl.removeFile(ctx, file.Filename)
		}
		c.JSON(http.StatusOK, models.Failure(http.StatusInternalServerError, "There was an issue updating the user"))
		return
	}

	if uploaded && current.ProfilePicture != "" && current.ProfilePicture != updated.ProfilePicture {
		ctrl.removeFile(ctx, current.ProfilePicture)
	}

	c.JSON(http.StatusOK, models.Envelope{
		Data: models.UpdateResponse{
			Msg: fmt.Sprintf("User %s updated", updated.Name),
			New: ctrl.users.SanitizeUser(updated),
		},
		Success:    true,
		StatusCode: http.StatusBadRequest,
	})
}

func (ctrl *UserController) removeFile(ctx context.Context, stored string) {
	if ctrl.files == nil {
		return
	}
	if err := ctrl.files.Remove(ctx, stored); err != nil {
		ctrl.logger.Warn("remove profile picture failed", zap.String("file", stored), zap.Error(err))
	}
}
