package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"user-account/models"
	"user-account/utils"
)

const UserIDKey = "user_id"

type TokenValidator interface {
	ValidateToken(token string) (*utils.Claims, error)
}

// AuthMiddleware requires a Bearer token and stores the caller's id under
// UserIDKey.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header required")
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			unauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := tokens.ValidateToken(tokenParts[1])
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.Failure(http.StatusUnauthorized, msg))
}
