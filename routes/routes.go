package routes

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"user-account/controllers"
	"user-account/libs"
	"user-account/middleware"
	"user-account/validation"
)

type Dependencies struct {
	Users     *controllers.UserController
	Auth      *controllers.AuthController
	Tokens    middleware.TokenValidator
	Uploader  *libs.Uploader
	Validator *validation.Validator
	Logger    *zap.Logger
	// StaticDir is served under /uploads when pictures live on local disk.
	StaticDir string
}

// NewRouter returns an engine with request logging, panic recovery and CORS.
func NewRouter(logger *zap.Logger, originURL string) *gin.Engine {
	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(middleware.CORSMiddleware(originURL))
	return router
}

func SetupRoutes(router *gin.Engine, d Dependencies) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if d.StaticDir != "" {
		router.Static("/uploads", d.StaticDir)
	}

	auth := middleware.AuthMiddleware(d.Tokens)
	upload := middleware.Upload(d.Uploader, d.Logger)

	v1 := router.Group("/api/v1")
	v1.POST("/auth", d.Auth.Login)

	user := v1.Group("/user")
	{
		user.POST("", upload, middleware.Validate(d.Validator, validation.Register, d.Uploader.Store), d.Users.Register)
		user.GET("", auth, d.Users.Profile)
		user.GET("/all", auth, d.Users.List)
		user.POST("/update", auth, upload, middleware.Validate(d.Validator, validation.Update, d.Uploader.Store), d.Users.Update)
	}
}
