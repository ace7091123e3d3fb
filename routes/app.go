package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"user-account/config"
	"user-account/controllers"
	"user-account/libs"
	"user-account/repositories"
	"user-account/services"
	"user-account/utils"
	"user-account/validation"
)

// Build wires repositories, services and controllers onto a new router.
// redisClient may be nil.
func Build(cfg *config.Config, db repositories.DBTX, redisClient *redis.Client, logger *zap.Logger) (*gin.Engine, error) {
	store, staticDir, err := newFileStore(cfg)
	if err != nil {
		return nil, err
	}

	var mailer services.Mailer
	if cfg.SMTP.Enabled() {
		m, err := libs.NewMailer(cfg.SMTP)
		if err != nil {
			return nil, err
		}
		mailer = m
	}

	tokens := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)
	userService := services.NewUserService(
		repositories.NewUserRepository(db),
		repositories.NewUserCache(redisClient, cfg.UserCacheTTL),
		tokens,
		mailer,
		logger.Named("users"),
	)

	router := NewRouter(logger, cfg.OriginURL)
	SetupRoutes(router, Dependencies{
		Users:     controllers.NewUserController(userService, store, logger.Named("http")),
		Auth:      controllers.NewAuthController(userService),
		Tokens:    tokens,
		Uploader:  libs.NewUploader(store, cfg.MaxUploadSize),
		Validator: validation.New(),
		Logger:    logger.Named("upload"),
		StaticDir: staticDir,
	})
	return router, nil
}

func newFileStore(cfg *config.Config) (libs.FileStore, string, error) {
	switch cfg.UploadDriver {
	case "", "disk":
		store, err := libs.NewDiskStore(cfg.UploadDir)
		if err != nil {
			return nil, "", err
		}
		return store, cfg.UploadDir, nil
	case "cloudinary":
		store, err := libs.NewCloudinaryStore(cfg.Cloudinary)
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	default:
		return nil, "", fmt.Errorf("unknown UPLOAD_DRIVER %q", cfg.UploadDriver)
	}
}
