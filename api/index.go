package api

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-account/config"
	"user-account/routes"
)

var (
	router  http.Handler
	initErr error
	once    sync.Once

	runMigrations = config.RunMigrations
	connectDB     = config.ConnectDB
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)
		router, initErr = newApp(context.Background(), config.LoadConfig())
	})
}

// newApp migrates the schema before the pool is opened, as main does.
func newApp(ctx context.Context, cfg *config.Config) (http.Handler, error) {
	logger, err := config.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("migrations failed", zap.Error(err))
		return nil, err
	}

	pool, err := connectDB(ctx, cfg, logger)
	if err != nil {
		logger.Error("database connection failed", zap.Error(err))
		return nil, err
	}

	return routes.Build(cfg, pool, config.ConnectRedis(ctx, cfg, logger), logger)
}

// Handler is the serverless entrypoint.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		log.Printf("app init failed: %v", initErr)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	router.ServeHTTP(w, r)
}
