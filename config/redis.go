package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ConnectRedis returns nil when Redis is not configured or unreachable; the
// service then runs without a cache.
func ConnectRedis(ctx context.Context, cfg *Config, logger *zap.Logger) *redis.Client {
	var opt *redis.Options
	switch {
	case cfg.RedisURL != "":
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("invalid REDIS_URL, running without cache", zap.Error(err))
			return nil
		}
		opt = parsed
	case cfg.RedisAddr != "":
		opt = &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	default:
		logger.Info("redis not configured, running without cache")
		return nil
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis connection failed, running without cache", zap.Error(err))
		_ = client.Close()
		return nil
	}

	logger.Info("redis connected", zap.String("addr", opt.Addr))
	return client
}
