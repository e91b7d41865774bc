package db

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/meeton-app/meeton-server/internal/config"
)

func GetRedis(redisURL string, cfg *config.Config, logger *slog.Logger) (*redis.Client, error) {
	if !cfg.IsRedisEnabled {
		logger.Info("redis is disabled by config")
		return nil, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}

	logger.Info("connected to redis")
	return client, nil
}

func CloseRedis(client *redis.Client, logger *slog.Logger) {
	if client == nil {
		return
	}

	if err := client.Close(); err != nil {
		logger.Error("failed to close redis connection", "err", err)
		return
	}

	logger.Info("redis connection closed")
}
