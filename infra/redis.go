package infra

import (
	"context"
	"fmt"
	"gin-marketplace/logger"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRedis(cfg *Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	logger.Log.Info("Connected to Redis", zap.String("addr", opts.Addr))
	return client, nil
}
