package services

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/madebyaram2024/PPC-CRM-sub000/config"
)

// NewRedisClient connects to Redis. The caller decides whether a failure is
// fatal; presence history degrades gracefully without it.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DB = cfg.RedisDB

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
