package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jengzang/filmday-backend-go/internal/config"
	"github.com/jengzang/filmday-backend-go/internal/logging"
)

// ErrRedisDisabled is returned by NewRedis when no address is configured
var ErrRedisDisabled = errors.New("redis cache disabled")

// NewRedis creates a new Redis client for the search result cache
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, ErrRedisDisabled
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.Info().Str("addr", cfg.Addr).Msg("connected to Redis")
	return client, nil
}
