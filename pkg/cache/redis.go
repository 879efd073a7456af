package cache

import (
	"context"
	"fmt"
	"time"

	"go-catalog-admin/pkg/config"

	"github.com/redis/go-redis/v9"
)

// NewRedis connects and pings. It returns nil, nil when no address is
// configured.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return rdb, nil
}
