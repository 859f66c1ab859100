package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/dev-profiles/internal/config"
	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis and verifies the connection with a ping.
// It returns a nil client and no error when no address is configured.
func NewRedisClient(ctx context.Context, cfg config.Redis, log *logger.Logger) (*redis.Client, error) {
	if cfg.Addr == "" {
		log.Info().Str("func", "NewRedisClient").Msg("redis address not configured, rate limiting disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		log.Err(err).Str("func", "NewRedisClient").Msg("error connecting redis (ping)")
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	log.Info().Str("func", "NewRedisClient").Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("connected to redis successfully")
	return client, nil
}
