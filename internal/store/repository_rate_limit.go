package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var errNonPositiveWindow = errors.New("window must be positive")

// SlidingWindowConfig defines configuration for the sliding window limiter.
type SlidingWindowConfig struct {
	KeyPrefix string
	// TTL is applied to a key on every write; zero disables expiry.
	TTL time.Duration
}

// rateLimitRepository persists request timestamps in Redis sorted sets, one
// set per client identifier, scored by Unix nanoseconds.
type rateLimitRepository struct {
	client *redis.Client
	cfg    SlidingWindowConfig
}

// NewRateLimitRepository constructs a [RateLimitRepository] using the provided
// Redis client and config.
func NewRateLimitRepository(client *redis.Client, cfg SlidingWindowConfig) RateLimitRepository {
	return &rateLimitRepository{client: client, cfg: cfg}
}

// RecordAttempt stores the provided timestamp and refreshes the key TTL.
func (r *rateLimitRepository) RecordAttempt(ctx context.Context, identifier string, at time.Time) error {
	key := r.key(identifier)
	member := redis.Z{Score: float64(at.UnixNano()), Member: at.UnixNano()}

	pipe := r.client.TxPipeline()
	pipe.ZAdd(ctx, key, member)
	if r.cfg.TTL > 0 {
		pipe.Expire(ctx, key, r.cfg.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: zadd: %w", ErrRateLimitStore, err)
	}

	return nil
}

// CountAttempts returns how many attempts occurred within the window ending at reference.
func (r *rateLimitRepository) CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error) {
	if window <= 0 {
		return 0, errNonPositiveWindow
	}

	count, err := r.client.ZCount(ctx, r.key(identifier), score(reference.Add(-window)), score(reference)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: zcount: %w", ErrRateLimitStore, err)
	}

	return int(count), nil
}

// TrimWindow removes attempts older than the window relative to reference.
func (r *rateLimitRepository) TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error {
	if window <= 0 {
		return errNonPositiveWindow
	}

	if err := r.client.ZRemRangeByScore(ctx, r.key(identifier), "-inf", "("+score(reference.Add(-window))).Err(); err != nil {
		return fmt.Errorf("%w: zremrangebyscore: %w", ErrRateLimitStore, err)
	}

	return nil
}

// OldestAttempt returns the oldest attempt remaining inside the active window.
func (r *rateLimitRepository) OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error) {
	if window <= 0 {
		return time.Time{}, false, errNonPositiveWindow
	}

	values, err := r.client.ZRangeByScore(ctx, r.key(identifier), &redis.ZRangeBy{
		Min:   score(reference.Add(-window)),
		Max:   score(reference),
		Count: 1,
	}).Result()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: zrangebyscore: %w", ErrRateLimitStore, err)
	}

	if len(values) == 0 {
		return time.Time{}, false, nil
	}

	ts, err := strconv.ParseInt(values[0], 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: parse timestamp: %w", ErrRateLimitStore, err)
	}

	return time.Unix(0, ts), true, nil
}

func (r *rateLimitRepository) key(identifier string) string {
	if r.cfg.KeyPrefix == "" {
		return identifier
	}
	return r.cfg.KeyPrefix + ":" + identifier
}

func score(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}
