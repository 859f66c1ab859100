package store

import (
	"time"

	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Storages groups every repository the services depend on.
type Storages struct {
	AccountRepository   AccountRepository
	ProfileRepository   ProfileRepository
	RateLimitRepository RateLimitRepository
}

// NewStorages wires the PostgreSQL repositories and, when redisClient is not
// nil, the Redis-backed rate limit repository whose keys expire after
// rateWindow of inactivity.
func NewStorages(db *DB, redisClient *redis.Client, rateWindow time.Duration, log *logger.Logger) *Storages {
	storages := &Storages{
		AccountRepository: NewAccountRepository(db, log),
		ProfileRepository: NewProfileRepository(db, log),
	}

	if redisClient != nil {
		storages.RateLimitRepository = NewRateLimitRepository(redisClient, SlidingWindowConfig{
			KeyPrefix: "ratelimit",
			TTL:       rateWindow,
		})
	}

	return storages
}
