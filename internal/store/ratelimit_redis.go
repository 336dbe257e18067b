package store

import (
	"context"
	"strconv"
	"time"

	"github.com/arjunstein/url-shortener/internal/ratelimit"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimitRedisStore is a Redis implementation of ratelimit.Store.
// Each key is a sorted set of request timestamps scored in milliseconds.
type RateLimitRedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRateLimitRedisStore creates a new Redis-backed rate limit store.
func NewRateLimitRedisStore(client *redis.Client) *RateLimitRedisStore {
	return NewRateLimitRedisStoreWithClock(client, time.Now)
}

// NewRateLimitRedisStoreWithClock creates a store that scores hits with now.
func NewRateLimitRedisStoreWithClock(client *redis.Client, now func() time.Time) *RateLimitRedisStore {
	return &RateLimitRedisStore{
		client: client,
		prefix: "ratelimit:",
		now:    now,
	}
}

func (s *RateLimitRedisStore) Record(ctx context.Context, key string, window time.Duration) (int64, error) {
	now := s.now()
	redisKey := s.prefix + key
	cutoff := now.Add(-window).UnixMilli()

	pipe := s.client.TxPipeline()
	// Hits at or before the cutoff fall out of the window, as in the memory store.
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", strconv.FormatInt(cutoff, 10))
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: uuid.NewString(),
	})
	count := pipe.ZCard(ctx, redisKey)
	pipe.PExpire(ctx, redisKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return count.Val(), nil
}

// Compile-time check.
var _ ratelimit.Store = (*RateLimitRedisStore)(nil)
