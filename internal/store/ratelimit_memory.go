package store

import (
	"context"
	"sync"
	"time"

	"github.com/arjunstein/url-shortener/internal/ratelimit"
)

// RateLimitMemoryStore keeps sliding-window request timestamps in process memory.
// Counts are per instance, so it only suits a single server.
type RateLimitMemoryStore struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	now      func() time.Time
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return NewRateLimitMemoryStoreWithClock(time.Now)
}

// NewRateLimitMemoryStoreWithClock creates a store that reads time from now.
func NewRateLimitMemoryStoreWithClock(now func() time.Time) *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		requests: make(map[string][]time.Time),
		now:      now,
	}
}

func (s *RateLimitMemoryStore) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	hits := append(pruneBefore(s.requests[key], now.Add(-window)), now)
	s.requests[key] = hits

	return int64(len(hits)), nil
}

// pruneBefore drops the leading timestamps at or before cutoff. hits is sorted.
func pruneBefore(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}

	return hits[i:]
}

// Compile-time check.
var _ ratelimit.Store = (*RateLimitMemoryStore)(nil)
