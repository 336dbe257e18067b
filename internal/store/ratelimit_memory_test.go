package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/arjunstein/url-shortener/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)}
}

func TestRateLimitMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("counts requests per key", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		for want := int64(1); want <= 3; want++ {
			count, err := s.Record(ctx, "client-a:write", time.Minute)

			require.NoError(t, err)
			assert.Equal(t, want, count)
		}

		count, err := s.Record(ctx, "client-b:write", time.Minute)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("window slides with time", func(t *testing.T) {
		clock := newClock()
		s := store.NewRateLimitMemoryStoreWithClock(clock.Now)

		_, _ = s.Record(ctx, "k", time.Minute)
		clock.Advance(30 * time.Second)
		_, _ = s.Record(ctx, "k", time.Minute)
		clock.Advance(30 * time.Second)

		// The first hit is exactly one window old and no longer counts.
		count, err := s.Record(ctx, "k", time.Minute)

		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		clock.Advance(2 * time.Minute)

		count, _ = s.Record(ctx, "k", time.Minute)
		assert.Equal(t, int64(1), count)
	})

	t.Run("counts concurrent records exactly", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		var wg sync.WaitGroup

		for range 50 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, _ = s.Record(ctx, "shared", time.Minute)
			}()
		}

		wg.Wait()

		count, err := s.Record(ctx, "shared", time.Minute)

		require.NoError(t, err)
		assert.Equal(t, int64(51), count)
	})
}
