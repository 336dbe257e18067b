package cleanup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arjunstein/url-shortener/internal/analytics"
	"github.com/arjunstein/url-shortener/internal/messaging"
	"go.uber.org/zap"
)

// DefaultInterval is the pause between two sweeps.
const DefaultInterval = 60 * time.Second

// Purger deletes expired links and reports how many were removed.
type Purger interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// Sweeper periodically purges expired links in the background.
// Sweeps never overlap: the next one is scheduled only after the previous returns.
type Sweeper struct {
	purger       Purger
	interval     time.Duration
	publishSwept messaging.Publish[analytics.LinksSweptEvent]
	logger       *zap.Logger
	cancel       context.CancelFunc
	done         chan struct{}
}

// NewSweeper creates a sweeper that runs every interval once started.
func NewSweeper(
	purger Purger,
	interval time.Duration,
	publishSwept messaging.Publish[analytics.LinksSweptEvent],
	logger *zap.Logger,
) *Sweeper {
	return &Sweeper{
		purger:       purger,
		interval:     interval,
		publishSwept: publishSwept,
		logger:       logger.Named("cleanup"),
		done:         make(chan struct{}),
	}
}

// Start runs a first sweep immediately, then one per interval until ctx is
// cancelled or Shutdown is called.
func (s *Sweeper) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("cleanup interval must be positive, got %s", s.interval)
	}

	if s.cancel != nil || s.stopped() {
		return errors.New("sweeper already started")
	}

	ctx, s.cancel = context.WithCancel(ctx)

	go s.loop(ctx)

	s.logger.Info("cleanup sweeper started", zap.Duration("interval", s.interval))

	return nil
}

func (s *Sweeper) loop(ctx context.Context) {
	defer close(s.done)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		s.Sweep(ctx)

		timer.Reset(s.interval)

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

// Sweep performs a single purge. Failures are logged and swallowed.
func (s *Sweeper) Sweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("cleanup sweep panicked", zap.Any("panic", r))
		}
	}()

	removed, err := s.purger.SweepExpired(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}

		s.logger.Error("cleanup sweep failed", zap.Error(err))

		return
	}

	if removed == 0 {
		return
	}

	s.logger.Info("removed expired short links", zap.Int64("count", removed))

	event := &analytics.LinksSweptEvent{
		Removed: removed,
		SweptAt: time.Now().UTC(),
	}

	if err := s.publishSwept(event); err != nil {
		s.logger.Error("failed to publish sweep event", zap.Error(err))
	}
}

func (s *Sweeper) stopped() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Shutdown stops the loop and waits for a running sweep to return.
func (s *Sweeper) Shutdown() error {
	if s.cancel == nil {
		return nil
	}

	s.cancel()
	<-s.done
	s.cancel = nil

	s.logger.Info("cleanup sweeper stopped")

	return nil
}

// Compile-time check.
var _ messaging.Runnable = (*Sweeper)(nil)
