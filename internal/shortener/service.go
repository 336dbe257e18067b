package shortener

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultCodeRetries is the number of codes tried before giving up on a collision.
const DefaultCodeRetries = 5

// Service creates, resolves and removes short links.
// A single instance is shared by all request handlers.
type Service struct {
	store        Repository
	generateCode CodeGenerator
	retries      int
	now          func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for creation and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithCodeRetries sets how many generated codes are tried when inserts collide.
func WithCodeRetries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.retries = n
		}
	}
}

// NewService creates a new short link service.
func NewService(store Repository, generator CodeGenerator, opts ...Option) *Service {
	s := &Service{
		store:        store,
		generateCode: generator,
		retries:      DefaultCodeRetries,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create stores a new link for an already normalized target URL.
// A code that collides with an existing one is replaced by a freshly generated code.
func (s *Service) Create(ctx context.Context, targetURL string, expiresAt *time.Time) (*ShortLink, error) {
	var expiry *time.Time

	if expiresAt != nil {
		t := expiresAt.UTC()
		expiry = &t
	}

	for range s.retries {
		link, err := s.store.Create(ctx, &NewLink{
			ID:        uuid.New(),
			Code:      Code(s.generateCode()),
			TargetURL: targetURL,
			CreatedAt: s.now().UTC(),
			ExpiresAt: expiry,
		})
		if err == nil {
			return link, nil
		}

		if !errors.Is(err, ErrConflict) {
			return nil, persistenceError("create short link", err)
		}
	}

	return nil, persistenceError("create short link", ErrConflict)
}

// Resolve returns the target URL for a code and counts the visit.
// Expired links yield an *ExpiredError and are left untouched.
func (s *Service) Resolve(ctx context.Context, code Code) (string, error) {
	link, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}

		return "", persistenceError("find short link", err)
	}

	if link.ExpiredAt(s.now()) {
		return "", &ExpiredError{Code: link.Code, ExpiresAt: *link.ExpiresAt}
	}

	if err := s.store.IncrementClicks(ctx, link.ID); err != nil {
		return "", persistenceError("increment clicks", err)
	}

	return link.TargetURL, nil
}

// List returns every stored link, including expired ones not yet swept.
func (s *Service) List(ctx context.Context) ([]*ShortLink, error) {
	links, err := s.store.List(ctx)
	if err != nil {
		return nil, persistenceError("list short links", err)
	}

	return links, nil
}

// Delete removes the link for a code. Deleting an unknown code succeeds.
func (s *Service) Delete(ctx context.Context, code Code) error {
	if err := s.store.DeleteByCode(ctx, code); err != nil {
		return persistenceError("delete short link", err)
	}

	return nil
}

// SweepExpired removes all links expired at the current time.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, persistenceError("delete expired links", err)
	}

	return n, nil
}
