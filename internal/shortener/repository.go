package shortener

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence operations the service relies on.
// Every method is atomic at the single statement level.
type Repository interface {
	// Create inserts a link and returns the stored record.
	// Returns ErrConflict if the code is already taken.
	Create(ctx context.Context, link *NewLink) (*ShortLink, error)
	// GetByCode returns the link for a code, expired or not.
	// Returns ErrNotFound if no link exists.
	GetByCode(ctx context.Context, code Code) (*ShortLink, error)
	IncrementClicks(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*ShortLink, error)
	// DeleteByCode removes a link. Missing codes are not an error.
	DeleteByCode(ctx context.Context, code Code) error
	// DeleteExpired removes every link with expires_at <= now and returns the count.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
