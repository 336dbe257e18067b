package shortener

import (
	"time"

	"github.com/google/uuid"
)

// Code represents a short URL code.
type Code string

// ShortLink represents a stored code -> target mapping.
type ShortLink struct {
	ID        uuid.UUID
	Code      Code
	TargetURL string
	Clicks    int64
	CreatedAt time.Time
	ExpiresAt *time.Time // nil means the link never expires
}

// ExpiredAt reports whether the link is expired at the given instant.
// A link whose expiry equals now is already expired.
func (l *ShortLink) ExpiredAt(now time.Time) bool {
	if l.ExpiresAt == nil {
		return false
	}

	return !l.ExpiresAt.After(now)
}

// NewLink holds the fields supplied when inserting a link.
type NewLink struct {
	ID        uuid.UUID
	Code      Code
	TargetURL string
	CreatedAt time.Time
	ExpiresAt *time.Time
}
