package shortener

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound = errors.New("short link not found")
	ErrConflict = errors.New("short code already exists")
)

// ValidationError reports input rejected before any storage call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ExpiredError is returned when resolving a link whose expiry has passed.
type ExpiredError struct {
	Code      Code
	ExpiresAt time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("short link %s expired at %s", e.Code, e.ExpiresAt.Format(time.RFC3339))
}

// PersistenceError wraps a failure of the underlying store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
