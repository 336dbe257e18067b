package store

import (
	"context"

	"github.com/arjunstein/url-shortener/internal/analytics"
	"go.uber.org/zap"
)

// Noop is an analytics.Store that only logs the events it receives.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveLinkCreated(_ context.Context, event *analytics.LinkCreatedEvent) error {
	n.logger.Info("link created event received",
		zap.String("code", event.Code),
		zap.String("targetUrl", event.TargetURL),
		zap.Time("createdAt", event.CreatedAt),
	)

	return nil
}

func (n *Noop) SaveLinkAccessed(_ context.Context, event *analytics.LinkAccessedEvent) error {
	n.logger.Info("link accessed event received",
		zap.String("code", event.Code),
		zap.Time("accessedAt", event.AccessedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}

func (n *Noop) SaveLinkDeleted(_ context.Context, event *analytics.LinkDeletedEvent) error {
	n.logger.Info("link deleted event received",
		zap.String("code", event.Code),
		zap.Time("deletedAt", event.DeletedAt),
	)

	return nil
}

func (n *Noop) SaveLinksSwept(_ context.Context, event *analytics.LinksSweptEvent) error {
	n.logger.Info("links swept event received",
		zap.Int64("removed", event.Removed),
		zap.Time("sweptAt", event.SweptAt),
	)

	return nil
}

// Compile-time check.
var _ analytics.Store = (*Noop)(nil)
