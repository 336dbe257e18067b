package analytics

import "context"

// Store defines the interface for persisting analytics events.
type Store interface {
	SaveLinkCreated(ctx context.Context, event *LinkCreatedEvent) error
	SaveLinkAccessed(ctx context.Context, event *LinkAccessedEvent) error
	SaveLinkDeleted(ctx context.Context, event *LinkDeletedEvent) error
	SaveLinksSwept(ctx context.Context, event *LinksSweptEvent) error
}
