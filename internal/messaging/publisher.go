package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Metadata keys set on every published message.
const (
	MetadataTopic       = "topic"
	MetadataPublishedAt = "published_at"
)

// Publish sends one typed event. Publishing is best effort for callers: a failed
// publish is logged by them and never fails the request that produced the event.
type Publish[T any] func(event *T) error

// NewPublishFunc returns a Publish that JSON-encodes events onto topic.
func NewPublishFunc[T any](publisher message.Publisher, topic string) Publish[T] {
	return func(event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal %s event: %w", topic, err)
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.Metadata.Set(MetadataTopic, topic)
		msg.Metadata.Set(MetadataPublishedAt, time.Now().UTC().Format(time.RFC3339Nano))

		if err := publisher.Publish(topic, msg); err != nil {
			return fmt.Errorf("publish %s event: %w", topic, err)
		}

		return nil
	}
}

// Discard returns a Publish that drops every event. It stands in when no
// broker is configured.
func Discard[T any]() Publish[T] {
	return func(*T) error { return nil }
}

// PublisherGroup owns the broker publisher shared by every Publish function.
type PublisherGroup struct {
	publisher message.Publisher
}

func NewPublisherGroup(publisher message.Publisher) *PublisherGroup {
	return &PublisherGroup{publisher: publisher}
}

// Publisher returns the shared publisher for building Publish functions.
func (g *PublisherGroup) Publisher() message.Publisher {
	return g.publisher
}

// Shutdown closes the shared publisher.
func (g *PublisherGroup) Shutdown() error {
	return g.publisher.Close()
}
