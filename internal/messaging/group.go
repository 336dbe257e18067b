package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Runnable is a background component with a start/stop lifecycle.
type Runnable interface {
	Start(ctx context.Context) error
	Shutdown() error
}

// Group starts and stops a set of runnables together.
type Group struct {
	name     string
	members  []Runnable
	resource io.Closer
	logger   *zap.Logger
}

// NewGroup creates a group. The optional resource, typically the subscriber the
// members share, is closed after every member has stopped.
func NewGroup(name string, resource io.Closer, logger *zap.Logger) *Group {
	return &Group{
		name:     name,
		resource: resource,
		logger:   logger.With(zap.String("group", name)),
	}
}

// Add registers a member. Members start in the order they were added.
func (g *Group) Add(member Runnable) {
	g.members = append(g.members, member)
}

// Len returns the number of members.
func (g *Group) Len() int {
	return len(g.members)
}

// Start starts every member. If one fails, the members already running are
// stopped again and the error is returned.
func (g *Group) Start(ctx context.Context) error {
	for i, member := range g.members {
		if err := member.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = g.members[j].Shutdown()
			}

			return fmt.Errorf("start %s member %d: %w", g.name, i, err)
		}
	}

	g.logger.Info("background group started", zap.Int("members", len(g.members)))

	return nil
}

// Shutdown stops members in reverse start order, then closes the shared resource.
// Every member is asked to stop even if an earlier one fails.
func (g *Group) Shutdown() error {
	g.logger.Info("stopping background group")

	var errs []error

	for i := len(g.members) - 1; i >= 0; i-- {
		if err := g.members[i].Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}

	if g.resource != nil {
		if err := g.resource.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
