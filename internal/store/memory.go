package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/arjunstein/url-shortener/internal/shortener"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[shortener.Code]*shortener.ShortLink
	codes map[uuid.UUID]shortener.Code // id -> code
}

// NewMemoryStore creates a new in-memory link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links: make(map[shortener.Code]*shortener.ShortLink),
		codes: make(map[uuid.UUID]shortener.Code),
	}
}

func (m *MemoryStore) Create(_ context.Context, link *shortener.NewLink) (*shortener.ShortLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[link.Code]; ok {
		return nil, shortener.ErrConflict
	}

	stored := &shortener.ShortLink{
		ID:        link.ID,
		Code:      link.Code,
		TargetURL: link.TargetURL,
		CreatedAt: link.CreatedAt,
		ExpiresAt: copyTime(link.ExpiresAt),
	}

	m.links[link.Code] = stored
	m.codes[link.ID] = link.Code

	return clone(stored), nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return clone(link), nil
}

func (m *MemoryStore) IncrementClicks(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if code, ok := m.codes[id]; ok {
		m.links[code].Clicks++
	}

	return nil
}

// List returns links ordered by creation time.
func (m *MemoryStore) List(_ context.Context) ([]*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	links := make([]*shortener.ShortLink, 0, len(m.links))
	for _, link := range m.links {
		links = append(links, clone(link))
	}

	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.Before(links[j].CreatedAt)
	})

	return links, nil
}

func (m *MemoryStore) DeleteByCode(_ context.Context, code shortener.Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.remove(code)

	return nil
}

func (m *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64

	for code, link := range m.links {
		if link.ExpiredAt(now) {
			m.remove(code)
			n++
		}
	}

	return n, nil
}

func (m *MemoryStore) remove(code shortener.Code) {
	if link, ok := m.links[code]; ok {
		delete(m.codes, link.ID)
		delete(m.links, code)
	}
}

func clone(link *shortener.ShortLink) *shortener.ShortLink {
	c := *link
	c.ExpiresAt = copyTime(link.ExpiresAt)

	return &c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	v := *t

	return &v
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
