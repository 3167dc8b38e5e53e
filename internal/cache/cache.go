// Package cache stores the nested category feed served by the store's tree
// endpoint. Every write to the store invalidates it.
package cache

import (
	"context"
	"sync"
	"time"

	"taxonomy/internal/models"
)

// TreeCache holds one nested category feed.
type TreeCache interface {
	// Get returns the cached feed and whether it was present.
	Get(ctx context.Context) ([]models.Category, bool, error)
	Set(ctx context.Context, tree []models.Category) error
	Invalidate(ctx context.Context) error
}

// Nop never caches.
type Nop struct{}

func (Nop) Get(context.Context) ([]models.Category, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, []models.Category) error         { return nil }
func (Nop) Invalidate(context.Context) error                     { return nil }

// Memory is an in-process TreeCache with a TTL.
type Memory struct {
	mu      sync.RWMutex
	tree    []models.Category
	expires time.Time
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory creates an in-process cache. A ttl <= 0 disables expiry.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now}
}

func (m *Memory) Get(context.Context) ([]models.Category, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.tree == nil {
		return nil, false, nil
	}
	if m.ttl > 0 && !m.now().Before(m.expires) {
		return nil, false, nil
	}
	return m.tree, true, nil
}

func (m *Memory) Set(_ context.Context, tree []models.Category) error {
	if tree == nil {
		tree = []models.Category{}
	}
	m.mu.Lock()
	m.tree = tree
	m.expires = m.now().Add(m.ttl)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Invalidate(context.Context) error {
	m.mu.Lock()
	m.tree = nil
	m.mu.Unlock()
	return nil
}
