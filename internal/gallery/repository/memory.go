package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/heritage-atlas/heritage-api/internal/gallery"
)

// MemoryRepo is an in-memory repository used for development and unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*gallery.Item
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*gallery.Item)}
}

func (m *MemoryRepo) Create(ctx context.Context, it *gallery.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *it
	m.store[it.ID] = &cp
	return nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*gallery.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if it, ok := m.store[id]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) ListByMonument(ctx context.Context, monumentID string) ([]*gallery.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*gallery.Item{}
	for _, it := range m.store {
		if it.MonumentID == monumentID {
			cp := *it
			out = append(out, &cp)
		}
	}
	// map order is random; keep listings stable for callers
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryRepo) Update(ctx context.Context, it *gallery.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[it.ID]; !ok {
		return ErrNotFound
	}
	cp := *it
	m.store[it.ID] = &cp
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}
