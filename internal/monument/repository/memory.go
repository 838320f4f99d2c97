package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/heritage-atlas/heritage-api/internal/monument"
)

// MemoryRepo is an in-memory repository used for development and unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*monument.Monument
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*monument.Monument), now: time.Now}
}

func (r *MemoryRepo) Create(ctx context.Context, m *monument.Monument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.store[m.ID] = &cp
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (*monument.Monument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.store[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (r *MemoryRepo) List(ctx context.Context, verified *bool) ([]*monument.Monument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*monument.Monument{}
	for _, m := range r.store {
		if verified != nil && m.Verified != *verified {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) Latest(ctx context.Context, n int) ([]*monument.Monument, error) {
	all, _ := r.List(ctx, nil)
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if n >= 0 && len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (r *MemoryRepo) Update(ctx context.Context, m *monument.Monument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[m.ID]; !ok {
		return ErrNotFound
	}
	cp := *m
	r.store[m.ID] = &cp
	return nil
}

func (r *MemoryRepo) SetVerified(ctx context.Context, id string, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.store[id]
	if !ok {
		return ErrNotFound
	}
	m.Verified = verified
	m.UpdatedAt = r.now().UTC()
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[id]; !ok {
		return ErrNotFound
	}
	delete(r.store, id)
	return nil
}
