package users

import (
	"context"
	"strings"
	"sync"

	"github.com/heritage-atlas/heritage-api/internal/models"
)

// MemoryUserRepository keeps users in process memory.
type MemoryUserRepository struct {
	mu   sync.RWMutex
	byID map[string]*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{byID: make(map[string]*models.User)}
}

func (r *MemoryUserRepository) Create(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(u.Email, u.ID) {
		return ErrDuplicateEmail
	}
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) Upsert(ctx context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(u.Email, u.ID) {
		return nil, ErrDuplicateEmail
	}
	cur, ok := r.byID[u.ID]
	if !ok {
		cp := *u
		r.byID[u.ID] = &cp
		out := cp
		return &out, nil
	}
	cur.Name, cur.Email, cur.UpdatedAt = u.Name, u.Email, u.UpdatedAt
	out := *cur
	return &out, nil
}

func (r *MemoryUserRepository) emailTaken(email, exceptID string) bool {
	if email == "" {
		return false
	}
	for id, u := range r.byID {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}
