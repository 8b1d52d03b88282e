package memory

import (
	"context"
	"sync"

	domainuser "staybook/internal/domain/user"
)

// UserRepository provides in-memory persistence for users.
type UserRepository struct {
	mu    sync.RWMutex
	items map[domainuser.ID]domainuser.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{items: make(map[domainuser.ID]domainuser.User)}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.items[id]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	if u == nil {
		return domainuser.ErrIDRequired
	}
	stored := *u
	stored.ClearEvents()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[u.ID] = stored
	return nil
}

var _ domainuser.Repository = (*UserRepository)(nil)
