// Package cache holds read-through decorators for repositories whose aggregates rarely change.
package cache

import (
	"context"
	"time"

	"github.com/karlseguin/ccache/v3"

	domainuser "staybook/internal/domain/user"
)

// UserRepository caches users read from next. Saves invalidate the entry
// instead of writing through, so a rolled-back transaction never leaves a
// phantom user in the cache.
type UserRepository struct {
	next  domainuser.Repository
	cache *ccache.Cache[domainuser.User]
	ttl   time.Duration
}

func NewUserRepository(next domainuser.Repository, size int64, ttl time.Duration) *UserRepository {
	if size <= 0 {
		size = 1000
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &UserRepository{
		next:  next,
		cache: ccache.New(ccache.Configure[domainuser.User]().MaxSize(size)),
		ttl:   ttl,
	}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	if item := r.cache.Get(string(id)); item != nil && !item.Expired() {
		u := item.Value()
		return &u, nil
	}
	u, err := r.next.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stored := *u
	stored.ClearEvents()
	r.cache.Set(string(id), stored, r.ttl)
	return u, nil
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	if err := r.next.Save(ctx, u); err != nil {
		return err
	}
	r.cache.Delete(string(u.ID))
	return nil
}

// Stop releases the cache's background worker.
func (r *UserRepository) Stop() {
	r.cache.Stop()
}

var _ domainuser.Repository = (*UserRepository)(nil)
