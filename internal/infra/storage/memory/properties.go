package memory

import (
	"context"
	"sync"

	"staybook/internal/app/uow"
	domainproperty "staybook/internal/domain/property"
)

// PropertyRepository keeps properties in memory. Aggregates are cloned on the
// way in and out so callers never share state with the store.
type PropertyRepository struct {
	mu    sync.RWMutex
	items map[domainproperty.ID]*domainproperty.Property
}

func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{items: make(map[domainproperty.ID]*domainproperty.Property)}
}

// ByID returns a copy of the stored property or property.ErrNotFound.
func (r *PropertyRepository) ByID(ctx context.Context, id domainproperty.ID) (*domainproperty.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, domainproperty.ErrNotFound
	}
	return cloneProperty(p)
}

// Save stores the property when its version matches the stored one and bumps it.
func (r *PropertyRepository) Save(ctx context.Context, p *domainproperty.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.items[p.ID]; ok && current.Version != p.Version {
		return uow.ErrConcurrentUpdate
	}
	stored, err := cloneProperty(p)
	if err != nil {
		return err
	}
	stored.Version = p.Version + 1
	r.items[p.ID] = stored
	p.Version = stored.Version
	return nil
}

func cloneProperty(p *domainproperty.Property) (*domainproperty.Property, error) {
	return domainproperty.Rehydrate(domainproperty.RehydrateParams{
		CreateParams: domainproperty.CreateParams{
			ID:                p.ID,
			Name:              p.Name,
			Description:       p.Description,
			MaxGuests:         p.MaxGuests,
			BasePricePerNight: p.BasePricePerNight,
			CreatedAt:         p.CreatedAt,
		},
		Bookings: p.Bookings(),
		Version:  p.Version,
	})
}

var _ domainproperty.Repository = (*PropertyRepository)(nil)
