package uow

import (
	"context"
	"errors"

	domainbooking "staybook/internal/domain/booking"
	domainproperty "staybook/internal/domain/property"
	domainuser "staybook/internal/domain/user"
)

// ErrConcurrentUpdate is returned by repositories when a versioned save loses a race.
var ErrConcurrentUpdate = errors.New("uow: concurrent update detected")

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Properties() domainproperty.Repository
	Users() domainuser.Repository
	Bookings() domainbooking.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
