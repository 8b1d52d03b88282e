package support

import (
	"context"
	"errors"

	"staybook/internal/app/uow"
)

var ErrUnitOfWorkRequired = errors.New("support: unit of work required")

// Unit is a unit of work borrowed from context or begun on demand. When the
// handler began it, Commit and Close act on it; otherwise they are no-ops and
// the surrounding transaction middleware owns the boundary.
type Unit struct {
	uow.UnitOfWork
	managed   bool
	committed bool
}

// BeginUnit returns the unit bound to ctx or starts a new one from factory.
func BeginUnit(ctx context.Context, factory uow.UoWFactory, opts uow.TxOptions) (*Unit, context.Context, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return &Unit{UnitOfWork: unit}, ctx, nil
	}
	if factory == nil {
		return nil, ctx, ErrUnitOfWorkRequired
	}
	unit, err := factory.Begin(ctx, opts)
	if err != nil {
		return nil, ctx, err
	}
	return &Unit{UnitOfWork: unit, managed: true}, uow.Bind(ctx, unit), nil
}

// BeginReadOnlyUnit is BeginUnit for query handlers.
func BeginReadOnlyUnit(ctx context.Context, factory uow.UoWFactory) (*Unit, context.Context, error) {
	return BeginUnit(ctx, factory, uow.TxOptions{ReadOnly: true})
}

func (u *Unit) Commit(ctx context.Context) error {
	if !u.managed {
		return nil
	}
	if err := u.UnitOfWork.Commit(ctx); err != nil {
		return err
	}
	u.committed = true
	return nil
}

// Close rolls back a managed unit that was not committed.
func (u *Unit) Close(ctx context.Context) {
	if u.managed && !u.committed {
		_ = u.UnitOfWork.Rollback(ctx)
	}
}
