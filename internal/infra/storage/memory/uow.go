package memory

import (
	"context"
	"errors"
	"sync"

	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainproperty "staybook/internal/domain/property"
	domainuser "staybook/internal/domain/user"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary. Writing
// units hold a process-wide lock until they commit or roll back, so
// check-then-book sequences cannot interleave.
type Factory struct {
	PropertiesRepo domainproperty.Repository
	UsersRepo      domainuser.Repository
	BookingsRepo   domainbooking.Repository

	writer *sync.Mutex
}

func NewFactory(properties domainproperty.Repository, users domainuser.Repository, bookings domainbooking.Repository) *Factory {
	return &Factory{
		PropertiesRepo: properties,
		UsersRepo:      users,
		BookingsRepo:   bookings,
		writer:         &sync.Mutex{},
	}
}

func (f *Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.PropertiesRepo == nil || f.UsersRepo == nil || f.BookingsRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	unit := &Unit{
		properties: f.PropertiesRepo,
		users:      f.UsersRepo,
		bookings:   f.BookingsRepo,
	}
	if !opts.ReadOnly && f.writer != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f.writer.Lock()
		unit.release = f.writer.Unlock
	}
	return unit, nil
}

// Unit is a uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	properties domainproperty.Repository
	users      domainuser.Repository
	bookings   domainbooking.Repository

	once    sync.Once
	release func()
}

func (u *Unit) Properties() domainproperty.Repository { return u.properties }

func (u *Unit) Users() domainuser.Repository { return u.users }

func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }

func (u *Unit) Commit(ctx context.Context) error {
	u.done()
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	u.done()
	return nil
}

func (u *Unit) done() {
	u.once.Do(func() {
		if u.release != nil {
			u.release()
		}
	})
}

var _ uow.UoWFactory = (*Factory)(nil)
