package property

import (
	"context"

	"github.com/google/uuid"

	"staybook/internal/app/clock"
	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/middleware"
	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainproperty "staybook/internal/domain/property"
	"staybook/internal/domain/shared/money"
)

const createPropertyKey = "property.create"

type CreatePropertyCommand struct {
	PropertyID        string
	Name              string `validate:"max=200"`
	Description       string `validate:"max=2000"`
	MaxGuests         int
	BasePricePerNight float64
	IdempotencyKeyV   string
}

func (c CreatePropertyCommand) Key() string { return createPropertyKey }

func (c CreatePropertyCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreatePropertyCommand) ResultPrototype() any { return &dto.Property{} }

type CreatePropertyHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Currency   string
	Clock      clock.Clock
}

func (h *CreatePropertyHandler) Handle(ctx context.Context, cmd CreatePropertyCommand) (*dto.Property, error) {
	unit, ctx, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	price, err := money.FromMajor(cmd.BasePricePerNight, h.currency())
	if err != nil {
		return nil, err
	}
	id := cmd.PropertyID
	if id == "" {
		id = uuid.NewString()
	}
	p, err := domainproperty.NewProperty(domainproperty.CreateParams{
		ID:                domainproperty.ID(id),
		Name:              cmd.Name,
		Description:       cmd.Description,
		MaxGuests:         cmd.MaxGuests,
		BasePricePerNight: price,
		CreatedAt:         clock.Or(h.Clock).Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Properties().Save(ctx, p); err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, p.Drain()); err != nil {
		return nil, err
	}
	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	out := dto.MapProperty(p)
	return &out, nil
}

func (h *CreatePropertyHandler) currency() string {
	if h.Currency == "" {
		return "USD"
	}
	return h.Currency
}

var _ commands.Handler[CreatePropertyCommand, *dto.Property] = (*CreatePropertyHandler)(nil)
var _ middleware.IdempotentCommand = (*CreatePropertyCommand)(nil)
