package user

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
	domainuser "staybook/internal/domain/user"
)

const registerUserKey = "user.register"

type RegisterUserCommand struct {
	UserID          string
	Name            string `validate:"required,max=200"`
	IdempotencyKeyV string
}

func (c RegisterUserCommand) Key() string { return registerUserKey }

func (c RegisterUserCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RegisterUserCommand) ResultPrototype() any { return &dto.User{} }

type RegisterUserHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      clock.Clock
}

func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*dto.User, error) {
	unit, ctx, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	id := cmd.UserID
	if id == "" {
		id = uuid.NewString()
	}
	u, err := domainuser.NewUser(domainuser.CreateParams{
		ID:        domainuser.ID(id),
		Name:      cmd.Name,
		CreatedAt: clock.Or(h.Clock).Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Users().Save(ctx, u); err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, u.Drain()); err != nil {
		return nil, err
	}
	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	out := dto.MapUser(u)
	return &out, nil
}

var _ commands.Handler[RegisterUserCommand, *dto.User] = (*RegisterUserHandler)(nil)
var _ middleware.IdempotentCommand = (*RegisterUserCommand)(nil)
