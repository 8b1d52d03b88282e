package user

import (
	"context"

	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainuser "staybook/internal/domain/user"
)

const getUserKey = "user.get"

type GetUserQuery struct {
	UserID string `validate:"required"`
}

func (GetUserQuery) Key() string { return getUserKey }

type GetUserHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetUserHandler) Handle(ctx context.Context, q GetUserQuery) (*dto.User, error) {
	unit, ctx, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	u, err := unit.Users().ByID(ctx, domainuser.ID(q.UserID))
	if err != nil {
		return nil, err
	}
	out := dto.MapUser(u)
	return &out, nil
}

var _ queries.Handler[GetUserQuery, *dto.User] = (*GetUserHandler)(nil)
