package property

import (
	"context"

	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainproperty "staybook/internal/domain/property"
)

const getPropertyKey = "property.get"

type GetPropertyQuery struct {
	PropertyID string `validate:"required"`
}

func (GetPropertyQuery) Key() string { return getPropertyKey }

type GetPropertyHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetPropertyHandler) Handle(ctx context.Context, q GetPropertyQuery) (*dto.Property, error) {
	unit, ctx, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	p, err := unit.Properties().ByID(ctx, domainproperty.ID(q.PropertyID))
	if err != nil {
		return nil, err
	}
	out := dto.MapProperty(p)
	return &out, nil
}

var _ queries.Handler[GetPropertyQuery, *dto.Property] = (*GetPropertyHandler)(nil)
