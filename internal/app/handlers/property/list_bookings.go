package property

import (
	"context"
	"sort"

	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainproperty "staybook/internal/domain/property"
)

const listBookingsKey = "property.bookings"

type ListBookingsQuery struct {
	PropertyID string `validate:"required"`
}

func (ListBookingsQuery) Key() string { return listBookingsKey }

type ListBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

// Handle lists every booking of the property ordered by check-in date.
func (h *ListBookingsHandler) Handle(ctx context.Context, q ListBookingsQuery) (*dto.BookingCollection, error) {
	unit, ctx, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	p, err := unit.Properties().ByID(ctx, domainproperty.ID(q.PropertyID))
	if err != nil {
		return nil, err
	}
	list, err := unit.Bookings().ListByProperty(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Range.Start.Before(list[j].Range.Start)
	})
	out := dto.MapBookings(list)
	return &out, nil
}

var _ queries.Handler[ListBookingsQuery, *dto.BookingCollection] = (*ListBookingsHandler)(nil)
