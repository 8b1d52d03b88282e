package property

import (
	"context"
	"log/slog"
	"time"

	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainproperty "staybook/internal/domain/property"
	"staybook/internal/domain/shared/daterange"
)

const checkAvailabilityKey = "property.availability"

// CheckAvailabilityQuery asks whether a property is free for a stay and what it would cost.
type CheckAvailabilityQuery struct {
	PropertyID string    `validate:"required"`
	StartDate  time.Time `validate:"required"`
	EndDate    time.Time `validate:"required"`
}

func (CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

type CheckAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (*dto.Availability, error) {
	dr, err := daterange.New(q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	unit, ctx, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	p, err := unit.Properties().ByID(ctx, domainproperty.ID(q.PropertyID))
	if err != nil {
		return nil, err
	}
	quote, err := p.Quote(dr)
	if err != nil {
		return nil, err
	}
	available := p.IsAvailable(dr)
	h.logger().DebugContext(ctx, "availability checked",
		"property_id", q.PropertyID,
		"start_date", dr.Start.Format(dto.DateLayout),
		"end_date", dr.End.Format(dto.DateLayout),
		"available", available,
	)
	return &dto.Availability{
		PropertyID: string(p.ID),
		StartDate:  dr.Start.Format(dto.DateLayout),
		EndDate:    dr.End.Format(dto.DateLayout),
		Nights:     dr.Nights(),
		Available:  available,
		Subtotal:   dto.MapMoney(quote.Subtotal),
		Discounts:  dto.MapDiscounts(quote.Discounts),
		TotalPrice: dto.MapMoney(quote.Total),
	}, nil
}

func (h *CheckAvailabilityHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

var _ queries.Handler[CheckAvailabilityQuery, *dto.Availability] = (*CheckAvailabilityHandler)(nil)
