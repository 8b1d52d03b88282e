package booking

import (
	"context"
	"log/slog"

	"staybook/internal/app/clock"
	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
)

const cancelBookingKey = "booking.cancel"

type CancelBookingCommand struct {
	BookingID string `validate:"required"`
}

func (CancelBookingCommand) Key() string { return cancelBookingKey }

// CancelBookingHandler cancels a booking at the current clock instant, computes
// the refund and frees the dates on the property.
type CancelBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      clock.Clock
	Logger     *slog.Logger
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*dto.CancelResult, error) {
	unit, ctx, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	booking, err := unit.Bookings().ByID(ctx, domainbooking.ID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	property, err := unit.Properties().ByID(ctx, booking.PropertyID)
	if err != nil {
		return nil, err
	}
	cancellation, err := booking.Cancel(clock.Or(h.Clock).Now(), property)
	if err != nil {
		return nil, err
	}

	if err := unit.Bookings().Save(ctx, booking); err != nil {
		return nil, err
	}
	if err := unit.Properties().Save(ctx, property); err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, booking.Drain()); err != nil {
		return nil, err
	}
	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}

	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "booking cancelled",
		"booking_id", booking.ID,
		"rule", cancellation.Rule.String(),
		"days_in_advance", cancellation.DaysInAdvance,
		"refund", cancellation.Refund.Amount,
	)
	return &dto.CancelResult{
		Booking:      dto.MapBooking(booking),
		Cancellation: dto.MapCancellation(booking.ID, cancellation),
	}, nil
}

var _ commands.Handler[CancelBookingCommand, *dto.CancelResult] = (*CancelBookingHandler)(nil)
