package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"staybook/internal/app/clock"
	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/middleware"
	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainproperty "staybook/internal/domain/property"
	"staybook/internal/domain/refund"
	domainrange "staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/events"
	domainuser "staybook/internal/domain/user"
)

const requestBookingKey = "booking.request"

type RequestBookingCommand struct {
	BookingID       string
	PropertyID      string    `validate:"required"`
	GuestID         string    `validate:"required"`
	StartDate       time.Time `validate:"required"`
	EndDate         time.Time `validate:"required"`
	GuestCount      int
	IdempotencyKeyV string
}

func (c RequestBookingCommand) Key() string { return requestBookingKey }

func (c RequestBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestBookingCommand) ResultPrototype() any { return &dto.Booking{} }

// RequestBookingHandler books a property for a guest. The booking and the
// property's availability are saved in one unit of work.
type RequestBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Policy     refund.Policy
	Clock      clock.Clock
	Logger     *slog.Logger
}

func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*dto.Booking, error) {
	unit, ctx, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer unit.Close(ctx)

	property, err := unit.Properties().ByID(ctx, domainproperty.ID(cmd.PropertyID))
	if err != nil {
		return nil, err
	}
	guest, err := unit.Users().ByID(ctx, domainuser.ID(cmd.GuestID))
	if err != nil {
		return nil, err
	}
	dr, err := domainrange.New(cmd.StartDate, cmd.EndDate)
	if err != nil {
		return nil, err
	}

	id := cmd.BookingID
	if id == "" {
		id = uuid.NewString()
	}
	booking, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:         domainbooking.ID(id),
		Property:   property,
		Guest:      guest,
		Range:      dr,
		GuestCount: cmd.GuestCount,
		Policy:     h.Policy,
		CreatedAt:  clock.Or(h.Clock).Now(),
	})
	if err != nil {
		h.logger().DebugContext(ctx, "booking rejected", "property_id", cmd.PropertyID, "guest_id", cmd.GuestID, "error", err)
		return nil, err
	}

	if err := unit.Bookings().Save(ctx, booking); err != nil {
		return nil, err
	}
	if err := unit.Properties().Save(ctx, property); err != nil {
		return nil, err
	}

	pending := append([]events.DomainEvent{}, property.Drain()...)
	pending = append(pending, booking.Drain()...)
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	h.logger().InfoContext(ctx, "booking confirmed",
		"booking_id", booking.ID,
		"property_id", booking.PropertyID,
		"nights", booking.Range.Nights(),
		"total", booking.TotalPrice.Amount,
	)
	out := dto.MapBooking(booking)
	return &out, nil
}

func (h *RequestBookingHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

var _ commands.Handler[RequestBookingCommand, *dto.Booking] = (*RequestBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*RequestBookingCommand)(nil)
