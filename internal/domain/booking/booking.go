package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"staybook/internal/domain/property"
	"staybook/internal/domain/refund"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/shared/money"
	"staybook/internal/domain/user"
)

var (
	ErrIDRequired       = errors.New("booking: id is required")
	ErrPropertyRequired = errors.New("booking: property is required")
	ErrGuestRequired    = errors.New("booking: guest is required")
	ErrInvalidGuests    = errors.New("booking: guest count must be greater than zero")
	ErrUnavailable      = errors.New("booking: property unavailable for the requested dates")
	ErrAlreadyCancelled = errors.New("booking: booking is already cancelled")
	ErrInvalidState     = errors.New("booking: invalid state")
	ErrNotFound         = errors.New("booking: not found")
	ErrPropertyMismatch = errors.New("booking: property does not hold this booking")
)

type ID string

// Status shares its values with the property's booking summaries.
type Status = property.BookingStatus

const (
	StatusConfirmed = property.BookingConfirmed
	StatusCancelled = property.BookingCancelled
)

type Booking struct {
	ID           ID
	PropertyID   property.ID
	GuestID      user.ID
	Range        daterange.DateRange
	GuestCount   int
	TotalPrice   money.Money
	Status       Status
	Policy       refund.Policy
	Cancellation *Cancellation
	CreatedAt    time.Time
	Version      int64
	events.EventRecorder
}

// Cancellation records the outcome of Cancel. TotalPrice is left untouched.
type Cancellation struct {
	At            time.Time
	DaysInAdvance int
	Rule          refund.Rule
	Refund        money.Money
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	ListByProperty(ctx context.Context, propertyID property.ID) ([]*Booking, error)
}

type CreateParams struct {
	ID         ID
	Property   *property.Property
	Guest      *user.User
	Range      daterange.DateRange
	GuestCount int
	Policy     refund.Policy
	CreatedAt  time.Time
}

// NewBooking validates the request against the property, prices it and registers
// the booking on the property. The property is only modified when every check passes.
func NewBooking(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if params.Property == nil {
		return nil, ErrPropertyRequired
	}
	if params.Guest == nil {
		return nil, ErrGuestRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.GuestCount <= 0 {
		return nil, ErrInvalidGuests
	}
	p := params.Property
	if err := p.ValidateGuestCount(params.GuestCount); err != nil {
		return nil, err
	}
	if !p.IsAvailable(params.Range) {
		return nil, ErrUnavailable
	}
	total := p.CalculateTotalPrice(params.Range)

	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	b := &Booking{
		ID:         params.ID,
		PropertyID: p.ID,
		GuestID:    params.Guest.ID,
		Range:      params.Range,
		GuestCount: params.GuestCount,
		TotalPrice: total,
		Status:     StatusConfirmed,
		Policy:     params.Policy,
		CreatedAt:  now.UTC(),
	}
	p.AddBooking(b.Summary())
	b.Record(BookingConfirmed{
		BookingID:  b.ID,
		PropertyID: b.PropertyID,
		GuestID:    b.GuestID,
		Range:      b.Range,
		GuestCount: b.GuestCount,
		TotalPrice: b.TotalPrice,
		At:         b.CreatedAt,
	})
	return b, nil
}

type RehydrateParams struct {
	ID           ID
	PropertyID   property.ID
	GuestID      user.ID
	Range        daterange.DateRange
	GuestCount   int
	TotalPrice   money.Money
	Status       Status
	Policy       refund.Policy
	Cancellation *Cancellation
	CreatedAt    time.Time
	Version      int64
}

// Rehydrate rebuilds a stored booking. Availability is not re-checked.
func Rehydrate(params RehydrateParams) (*Booking, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.PropertyID)) == "" {
		return nil, ErrPropertyRequired
	}
	if strings.TrimSpace(string(params.GuestID)) == "" {
		return nil, ErrGuestRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.GuestCount <= 0 {
		return nil, ErrInvalidGuests
	}
	if !params.Status.Valid() {
		return nil, ErrInvalidState
	}
	if (params.Status == StatusCancelled) != (params.Cancellation != nil) {
		return nil, ErrInvalidState
	}
	b := &Booking{
		ID:         params.ID,
		PropertyID: params.PropertyID,
		GuestID:    params.GuestID,
		Range:      params.Range,
		GuestCount: params.GuestCount,
		TotalPrice: params.TotalPrice,
		Status:     params.Status,
		Policy:     params.Policy,
		CreatedAt:  params.CreatedAt.UTC(),
		Version:    params.Version,
	}
	if params.Cancellation != nil {
		c := *params.Cancellation
		b.Cancellation = &c
	}
	return b, nil
}

// Cancel moves a confirmed booking to CANCELLED, frees its dates on p and
// computes the refund owed for cancelling at the given instant. Neither aggregate
// changes when any check fails. A second cancel is rejected.
func (b *Booking) Cancel(at time.Time, p *property.Property) (Cancellation, error) {
	switch b.Status {
	case StatusConfirmed:
	case StatusCancelled:
		return Cancellation{}, ErrAlreadyCancelled
	default:
		return Cancellation{}, ErrInvalidState
	}
	if p == nil {
		return Cancellation{}, ErrPropertyRequired
	}
	if p.ID != b.PropertyID {
		return Cancellation{}, ErrPropertyMismatch
	}
	released := b.Summary()
	released.Status = StatusCancelled
	if err := p.ReleaseBooking(released); err != nil {
		return Cancellation{}, fmt.Errorf("%w: %w", ErrPropertyMismatch, err)
	}
	if at.IsZero() {
		at = time.Now()
	}
	days := daterange.DaysBetween(at, b.Range.Start)
	rule := refund.RuleFor(days)
	c := Cancellation{
		At:            at.UTC(),
		DaysInAdvance: days,
		Rule:          rule,
		Refund:        b.Policy.Apply(rule, b.TotalPrice),
	}
	b.Status = StatusCancelled
	b.Cancellation = &c
	b.Record(BookingCancelled{
		BookingID:     b.ID,
		PropertyID:    b.PropertyID,
		GuestID:       b.GuestID,
		Range:         b.Range,
		DaysInAdvance: days,
		Rule:          rule.String(),
		Refund:        c.Refund,
		At:            c.At,
	})
	return c, nil
}

// RefundAmount is the refund computed on cancellation, zero while confirmed.
func (b *Booking) RefundAmount() money.Money {
	if b.Cancellation == nil {
		return money.Money{Amount: 0, Currency: b.TotalPrice.Currency}
	}
	return b.Cancellation.Refund
}

func (b *Booking) Summary() property.BookingSummary {
	return property.BookingSummary{BookingID: string(b.ID), Range: b.Range, Status: b.Status}
}
