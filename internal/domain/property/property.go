package property

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"staybook/internal/domain/pricing"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/shared/money"
)

var (
	ErrIDRequired          = errors.New("property: id is required")
	ErrNameRequired        = errors.New("property: name is required")
	ErrMaxGuests           = errors.New("property: max guests must be greater than zero")
	ErrBasePrice           = errors.New("property: base price per night is required and must be positive")
	ErrGuestsExceeded      = errors.New("property: maximum number of guests exceeded")
	ErrNotFound            = errors.New("property: not found")
	ErrUnknownBooking      = errors.New("property: booking is not registered on this property")
	ErrInvalidBookingRef   = errors.New("property: booking summary requires id and status")
	ErrReleaseNotCancelled = errors.New("property: only a cancelled booking can be released")
)

type ID string

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

func (s BookingStatus) Valid() bool {
	return s == BookingConfirmed || s == BookingCancelled
}

// BookingSummary is the part of a booking the property needs for availability.
type BookingSummary struct {
	BookingID string
	Range     daterange.DateRange
	Status    BookingStatus
}

// GuestLimitError reports a guest count above the property capacity.
type GuestLimitError struct {
	Max       int
	Requested int
}

func (e *GuestLimitError) Error() string {
	return fmt.Sprintf("property: maximum number of guests exceeded, maximum allowed: %d", e.Max)
}

func (e *GuestLimitError) Unwrap() error { return ErrGuestsExceeded }

type Property struct {
	ID                ID
	Name              string
	Description       string
	MaxGuests         int
	BasePricePerNight money.Money
	CreatedAt         time.Time
	Version           int64
	bookings          []BookingSummary
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Property, error)
	Save(ctx context.Context, property *Property) error
}

type CreateParams struct {
	ID                ID
	Name              string
	Description       string
	MaxGuests         int
	BasePricePerNight money.Money
	CreatedAt         time.Time
}

func NewProperty(params CreateParams) (*Property, error) {
	p, err := build(params)
	if err != nil {
		return nil, err
	}
	p.Record(PropertyCreated{
		PropertyID:        p.ID,
		Name:              p.Name,
		MaxGuests:         p.MaxGuests,
		BasePricePerNight: p.BasePricePerNight,
		At:                p.CreatedAt,
	})
	return p, nil
}

// RehydrateParams carries persisted state back into an aggregate.
type RehydrateParams struct {
	CreateParams
	Bookings []BookingSummary
	Version  int64
}

// Rehydrate rebuilds a stored property, re-checking its invariants. No events are recorded.
func Rehydrate(params RehydrateParams) (*Property, error) {
	p, err := build(params.CreateParams)
	if err != nil {
		return nil, err
	}
	for _, summary := range params.Bookings {
		if strings.TrimSpace(summary.BookingID) == "" || !summary.Status.Valid() {
			return nil, ErrInvalidBookingRef
		}
		if err := summary.Range.Validate(); err != nil {
			return nil, err
		}
	}
	p.bookings = append([]BookingSummary(nil), params.Bookings...)
	p.Version = params.Version
	return p, nil
}

func build(params CreateParams) (*Property, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if params.MaxGuests <= 0 {
		return nil, ErrMaxGuests
	}
	if !params.BasePricePerNight.IsPositive() || params.BasePricePerNight.Currency == "" {
		return nil, ErrBasePrice
	}
	createdAt := params.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return &Property{
		ID:                ID(id),
		Name:              name,
		Description:       strings.TrimSpace(params.Description),
		MaxGuests:         params.MaxGuests,
		BasePricePerNight: params.BasePricePerNight,
		CreatedAt:         createdAt.UTC(),
	}, nil
}

func (p *Property) ValidateGuestCount(guests int) error {
	if guests > p.MaxGuests {
		return &GuestLimitError{Max: p.MaxGuests, Requested: guests}
	}
	return nil
}

// Quote itemizes the price of a stay at this property.
func (p *Property) Quote(dr daterange.DateRange) (pricing.Breakdown, error) {
	return pricing.Quote(p.BasePricePerNight, dr.Nights())
}

// CalculateTotalPrice prices a stay; stays of pricing.LongStayNights or more get a single 10% discount.
func (p *Property) CalculateTotalPrice(dr daterange.DateRange) money.Money {
	b, err := p.Quote(dr)
	if err != nil {
		return money.Money{Currency: p.BasePricePerNight.Currency}
	}
	return b.Total
}

func (p *Property) IsAvailable(dr daterange.DateRange) bool {
	for _, summary := range p.bookings {
		if summary.Status == BookingConfirmed && summary.Range.Overlaps(dr) {
			return false
		}
	}
	return true
}

// AddBooking registers an accepted booking. Callers validate before adding.
func (p *Property) AddBooking(summary BookingSummary) {
	p.bookings = append(p.bookings, summary)
}

// ReleaseBooking frees the dates of a registered booking. The summary must
// already carry the cancelled status and the registered range.
func (p *Property) ReleaseBooking(summary BookingSummary) error {
	if summary.Status != BookingCancelled {
		return ErrReleaseNotCancelled
	}
	for i := range p.bookings {
		if p.bookings[i].BookingID != summary.BookingID {
			continue
		}
		if !p.bookings[i].Range.Equal(summary.Range) {
			return ErrUnknownBooking
		}
		p.bookings[i].Status = BookingCancelled
		return nil
	}
	return ErrUnknownBooking
}

// Bookings returns a copy of the registered booking summaries in insertion order.
func (p *Property) Bookings() []BookingSummary {
	out := make([]BookingSummary, len(p.bookings))
	copy(out, p.bookings)
	return out
}
