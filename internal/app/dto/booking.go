package dto

import (
	"time"

	domainbooking "staybook/internal/domain/booking"
)

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

type Booking struct {
	ID           string        `json:"id"`
	PropertyID   string        `json:"property_id"`
	GuestID      string        `json:"guest_id"`
	StartDate    string        `json:"start_date"`
	EndDate      string        `json:"end_date"`
	Nights       int           `json:"nights"`
	GuestCount   int           `json:"guest_count"`
	TotalPrice   MoneyDTO      `json:"total_price"`
	Status       string        `json:"status"`
	Cancellation *Cancellation `json:"cancellation,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

type Cancellation struct {
	BookingID     string    `json:"booking_id"`
	CancelledAt   time.Time `json:"cancelled_at"`
	DaysInAdvance int       `json:"days_in_advance"`
	Rule          string    `json:"rule"`
	Refund        MoneyDTO  `json:"refund"`
}

// CancelResult is returned by the cancel command.
type CancelResult struct {
	Booking      Booking      `json:"booking"`
	Cancellation Cancellation `json:"cancellation"`
}

type BookingCollection struct {
	Items []Booking `json:"items"`
}

func MapBooking(b *domainbooking.Booking) Booking {
	if b == nil {
		return Booking{}
	}
	out := Booking{
		ID:         string(b.ID),
		PropertyID: string(b.PropertyID),
		GuestID:    string(b.GuestID),
		StartDate:  b.Range.Start.Format(DateLayout),
		EndDate:    b.Range.End.Format(DateLayout),
		Nights:     b.Range.Nights(),
		GuestCount: b.GuestCount,
		TotalPrice: MapMoney(b.TotalPrice),
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
	}
	if b.Cancellation != nil {
		c := MapCancellation(b.ID, *b.Cancellation)
		out.Cancellation = &c
	}
	return out
}

func MapCancellation(id domainbooking.ID, c domainbooking.Cancellation) Cancellation {
	return Cancellation{
		BookingID:     string(id),
		CancelledAt:   c.At,
		DaysInAdvance: c.DaysInAdvance,
		Rule:          c.Rule.String(),
		Refund:        MapMoney(c.Refund),
	}
}

func MapBookings(list []*domainbooking.Booking) BookingCollection {
	items := make([]Booking, 0, len(list))
	for _, b := range list {
		items = append(items, MapBooking(b))
	}
	return BookingCollection{Items: items}
}
