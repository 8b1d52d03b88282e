package booking

import (
	"time"

	"staybook/internal/domain/property"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
	"staybook/internal/domain/user"
)

type BookingConfirmed struct {
	BookingID  ID
	PropertyID property.ID
	GuestID    user.ID
	Range      daterange.DateRange
	GuestCount int
	TotalPrice money.Money
	At         time.Time
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return string(e.BookingID) }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID     ID
	PropertyID    property.ID
	GuestID       user.ID
	Range         daterange.DateRange
	DaysInAdvance int
	Rule          string
	Refund        money.Money
	At            time.Time
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }
