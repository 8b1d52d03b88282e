package property

import (
	"time"

	"staybook/internal/domain/shared/money"
)

type PropertyCreated struct {
	PropertyID        ID
	Name              string
	MaxGuests         int
	BasePricePerNight money.Money
	At                time.Time
}

func (e PropertyCreated) EventName() string     { return "property.created" }
func (e PropertyCreated) AggregateID() string   { return string(e.PropertyID) }
func (e PropertyCreated) OccurredAt() time.Time { return e.At }
