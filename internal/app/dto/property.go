package dto

import (
	"time"

	"staybook/internal/domain/pricing"
	domainproperty "staybook/internal/domain/property"
)

type Property struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	MaxGuests         int       `json:"max_guests"`
	BasePricePerNight MoneyDTO  `json:"base_price_per_night"`
	CreatedAt         time.Time `json:"created_at"`
}

type Availability struct {
	PropertyID string        `json:"property_id"`
	StartDate  string        `json:"start_date"`
	EndDate    string        `json:"end_date"`
	Nights     int           `json:"nights"`
	Available  bool          `json:"available"`
	Subtotal   MoneyDTO      `json:"subtotal"`
	Discounts  []DiscountDTO `json:"discounts"`
	TotalPrice MoneyDTO      `json:"total_price"`
}

type DiscountDTO struct {
	Name   string   `json:"name"`
	Amount MoneyDTO `json:"amount"`
}

func MapDiscounts(in []pricing.Discount) []DiscountDTO {
	out := make([]DiscountDTO, 0, len(in))
	for _, d := range in {
		out = append(out, DiscountDTO{Name: d.Name, Amount: MapMoney(d.Amount)})
	}
	return out
}

func MapProperty(p *domainproperty.Property) Property {
	if p == nil {
		return Property{}
	}
	return Property{
		ID:                string(p.ID),
		Name:              p.Name,
		Description:       p.Description,
		MaxGuests:         p.MaxGuests,
		BasePricePerNight: MapMoney(p.BasePricePerNight),
		CreatedAt:         p.CreatedAt,
	}
}
