package dto

import "staybook/internal/domain/shared/money"

// MoneyDTO carries minor units for exact arithmetic and the major amount for display.
type MoneyDTO struct {
	Amount   int64   `json:"amount"`
	Major    float64 `json:"major"`
	Currency string  `json:"currency"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{
		Amount:   value.Amount,
		Major:    value.Major(),
		Currency: value.Currency,
	}
}
