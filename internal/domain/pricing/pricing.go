package pricing

import (
	"errors"

	"staybook/internal/domain/shared/money"
)

var (
	ErrCurrencyUnset = errors.New("pricing: currency must be defined")
	ErrNights        = errors.New("pricing: nights must be positive")
)

const (
	// LongStayNights is the stay length from which the long stay discount applies.
	LongStayNights = 7
	// LongStayPercent is the share of the subtotal charged for long stays.
	LongStayPercent = 90

	DiscountLongStay = "long_stay"
)

type Discount struct {
	Name   string
	Amount money.Money
}

// Breakdown itemizes how a stay total was reached.
type Breakdown struct {
	Nights    int
	Nightly   money.Money
	Subtotal  money.Money
	Discounts []Discount
	Total     money.Money
}

// Quote prices nights at the nightly rate. Long stays get a single 10% discount;
// there is no stacking and no other tier.
func Quote(nightly money.Money, nights int) (Breakdown, error) {
	if nightly.Currency == "" {
		return Breakdown{}, ErrCurrencyUnset
	}
	if nights <= 0 {
		return Breakdown{}, ErrNights
	}
	subtotal := nightly.Multiply(int64(nights))
	b := Breakdown{
		Nights:   nights,
		Nightly:  nightly,
		Subtotal: subtotal,
		Total:    subtotal,
	}
	if nights >= LongStayNights {
		b.Total = subtotal.Percent(LongStayPercent)
		b.Discounts = append(b.Discounts, Discount{
			Name:   DiscountLongStay,
			Amount: money.Money{Amount: subtotal.Amount - b.Total.Amount, Currency: subtotal.Currency},
		})
	}
	return b, nil
}

// DiscountTotal sums the discounts applied to the subtotal.
func (b Breakdown) DiscountTotal() money.Money {
	total := money.Money{Currency: b.Subtotal.Currency}
	for _, d := range b.Discounts {
		total.Amount += d.Amount.Amount
	}
	return total
}

func (b Breakdown) Copy() Breakdown {
	clone := b
	clone.Discounts = append([]Discount(nil), b.Discounts...)
	return clone
}
