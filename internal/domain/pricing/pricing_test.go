package pricing

import (
	"errors"
	"testing"

	"staybook/internal/domain/shared/money"
)

func TestQuote(t *testing.T) {
	t.Parallel()

	nightly := money.Must(20000, "USD")
	tests := []struct {
		name     string
		nights   int
		subtotal int64
		discount int64
		total    int64
	}{
		{name: "single night", nights: 1, subtotal: 20000, total: 20000},
		{name: "six nights", nights: 6, subtotal: 120000, total: 120000},
		{name: "seven nights", nights: 7, subtotal: 140000, discount: 14000, total: 126000},
		{name: "thirty nights", nights: 30, subtotal: 600000, discount: 60000, total: 540000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := Quote(nightly, tc.nights)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.Subtotal.Amount != tc.subtotal || b.Total.Amount != tc.total || b.DiscountTotal().Amount != tc.discount {
				t.Fatalf("expected %d/%d/%d, got %d/%d/%d", tc.subtotal, tc.discount, tc.total, b.Subtotal.Amount, b.DiscountTotal().Amount, b.Total.Amount)
			}
			if tc.discount > 0 && (len(b.Discounts) != 1 || b.Discounts[0].Name != DiscountLongStay) {
				t.Fatalf("expected one long stay discount, got %+v", b.Discounts)
			}
		})
	}
}

func TestQuoteRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := Quote(money.Money{Amount: 100}, 2); !errors.Is(err, ErrCurrencyUnset) {
		t.Fatalf("expected ErrCurrencyUnset, got %v", err)
	}
	if _, err := Quote(money.Must(100, "USD"), 0); !errors.Is(err, ErrNights) {
		t.Fatalf("expected ErrNights, got %v", err)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	t.Parallel()

	b, _ := Quote(money.Must(1000, "USD"), 7)
	c := b.Copy()
	c.Discounts[0].Name = "changed"
	if b.Discounts[0].Name != DiscountLongStay {
		t.Fatalf("expected copy not to share discounts")
	}
}
