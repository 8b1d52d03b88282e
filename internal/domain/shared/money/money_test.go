package money

import (
	"errors"
	"testing"
)

func TestFromMajor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want int64
	}{
		{in: 100, want: 10000},
		{in: 199.99, want: 19999},
		{in: 0.1 + 0.2, want: 30},
		{in: -5, want: -500},
	}
	for _, tc := range tests {
		m, err := FromMajor(tc.in, "usd")
		if err != nil {
			t.Fatalf("FromMajor(%v) unexpected error: %v", tc.in, err)
		}
		if m.Amount != tc.want || m.Currency != "USD" {
			t.Fatalf("FromMajor(%v) = %+v, want %d USD", tc.in, m, tc.want)
		}
	}

	if _, err := FromMajor(10, "EURO"); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()

	total := Must(100000, "USD")
	if got := total.Percent(50); got.Amount != 50000 {
		t.Fatalf("expected 50000, got %d", got.Amount)
	}
	if got := total.Percent(90); got.Amount != 90000 {
		t.Fatalf("expected 90000, got %d", got.Amount)
	}
	if got := total.Percent(0); !got.IsZero() || got.Currency != "USD" {
		t.Fatalf("expected zero USD, got %+v", got)
	}
	if got := Must(999, "USD").Percent(50); got.Amount != 499 {
		t.Fatalf("expected truncation to 499, got %d", got.Amount)
	}
}

func TestArithmeticCurrencyChecks(t *testing.T) {
	t.Parallel()

	usd := Must(1000, "USD")
	eur := Must(1000, "EUR")
	if _, err := usd.Add(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}
	sum, err := usd.Add(Must(250, "USD"))
	if err != nil || sum.Amount != 1250 {
		t.Fatalf("expected 1250, got %+v (%v)", sum, err)
	}
	if got := usd.Multiply(7).Major(); got != 70 {
		t.Fatalf("expected 70 major units, got %v", got)
	}
}
