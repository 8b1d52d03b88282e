package queries

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type lookupQuery struct{ ID string }

func (lookupQuery) Key() string { return "test.lookup" }

type missingQuery struct{}

func (missingQuery) Key() string { return "test.missing" }

type lookupHandler struct{}

func (lookupHandler) Handle(ctx context.Context, q lookupQuery) (*string, error) {
	if q.ID == "" {
		return nil, nil
	}
	v := "found:" + q.ID
	return &v, nil
}

func TestInMemoryBusAsk(t *testing.T) {
	t.Parallel()

	bus := NewInMemoryBus()
	RegisterHandler[lookupQuery, *string](bus, lookupHandler{})
	ctx := context.Background()

	got, err := Ask[lookupQuery, *string](ctx, bus, lookupQuery{ID: "p-1"})
	if err != nil || got == nil || *got != "found:p-1" {
		t.Fatalf("expected found:p-1, got %v %v", got, err)
	}
	if got, err := Ask[lookupQuery, *string](ctx, bus, lookupQuery{}); err != nil || got != nil {
		t.Fatalf("expected nil result without error, got %v %v", got, err)
	}

	tests := []struct {
		name string
		ask  func() error
		want error
	}{
		{name: "unknown key", ask: func() error { _, err := bus.Ask(ctx, missingQuery{}); return err }, want: ErrHandlerNotFound},
		{name: "nil query", ask: func() error { _, err := bus.Ask(ctx, nil); return err }, want: ErrInvalidQuery},
		{name: "nil bus", ask: func() error { _, err := Ask[lookupQuery, *string](ctx, nil, lookupQuery{}); return err }, want: ErrNilBus},
		{name: "wrong result type", ask: func() error { _, err := Ask[lookupQuery, int](ctx, bus, lookupQuery{ID: "x"}); return err }, want: ErrResultType},
	}
	for _, tc := range tests {
		if err := tc.ask(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
	if got := strings.Join(bus.Keys(), ","); got != "test.lookup" {
		t.Fatalf("unexpected keys %s", got)
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	bus := NewInMemoryBus()
	RegisterHandler[lookupQuery, *string](bus, lookupHandler{})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate registration")
		}
	}()
	RegisterHandler[lookupQuery, *string](bus, lookupHandler{})
}
