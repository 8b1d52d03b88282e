package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type pingCommand struct{ Value string }

func (pingCommand) Key() string { return "test.ping" }

type otherCommand struct{}

func (otherCommand) Key() string { return "test.other" }

func TestInMemoryBusDispatch(t *testing.T) {
	t.Parallel()

	bus := NewInMemoryBus()
	RegisterHandler[pingCommand, string](bus, HandlerFunc[pingCommand, string](func(ctx context.Context, cmd pingCommand) (string, error) {
		return "pong:" + cmd.Value, nil
	}))

	got, err := Dispatch[pingCommand, string](context.Background(), bus, pingCommand{Value: "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "pong:a" {
		t.Fatalf("expected pong:a, got %q", got)
	}

	if _, err := bus.Dispatch(context.Background(), otherCommand{}); !errors.Is(err, ErrHandlerNotFound) {
		t.Fatalf("expected ErrHandlerNotFound, got %v", err)
	}
	if _, err := Dispatch[pingCommand, int](context.Background(), bus, pingCommand{}); !errors.Is(err, ErrResultType) {
		t.Fatalf("expected ErrResultType, got %v", err)
	}
	if _, err := Dispatch[pingCommand, string](context.Background(), nil, pingCommand{}); !errors.Is(err, ErrNilBus) {
		t.Fatalf("expected ErrNilBus, got %v", err)
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	bus := NewInMemoryBus()
	h := HandlerFunc[pingCommand, string](func(ctx context.Context, cmd pingCommand) (string, error) { return "", nil })
	RegisterHandler[pingCommand, string](bus, h)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate registration")
		}
	}()
	RegisterHandler[pingCommand, string](bus, h)
}

func TestKeysAndResultMismatch(t *testing.T) {
	t.Parallel()

	bus := NewInMemoryBus()
	RegisterHandler[pingCommand, string](bus, HandlerFunc[pingCommand, string](func(ctx context.Context, cmd pingCommand) (string, error) {
		return "pong", nil
	}))
	RegisterHandler[otherCommand, string](bus, HandlerFunc[otherCommand, string](func(ctx context.Context, cmd otherCommand) (string, error) {
		return "", nil
	}))
	if got := strings.Join(bus.Keys(), ","); got != "test.other,test.ping" {
		t.Fatalf("expected sorted keys, got %s", got)
	}

	_, err := Dispatch[pingCommand, int](context.Background(), bus, pingCommand{})
	if !errors.Is(err, ErrResultType) || !strings.Contains(err.Error(), "test.ping returned string") {
		t.Fatalf("expected mismatch naming key and type, got %v", err)
	}
	if _, err := bus.Dispatch(context.Background(), nil); !errors.Is(err, ErrInvalidCommand) {
		t.Fatalf("expected ErrInvalidCommand for nil command, got %v", err)
	}
}
