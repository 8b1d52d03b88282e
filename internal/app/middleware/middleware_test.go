package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"staybook/internal/app/commands"
	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainproperty "staybook/internal/domain/property"
	domainuser "staybook/internal/domain/user"
)

type echoCommand struct {
	Value string
	IDKey string
}

func (echoCommand) Key() string              { return "test.echo" }
func (c echoCommand) IdempotencyKey() string { return c.IDKey }
func (echoCommand) ResultPrototype() any     { return new(string) }

type busFunc func(ctx context.Context, cmd commands.Command) (any, error)

func (f busFunc) Dispatch(ctx context.Context, cmd commands.Command) (any, error) { return f(ctx, cmd) }

type memStore struct {
	items map[string]IdempotencyRecord
}

func (s *memStore) Get(ctx context.Context, key string) (IdempotencyRecord, bool, error) {
	rec, ok := s.items[key]
	return rec, ok, nil
}

func (s *memStore) Save(ctx context.Context, rec IdempotencyRecord) error {
	s.items[rec.Key] = rec
	return nil
}

func TestIdempotencyReplaysSuccessOnly(t *testing.T) {
	t.Parallel()

	calls := 0
	fail := true
	base := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		calls++
		if fail {
			return nil, errors.New("boom")
		}
		v := cmd.(echoCommand).Value
		return &v, nil
	})
	store := &memStore{items: map[string]IdempotencyRecord{}}
	bus := ChainCommands(base, Idempotency(store, nil))
	ctx := context.Background()
	cmd := echoCommand{Value: "first", IDKey: "k1"}

	if _, err := bus.Dispatch(ctx, cmd); err == nil {
		t.Fatalf("expected first attempt to fail")
	}
	if len(store.items) != 0 {
		t.Fatalf("expected failure not to be stored")
	}

	fail = false
	res, err := commands.Dispatch[echoCommand, *string](ctx, bus, cmd)
	if err != nil || *res != "first" {
		t.Fatalf("expected first, got %v (%v)", res, err)
	}
	res, err = commands.Dispatch[echoCommand, *string](ctx, bus, echoCommand{Value: "second", IDKey: "k1"})
	if err != nil || *res != "first" {
		t.Fatalf("expected replayed first, got %v (%v)", res, err)
	}
	if calls != 2 {
		t.Fatalf("expected handler to run twice, ran %d", calls)
	}

	if _, err := commands.Dispatch[echoCommand, *string](ctx, bus, echoCommand{Value: "nokey"}); err != nil {
		t.Fatalf("unexpected error without key: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected command without key to bypass the store")
	}
}

type fakeUnit struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (u *fakeUnit) Properties() domainproperty.Repository { return nil }
func (u *fakeUnit) Users() domainuser.Repository          { return nil }
func (u *fakeUnit) Bookings() domainbooking.Repository    { return nil }
func (u *fakeUnit) Commit(ctx context.Context) error {
	if u.commitErr != nil {
		return u.commitErr
	}
	u.committed = true
	return nil
}
func (u *fakeUnit) Rollback(ctx context.Context) error {
	u.rolledBack = true
	return nil
}

type fakeFactory struct {
	unit *fakeUnit
}

func (f *fakeFactory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	return f.unit, nil
}

func TestTransactionCommitsOrRollsBack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		handlerErr   error
		commitErr    error
		wantCommit   bool
		wantRollback bool
	}{
		{name: "success", wantCommit: true},
		{name: "handler error", handlerErr: errors.New("handler"), wantRollback: true},
		{name: "commit conflict", commitErr: uow.ErrConcurrentUpdate, wantRollback: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			unit := &fakeUnit{commitErr: tc.commitErr}
			base := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
				if bound, ok := uow.FromContext(ctx); !ok || bound != unit {
					t.Fatalf("expected unit bound to context")
				}
				return "ok", tc.handlerErr
			})
			bus := ChainCommands(base, Transaction(&fakeFactory{unit: unit}, nil))
			_, err := bus.Dispatch(context.Background(), echoCommand{})
			if tc.handlerErr != nil && !errors.Is(err, tc.handlerErr) {
				t.Fatalf("expected handler error, got %v", err)
			}
			if tc.commitErr != nil && !errors.Is(err, tc.commitErr) {
				t.Fatalf("expected commit error, got %v", err)
			}
			if unit.committed != tc.wantCommit || unit.rolledBack != tc.wantRollback {
				t.Fatalf("expected commit=%v rollback=%v, got %+v", tc.wantCommit, tc.wantRollback, unit)
			}
		})
	}
}

type countingOutbox struct {
	flushes  int
	flushErr error
}

func (o *countingOutbox) Add(ctx context.Context, record outbox.EventRecord) error { return nil }
func (o *countingOutbox) Flush(ctx context.Context) error {
	o.flushes++
	return o.flushErr
}

func TestOutboxFlushOnlyAfterSuccess(t *testing.T) {
	t.Parallel()

	box := &countingOutbox{}
	fail := errors.New("fail")
	var next error
	base := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		return "ok", next
	})
	bus := ChainCommands(base, OutboxFlush(box, nil))

	next = fail
	if _, err := bus.Dispatch(context.Background(), echoCommand{}); !errors.Is(err, fail) {
		t.Fatalf("expected failure, got %v", err)
	}
	next = nil
	if _, err := bus.Dispatch(context.Background(), echoCommand{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if box.flushes != 1 {
		t.Fatalf("expected one flush, got %d", box.flushes)
	}
}

func TestOutboxFlushFailureKeepsCommittedResult(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	box := &countingOutbox{flushErr: errors.New("broker down")}
	calls := 0
	base := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		calls++
		v := cmd.(echoCommand).Value
		return &v, nil
	})
	store := &memStore{items: map[string]IdempotencyRecord{}}
	bus := ChainCommands(base, Idempotency(store, nil), OutboxFlush(box, logger))
	ctx := context.Background()

	res, err := commands.Dispatch[echoCommand, *string](ctx, bus, echoCommand{Value: "booked", IDKey: "k1"})
	if err != nil {
		t.Fatalf("expected committed command to succeed despite flush failure, got %v", err)
	}
	if *res != "booked" {
		t.Fatalf("unexpected result %q", *res)
	}
	if !strings.Contains(logs.String(), "outbox flush deferred") || !strings.Contains(logs.String(), "broker down") {
		t.Fatalf("expected flush failure to be logged, got %q", logs.String())
	}
	if _, ok := store.items["test.echo:k1"]; !ok {
		t.Fatalf("expected result to be stored for replay")
	}

	res, err = commands.Dispatch[echoCommand, *string](ctx, bus, echoCommand{Value: "retry", IDKey: "k1"})
	if err != nil || *res != "booked" || calls != 1 {
		t.Fatalf("expected retry to replay the first result, got %v %v calls=%d", res, err, calls)
	}
}

func TestChainOrderSkipsNil(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) CommandMiddleware {
		return func(next commands.Bus) commands.Bus {
			return busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
				order = append(order, name)
				return next.Dispatch(ctx, cmd)
			})
		}
	}
	base := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		order = append(order, "handler")
		return nil, nil
	})
	bus := ChainCommands(base, mark("outer"), nil, mark("inner"))
	if _, err := bus.Dispatch(context.Background(), echoCommand{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(order, ","); got != "outer,inner,handler" {
		t.Fatalf("expected outer,inner,handler, got %s", got)
	}
}

type rejectAll struct{}

func (rejectAll) Validate(ctx context.Context, message any) error {
	return &ValidationError{Violations: []FieldViolation{{Field: "name", Rule: "required"}}}
}

func TestValidationStopsDispatch(t *testing.T) {
	t.Parallel()

	called := false
	base := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		called = true
		return nil, nil
	})
	_, err := ChainCommands(base, Validation(rejectAll{})).Dispatch(context.Background(), echoCommand{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err.Error() != "validation: name failed required" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if called {
		t.Fatalf("expected handler not to run")
	}
}
