// Package middleware wraps the command and query buses. The production order
// is Logging, Validation, Idempotency, OutboxFlush, Transaction for commands
// and QueryLogging, QueryValidation for queries.
package middleware

import (
	"context"
	"slices"

	"staybook/internal/app/commands"
	"staybook/internal/app/queries"
)

type CommandMiddleware func(next commands.Bus) commands.Bus

type QueryMiddleware func(next queries.Bus) queries.Bus

// ChainCommands wraps base so that mws[0] sees a command first. Nil entries are skipped.
func ChainCommands(base commands.Bus, mws ...CommandMiddleware) commands.Bus {
	for _, mw := range slices.Backward(mws) {
		if mw != nil {
			base = mw(base)
		}
	}
	return base
}

// ChainQueries is ChainCommands for the query bus.
func ChainQueries(base queries.Bus, mws ...QueryMiddleware) queries.Bus {
	for _, mw := range slices.Backward(mws) {
		if mw != nil {
			base = mw(base)
		}
	}
	return base
}

type dispatchFunc func(ctx context.Context, cmd commands.Command) (any, error)

func (f dispatchFunc) Dispatch(ctx context.Context, cmd commands.Command) (any, error) {
	return f(ctx, cmd)
}

type askFunc func(ctx context.Context, q queries.Query) (any, error)

func (f askFunc) Ask(ctx context.Context, q queries.Query) (any, error) {
	return f(ctx, q)
}
