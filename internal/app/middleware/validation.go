package middleware

import (
	"context"
	"errors"
	"strings"

	"staybook/internal/app/commands"
	"staybook/internal/app/queries"
)

// ErrInvalidInput marks errors caused by malformed commands or queries.
var ErrInvalidInput = errors.New("invalid input")

type Validator interface {
	Validate(ctx context.Context, message any) error
}

// FieldViolation describes one failed constraint.
type FieldViolation struct {
	Field string
	Rule  string
}

// ValidationError aggregates field violations reported by a Validator.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+" failed "+v.Rule)
	}
	return "validation: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func Validation(v Validator) CommandMiddleware {
	if v == nil {
		panic("middleware: validator required")
	}
	return func(next commands.Bus) commands.Bus {
		return dispatchFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := v.Validate(ctx, cmd); err != nil {
				return nil, err
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}

func QueryValidation(v Validator) QueryMiddleware {
	if v == nil {
		panic("middleware: validator required")
	}
	return func(next queries.Bus) queries.Bus {
		return askFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := v.Validate(ctx, q); err != nil {
				return nil, err
			}
			return next.Ask(ctx, q)
		})
	}
}
