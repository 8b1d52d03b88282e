package validation

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"staybook/internal/app/middleware"
)

// StructValidator checks `validate` struct tags on commands and queries.
type StructValidator struct {
	validate *validator.Validate
}

func New() *StructValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	return &StructValidator{validate: v}
}

func (s *StructValidator) Validate(ctx context.Context, message any) error {
	if message == nil {
		return &middleware.ValidationError{Violations: []middleware.FieldViolation{{Field: "message", Rule: "required"}}}
	}
	if reflect.Indirect(reflect.ValueOf(message)).Kind() != reflect.Struct {
		return nil
	}
	err := s.validate.StructCtx(ctx, message)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &middleware.ValidationError{Violations: make([]middleware.FieldViolation, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out.Violations = append(out.Violations, middleware.FieldViolation{Field: fe.Field(), Rule: rule})
	}
	return out
}

// fieldName reports violations using snake_case names so they match the HTTP payloads.
func fieldName(f reflect.StructField) string {
	name := strings.TrimSuffix(f.Name, "V")
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(name[i-1] >= 'A' && name[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

var _ middleware.Validator = (*StructValidator)(nil)
