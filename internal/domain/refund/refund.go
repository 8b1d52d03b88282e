package refund

import (
	"errors"
	"fmt"
	"strings"

	"staybook/internal/domain/shared/money"
)

var ErrInvalidPercent = errors.New("refund: partial percent must be between 1 and 99")

// Rule selects how much of a booking total is returned on cancellation.
type Rule int

const (
	NoRefund Rule = iota
	PartialRefund
	FullRefund
)

const (
	// FullRefundMinDays is the smallest days-in-advance value that earns a full refund.
	FullRefundMinDays = 8
	// PartialRefundMinDays is the smallest days-in-advance value that earns a partial refund.
	PartialRefundMinDays = 1
	// DefaultPartialPercent is used when a policy does not configure its own percent.
	DefaultPartialPercent = 50
)

// RuleFor picks the rule for a cancellation made daysInAdvance days before check-in.
func RuleFor(daysInAdvance int) Rule {
	switch {
	case daysInAdvance >= FullRefundMinDays:
		return FullRefund
	case daysInAdvance >= PartialRefundMinDays:
		return PartialRefund
	default:
		return NoRefund
	}
}

func (r Rule) String() string {
	switch r {
	case FullRefund:
		return "FULL_REFUND"
	case PartialRefund:
		return "PARTIAL_REFUND"
	default:
		return "NO_REFUND"
	}
}

// ParseRule is the inverse of Rule.String.
func ParseRule(s string) (Rule, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FULL_REFUND":
		return FullRefund, nil
	case "PARTIAL_REFUND":
		return PartialRefund, nil
	case "NO_REFUND", "":
		return NoRefund, nil
	default:
		return NoRefund, fmt.Errorf("refund: unknown rule %q", s)
	}
}

// Calculate applies the rule with the default partial percent.
func (r Rule) Calculate(total money.Money) money.Money {
	return DefaultPolicy().Apply(r, total)
}

// Policy carries the configurable part of the refund rules.
type Policy struct {
	PartialPercent int
}

func DefaultPolicy() Policy {
	return Policy{PartialPercent: DefaultPartialPercent}
}

// NewPolicy validates that the partial percent sits strictly between none and full.
func NewPolicy(partialPercent int) (Policy, error) {
	if partialPercent < 1 || partialPercent > 99 {
		return Policy{}, ErrInvalidPercent
	}
	return Policy{PartialPercent: partialPercent}, nil
}

func (p Policy) Apply(rule Rule, total money.Money) money.Money {
	switch rule {
	case FullRefund:
		return total
	case PartialRefund:
		return total.Percent(p.partialPercent())
	default:
		return total.Percent(0)
	}
}

func (p Policy) partialPercent() int {
	if p.PartialPercent < 1 || p.PartialPercent > 99 {
		return DefaultPartialPercent
	}
	return p.PartialPercent
}
