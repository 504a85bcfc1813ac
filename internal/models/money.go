package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Direction marks which side of the ledger an amount moves money to.
type Direction string

const (
	DirectionDebit  Direction = "DEBIT"
	DirectionCredit Direction = "CREDIT"
)

// ParseDirection converts a wire string to a Direction, case-insensitively.
func ParseDirection(raw string) (Direction, error) {
	switch Direction(strings.ToUpper(raw)) {
	case DirectionDebit:
		return DirectionDebit, nil
	case DirectionCredit:
		return DirectionCredit, nil
	default:
		return "", ErrInvalidDirection
	}
}

// Money is an immutable monetary value: an exact decimal amount, its currency,
// and whether it debits or credits the account it is applied to.
type Money struct {
	Amount        decimal.Decimal
	Currency      string
	DebitOrCredit Direction
}

// ParseAmount builds a Money from a raw monetary string. The value must parse
// as base-10, be zero or positive, and carry at most two significant fractional
// digits (trailing zeros do not count, so "10.100" is accepted).
func ParseAmount(raw, currency string, direction Direction) (Money, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	// Truncation to two places only changes the value when a third
	// significant fractional digit exists.
	if !d.Equal(d.Truncate(2)) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Amount: d, Currency: currency, DebitOrCredit: direction}, nil
}

// String renders the amount in canonical form, always two fractional digits.
func (m Money) String() string {
	return m.Amount.StringFixed(2)
}
