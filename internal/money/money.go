// Package money represents monetary amounts as int64 minor units (cents)
// so ledger arithmetic is exact. Decimal conversion happens only at the
// boundaries (HTTP payloads, config, display).
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Amount is a quantity of money in minor units. 25050 == 250.50.
type Amount int64

var ErrMalformedAmount = errors.New("malformed amount")

var hundred = decimal.NewFromInt(100)

// Parse converts a decimal string such as "250.50" into minor units.
// More than two fractional digits is rejected rather than rounded.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrMalformedAmount
	}
	return FromDecimal(d)
}

// FromDecimal converts a decimal value into minor units.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	cents := d.Mul(hundred)
	if !cents.IsInteger() {
		return 0, ErrMalformedAmount
	}
	return Amount(cents.IntPart()), nil
}

// Decimal returns the amount as a two-place decimal.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// String formats the amount with exactly two fractional digits.
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	return a > 0
}
