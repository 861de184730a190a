// Package money converts between the decimal currency strings carried on the
// wire ("10.50") and the integer minor units (1050) used everywhere inside
// the ledger. No other package performs this conversion.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for non-numeric, zero or negative amounts.
var ErrInvalidAmount = errors.New("invalid amount")

var hundred = decimal.NewFromInt(100)

// ToMinorUnits parses a decimal currency string into integer paise.
// Fractions beyond two digits are rounded half away from zero, matching how
// the boundary always presents two fixed fractional digits.
func ToMinorUnits(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return 0, ErrInvalidAmount
	}
	return d.Mul(hundred).Round(0).IntPart(), nil
}

// FromMinorUnits renders paise as a decimal string with exactly two
// fractional digits.
func FromMinorUnits(v int64) string {
	return decimal.New(v, -2).StringFixed(2)
}
