// Package payment computes the amount owed for a milk pickup. There is
// a single calculation entry point parameterized by mode so the flat
// and fat-adjusted variants cannot drift apart.
package payment

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Mode selects how the per-liter rate is obtained.
type Mode string

const (
	// ModeFlat uses the rate exactly as entered by the operator.
	ModeFlat Mode = "FLAT"
	// ModeFatAdjusted derives the rate from a base rate scaled by the
	// fat percentage: base * (1 + fat/100).
	ModeFatAdjusted Mode = "FAT_ADJUSTED"
)

// ParseMode normalizes a mode string from configuration. Unknown
// values are rejected so a typo in the env file fails at startup
// instead of silently falling back to flat rates.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToUpper(strings.TrimSpace(s))) {
	case ModeFlat, "":
		return ModeFlat, nil
	case ModeFatAdjusted:
		return ModeFatAdjusted, nil
	}
	return "", fmt.Errorf("unknown rate mode %q", s)
}

var hundred = decimal.NewFromInt(100)

// Result carries the derived per-liter rate and the rounded total for
// one pickup. Both are rounded to 2 decimal places, the currency's
// minor unit.
type Result struct {
	RatePerLiter decimal.Decimal
	TotalAmount  decimal.Decimal
}

// Calculate produces the payable total for a pickup of qty liters.
//
// In ModeFlat, rate is the operator-entered per-liter rate and fat is
// ignored for pricing. In ModeFatAdjusted, rate is the base rate and
// the effective per-liter rate becomes rate * (1 + fat/100), rounded
// before multiplying. A missing or zero fat percentage means a 0%
// adjustment; it is never an error here. Zero or negative quantities
// and rates are rejected by validation before this point, so
// Calculate itself never fails on well-formed input.
func Calculate(mode Mode, qty, rate decimal.Decimal, fat decimal.NullDecimal) Result {
	effective := rate
	if mode == ModeFatAdjusted && fat.Valid {
		factor := decimal.NewFromInt(1).Add(fat.Decimal.Div(hundred))
		effective = rate.Mul(factor).Round(2)
	}
	return Result{
		RatePerLiter: effective.Round(2),
		TotalAmount:  qty.Mul(effective).Round(2),
	}
}
