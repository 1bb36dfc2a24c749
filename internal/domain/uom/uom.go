// Package uom converts quantities between units of measure of one category.
package uom

import (
	"github.com/shopspring/decimal"
)

// Unit is a unit of measure.
//
// Factor is the number of this unit per category reference unit: 1 for the
// reference, 1/12 for a dozen, 1000 for grams against kilograms.
type Unit struct {
	ID       int64           `db:"id" json:"id"`
	Name     string          `db:"name" json:"name"`
	Factor   decimal.Decimal `db:"factor" json:"factor"`
	Rounding decimal.Decimal `db:"rounding" json:"rounding"`
}

// Convert expresses qty given in from as a quantity of to.
// With round set, the result is rounded away from zero to a multiple of
// to.Rounding. Identical units return qty untouched.
func Convert(qty decimal.Decimal, from, to Unit, round bool) decimal.Decimal {
	if from.ID == to.ID {
		return qty
	}
	if from.Factor.IsZero() {
		return decimal.Zero
	}

	out := qty.Div(from.Factor).Mul(to.Factor)
	if round {
		out = RoundUp(out, to.Rounding)
	}
	return out
}

// RoundUp rounds v away from zero to the nearest multiple of step.
// A non-positive step leaves v unchanged.
func RoundUp(v, step decimal.Decimal) decimal.Decimal {
	if !step.IsPositive() {
		return v
	}
	steps := v.Abs().Div(step)
	// Absorb division noise so exact multiples are not pushed up a step.
	steps = steps.Round(8).Ceil()
	out := steps.Mul(step)
	if v.IsNegative() {
		return out.Neg()
	}
	return out
}
