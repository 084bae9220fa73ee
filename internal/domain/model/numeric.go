package model

import (
	"math"

	"github.com/shopspring/decimal"
)

// Decimal inputs whose exponent or magnitude falls outside these bounds cannot
// be represented as a finite float64 and are rejected before any expansion.
const (
	maxDecimalExponent  = 350
	maxDecimalMagnitude = 308
)

// DecimalFloat64 converts d to a finite float64. It reports false when d is
// outside float64 range. The check inspects the exponent and coefficient size
// only, so oversized inputs are never expanded.
func DecimalFloat64(d decimal.Decimal) (float64, bool) {
	exp := float64(d.Exponent())
	if math.Abs(exp) > maxDecimalExponent {
		return 0, false
	}
	if float64(d.Coefficient().BitLen())*math.Log10(2)+exp > maxDecimalMagnitude+1 {
		return 0, false
	}

	f := d.InexactFloat64()
	if !IsFinite(f) {
		return 0, false
	}
	return f, true
}

// IsFinite reports whether f is neither NaN nor an infinity.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
