package analytics

import (
	"math"

	"github.com/shopspring/decimal"
)

// SafeDiv divides num by den and returns 0 instead of a non-finite result.
// Every rate and percentage of the dashboard goes through it.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	q := num / den
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0
	}
	return q
}

// safeDivDecimal is SafeDiv for decimal operands.
func safeDivDecimal(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

// percentOf returns part/total as a percentage, 0 when total is 0.
func percentOf(part, total float64) float64 {
	return SafeDiv(part, total) * 100
}
