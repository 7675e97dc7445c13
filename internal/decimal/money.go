package decimal

import (
	"github.com/shopspring/decimal"
)

// Places is the number of fraction digits every monetary value renders with
const Places = 2

// Zero is decimal zero
var Zero = decimal.Zero

// FromInt creates decimal from int
func FromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// MustFromString parses decimal from string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Format renders d with exactly two fraction digits, half away from zero
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// FormatNegated renders -d, used for deductions such as discounts. A zero
// deduction still prints its minus sign.
func FormatNegated(d decimal.Decimal) string {
	if d.IsZero() {
		return "-" + Format(d)
	}
	return Format(d.Neg())
}

// FormatQuantity renders a quantity without trailing zeros
func FormatQuantity(d decimal.Decimal) string {
	return d.String()
}

// Mul multiplies two decimals, rounds to 2 places
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Round(Places)
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// IsPositive returns true if decimal is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// IsNonNegative returns true if decimal is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}
