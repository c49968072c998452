package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// Cents reports whether v carries at most two decimal places.
func Cents(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	d := decimal.NewFromFloat(v)
	return d.Equal(d.Truncate(2))
}

// Within reports whether v lies in [min, max] with cents precision.
func Within(v, min, max float64) bool {
	return Cents(v) && v >= min && v <= max
}

// Format renders v with exactly two decimals.
func Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.00"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// WithCurrency renders v as "LKR 1234.50" style text.
func WithCurrency(currency string, v float64) string {
	if currency == "" {
		return Format(v)
	}
	return currency + " " + Format(v)
}

// Trim renders v without trailing zeros, e.g. 8 or 12.5.
func Trim(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return decimal.NewFromFloat(v).String()
}
