// Package money converts between the decimal amounts entered on forms and the
// integer cents persisted in the database.
package money

import "math"

// MaxRate is the largest per-unit amount a purchase or sale may carry.
const MaxRate = 1e12

// ToCents rounds a decimal amount to the nearest cent.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromCents converts cents back to a decimal amount.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// LineTotal is quantity × rate in cents.
func LineTotal(quantity int, rateCents int64) int64 {
	return int64(quantity) * rateCents
}

// LineTotalFits reports whether quantity × rateCents can be stored without
// wrapping around.
func LineTotalFits(quantity int, rateCents int64) bool {
	if quantity <= 0 || rateCents <= 0 {
		return true
	}
	return rateCents <= math.MaxInt64/int64(quantity)
}
