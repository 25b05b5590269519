package market

import (
	"github.com/shopspring/decimal"
)

// Format renders v with exactly places decimals, rounding half away from
// zero the way the worked solutions print them (83.33, 466.67, 12.25).
func Format(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Trim renders v rounded to places decimals without trailing zeros, so whole
// values print as 105 and fractional ones as 107.5.
func Trim(v float64, places int32) string {
	return decimal.NewFromFloat(v).Round(places).String()
}
