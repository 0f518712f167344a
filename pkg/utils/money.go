package utils

import "math"

// RoundAmount rounds a monetary amount to 2 decimal places,
// half away from zero.
func RoundAmount(amount float64) float64 {
	return math.Round(amount*100) / 100
}
