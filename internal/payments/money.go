package payments

import "math"

// MinorUnits converts a decimal price to integer minor units. Rounds to the
// nearest cent: binary floats store 19.99 as 19.989..., and truncation would
// short the charge by a cent.
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
