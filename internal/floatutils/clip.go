// Package floatutils provides small numeric helpers shared by the
// priority bookkeeping in the root package.
package floatutils

import "math"

// Clip clamps value to [lo, hi].
func Clip(value, lo, hi float64) float64 {
	clipped := math.Min(value, hi)
	return math.Max(clipped, lo)
}
