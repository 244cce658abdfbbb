package common

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp limits f to the closed range [low, high].
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Clamp01 limits f to [0, 1].
func Clamp01(f float64) float64 {
	return Clamp(f, 0, 1)
}

// Encroach moves from toward to in a frame-rate independent way. factorPerSecond is the
// fraction of the remaining distance still left after one second, so 0.1 closes 90% of
// the gap each second.
//
// Parameters:
//   - from: the current value
//   - to: the target value
//   - factorPerSecond: remaining fraction after one second, in (0, 1]
//   - deltaSeconds: elapsed time of the frame
//
// Returns:
//   - float32: the value after deltaSeconds of approach
func Encroach(from, to, factorPerSecond, deltaSeconds float32) float32 {
	factor := float32(math.Pow(float64(factorPerSecond), float64(deltaSeconds)))
	return from + (to-from)*(1-factor)
}
