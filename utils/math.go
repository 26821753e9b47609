// Package utils contains math helpers shared across the path following pipeline.
package utils

import (
	"math"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// DegSliceToRad converts a slice of angles in degrees to radians.
func DegSliceToRad(degrees []float64) []float64 {
	radians := make([]float64, len(degrees))
	for i, d := range degrees {
		radians[i] = DegToRad(d)
	}
	return radians
}

// RadSliceToDeg converts a slice of angles in radians to degrees.
func RadSliceToDeg(radians []float64) []float64 {
	degrees := make([]float64, len(radians))
	for i, r := range radians {
		degrees[i] = RadToDeg(r)
	}
	return degrees
}

// AngleDiffDeg returns the closest difference from the two given
// angles. The arguments are commutative.
func AngleDiffDeg(a1, a2 float64) float64 {
	return float64(180) - math.Abs(math.Abs(a1-a2)-float64(180))
}

// Clamp limits a value to the interval [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampSlice limits every element of values to [-bound, bound] in place.
func ClampSlice(values []float64, bound float64) {
	for i, v := range values {
		values[i] = Clamp(v, -bound, bound)
	}
}

// MaxAbs returns the largest absolute value in the slice, or 0 for an empty slice.
func MaxAbs(values []float64) float64 {
	var max float64
	for _, v := range values {
		if a := math.Abs(v); a > max {
			max = a
		}
	}
	return max
}
