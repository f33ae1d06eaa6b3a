package common

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"
	"github.com/mjibson/go-dsp/dsputils"
	"gonum.org/v1/gonum/floats"
)

// IsPowerOfTwo checks if n is a power of 2
func IsPowerOfTwo(n int) bool {
	return n > 0 && dsputils.IsPowerOf2(n)
}

// NextPowerOfTwo finds the next power of 2 >= n
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return dsputils.NextPowerOf2(n)
}

// NextEven rounds x to the nearest integer and bumps odd results up by one.
// Rounding first keeps products like 0.04*44100 from landing one step too high.
func NextEven(x float64) int {
	n := int(math.Round(x))
	if n%2 != 0 {
		n++
	}
	return n
}

// NextOdd rounds x to the nearest integer and bumps even results up by one.
func NextOdd(x float64) int {
	n := int(math.Round(x))
	if n%2 == 0 {
		n++
	}
	return n
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Norm(data, 2) / math.Sqrt(float64(len(data)))
}

// Energy returns sum(x^2).
func Energy(data []float64) float64 {
	return vecmath.DotProduct(data, data)
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Decibels converts a linear amplitude to 20*log10(x).
func Decibels(x float64) float64 {
	return 20 * math.Log10(x)
}

// Abs returns |x| for every element, in decibels when db is set.
func Abs(x []complex128, db bool) []float64 {
	re := make([]float64, len(x))
	im := make([]float64, len(x))
	for i, v := range x {
		re[i], im[i] = real(v), imag(v)
	}

	out := make([]float64, len(x))
	vecmath.Magnitude(out, re, im)

	if db {
		for i, v := range out {
			out[i] = Decibels(v)
		}
	}
	return out
}

// PhaseMode selects how Arg post-processes the angles.
type PhaseMode int

const (
	// PhaseRaw returns atan2 angles as they are, in (-pi, pi].
	PhaseRaw PhaseMode = iota
	// PhaseWrapped maps every angle into [-pi, pi).
	PhaseWrapped
	// PhaseUnwrapped removes 2*pi jumps between consecutive elements.
	PhaseUnwrapped
)

// Arg returns the angle of every element of x.
func Arg(x []complex128, mode PhaseMode) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = cmplx.Phase(v)
	}

	switch mode {
	case PhaseWrapped:
		for i, v := range out {
			out[i] = Wrap(v)
		}
	case PhaseUnwrapped:
		Unwrap(out)
	}
	return out
}

// Wrap maps an angle into [-pi, pi).
func Wrap(phase float64) float64 {
	w := math.Mod(phase+math.Pi, 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	return w - math.Pi
}

// Unwrap removes discontinuities larger than pi between consecutive phases, in place.
func Unwrap(phase []float64) {
	offset := 0.0
	for i := 1; i < len(phase); i++ {
		delta := phase[i] + offset - phase[i-1]
		if delta > math.Pi {
			offset -= 2 * math.Pi * math.Ceil((delta-math.Pi)/(2*math.Pi))
		} else if delta < -math.Pi {
			offset += 2 * math.Pi * math.Ceil((-delta-math.Pi)/(2*math.Pi))
		}
		phase[i] += offset
	}
}
