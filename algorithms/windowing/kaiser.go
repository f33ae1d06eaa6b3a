package windowing

import (
	"math"
)

// kaiser creates symmetric Kaiser window coefficients
func kaiser(size int, beta float64) []float64 {
	coefficients := make([]float64, size)
	if size == 1 {
		coefficients[0] = 1
		return coefficients
	}

	denominator := float64(size - 1)

	// Calculate I0(beta) for normalization
	i0Beta := besselI0(beta)

	for i := range size {
		arg := 2.0*float64(i)/denominator - 1.0
		coefficients[i] = besselI0(beta*math.Sqrt(math.Max(0, 1-arg*arg))) / i0Beta
	}

	return coefficients
}

// besselI0 computes the zero-order modified Bessel function of the first kind
// by its power series.
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0

	for i := 1; i < 100; i++ {
		half := x / (2.0 * float64(i))
		term *= half * half
		sum += term

		// Check for convergence
		if term < 1e-16*sum {
			break
		}
	}

	return sum
}
