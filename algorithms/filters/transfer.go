// Package filters analyses and applies rational transfer functions
// H(z) = B(z) / A(z) with coefficients in ascending powers of z^-1.
package filters

import (
	"math"
	"math/cmplx"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
	"gonum.org/v1/gonum/floats"
)

// TransferFunction holds numerator and denominator coefficients.
//
//	H(z) = (B[0] + B[1]z^-1 + ... ) / (A[0] + A[1]z^-1 + ...)
type TransferFunction struct {
	B []float64 `json:"b"`
	A []float64 `json:"a"`
}

// NewTransferFunction validates and copies the coefficients. A must have a
// non-zero leading coefficient; an empty A means A = [1] (FIR).
func NewTransferFunction(b, a []float64) (*TransferFunction, error) {
	if len(b) == 0 {
		return nil, common.NewInvalidParameter("numerator", 0, "need at least one coefficient")
	}
	if len(a) == 0 {
		a = []float64{1}
	}
	if a[0] == 0 {
		return nil, common.NewInvalidParameter("a[0]", a[0], "leading denominator coefficient must be non-zero")
	}

	return &TransferFunction{
		B: append([]float64(nil), b...),
		A: append([]float64(nil), a...),
	}, nil
}

// Normalized returns a copy scaled so that A[0] == 1.
func (tf *TransferFunction) Normalized() *TransferFunction {
	a0 := tf.A[0]
	b := append([]float64(nil), tf.B...)
	a := append([]float64(nil), tf.A...)
	floats.Scale(1/a0, b)
	floats.Scale(1/a0, a)
	return &TransferFunction{B: b, A: a}
}

// Order returns the larger of the numerator and denominator degrees
func (tf *TransferFunction) Order() int {
	return max(len(tf.B), len(tf.A)) - 1
}

// Zeros returns the roots of the numerator in the z-plane, sorted by real
// then imaginary part.
func (tf *TransferFunction) Zeros() ([]complex128, error) {
	b, _ := tf.equalLength()
	return Roots(b)
}

// Poles returns the roots of the denominator in the z-plane, sorted by real
// then imaginary part.
func (tf *TransferFunction) Poles() ([]complex128, error) {
	_, a := tf.equalLength()
	return Roots(a)
}

// equalLength pads the shorter polynomial with trailing zeros so both are
// expressed in the same positive powers of z.
func (tf *TransferFunction) equalLength() (b, a []float64) {
	n := max(len(tf.B), len(tf.A))
	b = make([]float64, n)
	a = make([]float64, n)
	copy(b, tf.B)
	copy(a, tf.A)
	return b, a
}

// Stable reports whether every pole lies strictly inside the unit circle
func (tf *TransferFunction) Stable() (bool, error) {
	poles, err := tf.Poles()
	if err != nil {
		return false, err
	}
	for _, p := range poles {
		if cmplx.Abs(p) >= 1 {
			return false, nil
		}
	}
	return true, nil
}

// Response evaluates H at normalized angular frequency w (radians per sample).
func (tf *TransferFunction) Response(w float64) complex128 {
	z := cmplx.Exp(complex(0, -w))
	return horner(tf.B, z) / horner(tf.A, z)
}

// horner evaluates sum(c[k] * z^k)
func horner(c []float64, z complex128) complex128 {
	var acc complex128
	for k := len(c) - 1; k >= 0; k-- {
		acc = acc*z + complex(c[k], 0)
	}
	return acc
}

// FrequencyResponse evaluates H at n frequencies in [0, sampleRate/2),
// linearly spaced from DC or, with logScale, logarithmically spaced from
// sampleRate/(2n). It returns the frequencies in hertz and the complex response.
func (tf *TransferFunction) FrequencyResponse(sampleRate, n int, logScale bool) ([]float64, []complex128, error) {
	if err := common.RequirePositive("sample rate", sampleRate); err != nil {
		return nil, nil, err
	}
	if err := common.RequirePositive("points", n); err != nil {
		return nil, nil, err
	}

	omegas := make([]float64, n)
	switch {
	case logScale && n == 1:
		omegas[0] = math.Pi / 2
	case logScale:
		// pi/n up to, but excluding, pi
		floats.LogSpan(omegas, math.Pi/float64(n), math.Pi*math.Pow(1/float64(n), 1/float64(n)))
	default:
		for k := range omegas {
			omegas[k] = math.Pi * float64(k) / float64(n)
		}
	}

	freqs := make([]float64, n)
	response := make([]complex128, n)
	for k, w := range omegas {
		freqs[k] = w * float64(sampleRate) / (2 * math.Pi)
		response[k] = tf.Response(w)
	}
	return freqs, response, nil
}

// Impulse returns the first n samples of the impulse response
func (tf *TransferFunction) Impulse(n int) ([]float64, error) {
	if err := common.RequirePositive("samples", n); err != nil {
		return nil, err
	}
	delta := make([]float64, n)
	delta[0] = 1
	return tf.Filter(delta), nil
}

// Filter runs x through the difference equation from a zero state.
func (tf *TransferFunction) Filter(x []float64) []float64 {
	return NewProcessor(tf).ProcessBuffer(x)
}

// Processor applies a transfer function sample by sample using the
// transposed direct form II structure. It keeps state between calls.
type Processor struct {
	b, a  []float64
	state []float64
}

// NewProcessor creates a processor with a zeroed delay line
func NewProcessor(tf *TransferFunction) *Processor {
	norm := tf.Normalized()
	b, a := norm.equalLength()
	return &Processor{
		b:     b,
		a:     a,
		state: make([]float64, len(b)),
	}
}

// Process filters a single sample.
//
// y[n] = b0*x[n] + s1
// s_k  = b_k*x[n] - a_k*y[n] + s_{k+1}
func (p *Processor) Process(input float64) float64 {
	last := len(p.b) - 1
	if last == 0 {
		return p.b[0] * input
	}

	output := p.b[0]*input + p.state[1]
	for k := 1; k < last; k++ {
		p.state[k] = p.b[k]*input - p.a[k]*output + p.state[k+1]
	}
	p.state[last] = p.b[last]*input - p.a[last]*output

	return output
}

// ProcessBuffer filters an entire buffer of samples
func (p *Processor) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = p.Process(sample)
	}
	return output
}

// Reset clears the delay line.
// Call this when processing discontinuous audio segments.
func (p *Processor) Reset() {
	clear(p.state)
}
