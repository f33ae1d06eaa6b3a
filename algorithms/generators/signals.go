// Package generators produces synthetic test signals sampled on a timeline.
package generators

import (
	"math"
	"math/rand/v2"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
	"gonum.org/v1/gonum/floats"
)

// Timeline returns the sample instants 0, 1/sr, 2/sr, ... strictly below
// duration seconds.
func Timeline(duration float64, sampleRate int) ([]float64, error) {
	if err := common.RequirePositive("duration", duration); err != nil {
		return nil, err
	}
	if err := common.RequirePositive("sample rate", sampleRate); err != nil {
		return nil, err
	}

	// tolerate products like 0.1*44100 landing a hair above an integer
	n := int(math.Ceil(duration*float64(sampleRate) - 1e-9))
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i) / float64(sampleRate)
	}
	return t, nil
}

// Harmonic returns sin(2*pi*f*t)
func Harmonic(f float64, t []float64) []float64 {
	return apply(t, func(x float64) float64 {
		return math.Sin(2 * math.Pi * f * x)
	})
}

// Square returns the sign of Harmonic, so exact zero crossings stay 0
func Square(f float64, t []float64) []float64 {
	out := Harmonic(f, t)
	for i, v := range out {
		switch {
		case v > 0:
			out[i] = 1
		case v < 0:
			out[i] = -1
		}
	}
	return out
}

// Sawtooth rises from -1 to 1 once per period, crossing zero at integer periods
func Sawtooth(f float64, t []float64) []float64 {
	return apply(t, func(x float64) float64 {
		return 2 * (f*x - math.Floor(f*x+0.5))
	})
}

// Triangle returns 2*|Sawtooth| - 1
func Triangle(f float64, t []float64) []float64 {
	out := Sawtooth(f, t)
	for i, v := range out {
		out[i] = 2*math.Abs(v) - 1
	}
	return out
}

// Chirp sweeps linearly from f0 at t[0] to f1 at the last instant of t.
func Chirp(f0, f1 float64, t []float64) []float64 {
	if len(t) == 0 {
		return []float64{}
	}
	start := t[0]
	span := t[len(t)-1] - start
	if span <= 0 {
		span = 1
	}
	rate := (f1 - f0) / span

	return apply(t, func(x float64) float64 {
		tau := x - start
		return math.Sin(2 * math.Pi * (f0*tau + rate*tau*tau/2))
	})
}

// Noise returns uniform white noise in [-1, 1) with one sample per instant.
// Pass a seeded source for reproducible output.
func Noise(t []float64, rng *rand.Rand) []float64 {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	out := make([]float64, len(t))
	for i := range out {
		out[i] = 2*rng.Float64() - 1
	}
	return out
}

// Scale multiplies a generated signal by amplitude in place and returns it
func Scale(x []float64, amplitude float64) []float64 {
	floats.Scale(amplitude, x)
	return x
}

func apply(t []float64, fn func(float64) float64) []float64 {
	out := make([]float64, len(t))
	for i, x := range t {
		out[i] = fn(x)
	}
	return out
}
