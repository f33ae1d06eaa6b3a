package common

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPowerOfTwo(t *testing.T) {
	tests := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 1024: 1024, 1025: 2048, 1764: 2048}
	for n, want := range tests {
		assert.Equal(t, want, NextPowerOfTwo(n), "n=%d", n)
	}

	assert.True(t, IsPowerOfTwo(2048))
	assert.False(t, IsPowerOfTwo(1764))
	assert.False(t, IsPowerOfTwo(0))
}

func TestNextEven(t *testing.T) {
	assert.Equal(t, 1764, NextEven(0.04*44100))
	assert.Equal(t, 4410, NextEven(0.1*44100))
	assert.Equal(t, 4, NextEven(3.2))
	assert.Equal(t, 4, NextEven(3.6))
	assert.Equal(t, 0, NextEven(0.2))

	assert.Equal(t, 5, NextOdd(4))
	assert.Equal(t, 3, NextOdd(2.6))
}

func TestRMSAndEnergy(t *testing.T) {
	assert.Equal(t, 0.0, RMS(nil))
	assert.InDelta(t, 1.0, RMS([]float64{1, -1, 1, -1}), 1e-15)
	assert.InDelta(t, 25.0, Energy([]float64{3, 4}), 1e-15)
}

func TestAbs(t *testing.T) {
	x := []complex128{3 + 4i, -1, 0.1i}
	assert.InDeltaSlice(t, []float64{5, 1, 0.1}, Abs(x, false), 1e-12)
	assert.InDeltaSlice(t, []float64{20 * math.Log10(5), 0, -20}, Abs(x, true), 1e-12)
}

func TestArgModes(t *testing.T) {
	x := []complex128{1, 1i, -1, -1i}
	assert.InDeltaSlice(t, []float64{0, math.Pi / 2, math.Pi, -math.Pi / 2}, Arg(x, PhaseRaw), 1e-12)
	assert.InDeltaSlice(t, []float64{0, math.Pi / 2, -math.Pi, -math.Pi / 2}, Arg(x, PhaseWrapped), 1e-12)
	assert.InDeltaSlice(t, []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}, Arg(x, PhaseUnwrapped), 1e-12)
}

func TestUnwrapLinearPhase(t *testing.T) {
	const step = 2.5
	phase := make([]float64, 50)
	for i := range phase {
		phase[i] = Wrap(step * float64(i))
	}
	Unwrap(phase)
	for i, p := range phase {
		assert.InDelta(t, step*float64(i), p, 1e-9, "i=%d", i)
	}
}

func TestAccumulator(t *testing.T) {
	acc := NewAccumulator(6)
	require.NoError(t, acc.AddAt(0, []float64{1, 1, 1}))
	require.NoError(t, acc.AddAt(2, []float64{1, 1, 1}))
	assert.Equal(t, []float64{1, 1, 2, 1, 1, 0}, acc.Samples())

	assert.Error(t, acc.AddAt(4, []float64{1, 1, 1}))
	assert.Error(t, acc.AddAt(-1, []float64{1}))

	acc.Reset()
	assert.Equal(t, make([]float64, 6), acc.Samples())
	assert.Equal(t, 6, acc.Len())
}

func TestErrors(t *testing.T) {
	err := RequirePositive("hop", 0)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	var invalid *InvalidParameterError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "hop", invalid.Name)

	assert.ErrorIs(t, RequirePositive("rate", math.NaN()), ErrInvalidParameter)
	assert.NoError(t, RequirePositive("rate", 0.5))

	shape := NewShapeError("window", 4, 3)
	assert.ErrorIs(t, shape, ErrShape)
	assert.NotErrorIs(t, shape, ErrInvalidParameter)
	assert.Contains(t, shape.Error(), "expected length 4, got 3")
}
