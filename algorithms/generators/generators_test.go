package generators

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeline(t *testing.T) {
	tl, err := Timeline(1, 44100)
	require.NoError(t, err)
	assert.Len(t, tl, 44100)
	assert.Equal(t, 0.0, tl[0])
	assert.InDelta(t, 1.0/44100, tl[1], 1e-15)

	tl, err = Timeline(0.1, 44100)
	require.NoError(t, err)
	assert.Len(t, tl, 4410)

	tl, err = Timeline(0.25, 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.1, 0.2}, tl)

	_, err = Timeline(0, 44100)
	assert.ErrorIs(t, err, common.ErrInvalidParameter)
	_, err = Timeline(1, 0)
	assert.ErrorIs(t, err, common.ErrInvalidParameter)
}

func TestWaveforms(t *testing.T) {
	tl := []float64{0, 0.125, 0.25, 0.375, 0.5, 0.625, 0.75, 0.875}

	assert.InDeltaSlice(t, []float64{0, math.Sqrt2 / 2, 1, math.Sqrt2 / 2, 0, -math.Sqrt2 / 2, -1, -math.Sqrt2 / 2},
		Harmonic(1, tl), 1e-12)
	assert.Equal(t, []float64{0, 1, 1, 1, 1, -1, -1, -1}, Square(1, tl))
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75, -1, -0.75, -0.5, -0.25}, Sawtooth(1, tl), 1e-12)
	assert.InDeltaSlice(t, []float64{-1, -0.5, 0, 0.5, 1, 0.5, 0, -0.5}, Triangle(1, tl), 1e-12)
}

func TestSquareIsSignOfHarmonic(t *testing.T) {
	tl, err := Timeline(0.01, 8000)
	require.NoError(t, err)
	h := Harmonic(440, tl)
	for i, v := range Square(440, tl) {
		if h[i] == 0 {
			assert.Zero(t, v)
			continue
		}
		assert.Equal(t, math.Copysign(1, h[i]), v, "i=%d", i)
	}
}

func TestChirpSweep(t *testing.T) {
	tl, err := Timeline(1, 8000)
	require.NoError(t, err)
	x := Chirp(100, 1000, tl)
	require.Len(t, x, len(tl))

	// zero crossings per 100 ms window increase with the sweep
	crossings := func(seg []float64) int {
		n := 0
		for i := 1; i < len(seg); i++ {
			if (seg[i-1] < 0) != (seg[i] < 0) {
				n++
			}
		}
		return n
	}
	assert.Less(t, crossings(x[:800]), crossings(x[7200:]))
	// 100 Hz rising to 190 Hz: about 14.5 cycles
	assert.InDelta(t, 29, crossings(x[:800]), 3)

	assert.Empty(t, Chirp(1, 2, nil))
}

func TestNoiseReproducible(t *testing.T) {
	tl := make([]float64, 1000)
	a := Noise(tl, rand.New(rand.NewPCG(1, 2)))
	b := Noise(tl, rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, a, b)
	for _, v := range a {
		assert.GreaterOrEqual(t, v, -1.0)
		assert.Less(t, v, 1.0)
	}
	assert.Len(t, Noise(tl, nil), 1000)
}

func TestGenerate(t *testing.T) {
	tl, x, err := Generate(Spec{Kind: KindHarmonic, Frequency: 2, Duration: 1, SampleRate: 8, Amplitude: 0.5})
	require.NoError(t, err)
	assert.Len(t, tl, 8)
	assert.InDelta(t, 0.5, x[1], 1e-12)

	_, x1, err := Generate(Spec{Kind: KindNoise, Duration: 0.01, SampleRate: 8000, Seed: 3})
	require.NoError(t, err)
	_, x2, err := Generate(Spec{Kind: KindNoise, Duration: 0.01, SampleRate: 8000, Seed: 3})
	require.NoError(t, err)
	assert.Equal(t, x1, x2)

	_, _, err = Generate(Spec{Kind: KindChirp, Frequency: 100, Duration: 1, SampleRate: 8000})
	assert.ErrorIs(t, err, common.ErrInvalidParameter)

	_, _, err = Generate(Spec{Kind: KindSquare, Duration: 1, SampleRate: 8000})
	assert.ErrorIs(t, err, common.ErrInvalidParameter)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Sawtooth")
	require.NoError(t, err)
	assert.Equal(t, KindSawtooth, k)

	k, err = ParseKind("sine")
	require.NoError(t, err)
	assert.Equal(t, KindHarmonic, k)

	_, err = ParseKind("saw")
	assert.ErrorIs(t, err, common.ErrInvalidParameter)
}
