package spectral

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noise(n int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	x := make([]float64, n)
	for i := range x {
		x[i] = 2*rng.Float64() - 1
	}
	return x
}

func cosine(n int, bin int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Cos(2 * math.Pi * float64(bin*i) / float64(n))
	}
	return x
}

func TestFrameTransformRoundTrip(t *testing.T) {
	for _, n := range []int{2, 8, 256, 2048} {
		x := noise(n, uint64(n))
		transform := NewFrameTransform(PackNyquist)

		spectrum, err := transform.Forward(x, nil)
		require.NoError(t, err)
		assert.Len(t, spectrum, n/2)

		y, err := transform.Inverse(spectrum, true)
		require.NoError(t, err)
		assert.InDeltaSlice(t, x, y, 1e-12, "n=%d", n)
	}
}

func TestFrameTransformPadsToPowerOfTwo(t *testing.T) {
	x := noise(100, 7)
	transform := NewFrameTransform(PackNyquist)

	spectrum, err := transform.Forward(x, nil)
	require.NoError(t, err)
	assert.Len(t, spectrum, 64)

	y, err := transform.Inverse(spectrum, true)
	require.NoError(t, err)
	require.Len(t, y, 128)
	assert.InDeltaSlice(t, x, y[:100], 1e-12)
	assert.InDeltaSlice(t, make([]float64, 28), y[100:], 1e-12)
}

func TestFrameTransformNormalization(t *testing.T) {
	transform := NewFrameTransform(DropNyquist)

	spectrum, err := transform.Forward(cosine(64, 5), nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, real(spectrum[5]), 1e-12)
	assert.InDelta(t, 0.0, imag(spectrum[5]), 1e-12)

	unnormalized := make([]complex128, len(spectrum))
	for k, v := range spectrum {
		unnormalized[k] = v * 64
	}
	y, err := transform.Inverse(unnormalized, false)
	require.NoError(t, err)
	assert.InDeltaSlice(t, cosine(64, 5), y, 1e-12)
}

func TestFrameTransformBoundaryBins(t *testing.T) {
	const n = 32
	nyquist := cosine(n, n/2)
	dc := make([]float64, n)
	for i := range dc {
		dc[i] = 0.25
	}
	mixed := cosine(n, 3)

	tests := []struct {
		boundary BoundaryBin
		input    []float64
		want     []float64
	}{
		{PackNyquist, nyquist, nyquist},
		{PackNyquist, dc, dc},
		{DropNyquist, nyquist, make([]float64, n)},
		{DropNyquist, dc, dc},
		{DropNyquist, mixed, mixed},
		{DropDC, dc, make([]float64, n)},
		{DropDC, nyquist, nyquist},
		{DropDC, mixed, mixed},
	}

	for _, tt := range tests {
		t.Run(tt.boundary.String(), func(t *testing.T) {
			transform := NewFrameTransform(tt.boundary)
			spectrum, err := transform.Forward(tt.input, nil)
			require.NoError(t, err)
			assert.Len(t, spectrum, n/2)

			y, err := transform.Inverse(spectrum, true)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, y, 1e-12)
		})
	}
}

func TestFrameTransformDropDCColumns(t *testing.T) {
	spectrum, err := NewFrameTransform(DropDC).Forward(cosine(16, 8), nil)
	require.NoError(t, err)
	// column j holds bin j+1, so Nyquist lands in the last column
	assert.InDelta(t, 1.0, real(spectrum[7]), 1e-12)
}

func TestFrameTransformWindow(t *testing.T) {
	transform := NewFrameTransform(PackNyquist)
	x := []float64{1, 2, 3, 4}

	spectrum, err := transform.Forward(x, []float64{0, 1, 1, 0})
	require.NoError(t, err)
	y, err := transform.Inverse(spectrum, true)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 2, 3, 0}, y, 1e-12)
	assert.Equal(t, []float64{1, 2, 3, 4}, x)

	_, err = transform.Forward(x, []float64{1, 1})
	assert.ErrorIs(t, err, common.ErrShape)

	_, err = transform.Forward([]float64{1}, nil)
	assert.ErrorIs(t, err, common.ErrInvalidParameter)

	_, err = transform.Inverse(nil, true)
	assert.ErrorIs(t, err, common.ErrInvalidParameter)
}

func TestBoundaryBinText(t *testing.T) {
	for _, b := range []BoundaryBin{PackNyquist, DropNyquist, DropDC} {
		text, err := b.MarshalText()
		require.NoError(t, err)

		var parsed BoundaryBin
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, b, parsed)
	}

	_, err := ParseBoundaryBin("nyquist")
	assert.ErrorIs(t, err, common.ErrInvalidParameter)
}
