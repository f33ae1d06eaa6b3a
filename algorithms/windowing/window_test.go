package windowing

import (
	"errors"
	"testing"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLength(t *testing.T) {
	for _, kind := range Kinds() {
		for _, size := range []int{1, 2, 3, 7, 64, 255, 1764} {
			symmetricTable, err := Generate(kind.String(), size)
			require.NoError(t, err)
			assert.Len(t, symmetricTable, size, "%s symmetric", kind)

			periodicTable, err := Periodic(kind.String(), size)
			require.NoError(t, err)
			assert.Len(t, periodicTable, size, "%s periodic", kind)
		}
	}
}

func TestGenerateRange(t *testing.T) {
	for _, kind := range Kinds() {
		table, err := Generate(kind.String(), 513)
		require.NoError(t, err)
		for i, c := range table {
			assert.GreaterOrEqual(t, c, 0.0, "%s[%d]", kind, i)
			assert.LessOrEqual(t, c, 1.0, "%s[%d]", kind, i)
		}
	}
}

func TestSymmetricTablesAreSymmetric(t *testing.T) {
	for _, kind := range Kinds() {
		table, err := Generate(kind.String(), 101)
		require.NoError(t, err)
		for i := range table {
			assert.InDelta(t, table[i], table[len(table)-1-i], 1e-12, "%s[%d]", kind, i)
		}
	}
}

func TestPeriodicDropsLastSample(t *testing.T) {
	long, err := Generate("hanning", 9)
	require.NoError(t, err)
	p, err := Periodic("hanning", 8)
	require.NoError(t, err)

	assert.InDeltaSlice(t, long[:8], p, 1e-15)
	assert.InDelta(t, 0.0, p[0], 1e-15)
	assert.InDelta(t, 1.0, p[4], 1e-15)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"hanning", Hanning},
		{"HANNING", Hanning},
		{" Hamming ", Hamming},
		{"hann", Hanning},
		{"rect", Rectangular},
		{"boxcar", Rectangular},
		{"triangular", Bartlett},
		{"Kaiser", Kaiser},
		{"blackman", Blackman},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKind(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnsupportedWindow(t *testing.T) {
	for _, name := range []string{"bogus", "han", "black", "", "hanningx"} {
		_, err := Generate(name, 256)
		var unsupported *UnsupportedWindowError
		require.ErrorAs(t, err, &unsupported, name)
		assert.Equal(t, name, unsupported.Name)
	}
}

func TestInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := Generate("hanning", size)
		assert.True(t, errors.Is(err, common.ErrInvalidParameter))
	}
}

func TestKaiserShape(t *testing.T) {
	table, err := Generate("kaiser", 65)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, table[32], 1e-12)
	assert.InDelta(t, 1/besselI0(KaiserBeta), table[0], 1e-15)
	assert.Less(t, table[0], 1e-4)
}

func TestScaleWOLA(t *testing.T) {
	for _, kind := range Kinds() {
		table, err := Periodic(kind.String(), 1764)
		require.NoError(t, err)
		require.NoError(t, ScaleWOLA(table, 441))
		assert.InDelta(t, 441.0, common.Energy(table), 1e-9, kind.String())
	}
}

func TestScaleWOLARejectsSilentWindow(t *testing.T) {
	err := ScaleWOLA(make([]float64, 8), 2)
	assert.ErrorIs(t, err, common.ErrInvalidParameter)

	err = ScaleWOLA([]float64{1, 1}, 0)
	assert.ErrorIs(t, err, common.ErrInvalidParameter)
}

func TestWindowApply(t *testing.T) {
	w, err := New(Hanning, 4, true)
	require.NoError(t, err)
	assert.True(t, w.IsPeriodic())
	assert.Equal(t, Hanning, w.Kind())
	assert.Equal(t, 4, w.Size())

	out, err := w.Apply([]float64{1, 1, 1, 1})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.5, 1, 0.5}, out, 1e-12)

	_, err = w.Apply([]float64{1, 2, 3})
	var shape *common.ShapeError
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, 4, shape.Expected)
	assert.Equal(t, 3, shape.Actual)

	signal := []float64{2, 2, 2, 2}
	require.NoError(t, w.ApplyInPlace(signal))
	assert.InDeltaSlice(t, []float64{0, 1, 2, 1}, signal, 1e-12)

	coeffs := w.Coefficients()
	coeffs[0] = 42
	assert.NotEqual(t, 42.0, w.Coefficients()[0])
}

func TestKindText(t *testing.T) {
	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("Blackman")))
	assert.Equal(t, Blackman, k)

	text, err := Kaiser.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "kaiser", string(text))

	_, err = Kind(99).MarshalText()
	assert.Error(t, err)
}
