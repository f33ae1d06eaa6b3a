// Package windowing provides the window tables used for framing and
// overlap-add resynthesis.
package windowing

import (
	"math"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
	"github.com/cwbudde/algo-vecmath"
)

// Window holds a generated coefficient table
type Window struct {
	kind         Kind
	periodic     bool
	coefficients []float64
}

// New creates a window of the given kind and size. Periodic windows satisfy
// DFT periodicity and are the ones to use for STFT framing.
func New(kind Kind, size int, periodicTable bool) (*Window, error) {
	if !kind.Valid() {
		return nil, &UnsupportedWindowError{Name: kind.String()}
	}
	if err := common.RequirePositive("window size", size); err != nil {
		return nil, err
	}

	w := &Window{
		kind:     kind,
		periodic: periodicTable,
	}
	if periodicTable {
		w.coefficients = periodic(kind, size)
	} else {
		w.coefficients = symmetric(kind, size)
	}
	return w, nil
}

// Generate returns the symmetric table for a named window.
func Generate(name string, size int) ([]float64, error) {
	return generate(name, size, false)
}

// Periodic returns the periodic table for a named window.
func Periodic(name string, size int) ([]float64, error) {
	return generate(name, size, true)
}

func generate(name string, size int, periodicTable bool) ([]float64, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	w, err := New(kind, size, periodicTable)
	if err != nil {
		return nil, err
	}
	return w.coefficients, nil
}

// ScaleWOLA rescales coefficients in place so that sum(w^2) == hop. Analysis
// and synthesis windows scaled this way overlap-add to unity gain at stride hop.
func ScaleWOLA(coefficients []float64, hop int) error {
	if err := common.RequirePositive("hop size", hop); err != nil {
		return err
	}

	energy := common.Energy(coefficients)
	if energy == 0 {
		return common.NewInvalidParameter("window energy", energy, "cannot scale an all-zero window")
	}

	vecmath.ScaleBlockInPlace(coefficients, math.Sqrt(float64(hop)/energy))
	return nil
}

// ScaleWOLA rescales this window in place, see the package-level ScaleWOLA.
func (w *Window) ScaleWOLA(hop int) error {
	return ScaleWOLA(w.coefficients, hop)
}

// Apply applies the window to a signal (creates new array)
func (w *Window) Apply(signal []float64) ([]float64, error) {
	if len(signal) != len(w.coefficients) {
		return nil, common.NewShapeError("window apply", len(w.coefficients), len(signal))
	}

	windowed := make([]float64, len(signal))
	vecmath.MulBlock(windowed, signal, w.coefficients)
	return windowed, nil
}

// ApplyInPlace applies the window to a signal in-place
func (w *Window) ApplyInPlace(signal []float64) error {
	if len(signal) != len(w.coefficients) {
		return common.NewShapeError("window apply", len(w.coefficients), len(signal))
	}

	vecmath.MulBlockInPlace(signal, w.coefficients)
	return nil
}

// Coefficients returns a copy of the window coefficients
func (w *Window) Coefficients() []float64 {
	coeffs := make([]float64, len(w.coefficients))
	copy(coeffs, w.coefficients)
	return coeffs
}

// Size returns the window size
func (w *Window) Size() int {
	return len(w.coefficients)
}

// Kind returns the window kind
func (w *Window) Kind() Kind {
	return w.kind
}

// IsPeriodic reports whether the table is the periodic variant
func (w *Window) IsPeriodic() bool {
	return w.periodic
}
