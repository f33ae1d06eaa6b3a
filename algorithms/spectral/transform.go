package spectral

import (
	"fmt"
	"strings"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/dsp/fourier"
)

// BoundaryBin selects which of the two real-valued boundary bins (DC, Nyquist)
// gives up its own column so that a spectrum of an m-point frame has m/2 bins.
type BoundaryBin int

const (
	// PackNyquist keeps DC in column 0 and stores the Nyquist value in the
	// imaginary part of that column. Both bins are real for real input, so
	// nothing is lost and Forward/Inverse round-trip exactly.
	PackNyquist BoundaryBin = iota
	// DropNyquist discards the Nyquist bin; Inverse restores it as zero.
	DropNyquist
	// DropDC discards the DC bin; Inverse restores it as zero. Columns hold bins 1..m/2.
	DropDC
)

var boundaryNames = [...]string{
	PackNyquist: "pack-nyquist",
	DropNyquist: "drop-nyquist",
	DropDC:      "drop-dc",
}

func (b BoundaryBin) String() string {
	if b < 0 || int(b) >= len(boundaryNames) {
		return fmt.Sprintf("BoundaryBin(%d)", int(b))
	}
	return boundaryNames[b]
}

// ParseBoundaryBin resolves a boundary convention by its case-insensitive name.
func ParseBoundaryBin(name string) (BoundaryBin, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for b, n := range boundaryNames {
		if n == key {
			return BoundaryBin(b), nil
		}
	}
	return 0, common.NewInvalidParameter("boundary", name, "expected pack-nyquist, drop-nyquist or drop-dc")
}

// MarshalText implements encoding.TextMarshaler
func (b BoundaryBin) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (b *BoundaryBin) UnmarshalText(text []byte) error {
	parsed, err := ParseBoundaryBin(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// FirstBin returns the DFT bin index held by column 0.
func (b BoundaryBin) FirstBin() int {
	if b == DropDC {
		return 1
	}
	return 0
}

// FrameTransform converts a single real frame to a power-of-two, forward
// normalized half spectrum and back. It caches its FFT plan, so a
// FrameTransform must not be shared between goroutines.
type FrameTransform struct {
	boundary BoundaryBin
	plan     *fourier.FFT
}

// NewFrameTransform creates a frame transform with the given boundary convention
func NewFrameTransform(boundary BoundaryBin) *FrameTransform {
	return &FrameTransform{boundary: boundary}
}

// Boundary returns the boundary-bin convention of this transform
func (t *FrameTransform) Boundary() BoundaryBin {
	return t.boundary
}

func (t *FrameTransform) planFor(m int) *fourier.FFT {
	if t.plan == nil {
		t.plan = fourier.NewFFT(m)
	} else if t.plan.Len() != m {
		t.plan.Reset(m)
	}
	return t.plan
}

// Forward windows frame (when window is non-nil), zero-pads it to the next
// power of two m, and returns m/2 complex bins normalized by 1/m.
func (t *FrameTransform) Forward(frame, window []float64) ([]complex128, error) {
	n := len(frame)
	if n < 2 {
		return nil, common.NewInvalidParameter("frame length", n, "need at least 2 samples")
	}
	if window != nil && len(window) != n {
		return nil, common.NewShapeError("frame window", n, len(window))
	}

	m := common.NextPowerOfTwo(n)
	padded := make([]float64, m)
	copy(padded, frame)
	if window != nil {
		vecmath.MulBlockInPlace(padded[:n], window)
	}

	coeffs := t.planFor(m).Coefficients(nil, padded)
	half := m / 2
	scale := complex(1/float64(m), 0)
	spectrum := make([]complex128, half)

	switch t.boundary {
	case DropNyquist:
		for k := range half {
			spectrum[k] = coeffs[k] * scale
		}
	case DropDC:
		for k := 1; k <= half; k++ {
			spectrum[k-1] = coeffs[k] * scale
		}
	default:
		spectrum[0] = complex(real(coeffs[0]), real(coeffs[half])) * scale
		for k := 1; k < half; k++ {
			spectrum[k] = coeffs[k] * scale
		}
	}

	return spectrum, nil
}

// Inverse restores the boundary bin and returns the m = 2*len(spectrum) real
// samples. With norm set the spectrum is taken to be forward normalized, as
// Forward produces it; otherwise it is taken to be unnormalized.
func (t *FrameTransform) Inverse(spectrum []complex128, norm bool) ([]float64, error) {
	half := len(spectrum)
	if half < 1 {
		return nil, common.NewInvalidParameter("spectrum length", half, "must be positive")
	}

	m := 2 * half
	coeffs := make([]complex128, half+1)

	switch t.boundary {
	case DropNyquist:
		copy(coeffs, spectrum)
	case DropDC:
		copy(coeffs[1:], spectrum)
	default:
		coeffs[0] = complex(real(spectrum[0]), 0)
		coeffs[half] = complex(imag(spectrum[0]), 0)
		copy(coeffs[1:half], spectrum[1:])
	}

	// fourier.Sequence is the unnormalized backward transform: a forward
	// normalized spectrum inverts directly, an unnormalized one needs 1/m.
	samples := t.planFor(m).Sequence(nil, coeffs)
	if !norm {
		vecmath.ScaleBlockInPlace(samples, 1/float64(m))
	}

	return samples, nil
}
