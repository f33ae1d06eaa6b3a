package spectral

import (
	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
	"github.com/RyanBlaney/sonido-dasp/algorithms/windowing"
	"github.com/cwbudde/algo-vecmath"
	"github.com/mjibson/go-dsp/fft"
)

// FFT provides whole-signal Fourier transforms of arbitrary length
type FFT struct {
	// No state needed for now
}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the unnormalized DFT of x.
// mjibson/go-dsp handles non-power-of-2 sizes with Bluestein's algorithm.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.FFTReal(x)
}

// ComputeInverse computes the inverse DFT, normalized by 1/len(x)
func (f *FFT) ComputeInverse(x []complex128) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.IFFT(x)
}

// ComputeInverseReal computes the inverse DFT and returns the real part only
func (f *FFT) ComputeInverseReal(x []complex128) []float64 {
	if len(x) == 0 {
		return []float64{}
	}

	result := fft.IFFT(x)
	realResult := make([]float64, len(result))

	for i, val := range result {
		realResult[i] = real(val)
	}

	return realResult
}

// Spectrum returns the forward normalized one-sided spectrum of the whole
// signal at its own length: n/2+1 bins, DC through Nyquist (or the last bin
// below it for odd n). The signal is multiplied by a symmetric window of the
// given kind first; use windowing.Rectangular for none.
func (f *FFT) Spectrum(samples []float64, kind windowing.Kind) ([]complex128, error) {
	n := len(samples)
	if n == 0 {
		return nil, common.NewInvalidParameter("signal", 0, "empty signal")
	}

	w, err := windowing.New(kind, n, false)
	if err != nil {
		return nil, err
	}
	windowed, err := w.Apply(samples)
	if err != nil {
		return nil, err
	}

	full := f.Compute(windowed)
	bins := make([]complex128, n/2+1)
	scale := complex(1/float64(n), 0)
	for k := range bins {
		bins[k] = full[k] * scale
	}
	return bins, nil
}

// InverseSpectrum rebuilds n real samples from a forward normalized
// one-sided spectrum produced by Spectrum.
func (f *FFT) InverseSpectrum(bins []complex128, n int) ([]float64, error) {
	if err := common.RequirePositive("signal length", n); err != nil {
		return nil, err
	}
	if len(bins) != n/2+1 {
		return nil, common.NewShapeError("one-sided spectrum", n/2+1, len(bins))
	}

	// Hermitian extension
	full := make([]complex128, n)
	copy(full, bins)
	for k := len(bins); k < n; k++ {
		c := bins[n-k]
		full[k] = complex(real(c), -imag(c))
	}

	samples := f.ComputeInverseReal(full)
	vecmath.ScaleBlockInPlace(samples, float64(n))
	return samples, nil
}

// MagnitudeSpectrum analyses samples as a single hanning-windowed frame
// padded to a power of two m, and returns the frequency and magnitude of
// bins 0..m/2-1 (the Nyquist bin is dropped).
func MagnitudeSpectrum(sampleRate int, samples []float64, db bool) (freqs, magnitudes []float64, err error) {
	freqs, spectrum, err := singleFrame(sampleRate, samples)
	if err != nil {
		return nil, nil, err
	}
	return freqs, common.Abs(spectrum, db), nil
}

// PhaseSpectrum is MagnitudeSpectrum for the bin angles.
func PhaseSpectrum(sampleRate int, samples []float64, mode common.PhaseMode) (freqs, phases []float64, err error) {
	freqs, spectrum, err := singleFrame(sampleRate, samples)
	if err != nil {
		return nil, nil, err
	}
	return freqs, common.Arg(spectrum, mode), nil
}

func singleFrame(sampleRate int, samples []float64) ([]float64, []complex128, error) {
	if err := common.RequirePositive("sample rate", sampleRate); err != nil {
		return nil, nil, err
	}
	if len(samples) < 2 {
		return nil, nil, common.NewInvalidParameter("signal length", len(samples), "need at least 2 samples")
	}

	window, err := windowing.Generate(windowing.Hanning.String(), len(samples))
	if err != nil {
		return nil, nil, err
	}

	spectrum, err := NewFrameTransform(DropNyquist).Forward(samples, window)
	if err != nil {
		return nil, nil, err
	}

	m := 2 * len(spectrum)
	return frequencyAxis(sampleRate, m, DropNyquist), spectrum, nil
}
