package filters

import (
	"math"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
)

// DefaultDCPole is the standard pole location for audio, a cutoff of about
// 35 Hz at 44.1 kHz.
const DefaultDCPole = 0.995

// DCBlocker designs a DC blocking filter (high-pass filter) with the pole at R.
//
//	H(z) = (1 - z^-1) / (1 - R*z^-1)
//	y[n] = x[n] - x[n-1] + R * y[n-1]
//
// References:
//   - Julius O. Smith III, "Introduction to Digital Filters with Audio Applications"
//     https://ccrma.stanford.edu/~jos/filters/DC_Blocker.html
//
// Closer to 1 = lower cutoff frequency (more DC blocking).
func DCBlocker(poleLocation float64) (*TransferFunction, error) {
	if poleLocation <= 0 || poleLocation >= 1 {
		return nil, common.NewInvalidParameter("pole location", poleLocation, "must be in (0, 1)")
	}
	return &TransferFunction{
		B: []float64{1, -1},
		A: []float64{1, -poleLocation},
	}, nil
}

// DCBlockerWithCutoff designs a DC blocker for a -3dB cutoff frequency.
//
// The pole location R is calculated as:
// R = 1 - 2*pi*fc/fs
// This is valid for small cutoff frequencies (fc << fs/2).
func DCBlockerWithCutoff(sampleRate int, cutoffFreq float64) (*TransferFunction, error) {
	if err := common.RequirePositive("sample rate", sampleRate); err != nil {
		return nil, err
	}
	if err := common.RequirePositive("cutoff frequency", cutoffFreq); err != nil {
		return nil, err
	}

	pole := 1.0 - (2.0 * math.Pi * cutoffFreq / float64(sampleRate))

	// Clamp to valid range
	pole = common.Clamp(pole, 0.001, 0.999)

	return DCBlocker(pole)
}

// DCCutoffFrequency inverts the design formula: fc ≈ (1-R)*fs/(2*pi)
func DCCutoffFrequency(sampleRate int, poleLocation float64) float64 {
	return (1.0 - poleLocation) * float64(sampleRate) / (2.0 * math.Pi)
}
