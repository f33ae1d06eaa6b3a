package filters

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
)

// Bandpass designs a constant 0 dB peak gain biquad bandpass filter.
//
// This implementation uses the cookbook formulas from Robert Bristow-Johnson's
// "Cookbook formulae for audio EQ biquad filter coefficients"
// Reference: https://webaudio.github.io/Audio-EQ-Cookbook/audio-eq-cookbook.html
//
// Parameters:
//   - sampleRate: Sample rate in Hz
//   - centerFreq: Center frequency in Hz, below Nyquist
//   - qFactor: Quality factor (centerFreq/bandwidth, higher = narrower)
//
// The returned coefficients are normalized so that A[0] == 1.
func Bandpass(sampleRate int, centerFreq, qFactor float64) (*TransferFunction, error) {
	if err := common.RequirePositive("sample rate", sampleRate); err != nil {
		return nil, err
	}
	if centerFreq <= 0 || centerFreq >= float64(sampleRate)/2 {
		return nil, common.NewInvalidParameter("center frequency", centerFreq,
			fmt.Sprintf("must be between 0 and Nyquist frequency (%d Hz)", sampleRate/2))
	}
	if err := common.RequirePositive("q factor", qFactor); err != nil {
		return nil, err
	}

	// Normalize frequency: w0 = 2*pi*f0/Fs
	w0 := 2.0 * math.Pi * centerFreq / float64(sampleRate)

	cosW0 := math.Cos(w0)
	sinW0 := math.Sin(w0)

	// Alpha parameter: alpha = sin(w0)/(2*Q)
	alpha := sinW0 / (2.0 * qFactor)

	a0 := 1.0 + alpha
	tf := &TransferFunction{
		B: []float64{alpha / a0, 0, -alpha / a0},
		A: []float64{1, -2.0 * cosW0 / a0, (1.0 - alpha) / a0},
	}
	return tf, nil
}

// BandpassWithBandwidth designs the same filter from a bandwidth in Hz.
// The Q factor is calculated as centerFreq/bandwidth.
func BandpassWithBandwidth(sampleRate int, centerFreq, bandwidth float64) (*TransferFunction, error) {
	if err := common.RequirePositive("bandwidth", bandwidth); err != nil {
		return nil, err
	}
	return Bandpass(sampleRate, centerFreq, centerFreq/bandwidth)
}
