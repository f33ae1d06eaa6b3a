package filters

import (
	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
)

// Typical pre-emphasis coefficients
const (
	SpeechPreEmphasis = 0.97 // ITU-T G.191 recommendation for speech
	MusicPreEmphasis  = 0.95 // Gentler emphasis for music
)

// PreEmphasis designs the first-order high-frequency boost
//
//	H(z) = 1 - α*z^-1
//	y[n] = x[n] - α*x[n-1]
//
// References:
//   - L.R. Rabiner, R.W. Schafer, "Digital Processing of Speech Signals",
//     Prentice-Hall, 1978, Chapter 4
func PreEmphasis(coefficient float64) (*TransferFunction, error) {
	if coefficient <= 0 || coefficient >= 1 {
		return nil, common.NewInvalidParameter("pre-emphasis coefficient", coefficient, "must be in (0, 1)")
	}
	return &TransferFunction{
		B: []float64{1, -coefficient},
		A: []float64{1},
	}, nil
}

// DeEmphasis designs the inverse of PreEmphasis: H(z) = 1 / (1 - α*z^-1)
func DeEmphasis(coefficient float64) (*TransferFunction, error) {
	pre, err := PreEmphasis(coefficient)
	if err != nil {
		return nil, err
	}
	return &TransferFunction{B: pre.A, A: pre.B}, nil
}
