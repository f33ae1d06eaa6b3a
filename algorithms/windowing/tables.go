package windowing

import (
	dspwindow "github.com/mjibson/go-dsp/window"
)

// symmetric returns the symmetric L-point table for k. go-dsp covers the
// cosine-sum and triangular families; kaiser is generated locally.
func symmetric(k Kind, size int) []float64 {
	var coefficients []float64

	switch k {
	case Rectangular:
		coefficients = dspwindow.Rectangular(size)
	case Bartlett:
		coefficients = dspwindow.Bartlett(size)
	case Blackman:
		coefficients = dspwindow.Blackman(size)
	case Hamming:
		coefficients = dspwindow.Hamming(size)
	case Hanning:
		coefficients = dspwindow.Hann(size)
	case Kaiser:
		coefficients = kaiser(size, KaiserBeta)
	}

	// cosine sums land a few ulps below zero at the edges
	for i, c := range coefficients {
		coefficients[i] = min(max(c, 0), 1)
	}

	return coefficients
}

// periodic returns the DFT-even variant: size+1 symmetric points, last one dropped.
func periodic(k Kind, size int) []float64 {
	return symmetric(k, size+1)[:size]
}
