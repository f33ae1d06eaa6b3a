package spectral

import (
	"fmt"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
)

// Spectrogram holds the result of STFT analysis: one row of FFTSize/2 bins
// per retained hop, the hop timestamps and the frequency of every column.
type Spectrogram struct {
	Bins        [][]complex128 `json:"-"`
	Timestamps  []float64      `json:"timestamps"`  // seconds, one per row
	Frequencies []float64      `json:"frequencies"` // hertz, one per column
	SampleRate  int            `json:"sample_rate"`
	HopSize     int            `json:"hop_size"`
	FrameSize   int            `json:"frame_size"`
	FFTSize     int            `json:"fft_size"`
	Boundary    BoundaryBin    `json:"boundary"`
}

// Rows returns the number of hops
func (s *Spectrogram) Rows() int {
	return len(s.Bins)
}

// Columns returns the number of bins per row. It is defined even when there are no rows.
func (s *Spectrogram) Columns() int {
	return s.FFTSize / 2
}

// Validate checks that timestamps, frequencies and every row agree with the matrix shape.
func (s *Spectrogram) Validate() error {
	if len(s.Timestamps) != s.Rows() {
		return common.NewShapeError("timestamps", s.Rows(), len(s.Timestamps))
	}
	if len(s.Frequencies) != s.Columns() {
		return common.NewShapeError("frequencies", s.Columns(), len(s.Frequencies))
	}
	for i, row := range s.Bins {
		if len(row) != s.Columns() {
			return fmt.Errorf("row %d: %w", i, common.NewShapeError("spectrogram row", s.Columns(), len(row)))
		}
	}
	return nil
}

// Magnitude returns |bin| for every cell, in decibels when db is set.
func (s *Spectrogram) Magnitude(db bool) [][]float64 {
	out := make([][]float64, len(s.Bins))
	for i, row := range s.Bins {
		out[i] = common.Abs(s.unpacked(row), db)
	}
	return out
}

// Phase returns the angle of every cell.
func (s *Spectrogram) Phase(mode common.PhaseMode) [][]float64 {
	out := make([][]float64, len(s.Bins))
	for i, row := range s.Bins {
		out[i] = common.Arg(s.unpacked(row), mode)
	}
	return out
}

// unpacked strips the packed Nyquist value out of column 0 so that the
// column describes the DC bin alone.
func (s *Spectrogram) unpacked(row []complex128) []complex128 {
	if s.Boundary != PackNyquist || len(row) == 0 {
		return row
	}
	out := make([]complex128, len(row))
	copy(out, row)
	out[0] = complex(real(out[0]), 0)
	return out
}

// frequencyAxis returns the frequency in hertz of every emitted column.
func frequencyAxis(sampleRate, fftSize int, boundary BoundaryBin) []float64 {
	columns := fftSize / 2
	first := boundary.FirstBin()
	freqs := make([]float64, columns)
	for j := range columns {
		freqs[j] = float64(first+j) * float64(sampleRate) / float64(fftSize)
	}
	return freqs
}
