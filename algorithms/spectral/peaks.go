package spectral

import (
	"cmp"
	"math"
	"slices"
)

// Peak is a local maximum of a magnitude spectrum
type Peak struct {
	Frequency float64 `json:"frequency"`
	Magnitude float64 `json:"magnitude"`
	Column    int     `json:"column"`
}

// PeakPicker finds the strongest local maxima of a magnitude row
type PeakPicker struct {
	MinHeight     float64 // absolute magnitude floor
	MinDistanceHz float64 // weaker peaks closer than this are dropped
	MaxPeaks      int     // <= 0 keeps every peak
	Interpolate   bool    // parabolic refinement of frequency and magnitude
}

// Pick returns peaks of magnitude sorted by descending magnitude. frequencies
// is the column axis of the spectrogram the row came from and must be evenly
// spaced.
func (p PeakPicker) Pick(magnitude, frequencies []float64) []Peak {
	if len(magnitude) < 3 || len(frequencies) != len(magnitude) {
		return []Peak{}
	}

	resolution := frequencies[1] - frequencies[0]
	minDistance := max(int(p.MinDistanceHz/resolution), 1)

	var peaks []Peak
	for i := 1; i < len(magnitude)-1; i++ {
		if magnitude[i] <= magnitude[i-1] || magnitude[i] <= magnitude[i+1] || magnitude[i] < p.MinHeight {
			continue
		}

		// a nearby peak is replaced only by a stronger one
		keep := true
		for j, existing := range peaks {
			if i-existing.Column >= minDistance {
				continue
			}
			if magnitude[i] > existing.Magnitude {
				peaks = slices.Delete(peaks, j, j+1)
			} else {
				keep = false
			}
			break
		}
		if !keep {
			continue
		}

		peaks = append(peaks, Peak{
			Frequency: frequencies[i],
			Magnitude: magnitude[i],
			Column:    i,
		})
	}

	if p.Interpolate {
		for i := range peaks {
			peaks[i] = refinePeak(peaks[i], magnitude, resolution)
		}
	}

	slices.SortStableFunc(peaks, func(a, b Peak) int {
		return cmp.Compare(b.Magnitude, a.Magnitude)
	})
	if p.MaxPeaks > 0 && len(peaks) > p.MaxPeaks {
		peaks = peaks[:p.MaxPeaks]
	}
	return peaks
}

// refinePeak fits a parabola through the peak and its two neighbours
func refinePeak(peak Peak, magnitude []float64, resolution float64) Peak {
	y1 := magnitude[peak.Column-1]
	y2 := magnitude[peak.Column]
	y3 := magnitude[peak.Column+1]

	denom := 2 * (2*y2 - y1 - y3)
	if math.Abs(denom) < 1e-12 {
		return peak
	}

	offset := (y3 - y1) / denom
	a := 0.5 * (y1 - 2*y2 + y3)
	b := 0.5 * (y3 - y1)

	peak.Frequency += offset * resolution
	peak.Magnitude = y2 + a*offset*offset + b*offset
	return peak
}

// MeanMagnitude averages the magnitude rows column by column
func (s *Spectrogram) MeanMagnitude(db bool) []float64 {
	mean := make([]float64, s.Columns())
	rows := s.Magnitude(db)
	if len(rows) == 0 {
		return mean
	}
	for _, row := range rows {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(len(rows))
	}
	return mean
}
