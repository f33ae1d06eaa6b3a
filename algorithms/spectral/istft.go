package spectral

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
	"github.com/RyanBlaney/sonido-dasp/logging"
	"github.com/cwbudde/algo-vecmath"
	"golang.org/x/sync/errgroup"
)

// Synthesizer inverts a spectrogram back into samples by weighted overlap-add
type Synthesizer struct {
	config   Config
	geometry *geometry
	options  options
}

// NewSynthesizer validates the configuration and builds the synthesis window.
// The Crop field of config is not used.
func NewSynthesizer(config Config, opts ...Option) (*Synthesizer, error) {
	g, err := config.resolve()
	if err != nil {
		return nil, fmt.Errorf("invalid synthesizer config: %w", err)
	}

	return &Synthesizer{
		config:   config,
		geometry: g,
		options:  buildOptions("stft_synthesizer", opts),
	}, nil
}

// Config returns the synthesizer configuration
func (s *Synthesizer) Config() Config {
	return s.config
}

// OutputLength returns the number of samples Synthesize produces for rows hops.
func (s *Synthesizer) OutputLength(rows int) int {
	return rows*s.geometry.hopSize + s.geometry.frameSize
}

// Synthesize reconstructs rows*hop+frame samples from bins. Every row must
// hold FFTSize/2 bins. With WOLA scaling the gain is unity on every sample
// covered by full overlap; the first and last frame of output are partial.
func (s *Synthesizer) Synthesize(bins [][]complex128) ([]float64, error) {
	g := s.geometry
	columns := g.fftSize / 2
	for i, row := range bins {
		if len(row) != columns {
			return nil, fmt.Errorf("row %d: %w", i, common.NewShapeError("spectrogram row", columns, len(row)))
		}
	}

	numWorkers := getOptimalWorkerCount(s.config.Workers, len(bins))
	if s.options.observer != nil {
		numWorkers = 1
	}

	s.options.logger.Debug("Synthesizing signal", logging.Fields{
		"frames":     len(bins),
		"hop_size":   g.hopSize,
		"frame_size": g.frameSize,
		"fft_size":   g.fftSize,
		"workers":    numWorkers,
	})

	frames, err := s.inverseFrames(bins, numWorkers)
	if err != nil {
		return nil, err
	}

	// overlap-add is the only step with a write dependency between hops
	acc := common.NewAccumulator(s.OutputLength(len(bins)))
	for i, frame := range frames {
		if err := acc.AddAt(i*g.hopSize, frame); err != nil {
			return nil, fmt.Errorf("failed to accumulate frame %d: %w", i, err)
		}
		s.options.observer.emit(StageAccumulated, i, acc.Samples(), nil)
	}

	return acc.Samples(), nil
}

// inverseFrames computes the windowed time-domain frame of every row. Rows
// are split into contiguous partitions, one transform per partition.
func (s *Synthesizer) inverseFrames(bins [][]complex128, numWorkers int) ([][]float64, error) {
	frames := make([][]float64, len(bins))
	if len(bins) == 0 {
		return frames, nil
	}

	chunk := int(math.Ceil(float64(len(bins)) / float64(numWorkers)))

	var eg errgroup.Group
	for start := 0; start < len(bins); start += chunk {
		end := min(start+chunk, len(bins))
		eg.Go(func() error {
			transform := NewFrameTransform(s.config.Boundary)
			for i := start; i < end; i++ {
				frame, err := s.synthesizeFrame(transform, i, bins[i])
				if err != nil {
					return fmt.Errorf("failed to synthesize frame %d: %w", i, err)
				}
				frames[i] = frame
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}

// synthesizeFrame inverts one row, undoes the rotation, crops the centred
// frame and applies the synthesis window.
func (s *Synthesizer) synthesizeFrame(transform *FrameTransform, hop int, row []complex128) ([]float64, error) {
	observe := s.options.observer
	g := s.geometry

	padded, err := transform.Inverse(row, true)
	if err != nil {
		return nil, err
	}
	observe.emit(StageInverse, hop, padded, nil)

	rotateHalf(padded)
	observe.emit(StageUnrotated, hop, padded, nil)

	before := (g.fftSize - g.frameSize) / 2
	frame := make([]float64, g.frameSize)
	copy(frame, padded[before:before+g.frameSize])
	observe.emit(StageCropped, hop, frame, nil)

	vecmath.MulBlockInPlace(frame, g.window)
	observe.emit(StageSynthesisWindowed, hop, frame, nil)

	return frame, nil
}

// SampleRateFromTimeline recovers the sample rate from a uniformly spaced
// sample timeline in seconds.
func SampleRateFromTimeline(timeline []float64) (int, error) {
	if len(timeline) < 2 {
		return 0, common.NewInvalidParameter("timeline length", len(timeline), "need at least 2 timestamps")
	}

	span := timeline[len(timeline)-1] - timeline[0]
	if err := common.RequirePositive("timeline span", span); err != nil {
		return 0, err
	}

	sampleRate := int(math.Round(float64(len(timeline)-1) / span))
	if err := common.RequirePositive("sample rate", sampleRate); err != nil {
		return 0, err
	}
	return sampleRate, nil
}
