package spectral

import (
	"fmt"
	"sync"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
	"github.com/RyanBlaney/sonido-dasp/logging"
	"github.com/cwbudde/algo-vecmath"
)

// Analyzer provides Short-Time Fourier Transform analysis
type Analyzer struct {
	config   Config
	geometry *geometry
	options  options
}

// NewAnalyzer validates the configuration and builds the analysis window.
func NewAnalyzer(config Config, opts ...Option) (*Analyzer, error) {
	g, err := config.resolve()
	if err != nil {
		return nil, fmt.Errorf("invalid analyzer config: %w", err)
	}

	return &Analyzer{
		config:   config,
		geometry: g,
		options:  buildOptions("stft_analyzer", opts),
	}, nil
}

// Config returns the analyzer configuration
func (a *Analyzer) Config() Config {
	return a.config
}

// HopSize returns the hop in samples
func (a *Analyzer) HopSize() int {
	return a.geometry.hopSize
}

// FrameSize returns the frame length in samples
func (a *Analyzer) FrameSize() int {
	return a.geometry.frameSize
}

// FFTSize returns the padded transform length
func (a *Analyzer) FFTSize() int {
	return a.geometry.fftSize
}

// Window returns a copy of the analysis window
func (a *Analyzer) Window() []float64 {
	out := make([]float64, len(a.geometry.window))
	copy(out, a.geometry.window)
	return out
}

// Analyze computes the spectrogram of signal. The signal is not modified.
// A signal shorter than one frame yields zero rows under Crop.
func (a *Analyzer) Analyze(signal []float64) (*Spectrogram, error) {
	framer, err := NewFramer(signal, a.config.SampleRate, a.config.HopSeconds, a.config.FrameSeconds, a.config.Crop)
	if err != nil {
		return nil, err
	}

	numFrames := framer.Len()
	bins := make([][]complex128, numFrames)

	numWorkers := getOptimalWorkerCount(a.config.Workers, numFrames)
	if a.options.observer != nil {
		numWorkers = 1
	}

	a.options.logger.Debug("Analyzing signal", logging.Fields{
		"samples":    len(signal),
		"frames":     numFrames,
		"hop_size":   a.geometry.hopSize,
		"frame_size": a.geometry.frameSize,
		"fft_size":   a.geometry.fftSize,
		"workers":    numWorkers,
	})

	if numWorkers <= 1 {
		transform := NewFrameTransform(a.config.Boundary)
		for i, frame := range framer.Frames() {
			row, err := a.analyzeFrame(transform, i, frame)
			if err != nil {
				return nil, fmt.Errorf("failed to analyze frame %d: %w", i, err)
			}
			bins[i] = row
		}
	} else if err := a.analyzeParallel(framer, bins, numWorkers); err != nil {
		return nil, err
	}

	result := &Spectrogram{
		Bins:        bins,
		Timestamps:  framer.Timestamps(),
		Frequencies: frequencyAxis(a.config.SampleRate, a.geometry.fftSize, a.config.Boundary),
		SampleRate:  a.config.SampleRate,
		HopSize:     a.geometry.hopSize,
		FrameSize:   a.geometry.frameSize,
		FFTSize:     a.geometry.fftSize,
		Boundary:    a.config.Boundary,
	}

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("inconsistent spectrogram: %w", err)
	}

	return result, nil
}

func (a *Analyzer) analyzeParallel(framer *Framer, bins [][]complex128, numWorkers int) error {
	jobs := make(chan int, len(bins))

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// FFT plans are not shareable, one transform per worker
			transform := NewFrameTransform(a.config.Boundary)

			for frameIdx := range jobs {
				row, err := a.analyzeFrame(transform, frameIdx, framer.Frame(frameIdx))
				if err != nil {
					errOnce.Do(func() {
						firstErr = fmt.Errorf("failed to analyze frame %d: %w", frameIdx, err)
					})
					continue
				}
				bins[frameIdx] = row
			}
		}()
	}

	for frameIdx := range bins {
		jobs <- frameIdx
	}
	close(jobs)

	wg.Wait()
	return firstErr
}

// analyzeFrame windows, centres, rotates and transforms one frame. frame is
// owned by the caller and is windowed in place.
func (a *Analyzer) analyzeFrame(transform *FrameTransform, hop int, frame []float64) ([]complex128, error) {
	observe := a.options.observer
	g := a.geometry

	observe.emit(StageFrame, hop, frame, nil)

	if len(frame) != len(g.window) {
		return nil, common.NewShapeError("frame window", len(g.window), len(frame))
	}
	vecmath.MulBlockInPlace(frame, g.window)
	observe.emit(StageWindowed, hop, frame, nil)

	padded := make([]float64, g.fftSize)
	copy(padded[(g.fftSize-g.frameSize)/2:], frame)
	observe.emit(StagePadded, hop, padded, nil)

	rotateHalf(padded)
	observe.emit(StageRotated, hop, padded, nil)

	spectrum, err := transform.Forward(padded, nil)
	if err != nil {
		return nil, err
	}
	observe.emit(StageSpectrum, hop, nil, spectrum)

	return spectrum, nil
}
