package spectral

import (
	"fmt"
	"runtime"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
	"github.com/RyanBlaney/sonido-dasp/algorithms/windowing"
	"github.com/RyanBlaney/sonido-dasp/logging"
)

// Config holds the parameters shared by analysis and synthesis. Resynthesis
// is only exact when both sides use the same values.
type Config struct {
	SampleRate   int         `json:"sample_rate"`
	HopSeconds   float64     `json:"hop_seconds"`
	FrameSeconds float64     `json:"frame_seconds"`
	Window       string      `json:"window"`
	WOLA         bool        `json:"wola"`
	Crop         CropPolicy  `json:"crop"`
	Boundary     BoundaryBin `json:"boundary"`
	Workers      int         `json:"workers"` // <= 0 picks a count from the workload
}

// DefaultConfig returns a hanning/crop/pack-nyquist configuration with WOLA
// scaling off. The sample rate is left for the caller.
func DefaultConfig(sampleRate int) Config {
	return Config{
		SampleRate:   sampleRate,
		HopSeconds:   0.01,
		FrameSeconds: 0.04,
		Window:       windowing.Hanning.String(),
		WOLA:         false,
		Crop:         Crop,
		Boundary:     PackNyquist,
	}
}

// geometry is the sample-domain view of a Config
type geometry struct {
	hopSize   int
	frameSize int
	fftSize   int
	window    []float64
}

func (c Config) resolve() (*geometry, error) {
	hopSize, frameSize, err := FrameGeometry(c.SampleRate, c.HopSeconds, c.FrameSeconds)
	if err != nil {
		return nil, err
	}

	window, err := windowing.Periodic(c.Window, frameSize)
	if err != nil {
		return nil, err
	}
	if c.WOLA {
		if err := windowing.ScaleWOLA(window, hopSize); err != nil {
			return nil, fmt.Errorf("failed to scale window: %w", err)
		}
	}

	return &geometry{
		hopSize:   hopSize,
		frameSize: frameSize,
		fftSize:   common.NextPowerOfTwo(frameSize),
		window:    window,
	}, nil
}

// Option configures an Analyzer or Synthesizer
type Option func(*options)

type options struct {
	logger   logging.Logger
	observer Observer
}

// WithLogger sets the logger used for per-call debug output
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver installs a stage observer
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

func buildOptions(component string, opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.WithFields(logging.Fields{"component": component})
	}
	return o
}

// getOptimalWorkerCount determines the number of workers based on workload
func getOptimalWorkerCount(requested, numFrames int) int {
	if requested > 0 {
		return max(1, min(requested, numFrames))
	}

	numCPU := runtime.NumCPU()

	// For small workloads, don't over-parallelize
	if numFrames < 100 {
		return max(1, min(numCPU/2, numFrames))
	}

	// Cap medium workloads at 8
	if numFrames < 1000 {
		return max(1, min(numCPU, 8))
	}

	return numCPU
}

// rotateHalf circularly shifts an even-length buffer by half its length, in
// place. The shift is its own inverse.
func rotateHalf(x []float64) {
	half := len(x) / 2
	for i := range half {
		x[i], x[i+half] = x[i+half], x[i]
	}
}
