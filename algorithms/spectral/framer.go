package spectral

import (
	"fmt"
	"iter"
	"math"
	"strings"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
)

// CropPolicy decides what happens to a hop whose frame runs past the end of the signal
type CropPolicy int

const (
	// Crop discards the hop together with its timestamp.
	Crop CropPolicy = iota
	// Pad keeps the hop and zero-pads the frame on the right.
	Pad
)

func (p CropPolicy) String() string {
	switch p {
	case Crop:
		return "crop"
	case Pad:
		return "pad"
	default:
		return fmt.Sprintf("CropPolicy(%d)", int(p))
	}
}

// ParseCropPolicy resolves "crop" or "pad", case-insensitively.
func ParseCropPolicy(name string) (CropPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "crop":
		return Crop, nil
	case "pad":
		return Pad, nil
	default:
		return 0, common.NewInvalidParameter("crop policy", name, "expected crop or pad")
	}
}

// MarshalText implements encoding.TextMarshaler
func (p CropPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *CropPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseCropPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// FrameGeometry converts hop and frame durations to sample counts. The hop is
// at least one sample; the frame is rounded and forced even so that centring
// by half its length is exact.
func FrameGeometry(sampleRate int, hopSeconds, frameSeconds float64) (hopSize, frameSize int, err error) {
	if err := common.RequirePositive("sample rate", sampleRate); err != nil {
		return 0, 0, err
	}
	if err := common.RequirePositive("hop seconds", hopSeconds); err != nil {
		return 0, 0, err
	}
	if err := common.RequirePositive("frame seconds", frameSeconds); err != nil {
		return 0, 0, err
	}

	hopSize = max(1, int(math.Round(hopSeconds*float64(sampleRate))))
	frameSize = common.NextEven(frameSeconds * float64(sampleRate))
	if frameSize <= 0 {
		return 0, 0, common.NewInvalidParameter("frame samples", frameSize, "frame is shorter than one sample")
	}

	return hopSize, frameSize, nil
}

// Framer slices a signal into fixed-length frames at a fixed hop. The signal
// is never modified; every frame handed out is a fresh copy.
type Framer struct {
	signal     []float64
	sampleRate int
	hopSize    int
	frameSize  int
	policy     CropPolicy
	offsets    []int
}

// NewFramer validates the parameters and computes the retained hop offsets.
func NewFramer(signal []float64, sampleRate int, hopSeconds, frameSeconds float64, policy CropPolicy) (*Framer, error) {
	if len(signal) == 0 {
		return nil, common.NewInvalidParameter("signal", 0, "empty signal")
	}

	hopSize, frameSize, err := FrameGeometry(sampleRate, hopSeconds, frameSeconds)
	if err != nil {
		return nil, err
	}

	offsets := make([]int, 0, len(signal)/hopSize+1)
	for h := 0; h < len(signal); h += hopSize {
		if h+frameSize > len(signal) && policy == Crop {
			continue
		}
		offsets = append(offsets, h)
	}

	return &Framer{
		signal:     signal,
		sampleRate: sampleRate,
		hopSize:    hopSize,
		frameSize:  frameSize,
		policy:     policy,
		offsets:    offsets,
	}, nil
}

// HopSize returns the hop in samples
func (f *Framer) HopSize() int {
	return f.hopSize
}

// FrameSize returns the (even) frame length in samples
func (f *Framer) FrameSize() int {
	return f.frameSize
}

// Policy returns the boundary policy
func (f *Framer) Policy() CropPolicy {
	return f.policy
}

// Len returns the number of retained hops
func (f *Framer) Len() int {
	return len(f.offsets)
}

// Offsets returns a copy of the retained hop offsets, in samples
func (f *Framer) Offsets() []int {
	out := make([]int, len(f.offsets))
	copy(out, f.offsets)
	return out
}

// Timestamps returns the retained hop offsets in seconds
func (f *Framer) Timestamps() []float64 {
	out := make([]float64, len(f.offsets))
	for i, h := range f.offsets {
		out[i] = float64(h) / float64(f.sampleRate)
	}
	return out
}

// Frame returns a copy of retained frame i, zero-padded on the right when it
// runs past the end of the signal.
func (f *Framer) Frame(i int) []float64 {
	frame := make([]float64, f.frameSize)
	h := f.offsets[i]
	copy(frame, f.signal[h:min(h+f.frameSize, len(f.signal))])
	return frame
}

// Frames yields (retained hop index, frame) pairs in time order.
func (f *Framer) Frames() iter.Seq2[int, []float64] {
	return func(yield func(int, []float64) bool) {
		for i := range f.offsets {
			if !yield(i, f.Frame(i)) {
				return
			}
		}
	}
}
