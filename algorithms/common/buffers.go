package common

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Accumulator is a fixed-length overlap-add buffer. Frames are summed into it
// at arbitrary offsets; nothing is ever shifted out.
type Accumulator struct {
	buffer []float64
}

// NewAccumulator creates a zeroed accumulator of the given length
func NewAccumulator(length int) *Accumulator {
	return &Accumulator{
		buffer: make([]float64, max(length, 0)),
	}
}

// AddAt adds frame into the buffer starting at offset. Samples falling past
// the end are reported as an error rather than silently dropped.
func (a *Accumulator) AddAt(offset int, frame []float64) error {
	if offset < 0 || offset+len(frame) > len(a.buffer) {
		return fmt.Errorf("frame [%d, %d) exceeds accumulator length %d", offset, offset+len(frame), len(a.buffer))
	}

	vecmath.AddBlockInPlace(a.buffer[offset:offset+len(frame)], frame)
	return nil
}

// Len returns the accumulator length
func (a *Accumulator) Len() int {
	return len(a.buffer)
}

// Samples returns the accumulated buffer. The slice is shared, not copied.
func (a *Accumulator) Samples() []float64 {
	return a.buffer
}

// Reset clears the buffer
func (a *Accumulator) Reset() {
	clear(a.buffer)
}
