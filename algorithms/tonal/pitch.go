// Package tonal converts between frequencies and equal-tempered note names.
package tonal

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
)

// DefaultConcertPitch is the frequency of A4 in hertz
const DefaultConcertPitch = 440.0

// c0Ratio is C0 relative to A4: 9 semitones and 4 octaves below
var c0Ratio = math.Pow(2, -(9+4*12)/12.0)

var scale = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Tuning is a twelve-tone equal temperament anchored at a concert pitch
type Tuning struct {
	ConcertPitch float64 `json:"concert_pitch"`
}

// NewTuning creates a tuning with A4 at concertPitch hertz
func NewTuning(concertPitch float64) (*Tuning, error) {
	if err := common.RequirePositive("concert pitch", concertPitch); err != nil {
		return nil, err
	}
	return &Tuning{ConcertPitch: concertPitch}, nil
}

// Scale returns the twelve note names starting at C
func Scale() []string {
	out := make([]string, len(scale))
	copy(out, scale[:])
	return out
}

// Note returns the name of a semitone counted from C; negative values wrap.
func Note(semitone int) string {
	return scale[mod12(semitone)]
}

// C0 returns the frequency of C0 in hertz
func (t *Tuning) C0() float64 {
	return c0Ratio * t.ConcertPitch
}

// Frequency returns the frequency of the semitone within the octave,
// both counted from C0.
func (t *Tuning) Frequency(semitone float64, octave int) float64 {
	return math.Pow(2, semitone/12+float64(octave)) * t.C0()
}

// semitones returns the nearest whole number of semitones above C0
func (t *Tuning) semitones(frequency float64) (int, error) {
	if err := common.RequirePositive("frequency", frequency); err != nil {
		return 0, err
	}
	return int(math.RoundToEven(12 * math.Log2(frequency/t.C0()))), nil
}

// Octave returns the octave number of the nearest note
func (t *Tuning) Octave(frequency float64) (int, error) {
	n, err := t.semitones(frequency)
	if err != nil {
		return 0, err
	}
	return floorDiv12(n), nil
}

// Semitone returns the nearest semitone counted from C0 or, when relative
// is set, within its octave (0..11).
func (t *Tuning) Semitone(frequency float64, relative bool) (int, error) {
	n, err := t.semitones(frequency)
	if err != nil {
		return 0, err
	}
	if relative {
		return mod12(n), nil
	}
	return n, nil
}

// NoteName returns the nearest note in scientific pitch notation, e.g. "A4"
func (t *Tuning) NoteName(frequency float64) (string, error) {
	n, err := t.semitones(frequency)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d", Note(n), floorDiv12(n)), nil
}

// Cents returns the deviation of frequency from its nearest note
func (t *Tuning) Cents(frequency float64) (float64, error) {
	n, err := t.semitones(frequency)
	if err != nil {
		return 0, err
	}
	exact := 12 * math.Log2(frequency/t.C0())
	return 100 * (exact - float64(n)), nil
}

func mod12(n int) int {
	return ((n % 12) + 12) % 12
}

func floorDiv12(n int) int {
	return (n - mod12(n)) / 12
}
