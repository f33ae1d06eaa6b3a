package generators

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
)

// Kind names a generated waveform
type Kind int

const (
	KindHarmonic Kind = iota
	KindSquare
	KindSawtooth
	KindTriangle
	KindChirp
	KindNoise
)

var kindNames = [...]string{
	KindHarmonic: "harmonic",
	KindSquare:   "square",
	KindSawtooth: "sawtooth",
	KindTriangle: "triangle",
	KindChirp:    "chirp",
	KindNoise:    "noise",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind resolves a waveform by case-insensitive exact name; "sine" is
// accepted for harmonic.
func ParseKind(name string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "sine" {
		return KindHarmonic, nil
	}
	for k, n := range kindNames {
		if n == key {
			return Kind(k), nil
		}
	}
	return 0, common.NewInvalidParameter("signal", name,
		"expected one of "+strings.Join(kindNames[:], ", "))
}

// Spec describes a signal to generate
type Spec struct {
	Kind       Kind    `json:"kind"`
	Frequency  float64 `json:"frequency"`
	EndFreq    float64 `json:"end_frequency"` // chirp only
	Duration   float64 `json:"duration"`
	SampleRate int     `json:"sample_rate"`
	Amplitude  float64 `json:"amplitude"` // 0 means 1
	Seed       uint64  `json:"seed"`      // noise only
}

// Generate builds the timeline for spec and samples the waveform on it.
func Generate(spec Spec) (t, x []float64, err error) {
	t, err = Timeline(spec.Duration, spec.SampleRate)
	if err != nil {
		return nil, nil, err
	}

	if spec.Kind != KindNoise {
		if err := common.RequirePositive("frequency", spec.Frequency); err != nil {
			return nil, nil, err
		}
	}

	switch spec.Kind {
	case KindHarmonic:
		x = Harmonic(spec.Frequency, t)
	case KindSquare:
		x = Square(spec.Frequency, t)
	case KindSawtooth:
		x = Sawtooth(spec.Frequency, t)
	case KindTriangle:
		x = Triangle(spec.Frequency, t)
	case KindChirp:
		if err := common.RequirePositive("end frequency", spec.EndFreq); err != nil {
			return nil, nil, err
		}
		x = Chirp(spec.Frequency, spec.EndFreq, t)
	case KindNoise:
		x = Noise(t, rand.New(rand.NewPCG(spec.Seed, spec.Seed^0x9e3779b97f4a7c15)))
	default:
		return nil, nil, common.NewInvalidParameter("signal", spec.Kind, "unknown kind")
	}

	if spec.Amplitude != 0 && spec.Amplitude != 1 {
		Scale(x, spec.Amplitude)
	}
	return t, x, nil
}
