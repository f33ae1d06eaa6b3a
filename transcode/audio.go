// Package transcode moves sample buffers in and out of audio files and hands
// files to external players.
package transcode

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
)

// AudioData represents decoded audio data, one slice per channel
type AudioData struct {
	Channels   [][]float64   `json:"-"`
	Timeline   []float64     `json:"-"` // seconds, one entry per frame
	SampleRate int           `json:"sample_rate"`
	BitDepth   int           `json:"bit_depth,omitempty"`
	Duration   time.Duration `json:"duration"`
	Path       string        `json:"path"`
	Codec      string        `json:"codec,omitempty"`
}

// NumChannels returns the channel count
func (a *AudioData) NumChannels() int {
	return len(a.Channels)
}

// Frames returns the number of samples per channel
func (a *AudioData) Frames() int {
	if len(a.Channels) == 0 {
		return 0
	}
	return len(a.Channels[0])
}

// Mono returns the first channel for mono data and the channel average otherwise.
func (a *AudioData) Mono() []float64 {
	if len(a.Channels) == 1 {
		return a.Channels[0]
	}

	out := make([]float64, a.Frames())
	if len(a.Channels) == 0 {
		return out
	}
	for _, ch := range a.Channels {
		for i, v := range ch {
			out[i] += v
		}
	}
	scale := 1 / float64(len(a.Channels))
	for i := range out {
		out[i] *= scale
	}
	return out
}

// newAudioData attaches the timeline and duration
func newAudioData(path string, channels [][]float64, sampleRate, bitDepth int) *AudioData {
	data := &AudioData{
		Channels:   channels,
		SampleRate: sampleRate,
		BitDepth:   bitDepth,
		Path:       path,
	}

	frames := data.Frames()
	data.Timeline = make([]float64, frames)
	for i := range data.Timeline {
		data.Timeline[i] = float64(i) / float64(sampleRate)
	}
	data.Duration = time.Duration(frames) * time.Second / time.Duration(sampleRate)
	return data
}

// deinterleave splits frame-interleaved samples into per-channel slices
func deinterleave(samples []float64, numChannels int) ([][]float64, error) {
	if err := common.RequirePositive("channels", numChannels); err != nil {
		return nil, err
	}

	frames := len(samples) / numChannels
	channels := make([][]float64, numChannels)
	for c := range channels {
		channels[c] = make([]float64, frames)
	}
	for i := range frames {
		for c := range numChannels {
			channels[c][i] = samples[i*numChannels+c]
		}
	}
	return channels, nil
}

// interleave is the inverse of deinterleave; all channels must have equal length
func interleave(channels [][]float64) ([]float64, error) {
	if len(channels) == 0 {
		return nil, common.NewInvalidParameter("channels", 0, "need at least one channel")
	}

	frames := len(channels[0])
	for _, ch := range channels[1:] {
		if len(ch) != frames {
			return nil, common.NewShapeError("channel", frames, len(ch))
		}
	}

	out := make([]float64, frames*len(channels))
	for i := range frames {
		for c, ch := range channels {
			out[i*len(channels)+c] = ch[i]
		}
	}
	return out, nil
}

// ResolvePath expands a leading ~ to the home directory and appends ext when
// the path does not already end with it (case-insensitively).
func ResolvePath(path, ext string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	if ext != "" && !strings.EqualFold(filepath.Ext(path), ext) {
		path += ext
	}
	return path, nil
}
