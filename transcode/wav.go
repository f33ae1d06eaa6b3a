package transcode

import (
	"fmt"
	"math"
	"math/cmplx"
	"os"
	"slices"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
	"github.com/RyanBlaney/sonido-dasp/logging"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// SupportedBitDepths lists the PCM sample widths ReadWAV and WriteWAV handle
var SupportedBitDepths = []int{8, 16, 24, 32}

const wavPCMFormat = 1

// fullScale returns 2^(bits-1)-1
func fullScale(bits int) float64 {
	return math.Pow(2, float64(bits-1)) - 1
}

// dequantize maps a PCM integer to [-1, 1]. 8-bit data is unsigned.
func dequantize(v, bits int) float64 {
	if bits == 8 {
		v -= 128
	}
	scale := fullScale(bits)
	return common.Clamp((float64(v)+0.5)/(scale+0.5), -1, 1)
}

// quantize clips x to [-1, 1] and maps it onto the full PCM range.
func quantize(x float64, bits int) int {
	scale := fullScale(bits)
	v := int(math.Round(common.Clamp(x, -1, 1)*(scale+0.5) - 0.5))
	if bits == 8 {
		v += 128
	}
	return v
}

// ReadWAV reads a PCM .wav file. The extension is appended when missing and
// a leading ~ is expanded.
func ReadWAV(path string) (*AudioData, error) {
	path, err := ResolvePath(path, ".wav")
	if err != nil {
		return nil, err
	}

	logger := logging.WithFields(logging.Fields{
		"component": "wav_reader",
		"path":      path,
	})

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wav file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid wav file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read pcm data: %w", err)
	}

	bits := buf.SourceBitDepth
	if !slices.Contains(SupportedBitDepths, bits) {
		return nil, fmt.Errorf("unsupported bit depth %d", bits)
	}
	if decoder.WavAudioFormat != wavPCMFormat {
		return nil, fmt.Errorf("unsupported wav format %d, only integer PCM is handled", decoder.WavAudioFormat)
	}

	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = dequantize(v, bits)
	}

	channels, err := deinterleave(samples, buf.Format.NumChannels)
	if err != nil {
		return nil, err
	}

	logger.Debug("Read wav file", logging.Fields{
		"sample_rate": buf.Format.SampleRate,
		"bit_depth":   bits,
		"channels":    buf.Format.NumChannels,
		"frames":      len(channels[0]),
	})

	return newAudioData(path, channels, buf.Format.SampleRate, bits), nil
}

// WriteWAV writes one or more equal-length channels as PCM. Samples are
// clipped to [-1, 1].
func WriteWAV(path string, channels [][]float64, sampleRate, bits int) error {
	if err := common.RequirePositive("sample rate", sampleRate); err != nil {
		return err
	}
	if !slices.Contains(SupportedBitDepths, bits) {
		return common.NewInvalidParameter("bit depth", bits, "expected 8, 16, 24 or 32")
	}

	samples, err := interleave(channels)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return common.NewInvalidParameter("samples", 0, "nothing to write")
	}

	path, err = ResolvePath(path, ".wav")
	if err != nil {
		return err
	}

	data := make([]int, len(samples))
	for i, x := range samples {
		data[i] = quantize(x, bits)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create wav file: %w", err)
	}
	defer f.Close()

	encoder := wav.NewEncoder(f, sampleRate, bits, len(channels), wavPCMFormat)
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: len(channels), SampleRate: sampleRate},
		SourceBitDepth: bits,
	}
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("failed to write pcm data: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to finalize wav file: %w", err)
	}

	logging.Debug("Wrote wav file", logging.Fields{
		"component":   "wav_writer",
		"path":        path,
		"sample_rate": sampleRate,
		"bit_depth":   bits,
		"channels":    len(channels),
		"frames":      len(channels[0]),
	})

	return f.Close()
}

// WriteComplexWAV writes a complex sequence as a stereo pair: real part on
// the left channel, imaginary part on the right.
func WriteComplexWAV(path string, samples []complex128, sampleRate, bits int) error {
	re := make([]float64, len(samples))
	im := make([]float64, len(samples))
	for i, v := range samples {
		if cmplx.IsNaN(v) {
			return common.NewInvalidParameter("sample", i, "NaN")
		}
		re[i], im[i] = real(v), imag(v)
	}
	return WriteWAV(path, [][]float64{re, im}, sampleRate, bits)
}
