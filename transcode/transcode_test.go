package transcode

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = -1 + 2*float64(i)/float64(n-1)
	}
	return x
}

func TestWAVRoundTripBitDepths(t *testing.T) {
	dir := t.TempDir()
	signal := ramp(1000)

	for _, bits := range SupportedBitDepths {
		path := filepath.Join(dir, "ramp")
		require.NoError(t, WriteWAV(path, [][]float64{signal}, 8000, bits))

		data, err := ReadWAV(path)
		require.NoError(t, err)
		assert.Equal(t, 8000, data.SampleRate)
		assert.Equal(t, bits, data.BitDepth)
		assert.Equal(t, 1, data.NumChannels())
		assert.Equal(t, path+".wav", data.Path)

		tolerance := 1 / (math.Pow(2, float64(bits-1)) - 0.5)
		assert.InDeltaSlice(t, signal, data.Channels[0], tolerance, "bits=%d", bits)
		assert.Equal(t, 125*time.Millisecond, data.Duration)
		assert.InDelta(t, 999.0/8000, data.Timeline[999], 1e-12)
	}
}

func TestWAVFullScaleIsPreserved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.wav")
	require.NoError(t, WriteWAV(path, [][]float64{{-1, 1, 0, 2, -3}}, 44100, 16))

	data, err := ReadWAV(path)
	require.NoError(t, err)
	x := data.Channels[0]
	assert.Equal(t, -1.0, x[0])
	assert.Equal(t, 1.0, x[1])
	assert.InDelta(t, 0.0, x[2], 1.0/32767)
	assert.Equal(t, 1.0, x[3], "values above full scale are clipped")
	assert.Equal(t, -1.0, x[4])
}

func TestWAVMultichannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	left := []float64{0.5, 0.25, 0}
	right := []float64{-0.5, -0.25, 0}
	require.NoError(t, WriteWAV(path, [][]float64{left, right}, 16000, 24))

	data, err := ReadWAV(path)
	require.NoError(t, err)
	require.Equal(t, 2, data.NumChannels())
	assert.InDeltaSlice(t, left, data.Channels[0], 1e-6)
	assert.InDeltaSlice(t, right, data.Channels[1], 1e-6)
	assert.InDeltaSlice(t, []float64{0, 0, 0}, data.Mono(), 1e-6)
}

func TestWriteComplexWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "complex.wav")
	require.NoError(t, WriteComplexWAV(path, []complex128{0.5 - 0.25i, -0.75i}, 8000, 32))

	data, err := ReadWAV(path)
	require.NoError(t, err)
	require.Equal(t, 2, data.NumChannels())
	assert.InDeltaSlice(t, []float64{0.5, 0}, data.Channels[0], 1e-9)
	assert.InDeltaSlice(t, []float64{-0.25, -0.75}, data.Channels[1], 1e-9)
}

func TestWriteWAVValidation(t *testing.T) {
	dir := t.TempDir()

	err := WriteWAV(filepath.Join(dir, "a"), [][]float64{{0}}, 8000, 12)
	assert.ErrorIs(t, err, common.ErrInvalidParameter)

	err = WriteWAV(filepath.Join(dir, "b"), [][]float64{{0}}, 0, 16)
	assert.ErrorIs(t, err, common.ErrInvalidParameter)

	err = WriteWAV(filepath.Join(dir, "c"), [][]float64{{0, 1}, {0}}, 8000, 16)
	assert.ErrorIs(t, err, common.ErrShape)

	err = WriteWAV(filepath.Join(dir, "d"), nil, 8000, 16)
	assert.ErrorIs(t, err, common.ErrInvalidParameter)
}

func TestReadWAVErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadWAV(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	bogus := filepath.Join(dir, "bogus.wav")
	require.NoError(t, os.WriteFile(bogus, []byte("definitely not riff data"), 0o644))
	_, err = ReadWAV(bogus)
	assert.Error(t, err)
}

func TestQuantizeRange(t *testing.T) {
	for _, bits := range SupportedBitDepths {
		lo, hi := quantize(-1, bits), quantize(1, bits)
		scale := int(fullScale(bits))
		if bits == 8 {
			assert.Equal(t, 0, lo)
			assert.Equal(t, 255, hi)
			continue
		}
		assert.Equal(t, -scale-1, lo, "bits=%d", bits)
		assert.Equal(t, scale, hi, "bits=%d", bits)
		assert.Equal(t, -1.0, dequantize(lo, bits))
		assert.Equal(t, 1.0, dequantize(hi, bits))
	}
}

func TestResolvePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in, ext, want string
	}{
		{"out", ".wav", "out.wav"},
		{"out.wav", ".wav", "out.wav"},
		{"out.WAV", ".wav", "out.WAV"},
		{"out.mp3", ".wav", "out.mp3.wav"},
		{"out.mp3", "", "out.mp3"},
		{"~/sound", ".wav", filepath.Join(home, "sound.wav")},
		{"~user/sound", "", "~user/sound"},
	}
	for _, tt := range tests {
		got, err := ResolvePath(tt.in, tt.ext)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestInterleave(t *testing.T) {
	flat, err := interleave([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 2, 4}, flat)

	channels, err := deinterleave(flat, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, channels)

	_, err = deinterleave(flat, 0)
	assert.ErrorIs(t, err, common.ErrInvalidParameter)
}

func TestParseFFprobeOutput(t *testing.T) {
	output := []byte(`{"streams":[{"codec_type":"audio","codec_name":"mp3","sample_rate":"44100",
		"channels":2,"duration":"12.5","bit_rate":"128000","codec_long_name":"MP3 (MPEG audio layer 3)"}]}`)

	metadata, err := parseFFprobeOutput(output)
	require.NoError(t, err)
	assert.Equal(t, &AudioMetadata{
		SampleRate: 44100,
		Channels:   2,
		Codec:      "mp3",
		Duration:   12.5,
		Bitrate:    128000,
		Format:     "MP3 (MPEG audio layer 3)",
	}, metadata)

	_, err = parseFFprobeOutput([]byte(`{"streams":[]}`))
	assert.Error(t, err)
	_, err = parseFFprobeOutput([]byte(`{"streams":[{"codec_type":"video"}]}`))
	assert.Error(t, err)
	_, err = parseFFprobeOutput([]byte(`not json`))
	assert.Error(t, err)
}

func TestBuildFFmpegArgs(t *testing.T) {
	config := DefaultDecoderConfig()
	config.SampleRate = 22050
	config.MaxDuration = 1500 * time.Millisecond
	d := NewDecoder(config)

	args := d.buildFFmpegArgs(&AudioMetadata{SampleRate: 44100, Channels: 2})
	assert.Equal(t, []string{
		"-f", "f64le", "-ac", "2", "-ar", "22050",
		"-af", "aresample=resampler=soxr:precision=20",
		"-t", "1.50", "-v", "error",
	}, args)

	args = NewDecoder(nil).buildFFmpegArgs(&AudioMetadata{SampleRate: 48000, Channels: 1})
	assert.Equal(t, []string{"-f", "f64le", "-ac", "1", "-ar", "48000", "-v", "error"}, args)
}

func TestBytesToFloat64(t *testing.T) {
	raw := make([]byte, 20)
	binary.LittleEndian.PutUint64(raw[0:], math.Float64bits(0.5))
	binary.LittleEndian.PutUint64(raw[8:], math.Float64bits(-2))

	assert.Equal(t, []float64{0.5, -2}, bytesToFloat64(raw))
	assert.Nil(t, bytesToFloat64(raw[:7]))
}

func TestDecoderConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultDecoderConfig().Validate())

	config := DefaultDecoderConfig()
	config.Channels = 9
	assert.Error(t, config.Validate())

	config = DefaultDecoderConfig()
	config.ResampleQuality = "ultra"
	assert.Error(t, config.Validate())

	config = DefaultDecoderConfig()
	config.Timeout = 0
	assert.Error(t, config.Validate())
}

func TestReadAudioDispatchesWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	require.NoError(t, WriteWAV(path, [][]float64{{0.1, 0.2}}, 8000, 16))

	data, err := ReadAudio(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, data.Frames())
}

func TestOpenRunsCommand(t *testing.T) {
	if _, err := os.Stat("/bin/true"); err != nil {
		t.Skip("no /bin/true on this system")
	}
	path := filepath.Join(t.TempDir(), "click")
	require.NoError(t, WriteWAV(path, [][]float64{{0}}, 8000, 16))

	pid, err := Open(context.Background(), path, "/bin/true", true)
	require.NoError(t, err)
	assert.Positive(t, pid)

	_, err = Open(context.Background(), filepath.Join(t.TempDir(), "missing"), "/bin/true", true)
	assert.Error(t, err)
}
