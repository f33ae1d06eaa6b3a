package transcode

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-dasp/logging"
)

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	SampleRate      int           `json:"sample_rate" yaml:"sample_rate"` // 0 keeps the source rate
	Channels        int           `json:"channels" yaml:"channels"`       // 0 keeps the source layout
	MaxDuration     time.Duration `json:"max_duration" yaml:"max_duration"`
	ResampleQuality string        `json:"resample_quality" yaml:"resample_quality"` // "fast", "medium", "high"
	FFmpegPath      string        `json:"ffmpeg_path" yaml:"ffmpeg_path"`
	FFprobePath     string        `json:"ffprobe_path" yaml:"ffprobe_path"`
	Timeout         time.Duration `json:"timeout" yaml:"timeout"`
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		ResampleQuality: "medium",
		FFmpegPath:      "ffmpeg",
		FFprobePath:     "ffprobe",
		Timeout:         30 * time.Second,
	}
}

// Validate checks the configuration without touching the binaries
func (c *DecoderConfig) Validate() error {
	if c.SampleRate < 0 {
		return fmt.Errorf("sample rate must not be negative: %d", c.SampleRate)
	}
	if c.Channels < 0 || c.Channels > 8 {
		return fmt.Errorf("channels must be between 0 and 8: %d", c.Channels)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive: %v", c.Timeout)
	}
	switch c.ResampleQuality {
	case "", "fast", "medium", "high":
	default:
		return fmt.Errorf("unknown resample quality: %q", c.ResampleQuality)
	}
	return nil
}

// Decoder handles compressed formats by shelling out to ffmpeg
type Decoder struct {
	config *DecoderConfig
}

// AudioMetadata holds detected audio properties from ffprobe
type AudioMetadata struct {
	SampleRate int     `json:"sample_rate"`
	Channels   int     `json:"channels"`
	Codec      string  `json:"codec"`
	Duration   float64 `json:"duration"`
	Bitrate    int     `json:"bitrate"`
	Format     string  `json:"format"`
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// ReadAudio reads path with the native WAV reader when it has a .wav
// extension and through ffmpeg otherwise.
func ReadAudio(ctx context.Context, path string, config *DecoderConfig) (*AudioData, error) {
	resolved, err := ResolvePath(path, "")
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(resolved))
	if ext == ".wav" || ext == "" {
		return ReadWAV(resolved)
	}
	return NewDecoder(config).DecodeFile(ctx, resolved)
}

// DecodeFile decodes an audio file into per-channel samples
func (d *Decoder) DecodeFile(ctx context.Context, filename string) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "DecodeFile",
		"filename":  filename,
	})

	if err := d.config.Validate(); err != nil {
		return nil, err
	}

	metadata, err := d.probe(ctx, filename)
	if err != nil {
		logger.Error(err, "Failed to probe audio file")
		return nil, err
	}

	logger.Debug("Audio metadata detected", logging.Fields{
		"input_sample_rate": metadata.SampleRate,
		"input_channels":    metadata.Channels,
		"input_codec":       metadata.Codec,
		"input_duration":    metadata.Duration,
	})

	args := d.buildFFmpegArgs(metadata)
	args = append([]string{"-i", filename}, args...)
	args = append(args, "pipe:1")

	output, err := d.run(ctx, d.config.FFmpegPath, args)
	if err != nil {
		logger.Error(err, "Ffmpeg decode failed")
		return nil, fmt.Errorf("ffmpeg decode failed: %w", err)
	}

	samples := bytesToFloat64(output)
	if len(samples) == 0 {
		return nil, fmt.Errorf("no audio samples decoded")
	}

	sampleRate, channels := d.outputLayout(metadata)
	perChannel, err := deinterleave(samples, channels)
	if err != nil {
		return nil, err
	}

	data := newAudioData(filename, perChannel, sampleRate, 0)
	data.Codec = metadata.Codec

	logger.Debug("FFmpeg decode completed successfully", logging.Fields{
		"output_samples":     len(samples),
		"output_sample_rate": sampleRate,
		"output_channels":    channels,
		"output_duration":    data.Duration.Seconds(),
	})

	return data, nil
}

// run executes a binary with the configured timeout and returns stdout
func (d *Decoder) run(ctx context.Context, bin string, args []string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, bin, args...).Output()
	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return nil, fmt.Errorf("%w, stderr: %s", err, string(exitError.Stderr))
		}
		return nil, err
	}
	return output, nil
}

// probe uses ffprobe to get audio information from a file
func (d *Decoder) probe(ctx context.Context, filename string) (*AudioMetadata, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "a:0",
		filename,
	}

	output, err := d.run(ctx, d.config.FFprobePath, args)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseFFprobeOutput(output)
}

// parseFFprobeOutput parses ffprobe JSON to extract audio metadata
func parseFFprobeOutput(jsonData []byte) (*AudioMetadata, error) {
	var probe struct {
		Streams []struct {
			CodecType     string `json:"codec_type"`
			CodecName     string `json:"codec_name"`
			SampleRate    string `json:"sample_rate"`
			Channels      int    `json:"channels"`
			Duration      string `json:"duration"`
			BitRate       string `json:"bit_rate"`
			CodecLongName string `json:"codec_long_name"`
		} `json:"streams"`
	}

	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	if len(probe.Streams) == 0 {
		return nil, fmt.Errorf("no audio streams found")
	}

	stream := probe.Streams[0]
	if stream.CodecType != "audio" {
		return nil, fmt.Errorf("stream is not audio type: %s", stream.CodecType)
	}

	sampleRate, err := strconv.Atoi(stream.SampleRate)
	if err != nil || sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %q", stream.SampleRate)
	}

	duration, err := strconv.ParseFloat(stream.Duration, 64)
	if err != nil {
		duration = 0
	}

	bitrate, err := strconv.Atoi(stream.BitRate)
	if err != nil {
		bitrate = 0
	}

	if stream.Channels <= 0 || stream.Channels > 8 {
		return nil, fmt.Errorf("invalid channel count: %d", stream.Channels)
	}

	return &AudioMetadata{
		SampleRate: sampleRate,
		Channels:   stream.Channels,
		Codec:      stream.CodecName,
		Duration:   duration,
		Bitrate:    bitrate,
		Format:     stream.CodecLongName,
	}, nil
}

// outputLayout resolves the rate and channel count ffmpeg will emit
func (d *Decoder) outputLayout(metadata *AudioMetadata) (sampleRate, channels int) {
	sampleRate, channels = metadata.SampleRate, metadata.Channels
	if d.config.SampleRate > 0 {
		sampleRate = d.config.SampleRate
	}
	if d.config.Channels > 0 {
		channels = d.config.Channels
	}
	return sampleRate, channels
}

// buildFFmpegArgs builds the ffmpeg arguments based on configuration and metadata
func (d *Decoder) buildFFmpegArgs(metadata *AudioMetadata) []string {
	sampleRate, channels := d.outputLayout(metadata)
	args := []string{
		"-f", "f64le",
		"-ac", strconv.Itoa(channels),
		"-ar", strconv.Itoa(sampleRate),
	}

	if sampleRate != metadata.SampleRate {
		switch d.config.ResampleQuality {
		case "fast":
			args = append(args, "-af", "aresample=resampler=soxr:precision=16")
		case "medium":
			args = append(args, "-af", "aresample=resampler=soxr:precision=20")
		case "high":
			args = append(args, "-af", "aresample=resampler=soxr:precision=28")
		}
	}

	if d.config.MaxDuration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.2f", d.config.MaxDuration.Seconds()))
	}

	return append(args, "-v", "error")
}

// bytesToFloat64 converts raw little-endian float64 bytes, dropping a
// trailing partial sample.
func bytesToFloat64(data []byte) []float64 {
	sampleCount := len(data) / 8
	if sampleCount == 0 {
		return nil
	}

	samples := make([]float64, sampleCount)
	for i := range sampleCount {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}
	return samples
}
