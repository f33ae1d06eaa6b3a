// Package configs loads application settings from defaults, an optional YAML
// file and DASP_* environment variables.
package configs

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-dasp/algorithms/spectral"
	"github.com/RyanBlaney/sonido-dasp/algorithms/tonal"
	"github.com/RyanBlaney/sonido-dasp/algorithms/windowing"
	"github.com/RyanBlaney/sonido-dasp/logging"
	"github.com/RyanBlaney/sonido-dasp/transcode"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. DASP_ANALYSIS_WINDOW
const EnvPrefix = "DASP"

// Config represents the application configuration
type Config struct {
	LogLevel     string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format" json:"output_format"`

	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis" json:"analysis"`
	Pitch    PitchConfig    `mapstructure:"pitch" yaml:"pitch" json:"pitch"`
	IO       IOConfig       `mapstructure:"io" yaml:"io" json:"io"`
	Decoder  DecoderConfig  `mapstructure:"decoder" yaml:"decoder" json:"decoder"`
}

// AnalysisConfig contains STFT settings shared by analysis and resynthesis
type AnalysisConfig struct {
	SampleRate   int     `mapstructure:"sample_rate" yaml:"sample_rate" json:"sample_rate"`
	HopSeconds   float64 `mapstructure:"hop_seconds" yaml:"hop_seconds" json:"hop_seconds"`
	FrameSeconds float64 `mapstructure:"frame_seconds" yaml:"frame_seconds" json:"frame_seconds"`
	Window       string  `mapstructure:"window" yaml:"window" json:"window"`
	WOLA         bool    `mapstructure:"wola" yaml:"wola" json:"wola"`
	Crop         string  `mapstructure:"crop" yaml:"crop" json:"crop"`
	Boundary     string  `mapstructure:"boundary" yaml:"boundary" json:"boundary"`
	Workers      int     `mapstructure:"workers" yaml:"workers" json:"workers"`
}

// PitchConfig contains tuning settings
type PitchConfig struct {
	ConcertPitch float64 `mapstructure:"concert_pitch" yaml:"concert_pitch" json:"concert_pitch"`
}

// IOConfig contains file output and external program settings
type IOConfig struct {
	BitDepth    int    `mapstructure:"bit_depth" yaml:"bit_depth" json:"bit_depth"`
	PlayCommand string `mapstructure:"play_command" yaml:"play_command" json:"play_command"`
	OpenCommand string `mapstructure:"open_command" yaml:"open_command" json:"open_command"`
}

// DecoderConfig contains ffmpeg settings for non-WAV input
type DecoderConfig struct {
	FFmpegPath      string        `mapstructure:"ffmpeg_path" yaml:"ffmpeg_path" json:"ffmpeg_path"`
	FFprobePath     string        `mapstructure:"ffprobe_path" yaml:"ffprobe_path" json:"ffprobe_path"`
	Timeout         time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	ResampleQuality string        `mapstructure:"resample_quality" yaml:"resample_quality" json:"resample_quality"`
	SampleRate      int           `mapstructure:"sample_rate" yaml:"sample_rate" json:"sample_rate"`
	Channels        int           `mapstructure:"channels" yaml:"channels" json:"channels"`
}

// NewViper returns a viper instance with defaults and environment overrides
// registered. Callers may bind flags to it before calling FromViper.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load reads the YAML file at path on top of the defaults. An empty path
// loads defaults and environment overrides only.
func Load(path string) (*Config, error) {
	v := NewViper()
	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return FromViper(v)
}

// ReadFile merges a config file into v; an empty path is a no-op
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("unable to read config file %s: %w", path, err)
	}
	return nil
}

// FromViper decodes and validates the configuration held by v
func FromViper(v *viper.Viper) (*Config, error) {
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks every section and joins the failures
func (c *Config) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.OutputFormat {
	case "table", "json", "yaml", "csv":
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q", c.OutputFormat))
	}

	if _, err := c.Analysis.AnalyzerConfig(); err != nil {
		errs = append(errs, fmt.Errorf("analysis: %w", err))
	}
	if _, err := tonal.NewTuning(c.Pitch.ConcertPitch); err != nil {
		errs = append(errs, fmt.Errorf("pitch: %w", err))
	}

	switch c.IO.BitDepth {
	case 8, 16, 24, 32:
	default:
		errs = append(errs, fmt.Errorf("io: bit depth must be 8, 16, 24 or 32, got %d", c.IO.BitDepth))
	}

	if err := c.Decoder.DecoderConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("decoder: %w", err))
	}

	return errors.Join(errs...)
}

// Level returns the parsed log level
func (c *Config) Level() logging.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}

// AnalyzerConfig converts the section into the engine's configuration. The
// sample rate is a fallback; callers override it with the rate of the file
// being analysed.
func (a *AnalysisConfig) AnalyzerConfig() (spectral.Config, error) {
	crop, err := spectral.ParseCropPolicy(a.Crop)
	if err != nil {
		return spectral.Config{}, err
	}
	boundary, err := spectral.ParseBoundaryBin(a.Boundary)
	if err != nil {
		return spectral.Config{}, err
	}
	if _, err := windowing.ParseKind(a.Window); err != nil {
		return spectral.Config{}, err
	}
	if _, _, err := spectral.FrameGeometry(a.SampleRate, a.HopSeconds, a.FrameSeconds); err != nil {
		return spectral.Config{}, err
	}

	return spectral.Config{
		SampleRate:   a.SampleRate,
		HopSeconds:   a.HopSeconds,
		FrameSeconds: a.FrameSeconds,
		Window:       a.Window,
		WOLA:         a.WOLA,
		Crop:         crop,
		Boundary:     boundary,
		Workers:      a.Workers,
	}, nil
}

// DecoderConfig converts the section into the transcode decoder configuration
func (d *DecoderConfig) DecoderConfig() *transcode.DecoderConfig {
	return &transcode.DecoderConfig{
		SampleRate:      d.SampleRate,
		Channels:        d.Channels,
		ResampleQuality: d.ResampleQuality,
		FFmpegPath:      d.FFmpegPath,
		FFprobePath:     d.FFprobePath,
		Timeout:         d.Timeout,
	}
}
