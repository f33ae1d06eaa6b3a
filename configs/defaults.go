package configs

import (
	"github.com/RyanBlaney/sonido-dasp/algorithms/spectral"
	"github.com/RyanBlaney/sonido-dasp/algorithms/tonal"
	"github.com/RyanBlaney/sonido-dasp/algorithms/windowing"
	"github.com/RyanBlaney/sonido-dasp/transcode"
	"github.com/spf13/viper"
)

// Default sample rate for generated signals and the analysis fallback
const DefaultSampleRate = 44100

// setDefaults sets default configuration values for all sections
func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("output_format", "table")

	// Analysis defaults. WOLA is on so resynthesis has unity gain.
	v.SetDefault("analysis.sample_rate", DefaultSampleRate)
	v.SetDefault("analysis.hop_seconds", 0.01)
	v.SetDefault("analysis.frame_seconds", 0.04)
	v.SetDefault("analysis.window", windowing.Hanning.String())
	v.SetDefault("analysis.wola", true)
	v.SetDefault("analysis.crop", spectral.Crop.String())
	v.SetDefault("analysis.boundary", spectral.PackNyquist.String())
	v.SetDefault("analysis.workers", 0)

	v.SetDefault("pitch.concert_pitch", tonal.DefaultConcertPitch)

	v.SetDefault("io.bit_depth", 24)
	v.SetDefault("io.play_command", transcode.DefaultPlayer)
	v.SetDefault("io.open_command", transcode.DefaultEditor)

	decoder := transcode.DefaultDecoderConfig()
	v.SetDefault("decoder.ffmpeg_path", decoder.FFmpegPath)
	v.SetDefault("decoder.ffprobe_path", decoder.FFprobePath)
	v.SetDefault("decoder.timeout", decoder.Timeout)
	v.SetDefault("decoder.resample_quality", decoder.ResampleQuality)
	v.SetDefault("decoder.sample_rate", 0)
	v.SetDefault("decoder.channels", 0)
}

// Default returns the configuration with no file or environment applied
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	config := &Config{}
	// defaults always decode
	_ = v.Unmarshal(config)
	return config
}
