package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/RyanBlaney/sonido-dasp/algorithms/spectral"
	"github.com/RyanBlaney/sonido-dasp/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), config)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, 44100, config.Analysis.SampleRate)
	assert.Equal(t, 0.01, config.Analysis.HopSeconds)
	assert.Equal(t, 0.04, config.Analysis.FrameSeconds)
	assert.Equal(t, "hanning", config.Analysis.Window)
	assert.True(t, config.Analysis.WOLA)
	assert.Equal(t, 440.0, config.Pitch.ConcertPitch)
	assert.Equal(t, 24, config.IO.BitDepth)
	assert.Equal(t, "play", config.IO.PlayCommand)
	assert.Equal(t, 30*time.Second, config.Decoder.Timeout)
	assert.Equal(t, logging.InfoLevel, config.Level())
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("DASP_ANALYSIS_WINDOW", "hamming")
	t.Setenv("DASP_PITCH_CONCERT_PITCH", "432")
	t.Setenv("DASP_LOG_LEVEL", "debug")

	config, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "hamming", config.Analysis.Window)
	assert.Equal(t, 432.0, config.Pitch.ConcertPitch)
	assert.Equal(t, logging.DebugLevel, config.Level())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dasp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
analysis:
  sample_rate: 48000
  hop_seconds: 0.005
  boundary: drop-dc
  crop: pad
io:
  bit_depth: 16
decoder:
  timeout: 5s
`), 0o644))

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 48000, config.Analysis.SampleRate)
	assert.Equal(t, 0.005, config.Analysis.HopSeconds)
	assert.Equal(t, 0.04, config.Analysis.FrameSeconds, "unset keys keep defaults")
	assert.Equal(t, 16, config.IO.BitDepth)
	assert.Equal(t, 5*time.Second, config.Decoder.Timeout)

	cfg, err := config.Analysis.AnalyzerConfig()
	require.NoError(t, err)
	assert.Equal(t, spectral.DropDC, cfg.Boundary)
	assert.Equal(t, spectral.Pad, cfg.Crop)
	assert.True(t, cfg.WOLA)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	config := Default()
	require.NoError(t, config.Validate())

	config.Analysis.Window = "han"
	config.IO.BitDepth = 12
	config.Pitch.ConcertPitch = 0
	config.OutputFormat = "xml"

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis")
	assert.Contains(t, err.Error(), "bit depth")
	assert.Contains(t, err.Error(), "pitch")
	assert.Contains(t, err.Error(), "xml")
}

func TestDecoderBridge(t *testing.T) {
	config := Default()
	decoder := config.Decoder.DecoderConfig()
	assert.Equal(t, "ffmpeg", decoder.FFmpegPath)
	assert.Equal(t, "medium", decoder.ResampleQuality)
	assert.NoError(t, decoder.Validate())
}
