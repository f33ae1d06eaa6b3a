package main

import (
	"fmt"
	"os"

	"github.com/RyanBlaney/sonido-dasp/configs"
	"github.com/RyanBlaney/sonido-dasp/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	configFile string
	settings   = configs.NewViper()
	appConfig  *configs.Config
)

// flagKeys maps flag names to configuration keys. Flags are bound for the
// command being run so the same flag on two commands does not collide.
var flagKeys = map[string]string{
	"log-level":     "log_level",
	"output":        "output_format",
	"sample-rate":   "analysis.sample_rate",
	"hop":           "analysis.hop_seconds",
	"frame":         "analysis.frame_seconds",
	"window":        "analysis.window",
	"wola":          "analysis.wola",
	"crop":          "analysis.crop",
	"boundary":      "analysis.boundary",
	"workers":       "analysis.workers",
	"concert-pitch": "pitch.concert_pitch",
	"bits":          "io.bit_depth",
	"player":        "io.play_command",
	"editor":        "io.open_command",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dasp",
	Short: "Short-time Fourier analysis and resynthesis toolkit",
	Long: `dasp analyses audio with a short-time Fourier transform, resynthesises it
with weighted overlap-add, and carries the small helpers that go with that
kind of work: test-signal generation, pitch naming, filter inspection and
WAV file I/O.

Settings come from defaults, an optional YAML file (--config), DASP_*
environment variables and flags, in increasing order of precedence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (YAML)")
	rootCmd.PersistentFlags().String("log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("output", "o", "table",
		"output format (table, json, yaml, csv)")
}

// initializeConfig reads the config file, binds flags and installs the logger
func initializeConfig(cmd *cobra.Command) error {
	if err := configs.ReadFile(settings, configFile); err != nil {
		return err
	}
	if err := bindFlags(cmd, settings); err != nil {
		return err
	}

	config, err := configs.FromViper(settings)
	if err != nil {
		return err
	}
	appConfig = config

	logger := logging.NewDefaultLogger()
	logger.SetLevel(config.Level())
	logging.SetGlobalLogger(logger)

	logging.Debug("Configuration loaded", logging.Fields{
		"config_file": settings.ConfigFileUsed(),
		"command":     cmd.Name(),
	})
	return nil
}

// bindFlags binds each known flag of cmd to its configuration key
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			lastErr = err
		}
	})

	return lastErr
}

// addAnalysisFlags registers the STFT flags shared by stft and resynth
func addAnalysisFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Float64("hop", 0.01, "hop length in seconds")
	flags.Float64("frame", 0.04, "frame length in seconds")
	flags.String("window", "hanning", "window (rectangular, bartlett, blackman, hamming, hanning, kaiser)")
	flags.Bool("wola", true, "scale the window for unity-gain resynthesis")
	flags.String("crop", "crop", "trailing partial frame policy (crop, pad)")
	flags.String("boundary", "pack-nyquist", "boundary bin convention (pack-nyquist, drop-nyquist, drop-dc)")
	flags.Int("workers", 0, "worker goroutines, 0 picks from the workload")
}
