package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
	"github.com/RyanBlaney/sonido-dasp/algorithms/spectral"
	"github.com/RyanBlaney/sonido-dasp/logging"
	"github.com/RyanBlaney/sonido-dasp/transcode"
	"github.com/spf13/cobra"
)

var (
	stftFull    bool
	stftDB      bool
	stftChannel int
	stftTrace   bool
	stftPeaks   int
)

var stftCmd = &cobra.Command{
	Use:   "stft <input>",
	Short: "Analyse a file and print the spectrogram or its summary",
	Long: `Analyse one channel of an audio file (or the average of all channels)
with the short-time Fourier transform.

By default a summary of the analysis geometry is printed. With --full the
magnitude matrix is written instead: one row per hop, one column per
frequency bin.`,
	Args: cobra.ExactArgs(1),
	RunE: runSTFT,
}

func init() {
	rootCmd.AddCommand(stftCmd)
	addAnalysisFlags(stftCmd)

	stftCmd.Flags().BoolVar(&stftFull, "full", false,
		"write the magnitude matrix instead of a summary")
	stftCmd.Flags().BoolVar(&stftDB, "db", false,
		"express magnitudes in decibels")
	stftCmd.Flags().IntVar(&stftChannel, "channel", -1,
		"channel to analyse, -1 averages all channels")
	stftCmd.Flags().BoolVar(&stftTrace, "trace", false,
		"log every processing stage of every hop at debug level")
	stftCmd.Flags().IntVar(&stftPeaks, "peaks", 5,
		"number of spectral peaks to report from the mean magnitude")
}

// stftSummary is the machine-readable result of an analysis
type stftSummary struct {
	Path          string          `json:"path" yaml:"path"`
	SampleRate    int             `json:"sample_rate" yaml:"sample_rate"`
	Samples       int             `json:"samples" yaml:"samples"`
	HopSize       int             `json:"hop_size" yaml:"hop_size"`
	FrameSize     int             `json:"frame_size" yaml:"frame_size"`
	FFTSize       int             `json:"fft_size" yaml:"fft_size"`
	Rows          int             `json:"rows" yaml:"rows"`
	Columns       int             `json:"columns" yaml:"columns"`
	Window        string          `json:"window" yaml:"window"`
	Boundary      string          `json:"boundary" yaml:"boundary"`
	Peaks         []spectral.Peak `json:"peaks" yaml:"peaks"`
	ElapsedMillis int64           `json:"elapsed_ms" yaml:"elapsed_ms"`
}

// stftMatrix is the full dump
type stftMatrix struct {
	Timestamps  []float64   `json:"timestamps" yaml:"timestamps"`
	Frequencies []float64   `json:"frequencies" yaml:"frequencies"`
	Magnitude   [][]float64 `json:"magnitude" yaml:"magnitude"`
}

func runSTFT(cmd *cobra.Command, args []string) error {
	data, err := transcode.ReadAudio(commandContext(cmd), args[0], appConfig.Decoder.DecoderConfig())
	if err != nil {
		return err
	}
	signal, err := selectChannel(data, stftChannel)
	if err != nil {
		return err
	}

	cfg, err := appConfig.Analysis.AnalyzerConfig()
	if err != nil {
		return err
	}
	cfg.SampleRate = data.SampleRate

	var opts []spectral.Option
	if stftTrace {
		opts = append(opts, spectral.WithObserver(traceObserver(logging.WithFields(logging.Fields{
			"component": "stft_trace",
		}))))
	}

	analyzer, err := spectral.NewAnalyzer(cfg, opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	spec, err := analyzer.Analyze(signal)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	elapsed := time.Since(start)

	if stftFull {
		return renderMatrix(spec, spec.Magnitude(stftDB))
	}

	summary := stftSummary{
		Path:       data.Path,
		SampleRate: spec.SampleRate,
		Samples:    len(signal),
		HopSize:    spec.HopSize,
		FrameSize:  spec.FrameSize,
		FFTSize:    spec.FFTSize,
		Rows:       spec.Rows(),
		Columns:    spec.Columns(),
		Window:     cfg.Window,
		Boundary:   spec.Boundary.String(),
		Peaks: spectral.PeakPicker{
			MaxPeaks:    stftPeaks,
			Interpolate: true,
		}.Pick(spec.MeanMagnitude(false), spec.Frequencies),
		ElapsedMillis: elapsed.Milliseconds(),
	}

	peaks := make([]string, len(summary.Peaks))
	for i, p := range summary.Peaks {
		peaks[i] = formatFloat(p.Frequency)
	}

	return render(os.Stdout, appConfig.OutputFormat, summary, keyValues(
		"path", summary.Path,
		"sample rate", summary.SampleRate,
		"samples", summary.Samples,
		"hop size", summary.HopSize,
		"frame size", summary.FrameSize,
		"fft size", summary.FFTSize,
		"rows", summary.Rows,
		"columns", summary.Columns,
		"window", summary.Window,
		"boundary", summary.Boundary,
		"peaks (Hz)", strings.Join(peaks, " "),
		"elapsed", elapsed.Round(time.Microsecond),
	))
}

// dbFloor replaces -Inf for silent bins; json cannot encode infinities
const dbFloor = -400.0

func renderMatrix(spec *spectral.Spectrogram, magnitude [][]float64) error {
	for _, row := range magnitude {
		for j, v := range row {
			row[j] = max(v, dbFloor)
		}
	}

	tab := &table{Header: []string{"time"}}
	for _, f := range spec.Frequencies {
		tab.Header = append(tab.Header, formatFloat(f))
	}
	for i, row := range magnitude {
		cells := make([]string, 0, len(row)+1)
		cells = append(cells, formatFloat(spec.Timestamps[i]))
		for _, v := range row {
			cells = append(cells, formatFloat(v))
		}
		tab.Rows = append(tab.Rows, cells)
	}

	return render(os.Stdout, appConfig.OutputFormat, stftMatrix{
		Timestamps:  spec.Timestamps,
		Frequencies: spec.Frequencies,
		Magnitude:   magnitude,
	}, tab)
}

// selectChannel returns the requested channel, or the mono mix for -1
func selectChannel(data *transcode.AudioData, channel int) ([]float64, error) {
	if channel < 0 {
		return data.Mono(), nil
	}
	if channel >= data.NumChannels() {
		return nil, common.NewInvalidParameter("channel", channel,
			fmt.Sprintf("file has %d channel(s)", data.NumChannels()))
	}
	return data.Channels[channel], nil
}

// traceObserver logs a one-line digest of every stage
func traceObserver(logger logging.Logger) spectral.Observer {
	return func(e spectral.Event) {
		fields := logging.Fields{"hop": e.Hop, "stage": e.Stage.String()}
		if e.Samples != nil {
			fields["rms"] = common.RMS(e.Samples)
			fields["samples"] = len(e.Samples)
		}
		if e.Spectrum != nil {
			fields["bins"] = len(e.Spectrum)
			fields["energy"] = common.Energy(common.Abs(e.Spectrum, false))
		}
		logger.Debug("Stage complete", fields)
	}
}

// commandContext returns the command context or a background context
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
