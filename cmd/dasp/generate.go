package main

import (
	"os"

	"github.com/RyanBlaney/sonido-dasp/algorithms/generators"
	"github.com/RyanBlaney/sonido-dasp/transcode"
	"github.com/spf13/cobra"
)

var genSpec generators.Spec

var generateCmd = &cobra.Command{
	Use:   "generate <kind> <output.wav>",
	Short: "Write a synthetic test signal",
	Long: `Generate a test signal and write it as a mono WAV file.

Kinds: harmonic (alias sine), square, sawtooth, triangle, chirp, noise.
A chirp sweeps linearly from --freq to --end-freq over the duration.`,
	Args: cobra.ExactArgs(2),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().Float64VarP(&genSpec.Frequency, "freq", "f", 440,
		"frequency in hertz (start frequency for chirp)")
	generateCmd.Flags().Float64Var(&genSpec.EndFreq, "end-freq", 4400,
		"chirp end frequency in hertz")
	generateCmd.Flags().Float64VarP(&genSpec.Duration, "duration", "d", 1,
		"duration in seconds")
	generateCmd.Flags().Float64VarP(&genSpec.Amplitude, "amplitude", "a", 0.5,
		"peak amplitude")
	generateCmd.Flags().Uint64Var(&genSpec.Seed, "seed", 1,
		"noise seed")
	generateCmd.Flags().Int("sample-rate", 44100, "sample rate in hertz")
	generateCmd.Flags().Int("bits", 24, "output bit depth (8, 16, 24, 32)")
}

type generateReport struct {
	Output     string  `json:"output" yaml:"output"`
	Kind       string  `json:"kind" yaml:"kind"`
	SampleRate int     `json:"sample_rate" yaml:"sample_rate"`
	Samples    int     `json:"samples" yaml:"samples"`
	Duration   float64 `json:"duration" yaml:"duration"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	kind, err := generators.ParseKind(args[0])
	if err != nil {
		return err
	}

	spec := genSpec
	spec.Kind = kind
	spec.SampleRate = appConfig.Analysis.SampleRate

	_, signal, err := generators.Generate(spec)
	if err != nil {
		return err
	}

	output, err := transcode.ResolvePath(args[1], ".wav")
	if err != nil {
		return err
	}
	if err := transcode.WriteWAV(output, [][]float64{signal}, spec.SampleRate, appConfig.IO.BitDepth); err != nil {
		return err
	}

	report := generateReport{
		Output:     output,
		Kind:       kind.String(),
		SampleRate: spec.SampleRate,
		Samples:    len(signal),
		Duration:   float64(len(signal)) / float64(spec.SampleRate),
	}
	return render(os.Stdout, appConfig.OutputFormat, report, keyValues(
		"output", report.Output,
		"kind", report.Kind,
		"sample rate", report.SampleRate,
		"samples", report.Samples,
		"duration", formatFloat(report.Duration),
	))
}
