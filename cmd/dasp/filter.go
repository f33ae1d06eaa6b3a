package main

import (
	"fmt"
	"math/cmplx"
	"os"

	"github.com/RyanBlaney/sonido-dasp/algorithms/common"
	"github.com/RyanBlaney/sonido-dasp/algorithms/filters"
	"github.com/spf13/cobra"
)

var (
	filterB        []float64
	filterA        []float64
	filterPoints   int
	filterLog      bool
	filterResponse bool
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Inspect a transfer function given by its coefficients",
	Long: `Print the poles, zeros and stability of H(z) = B(z)/A(z). Coefficients are
in ascending powers of z^-1. With --response the frequency response is
printed instead.

Example:
  dasp filter --b 1,-1 --a 1,-0.995 --response --points 16`,
	Args: cobra.NoArgs,
	RunE: runFilter,
}

func init() {
	rootCmd.AddCommand(filterCmd)

	filterCmd.Flags().Float64SliceVar(&filterB, "b", nil, "numerator coefficients")
	filterCmd.Flags().Float64SliceVar(&filterA, "a", []float64{1}, "denominator coefficients")
	filterCmd.Flags().BoolVar(&filterResponse, "response", false, "print the frequency response")
	filterCmd.Flags().IntVar(&filterPoints, "points", 512, "frequency response points")
	filterCmd.Flags().BoolVar(&filterLog, "log", false, "logarithmic frequency spacing")
	filterCmd.Flags().Int("sample-rate", 44100, "sample rate in hertz")
	_ = filterCmd.MarkFlagRequired("b")
}

type filterReport struct {
	B      []float64 `json:"b" yaml:"b"`
	A      []float64 `json:"a" yaml:"a"`
	Zeros  []string  `json:"zeros" yaml:"zeros"`
	Poles  []string  `json:"poles" yaml:"poles"`
	Stable bool      `json:"stable" yaml:"stable"`
}

type responsePoint struct {
	Frequency float64 `json:"frequency" yaml:"frequency"`
	Magnitude float64 `json:"magnitude_db" yaml:"magnitude_db"`
	Phase     float64 `json:"phase" yaml:"phase"`
}

func runFilter(cmd *cobra.Command, args []string) error {
	tf, err := filters.NewTransferFunction(filterB, filterA)
	if err != nil {
		return err
	}

	if filterResponse {
		return renderResponse(tf)
	}

	zeros, err := tf.Zeros()
	if err != nil {
		return err
	}
	poles, err := tf.Poles()
	if err != nil {
		return err
	}
	stable, err := tf.Stable()
	if err != nil {
		return err
	}

	report := filterReport{
		B:      tf.B,
		A:      tf.A,
		Zeros:  formatComplexes(zeros),
		Poles:  formatComplexes(poles),
		Stable: stable,
	}
	return render(os.Stdout, appConfig.OutputFormat, report, keyValues(
		"b", fmt.Sprint(report.B),
		"a", fmt.Sprint(report.A),
		"zeros", fmt.Sprint(report.Zeros),
		"poles", fmt.Sprint(report.Poles),
		"stable", report.Stable,
	))
}

func renderResponse(tf *filters.TransferFunction) error {
	freqs, response, err := tf.FrequencyResponse(appConfig.Analysis.SampleRate, filterPoints, filterLog)
	if err != nil {
		return err
	}

	magnitude := common.Abs(response, true)
	phase := common.Arg(response, common.PhaseUnwrapped)

	points := make([]responsePoint, len(freqs))
	tab := &table{Header: []string{"FREQUENCY", "MAGNITUDE DB", "PHASE"}}
	for i := range freqs {
		points[i] = responsePoint{Frequency: freqs[i], Magnitude: magnitude[i], Phase: phase[i]}
		tab.Rows = append(tab.Rows, []string{
			formatFloat(freqs[i]), formatFloat(magnitude[i]), formatFloat(phase[i]),
		})
	}
	return render(os.Stdout, appConfig.OutputFormat, points, tab)
}

func formatComplexes(values []complex128) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if imag(v) == 0 {
			out[i] = formatFloat(real(v))
			continue
		}
		out[i] = fmt.Sprintf("%s%+gi (|z|=%s)", formatFloat(real(v)), imag(v), formatFloat(cmplx.Abs(v)))
	}
	return out
}
