package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/RyanBlaney/sonido-dasp/algorithms/tonal"
	"github.com/spf13/cobra"
)

var pitchCmd = &cobra.Command{
	Use:   "pitch <frequency>...",
	Short: "Name the nearest note for each frequency",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPitch,
}

func init() {
	rootCmd.AddCommand(pitchCmd)
	pitchCmd.Flags().Float64("concert-pitch", tonal.DefaultConcertPitch, "frequency of A4 in hertz")
}

type pitchRow struct {
	Frequency float64 `json:"frequency" yaml:"frequency"`
	Note      string  `json:"note" yaml:"note"`
	Octave    int     `json:"octave" yaml:"octave"`
	Semitone  int     `json:"semitone" yaml:"semitone"`
	Cents     float64 `json:"cents" yaml:"cents"`
}

func runPitch(cmd *cobra.Command, args []string) error {
	tuning, err := tonal.NewTuning(appConfig.Pitch.ConcertPitch)
	if err != nil {
		return err
	}

	rows := make([]pitchRow, 0, len(args))
	tab := &table{Header: []string{"FREQUENCY", "NOTE", "OCTAVE", "SEMITONE", "CENTS"}}
	for _, arg := range args {
		frequency, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("invalid frequency %q: %w", arg, err)
		}

		row, err := describePitch(tuning, frequency)
		if err != nil {
			return err
		}
		rows = append(rows, row)
		tab.Rows = append(tab.Rows, []string{
			formatFloat(row.Frequency), row.Note, fmt.Sprint(row.Octave),
			fmt.Sprint(row.Semitone), strconv.FormatFloat(row.Cents, 'f', 1, 64),
		})
	}

	return render(os.Stdout, appConfig.OutputFormat, rows, tab)
}

func describePitch(tuning *tonal.Tuning, frequency float64) (pitchRow, error) {
	name, err := tuning.NoteName(frequency)
	if err != nil {
		return pitchRow{}, err
	}
	octave, err := tuning.Octave(frequency)
	if err != nil {
		return pitchRow{}, err
	}
	semitone, err := tuning.Semitone(frequency, true)
	if err != nil {
		return pitchRow{}, err
	}
	cents, err := tuning.Cents(frequency)
	if err != nil {
		return pitchRow{}, err
	}
	return pitchRow{
		Frequency: frequency,
		Note:      name,
		Octave:    octave,
		Semitone:  semitone,
		Cents:     cents,
	}, nil
}
