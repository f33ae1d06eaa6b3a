package main

import (
	"fmt"

	"github.com/RyanBlaney/sonido-dasp/transcode"
	"github.com/spf13/cobra"
)

var playOpen bool

var playCmd = &cobra.Command{
	Use:   "play <file>",
	Short: "Play a file, or open it in an editor with --open",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().BoolVar(&playOpen, "open", false,
		"open in the editor without waiting instead of playing")
	playCmd.Flags().String("player", transcode.DefaultPlayer, "playback command")
	playCmd.Flags().String("editor", transcode.DefaultEditor, "editor command")
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	if !playOpen {
		return transcode.Play(ctx, args[0], appConfig.IO.PlayCommand)
	}

	pid, err := transcode.Open(ctx, args[0], appConfig.IO.OpenCommand, false)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s started with pid %d\n", appConfig.IO.OpenCommand, pid)
	return nil
}
