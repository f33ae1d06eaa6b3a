package transcode

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/RyanBlaney/sonido-dasp/logging"
)

const (
	// DefaultEditor opens files for inspection
	DefaultEditor = "audacity"
	// DefaultPlayer plays files from the command line (sox)
	DefaultPlayer = "play"
)

// Open launches cmd with the file as its only argument. When wait is false
// the process is left running and its pid is returned immediately.
func Open(ctx context.Context, path, cmd string, wait bool) (int, error) {
	resolved, err := ResolvePath(path, ".wav")
	if err != nil {
		return 0, err
	}
	if _, err := os.Stat(resolved); err != nil {
		return 0, fmt.Errorf("cannot open %s: %w", resolved, err)
	}
	if cmd == "" {
		cmd = DefaultEditor
	}

	logger := logging.WithFields(logging.Fields{
		"component": "player",
		"command":   cmd,
		"path":      resolved,
	})

	process := exec.CommandContext(ctx, cmd, resolved)
	if err := process.Start(); err != nil {
		return 0, fmt.Errorf("failed to start %s: %w", cmd, err)
	}
	pid := process.Process.Pid
	logger.Debug("Started external program", logging.Fields{"pid": pid, "wait": wait})

	if !wait {
		// reap in the background so the child does not linger as a zombie
		go func() { _ = process.Wait() }()
		return pid, nil
	}

	if err := process.Wait(); err != nil {
		return pid, fmt.Errorf("%s exited with error: %w", cmd, err)
	}
	return pid, nil
}

// Play plays the file and blocks until playback ends
func Play(ctx context.Context, path, cmd string) error {
	if cmd == "" {
		cmd = DefaultPlayer
	}
	_, err := Open(ctx, path, cmd, true)
	return err
}
