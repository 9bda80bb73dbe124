package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// RevealCommand returns the program and arguments that open dir in the
// native file manager for goos.
func RevealCommand(goos, dir string) (string, []string, error) {
	if dir == "" {
		return "", nil, errors.New("reveal: empty path")
	}
	switch goos {
	case "windows":
		return "explorer", []string{dir}, nil
	case "darwin":
		return "open", []string{dir}, nil
	default: // linux and the BSDs
		return "xdg-open", []string{dir}, nil
	}
}

// starter is swapped out in tests.
var starter = func(cmd *exec.Cmd) error { return cmd.Start() }

// Reveal opens dir in the native file manager without waiting for it.
func Reveal(dir string) error {
	name, args, err := RevealCommand(runtime.GOOS, dir)
	if err != nil {
		return err
	}

	cmd := exec.Command(name, args...)
	if err := starter(cmd); err != nil {
		slog.Warn("open file manager failed", "dir", dir, "cmd", name, "error", err)
		return fmt.Errorf("open %s with %s: %w", dir, name, err)
	}
	if cmd.Process != nil {
		go func() { _ = cmd.Wait() }()
	}
	slog.Debug("opened file manager", "dir", dir, "cmd", name)
	return nil
}
