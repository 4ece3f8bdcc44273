package desktop

import (
	"fmt"
	"log/slog"
	"os/exec"
)

// spawn starts argv detached from the caller and reaps it in the background.
// Only start failures are returned.
func spawn(argv []string, logger *slog.Logger) error {
	if len(argv) == 0 {
		return fmt.Errorf("command argv cannot be empty")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command %s: %w", argv[0], err)
	}

	go func() {
		if err := cmd.Wait(); err != nil && logger != nil {
			logger.Debug("spawned command exited", "argv", argv, "error", err.Error())
		}
	}()
	return nil
}

func withArg(argv []string, arg string) []string {
	out := make([]string, 0, len(argv)+1)
	out = append(out, argv...)
	return append(out, arg)
}
