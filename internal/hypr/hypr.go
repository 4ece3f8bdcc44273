// Package hypr wraps the hyprctl calls used for window lookup and focus.
package hypr

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// waitDelay caps how long output pipes are drained after hyprctl is killed.
const waitDelay = 250 * time.Millisecond

func runHyprctl(ctx context.Context, args ...string) error {
	_, err := runHyprctlOutput(ctx, args...)
	return err
}

func runHyprctlOutput(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "hyprctl", args...)
	cmd.WaitDelay = waitDelay
	out, err := cmd.CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return nil, fmt.Errorf("hyprctl %v failed: %w", args, err)
		}
		return nil, fmt.Errorf("hyprctl %v failed: %w (%s)", args, err, trimmed)
	}
	return out, nil
}

// runHyprctlJSON executes a JSON-returning hyprctl subcommand.
func runHyprctlJSON(ctx context.Context, target string) ([]byte, error) {
	return runHyprctlOutput(ctx, "-j", target)
}
