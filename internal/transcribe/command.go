// Package transcribe adapts external speech-to-text sources to session.Listener.
package transcribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rbright/nova/internal/config"
	"github.com/rbright/nova/internal/session"
)

const (
	inputPlaceholder       = "{input}"
	timeoutPlaceholder     = "{timeout}"
	phraseLimitPlaceholder = "{phrase_limit}"

	// waitDelay caps how long a cancelled command may hold its output pipes.
	waitDelay = 250 * time.Millisecond
)

// CommandListener runs an external STT command once per capture and reads
// the transcript from its stdout.
//
// Empty stdout means nothing was said before the timeout. Exiting with
// UnintelligibleExitCode means speech was heard but not recognized.
type CommandListener struct {
	Argv                   []string
	Input                  string
	UnintelligibleExitCode int
	Logger                 *slog.Logger
}

// NewCommandListener builds a listener from the listen config section.
func NewCommandListener(cfg config.ListenConfig, logger *slog.Logger) CommandListener {
	return CommandListener{
		Argv:                   append([]string(nil), cfg.Command.Argv...),
		Input:                  cfg.Input,
		UnintelligibleExitCode: cfg.UnintelligibleExitCode,
		Logger:                 logger,
	}
}

// Listen runs the command with {input} and the timing placeholders
// substituted. Timings are given in seconds.
func (l CommandListener) Listen(ctx context.Context, timeout, phraseLimit time.Duration) (string, error) {
	if len(l.Argv) == 0 {
		return "", fmt.Errorf("listen command argv cannot be empty")
	}
	argv := expandArgv(l.Argv, l.Input, timeout, phraseLimit)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && l.UnintelligibleExitCode != 0 && exitErr.ExitCode() == l.UnintelligibleExitCode {
			return "", session.ErrUnintelligible
		}
		l.logFailure(argv[0], stderr.String(), err)
		return "", fmt.Errorf("run listen command %s: %w", argv[0], err)
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", session.ErrTimedOut
	}
	return text, nil
}

// expandArgv substitutes the input source and capture bounds into argv.
func expandArgv(argv []string, input string, timeout, phraseLimit time.Duration) []string {
	replacer := strings.NewReplacer(
		inputPlaceholder, input,
		timeoutPlaceholder, seconds(timeout),
		phraseLimitPlaceholder, seconds(phraseLimit),
	)
	out := make([]string, len(argv))
	for i, arg := range argv {
		out[i] = replacer.Replace(arg)
	}
	return out
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

func (l CommandListener) logFailure(name, stderr string, err error) {
	if l.Logger == nil {
		return
	}
	l.Logger.Warn("listen command failed",
		"command", name,
		"stderr", strings.TrimSpace(stderr),
		"error", err.Error(),
	)
}
