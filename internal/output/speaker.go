// Package output speaks confirmations through an external TTS command.
package output

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/rbright/nova/internal/config"
)

const textPlaceholder = "{text}"

// Speaker runs the configured TTS argv for each utterance.
//
// When any argument contains {text} the utterance is substituted there;
// otherwise it is written to the command's stdin.
type Speaker struct {
	argv    []string
	timeout time.Duration
	logger  *slog.Logger
}

// NewSpeaker constructs a speaker from runtime config. A disabled speaker
// accepts every call and does nothing.
func NewSpeaker(cfg config.SpeechConfig, logger *slog.Logger) *Speaker {
	s := &Speaker{
		timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		logger:  logger,
	}
	if cfg.Enable {
		s.argv = append([]string(nil), cfg.Command.Argv...)
	}
	if s.timeout <= 0 {
		s.timeout = 10 * time.Second
	}
	return s
}

// Speak says text and waits for the TTS command to finish.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" || len(s.argv) == 0 {
		return nil
	}

	speakCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	argv, input := expandText(s.argv, text)
	if err := runCommandWithInput(speakCtx, argv, input); err != nil {
		s.logFailure(text, err)
		return fmt.Errorf("speak: %w", err)
	}
	return nil
}

// expandText substitutes text into argv, or returns it as stdin input.
func expandText(argv []string, text string) ([]string, string) {
	out := make([]string, len(argv))
	substituted := false
	for i, arg := range argv {
		if strings.Contains(arg, textPlaceholder) {
			arg = strings.ReplaceAll(arg, textPlaceholder, text)
			substituted = true
		}
		out[i] = arg
	}
	if substituted {
		return out, ""
	}
	return out, text
}

// runCommandWithInput executes argv and optionally writes input to stdin.
func runCommandWithInput(ctx context.Context, argv []string, input string) error {
	if len(argv) == 0 {
		return fmt.Errorf("command argv cannot be empty")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open stdin for %s: %w", argv[0], err)
	}

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return fmt.Errorf("start command %s: %w", argv[0], err)
	}

	if input != "" {
		if _, err := stdin.Write([]byte(input)); err != nil {
			_ = stdin.Close()
			_ = cmd.Wait()
			return fmt.Errorf("write stdin for %s: %w", argv[0], err)
		}
	}
	_ = stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait for %s: %w", argv[0], err)
	}
	return nil
}

func (s *Speaker) logFailure(text string, err error) {
	if s.logger == nil || err == nil {
		return
	}
	s.logger.Error("speech output failed", "text", text, "error", err.Error())
}
