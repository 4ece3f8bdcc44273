// Package executor applies dispatch actions through external collaborators.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rbright/nova/internal/dispatch"
)

// Speaker says text aloud.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Focuser brings a window to the foreground by handle.
type Focuser interface {
	Focus(ctx context.Context, handle string) error
}

// Launcher starts an application or command.
type Launcher interface {
	Launch(ctx context.Context, target string) error
}

// Terminator stops processes by identifier.
type Terminator interface {
	Terminate(ctx context.Context, names []string) error
}

// Opener opens paths and URLs.
type Opener interface {
	Open(ctx context.Context, path string) error
	OpenURL(ctx context.Context, url string) error
	Browse(ctx context.Context, path string) error
}

// ErrUnsupported reports an action kind with no collaborator wired.
var ErrUnsupported = errors.New("unsupported action")

// Executor applies actions. Nil collaborators make their actions fail with
// ErrUnsupported.
type Executor struct {
	Speaker    Speaker
	Focuser    Focuser
	Launcher   Launcher
	Terminator Terminator
	Opener     Opener
	Logger     *slog.Logger
}

// Execute speaks the action's confirmation, then performs it. Speech failures
// are logged and never block the action.
func (e Executor) Execute(ctx context.Context, action dispatch.Action) error {
	if action.Speech != "" {
		e.Say(ctx, action.Speech)
	}

	switch action.Kind {
	case dispatch.Speak, dispatch.NoOp:
		return nil
	case dispatch.Switch:
		if e.Focuser == nil {
			return fmt.Errorf("%w: %s", ErrUnsupported, action.Kind)
		}
		return e.Focuser.Focus(ctx, action.Payload)
	case dispatch.Launch:
		if e.Launcher == nil {
			return fmt.Errorf("%w: %s", ErrUnsupported, action.Kind)
		}
		return e.Launcher.Launch(ctx, action.Payload)
	case dispatch.Kill:
		if e.Terminator == nil {
			return fmt.Errorf("%w: %s", ErrUnsupported, action.Kind)
		}
		return e.Terminator.Terminate(ctx, action.Targets)
	case dispatch.OpenPath:
		if e.Opener == nil {
			return fmt.Errorf("%w: %s", ErrUnsupported, action.Kind)
		}
		return e.openPath(ctx, action.Payload)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupported, action.Kind)
	}
}

// Say speaks text, logging failures.
func (e Executor) Say(ctx context.Context, text string) {
	if e.Speaker == nil || strings.TrimSpace(text) == "" {
		return
	}
	if err := e.Speaker.Speak(ctx, text); err != nil && e.Logger != nil {
		e.Logger.Warn("speak failed", "text", text, "error", err.Error())
	}
}

func (e Executor) openPath(ctx context.Context, target string) error {
	if IsURL(target) {
		return e.Opener.OpenURL(ctx, target)
	}

	openErr := e.Opener.Open(ctx, target)
	if openErr == nil {
		return nil
	}
	if e.Logger != nil {
		e.Logger.Info("open failed; browsing instead", "path", target, "error", openErr.Error())
	}
	if err := e.Opener.Browse(ctx, target); err != nil {
		return errors.Join(openErr, err)
	}
	return nil
}

// IsURL reports whether target should be opened in a browser.
func IsURL(target string) bool {
	lower := strings.ToLower(strings.TrimSpace(target))
	return strings.HasPrefix(lower, "http") || strings.HasPrefix(lower, "www")
}
