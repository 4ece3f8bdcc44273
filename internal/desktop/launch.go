package desktop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rbright/nova/internal/hypr"
)

// Launcher starts applications: desktop IDs through the launcher command,
// anything else through Hyprland exec.
type Launcher struct {
	Argv   []string
	Exec   func(ctx context.Context, command string) error
	Logger *slog.Logger
}

// NewLauncher builds a launcher around the configured desktop-ID launcher.
func NewLauncher(argv []string, logger *slog.Logger) Launcher {
	return Launcher{Argv: argv, Exec: hypr.Exec, Logger: logger}
}

// Launch starts target without waiting for it.
func (l Launcher) Launch(ctx context.Context, target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return fmt.Errorf("launch target cannot be empty")
	}

	if strings.HasSuffix(target, ".desktop") {
		return spawn(withArg(l.Argv, strings.TrimSuffix(target, ".desktop")), l.Logger)
	}
	if l.Exec == nil {
		return fmt.Errorf("no exec backend for %q", target)
	}
	return l.Exec(ctx, target)
}

// Terminator stops processes by exact name.
type Terminator struct {
	Argv   []string
	Logger *slog.Logger
}

// Terminate signals every name independently; one failure never prevents
// attempts on the rest.
func (t Terminator) Terminate(_ context.Context, names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("no process names to terminate")
	}

	var errs []error
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if err := spawn(withArg(t.Argv, name), t.Logger); err != nil {
			errs = append(errs, fmt.Errorf("terminate %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Opener opens files, URLs and folders through the open command.
type Opener struct {
	Argv   []string
	Logger *slog.Logger
}

// Open opens an existing file or directory with its default handler.
func (o Opener) Open(_ context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("open %q: %w", path, err)
	}
	return spawn(withArg(o.Argv, path), o.Logger)
}

// OpenURL opens target in the default browser.
func (o Opener) OpenURL(_ context.Context, target string) error {
	if strings.HasPrefix(strings.ToLower(target), "www.") {
		target = "https://" + target
	}
	return spawn(withArg(o.Argv, target), o.Logger)
}

// Browse opens the nearest existing directory containing path.
func (o Opener) Browse(_ context.Context, path string) error {
	dir := filepath.Clean(path)
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return spawn(withArg(o.Argv, dir), o.Logger)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return fmt.Errorf("browse %q: no existing parent directory", path)
		}
		dir = parent
	}
}
