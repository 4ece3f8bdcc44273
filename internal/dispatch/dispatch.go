// Package dispatch resolves parsed intents against the registries.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rbright/nova/internal/alias"
	"github.com/rbright/nova/internal/fuzzy"
	"github.com/rbright/nova/internal/intent"
	"github.com/rbright/nova/internal/registry"
	"github.com/rbright/nova/internal/transcript"
)

// DefaultFolderThreshold is the similarity needed to resolve a drive folder.
const DefaultFolderThreshold = 0.5

// WindowSource snapshots the live windows.
type WindowSource interface {
	Windows(ctx context.Context) (registry.WindowIndex, error)
}

// DriveSource resolves drive letters and lists their folders.
type DriveSource interface {
	DriveRoot(letter byte) (string, bool)
	ListTopLevelDirectories(root string) ([]string, error)
}

// Registries groups the tables the dispatcher consults.
type Registries struct {
	Commands *registry.Commands
	Apps     *registry.Apps
}

// Options tunes dispatch behavior.
type Options struct {
	FolderThreshold float64
	ProcessSuffix   string
	TerminalCommand string
}

// DefaultProcessSuffix is appended to derived process identifiers.
func DefaultProcessSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

// Dispatcher turns intents into actions.
type Dispatcher struct {
	registries Registries
	aliases    alias.Table
	windows    WindowSource
	drives     DriveSource
	opts       Options
	logger     *slog.Logger
}

// New builds a dispatcher. Nil collaborators behave as empty sources.
func New(registries Registries, aliases alias.Table, windows WindowSource, drives DriveSource, opts Options, logger *slog.Logger) *Dispatcher {
	if registries.Commands == nil {
		registries.Commands = registry.NewCommands(nil)
	}
	if registries.Apps == nil {
		registries.Apps = registry.NewApps()
	}
	if opts.FolderThreshold <= 0 || opts.FolderThreshold > 1 {
		opts.FolderThreshold = DefaultFolderThreshold
	}
	return &Dispatcher{
		registries: registries,
		aliases:    aliases,
		windows:    windows,
		drives:     drives,
		opts:       opts,
		logger:     logger,
	}
}

// Dispatch returns exactly one action for in. Misses are reported as NoOp or
// Speak actions, never as errors.
func (d *Dispatcher) Dispatch(ctx context.Context, in intent.Intent) Action {
	if in.Verb == intent.Close {
		return d.close(in)
	}

	if action, ok := d.customCommand(in); ok {
		return action
	}

	switch in.Verb {
	case intent.OpenDriveFolder:
		return d.driveFolder(in)
	case intent.OpenDriveRoot:
		return d.driveRoot(in)
	case intent.Open:
		return d.open(ctx, in)
	case intent.OpenTerminal:
		return d.terminal(ctx)
	default:
		return Action{Kind: NoOp}
	}
}

// customCommand matches registered triggers against the full utterance.
// Any occurrence of a trigger wins, so short triggers can capture unrelated
// utterances.
func (d *Dispatcher) customCommand(in intent.Intent) (Action, bool) {
	utterance := transcript.Normalize(in.Utterance)
	if utterance == "" {
		return Action{}, false
	}

	for _, entry := range d.registries.Commands.ByPriority() {
		if strings.Contains(utterance, "open "+entry.Trigger) || strings.Contains(utterance, entry.Trigger) {
			return Action{
				Kind:    OpenPath,
				Payload: entry.Target,
				Speech:  "Opening " + entry.Trigger,
			}, true
		}
	}
	return Action{}, false
}

func (d *Dispatcher) driveRoot(in intent.Intent) Action {
	letter := driveLabel(in.Drive)
	root, ok := d.driveRootFor(in.Drive)
	if !ok {
		return speak(fmt.Sprintf("%s drive not found.", letter))
	}
	return Action{Kind: OpenPath, Payload: root, Speech: fmt.Sprintf("Opening %s drive", letter)}
}

func (d *Dispatcher) driveFolder(in intent.Intent) Action {
	letter := driveLabel(in.Drive)
	root, ok := d.driveRootFor(in.Drive)
	if !ok {
		return speak(fmt.Sprintf("%s drive not found.", letter))
	}

	dirs, err := d.drives.ListTopLevelDirectories(root)
	if err != nil {
		d.warn("list drive folders failed", "drive", letter, "root", root, "error", err.Error())
		return speak(fmt.Sprintf("Could not read %s drive.", letter))
	}

	folder, ok := fuzzy.BestMatch(in.Target, dirs, d.opts.FolderThreshold)
	if !ok {
		return speak(fmt.Sprintf("Could not find %s on %s drive.", in.Target, letter))
	}
	return Action{
		Kind:    OpenPath,
		Payload: filepath.Join(root, folder),
		Speech:  fmt.Sprintf("Opening %s from %s drive", folder, letter),
	}
}

func (d *Dispatcher) driveRootFor(letter byte) (string, bool) {
	if d.drives == nil || letter == 0 {
		return "", false
	}
	return d.drives.DriveRoot(letter)
}

func (d *Dispatcher) open(ctx context.Context, in intent.Intent) Action {
	if window, ok := d.findWindow(ctx, d.aliases.WindowKeywords(in.Target)); ok {
		return Action{Kind: Switch, Payload: window.Handle, Speech: "Switching to " + in.Target}
	}
	if intent.NamesTerminal(in.Target) {
		if window, ok := d.findWindow(ctx, d.aliases.TerminalKeywords()); ok {
			return Action{Kind: Switch, Payload: window.Handle, Speech: "Switching to terminal"}
		}
	}

	if app, ok := d.registries.Apps.Resolve(in.Target); ok {
		return Action{Kind: Launch, Payload: app.LaunchTarget, Speech: "Opening " + app.Name}
	}

	if intent.NamesTerminal(in.Utterance) {
		return d.terminal(ctx)
	}
	return miss(fmt.Sprintf("Could not find %s.", in.Target))
}

func (d *Dispatcher) close(in intent.Intent) Action {
	names, ok := d.aliases.ProcessNames(in.Target)
	if !ok {
		derived := transcript.Alnum(in.Target)
		if derived == "" {
			return miss("Nothing to close.")
		}
		names = []string{derived}
	}

	suffix := d.opts.ProcessSuffix
	targets := make([]string, 0, len(names))
	for _, name := range names {
		if suffix != "" && !strings.HasSuffix(name, suffix) {
			name += suffix
		}
		targets = append(targets, name)
	}
	return Action{Kind: Kill, Targets: targets, Speech: "Closing " + in.Target}
}

func (d *Dispatcher) terminal(ctx context.Context) Action {
	if window, ok := d.findWindow(ctx, d.aliases.TerminalKeywords()); ok {
		return Action{Kind: Switch, Payload: window.Handle, Speech: "Switching to terminal"}
	}
	if strings.TrimSpace(d.opts.TerminalCommand) == "" {
		return miss("No terminal is configured.")
	}
	return Action{Kind: Launch, Payload: d.opts.TerminalCommand, Speech: "Opening Terminal"}
}

func (d *Dispatcher) findWindow(ctx context.Context, keywords []string) (registry.WindowEntry, bool) {
	if d.windows == nil || len(keywords) == 0 {
		return registry.WindowEntry{}, false
	}
	index, err := d.windows.Windows(ctx)
	if err != nil {
		d.warn("window query failed", "error", err.Error())
		return registry.WindowEntry{}, false
	}
	return index.Find(keywords)
}

func (d *Dispatcher) warn(msg string, attrs ...any) {
	if d.logger == nil {
		return
	}
	d.logger.Warn(msg, attrs...)
}

func driveLabel(letter byte) string {
	if letter == 0 {
		return "?"
	}
	return strings.ToUpper(string(letter))
}
