package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rbright/nova/internal/alias"
	"github.com/rbright/nova/internal/config"
	"github.com/rbright/nova/internal/desktop"
	"github.com/rbright/nova/internal/dispatch"
	"github.com/rbright/nova/internal/drives"
	"github.com/rbright/nova/internal/executor"
	"github.com/rbright/nova/internal/hypr"
	"github.com/rbright/nova/internal/indicator"
	"github.com/rbright/nova/internal/output"
	"github.com/rbright/nova/internal/registry"
	"github.com/rbright/nova/internal/session"
	"github.com/rbright/nova/internal/store"
	"github.com/rbright/nova/internal/transcribe"
	"github.com/rbright/nova/internal/wake"
)

// components holds the components shared by `run` and `parse`.
type components struct {
	cfg        config.Config
	logger     *slog.Logger
	commands   *registry.Commands
	apps       *registry.Apps
	dispatcher *dispatch.Dispatcher
	files      dataFiles
}

type dataFiles struct {
	commands store.CommandFile
	settings store.SettingsFile
}

func resolveDataFiles(cfg config.Config) (dataFiles, error) {
	commandsPath, err := config.ResolveDataPath(cfg.CommandsFile, "commands.json")
	if err != nil {
		return dataFiles{}, fmt.Errorf("resolve commands file: %w", err)
	}
	settingsPath, err := config.ResolveDataPath(cfg.SettingsFile, "settings.json")
	if err != nil {
		return dataFiles{}, fmt.Errorf("resolve settings file: %w", err)
	}
	return dataFiles{
		commands: store.CommandFile{Path: commandsPath},
		settings: store.SettingsFile{Path: settingsPath},
	}, nil
}

// buildRuntime loads data files and assembles the dispatcher.
func buildRuntime(cfg config.Config, logger *slog.Logger) (*components, error) {
	files, err := resolveDataFiles(cfg)
	if err != nil {
		return nil, err
	}

	aliases, err := alias.Load(cfg.AliasesFile)
	if err != nil {
		return nil, err
	}

	rt := &components{
		cfg:      cfg,
		logger:   logger,
		commands: registry.NewCommands(nil),
		apps:     registry.NewApps(),
		files:    files,
	}
	if _, err := rt.reloadCommands(context.Background()); err != nil {
		return nil, err
	}

	suffix := cfg.Close.ProcessSuffix
	if suffix == "" {
		suffix = dispatch.DefaultProcessSuffix()
	}

	rt.dispatcher = dispatch.New(
		dispatch.Registries{Commands: rt.commands, Apps: rt.apps},
		aliases,
		hypr.Windows{Timeout: time.Second},
		drives.Locator{Pattern: cfg.Drives.Pattern, Roots: cfg.Drives.Roots},
		dispatch.Options{
			FolderThreshold: cfg.Drives.FolderThreshold,
			ProcessSuffix:   suffix,
			TerminalCommand: cfg.Terminal.Raw,
		},
		logger,
	)
	return rt, nil
}

// reloadCommands replaces the custom command registry from disk.
func (rt *components) reloadCommands(context.Context) (int, error) {
	entries, used, err := rt.files.commands.Load()
	if err != nil {
		return 0, err
	}
	rt.commands.Replace(entries)
	rt.logger.Info("custom commands loaded", "path", used, "count", rt.commands.Len())
	return rt.commands.Len(), nil
}

// discoverApps fills the app registry from .desktop entries.
func (rt *components) discoverApps(ctx context.Context) {
	dirs := rt.cfg.Apps.Dirs
	if len(dirs) == 0 {
		dirs = desktop.DefaultDirs()
	}
	started := time.Now()
	n, err := desktop.Discover(ctx, dirs, rt.apps, rt.logger)
	if err != nil {
		rt.logger.Warn("app discovery failed", "error", err.Error(), "discovered", n)
		return
	}
	rt.logger.Info("app discovery complete",
		"discovered", n,
		"apps", rt.apps.Len(),
		"duration_ms", time.Since(started).Milliseconds(),
	)
}

// executor wires actions to Hyprland, process, opener, and TTS commands.
func (rt *components) executor() executor.Executor {
	return executor.Executor{
		Speaker:    output.NewSpeaker(rt.cfg.Speech, rt.logger),
		Focuser:    hypr.Focuser{},
		Launcher:   desktop.NewLauncher(rt.cfg.Apps.Launcher.Argv, rt.logger),
		Terminator: desktop.Terminator{Argv: rt.cfg.Close.Command.Argv, Logger: rt.logger},
		Opener:     desktop.Opener{Argv: rt.cfg.OpenCmd.Argv, Logger: rt.logger},
		Logger:     rt.logger,
	}
}

// listener selects the transcript source.
func (rt *components) listener(stdin io.Reader, useStdin bool) session.Listener {
	if useStdin {
		return transcribe.NewLineListener(stdin)
	}
	return transcribe.NewCommandListener(rt.cfg.Listen, rt.logger)
}

// controller assembles the listening loop around the runtime.
func (rt *components) controller(listener session.Listener, cues *indicator.Cues) *session.Controller {
	return session.NewController(rt.logger, session.Deps{
		Listener:  listener,
		Wake:      wake.NewDetector(rt.cfg.Wake.Word, rt.cfg.Wake.Spellings, rt.cfg.Wake.Threshold),
		Resolver:  rt.dispatcher,
		Performer: rt.executor(),
		Indicator: cues,
		Reload:    rt.reloadCommands,
	}, session.TimingsFromConfig(rt.cfg.Listen))
}
