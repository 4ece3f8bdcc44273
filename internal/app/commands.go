package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/rbright/nova/internal/audio"
	"github.com/rbright/nova/internal/cli"
	"github.com/rbright/nova/internal/config"
	"github.com/rbright/nova/internal/intent"
	"github.com/rbright/nova/internal/ipc"
	"github.com/rbright/nova/internal/registry"
	"github.com/rbright/nova/internal/store"
)

// commandParse prints the intent and action for utterance without executing.
func (r Runner) commandParse(ctx context.Context, cfg config.Config, utterance string, logger *slog.Logger) int {
	rt, err := buildRuntime(cfg, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	rt.discoverApps(ctx)

	in := intent.Parse(utterance)
	act := rt.dispatcher.Dispatch(ctx, in)
	fmt.Fprintf(r.Stdout, "intent: %s\n", in)
	fmt.Fprintf(r.Stdout, "action: %s\n", act)
	return 0
}

// commandCommands lists or edits the custom command file, then asks a
// running daemon to reload it.
func (r Runner) commandCommands(ctx context.Context, cfg config.Config, args []string) int {
	files, err := resolveDataFiles(cfg)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	switch args[0] {
	case cli.CommandsList:
		return r.listCommands(files.commands)
	case cli.CommandsAdd:
		if err := files.commands.Add(args[1], args[2]); err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Fprintf(r.Stdout, "saved %q\n", args[1])
	case cli.CommandsRemove:
		if err := files.commands.Remove(args[1]); err != nil {
			if errors.Is(err, store.ErrUnknownCommand) {
				fmt.Fprintf(r.Stderr, "error: no custom command %q\n", args[1])
				return 1
			}
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Fprintf(r.Stdout, "removed %q\n", args[1])
	}

	r.notifyReload(ctx)
	return 0
}

func (r Runner) listCommands(file store.CommandFile) int {
	entries, used, err := file.Load()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(entries) == 0 {
		fmt.Fprintln(r.Stdout, "no custom commands")
		return 0
	}

	w := tabwriter.NewWriter(r.Stdout, 0, 4, 2, ' ', 0)
	for _, entry := range registry.NewCommands(entries).Entries() {
		fmt.Fprintf(w, "%s\t%s\n", entry.Trigger, entry.Target)
	}
	_ = w.Flush()
	if used != "" && used != file.Path {
		fmt.Fprintf(r.Stderr, "note: read legacy file %q\n", used)
	}
	return 0
}

// notifyReload refreshes a running daemon; no daemon is not an error.
func (r Runner) notifyReload(ctx context.Context) {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		return
	}
	resp, handled, err := tryForward(ctx, socketPath, ipc.CommandReload)
	if !handled {
		return
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "warning: daemon reload failed: %v\n", err)
		return
	}
	fmt.Fprintln(r.Stdout, resp.Message)
}

// commandSettings persists one settings toggle.
func (r Runner) commandSettings(cfg config.Config, args []string) int {
	files, err := resolveDataFiles(cfg)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	settings, err := files.settings.Load()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	settings.StayActive = args[1] == "on"
	if err := files.settings.Save(settings); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintf(r.Stdout, "%s=%s\n", cli.SettingStayActive, args[1])
	return 0
}

// commandApps prints the discovered application registry.
func (r Runner) commandApps(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	rt, err := buildRuntime(cfg, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	rt.discoverApps(ctx)

	entries := rt.apps.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(r.Stdout, "no applications found")
		return 0
	}
	w := tabwriter.NewWriter(r.Stdout, 0, 4, 2, ' ', 0)
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\n", entry.Name, entry.LaunchTarget)
	}
	_ = w.Flush()
	return 0
}

// commandDevices lists Pulse input sources and marks the one listen.input
// selects.
func (r Runner) commandDevices(ctx context.Context, cfg config.Config) int {
	devices, err := audio.ListDevices(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(devices) == 0 {
		fmt.Fprintln(r.Stdout, "no audio devices found")
		return 1
	}

	selected := ""
	if selection, err := audio.SelectDevice(ctx, cfg.Listen.Input); err == nil {
		selected = selection.Device.ID
	}
	for _, device := range devices {
		mark := " "
		if device.ID == selected {
			mark = "*"
		}
		fmt.Fprintf(r.Stdout, "%s id=%s | description=%q | state=%s | available=%s | muted=%s\n",
			mark,
			device.ID,
			device.Description,
			device.State,
			yesNo(device.Available),
			yesNo(device.Muted),
		)
	}
	return 0
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
