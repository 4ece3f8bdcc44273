// Package app wires nova commands to their runtime components.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rbright/nova/internal/cli"
	"github.com/rbright/nova/internal/config"
	"github.com/rbright/nova/internal/doctor"
	"github.com/rbright/nova/internal/ipc"
	"github.com/rbright/nova/internal/logging"
	"github.com/rbright/nova/internal/version"
)

const forwardTimeout = 220 * time.Millisecond

// Runner executes one CLI invocation against injectable streams.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// Execute runs args with process streams and returns the exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdin: os.Stdin, Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

// Execute runs args and returns the exit code: 0 ok, 1 runtime failure,
// 2 usage error.
func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("nova"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("nova"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	logOpts := logging.Options{Level: cfgLoaded.Config.Log.Level}
	if parsed.Verbose || cfgLoaded.Config.Log.Console {
		logOpts.Console = r.Stderr
	}
	logRuntime, err := logging.New(logOpts)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(ctx, cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandStatus:
		return r.commandStatus(ctx)
	case cli.CommandStart, cli.CommandStop, cli.CommandToggle, cli.CommandReload:
		return r.forwardOrFail(ctx, string(parsed.Command))
	case cli.CommandRun:
		return r.commandRun(ctx, cfgLoaded.Config, parsed.Stdin, logger)
	case cli.CommandParse:
		return r.commandParse(ctx, cfgLoaded.Config, parsed.Args[0], logger)
	case cli.CommandCommands:
		return r.commandCommands(ctx, cfgLoaded.Config, parsed.Args)
	case cli.CommandSettings:
		return r.commandSettings(cfgLoaded.Config, parsed.Args)
	case cli.CommandApps:
		return r.commandApps(ctx, cfgLoaded.Config, logger)
	case cli.CommandDevices:
		return r.commandDevices(ctx, cfgLoaded.Config)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

func (r Runner) commandStatus(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintln(r.Stdout, "idle")
		return 0
	}

	resp, handled, err := tryForward(ctx, socketPath, ipc.CommandStatus)
	if handled {
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		if resp.State == "" {
			resp.State = "idle"
		}
		if resp.Message != "" {
			fmt.Fprintf(r.Stdout, "%s %s\n", resp.State, resp.Message)
			return 0
		}
		fmt.Fprintln(r.Stdout, resp.State)
		return 0
	}

	fmt.Fprintln(r.Stdout, "idle")
	return 0
}

func (r Runner) forwardOrFail(ctx context.Context, command string) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	resp, handled, err := tryForward(ctx, socketPath, command)
	if !handled {
		fmt.Fprintf(r.Stderr, "error: nova daemon is not running\n")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return 0
}

// tryForward sends command to a running daemon. handled is false when no
// daemon is listening.
func tryForward(ctx context.Context, socketPath string, command string) (ipc.Response, bool, error) {
	resp, err := ipc.Send(ctx, socketPath, ipc.Request{Command: command}, forwardTimeout)
	if err == nil {
		if resp.OK {
			return resp, true, nil
		}
		return resp, true, errors.New(resp.Error)
	}

	if ipc.IsNotRunning(err) {
		return ipc.Response{}, false, nil
	}

	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", command, err)
}
