package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rbright/nova/internal/config"
	"github.com/rbright/nova/internal/indicator"
	"github.com/rbright/nova/internal/ipc"
)

const acquireProbeTimeout = 180 * time.Millisecond

// commandRun owns the runtime socket and runs the listening loop until ctx
// ends. With useStdin it processes transcripts from Stdin and exits at EOF.
func (r Runner) commandRun(ctx context.Context, cfg config.Config, useStdin bool, logger *slog.Logger) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, acquireProbeTimeout)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			fmt.Fprintln(r.Stderr, "error: nova daemon already running")
			return 1
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	rt, err := buildRuntime(cfg, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("daemon setup failed", "error", err.Error())
		return 1
	}

	settings, err := rt.files.settings.Load()
	if err != nil {
		fmt.Fprintf(r.Stderr, "warning: %v\n", err)
		logger.Warn("settings load failed", "error", err.Error())
	}

	go rt.discoverApps(ctx)

	cues := indicator.New(cfg.Indicator, logger)
	defer cues.Wait()
	controller := rt.controller(rt.listener(r.Stdin, useStdin), cues)

	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, controller)
	}()

	logger.Info("daemon started", "socket", socketPath, "stdin", useStdin, "stay_active", settings.StayActive)

	var runErr error
	if useStdin {
		runErr = controller.RunUntilIdle(ctx)
	} else {
		if settings.StayActive {
			if resp := controller.Handle(ctx, ipc.Request{Command: ipc.CommandStart}); !resp.OK {
				logger.Warn("auto start failed", "error", resp.Error)
			}
		}
		runErr = controller.Run(ctx)
	}

	serverCancel()
	if serverErr := <-serverErrCh; serverErr != nil {
		fmt.Fprintf(r.Stderr, "error: ipc server failed: %v\n", serverErr)
		return 1
	}

	stats := controller.Stats()
	logger.Info("daemon stopped",
		"wakes", stats.Wakes,
		"commands", stats.Commands,
		"failures", stats.Failures,
	)

	if runErr != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", runErr)
		return 1
	}
	return 0
}
