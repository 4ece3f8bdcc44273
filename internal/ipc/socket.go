package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// ErrAlreadyRunning indicates another daemon owns the runtime socket.
var ErrAlreadyRunning = errors.New("nova daemon already running")

const (
	socketName     = "nova.sock"
	acquireRetries = 3
)

// RuntimeSocketPath returns the daemon socket under XDG_RUNTIME_DIR.
func RuntimeSocketPath() (string, error) {
	runtimeDir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR"))
	if runtimeDir == "" {
		return "", errors.New("XDG_RUNTIME_DIR is not set")
	}
	return filepath.Join(runtimeDir, socketName), nil
}

// Acquire listens on path for the single nova daemon.
//
// A socket file that answers a status probe belongs to a live daemon and
// yields ErrAlreadyRunning. One that refuses connections was left by a dead
// daemon and is replaced. An inconclusive probe leaves the file alone.
func Acquire(ctx context.Context, path string, probeTimeout time.Duration) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("ensure runtime socket dir: %w", err)
	}

	for attempt := range acquireRetries {
		listener, err := net.Listen("unix", path)
		if err == nil {
			if err := os.Chmod(path, 0o600); err != nil {
				_ = listener.Close()
				return nil, fmt.Errorf("restrict socket %s: %w", path, err)
			}
			return listener, nil
		}
		if !isAddrInUse(err) {
			return nil, fmt.Errorf("listen unix %s: %w", path, err)
		}

		if err := removeStale(ctx, path, probeTimeout); err != nil {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(25*(attempt+1)) * time.Millisecond):
		}
	}
	return nil, fmt.Errorf("acquire socket %s: still in use after %d attempts", path, acquireRetries)
}

func removeStale(ctx context.Context, path string, probeTimeout time.Duration) error {
	alive, err := Probe(ctx, path, probeTimeout)
	if alive {
		return ErrAlreadyRunning
	}
	if err != nil {
		return fmt.Errorf("probe existing socket %s: %w", path, err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale socket %s: %w", path, err)
	}
	return nil
}

func isAddrInUse(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE) || (err != nil && strings.Contains(err.Error(), "address already in use"))
}
