package transcribe

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rbright/nova/internal/config"
	"github.com/rbright/nova/internal/session"
	"github.com/stretchr/testify/require"
)

func installSTTStub(t *testing.T, body string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "nova-stt")
	script := "#!/usr/bin/env bash\nset -euo pipefail\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	t.Setenv("PATH", dir+":"+os.Getenv("PATH"))
	return path
}

func TestCommandListenerReturnsTranscript(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args.log")
	t.Setenv("STT_ARGS_FILE", argsFile)
	installSTTStub(t, `
printf '%s\n' "$*" > "${STT_ARGS_FILE}"
echo "  open chrome  "
`)

	cfg := config.Default().Listen
	listener := NewCommandListener(cfg, nil)

	text, err := listener.Listen(context.Background(), time.Second, 5500*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, "open chrome", text)

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Equal(t, "--timeout 1 --phrase-limit 5.5\n", string(data))
}

func TestCommandListenerEmptyOutputIsTimeout(t *testing.T) {
	installSTTStub(t, `exit 0`)

	listener := CommandListener{Argv: []string{"nova-stt"}, UnintelligibleExitCode: 3}
	_, err := listener.Listen(context.Background(), time.Second, time.Second)
	require.ErrorIs(t, err, session.ErrTimedOut)
}

func TestCommandListenerUnintelligibleExitCode(t *testing.T) {
	installSTTStub(t, `exit 3`)

	listener := CommandListener{Argv: []string{"nova-stt"}, UnintelligibleExitCode: 3}
	_, err := listener.Listen(context.Background(), time.Second, time.Second)
	require.ErrorIs(t, err, session.ErrUnintelligible)
}

func TestCommandListenerOtherFailure(t *testing.T) {
	installSTTStub(t, `
echo "no microphone" >&2
exit 1
`)

	listener := CommandListener{Argv: []string{"nova-stt"}, UnintelligibleExitCode: 3}
	_, err := listener.Listen(context.Background(), time.Second, time.Second)
	require.Error(t, err)
	require.False(t, session.IsQuiet(err))
	require.Contains(t, err.Error(), "run listen command nova-stt")
}

func TestCommandListenerCancelled(t *testing.T) {
	installSTTStub(t, `exec sleep 5`)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	listener := CommandListener{Argv: []string{"nova-stt"}}
	started := time.Now()
	_, err := listener.Listen(ctx, time.Second, time.Second)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(started), 3*time.Second)
}

func TestCommandListenerEmptyArgv(t *testing.T) {
	_, err := CommandListener{}.Listen(context.Background(), time.Second, time.Second)
	require.Error(t, err)
}

func TestExpandArgv(t *testing.T) {
	got := expandArgv([]string{"stt", "--source={input}", "-t={timeout}", "{phrase_limit}s"}, "default", 1500*time.Millisecond, 5*time.Second)
	require.Equal(t, []string{"stt", "--source=default", "-t=1.5", "5s"}, got)
}

func TestNewCommandListenerCopiesListenConfig(t *testing.T) {
	cfg := config.Default().Listen
	listener := NewCommandListener(cfg, nil)

	require.Equal(t, cfg.Command.Argv, listener.Argv)
	require.Equal(t, "default", listener.Input)
	require.Equal(t, 3, listener.UnintelligibleExitCode)
}

func TestLineListenerSequence(t *testing.T) {
	listener := NewLineListener(strings.NewReader("hey nova\n\n  open chrome \n"))
	ctx := context.Background()

	text, err := listener.Listen(ctx, time.Second, time.Second)
	require.NoError(t, err)
	require.Equal(t, "hey nova", text)

	_, err = listener.Listen(ctx, time.Second, time.Second)
	require.ErrorIs(t, err, session.ErrUnintelligible)

	text, err = listener.Listen(ctx, time.Second, time.Second)
	require.NoError(t, err)
	require.Equal(t, "open chrome", text)

	_, err = listener.Listen(ctx, time.Second, time.Second)
	require.ErrorIs(t, err, io.EOF)

	_, err = listener.Listen(ctx, time.Second, time.Second)
	require.ErrorIs(t, err, io.EOF)
}

func TestLineListenerTimesOutWhileWaiting(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	listener := NewLineListener(r)
	_, err := listener.Listen(context.Background(), 10*time.Millisecond, 10*time.Millisecond)
	require.ErrorIs(t, err, session.ErrTimedOut)

	go func() { _, _ = w.Write([]byte("nova\n")) }()
	text, err := listener.Listen(context.Background(), time.Second, time.Second)
	require.NoError(t, err)
	require.Equal(t, "nova", text)
}

func TestLineListenerCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLineListener(r).Listen(ctx, time.Second, time.Second)
	require.True(t, errors.Is(err, context.Canceled))
}
