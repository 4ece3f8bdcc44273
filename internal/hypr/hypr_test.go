package hypr

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListClientsTrimsFields(t *testing.T) {
	installHyprctlStub(t, `
if [[ "${1:-}" == "-j" && "${2:-}" == "clients" ]]; then
  echo '[{"address":" 0xabc ","class":" kitty ","title":" ~/src ","mapped":true,"hidden":false}]'
  exit 0
fi
exit 1
`)

	clients, err := ListClients(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Client{{Address: "0xabc", Class: "kitty", Title: "~/src", Mapped: true}}, clients)
}

func TestListClientsRejectsBadJSON(t *testing.T) {
	installHyprctlStub(t, `echo 'not json'`)

	_, err := ListClients(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode hyprctl clients json")
}

func TestWindowsBuildsIndexFromVisibleClients(t *testing.T) {
	installHyprctlStub(t, `
echo '[
  {"address":"0x1","class":"kitty","title":"~/src","mapped":true},
  {"address":"0x2","class":"google-chrome","title":"Inbox - Google Chrome","mapped":true},
  {"address":"0x3","class":"firefox","title":"Hidden","mapped":true,"hidden":true},
  {"address":"0x4","class":"ghost","title":"Unmapped","mapped":false},
  {"address":"0x5","class":"","title":"","initialTitle":"","mapped":true}
]'
`)

	index, err := Windows{}.Windows(context.Background())
	require.NoError(t, err)
	require.Len(t, index, 2)
	require.Equal(t, "~/src", index[0].Title)

	w, ok := index.Find([]string{"kitty"})
	require.True(t, ok)
	require.Equal(t, "0x1", w.Handle)

	w, ok = index.Find([]string{"google chrome"})
	require.True(t, ok)
	require.Equal(t, "0x2", w.Handle)

	_, ok = index.Find([]string{"firefox"})
	require.False(t, ok)
}

func TestFocusWindowAndExecUseHyprctlDispatch(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "hypr-args.log")
	t.Setenv("HYPR_ARGS_FILE", argsFile)
	installHyprctlStub(t, `
printf '%s\n' "$*" >> "${HYPR_ARGS_FILE}"
`)

	require.NoError(t, FocusWindow(context.Background(), " 0xabc "))
	require.NoError(t, Exec(context.Background(), "kitty --single-instance"))

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Equal(t, []string{
		"--quiet dispatch focuswindow address:0xabc",
		"--quiet dispatch exec kitty --single-instance",
	}, lines)
}

func TestFocusWindowAndExecRequireArguments(t *testing.T) {
	err := FocusWindow(context.Background(), " ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "window address")

	err = Exec(context.Background(), "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "non-empty command")
}

func TestFocusWindowReturnsCombinedOutputOnFailure(t *testing.T) {
	installHyprctlStub(t, `
echo 'boom from hyprctl' >&2
exit 1
`)

	err := FocusWindow(context.Background(), "0xabc")
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom from hyprctl")
}

func installHyprctlStub(t *testing.T, body string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "hyprctl")
	script := "#!/usr/bin/env bash\nset -euo pipefail\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	t.Setenv("PATH", dir+":"+os.Getenv("PATH"))
}

func TestDispatchCallsGiveUpOnHungHyprctl(t *testing.T) {
	previous := dispatchTimeout
	dispatchTimeout = 100 * time.Millisecond
	t.Cleanup(func() { dispatchTimeout = previous })
	installHyprctlStub(t, `exec sleep 5`)

	start := time.Now()
	err := Exec(context.Background(), "kitty")
	require.Error(t, err)
	require.Less(t, time.Since(start), 2*time.Second)

	start = time.Now()
	err = Focuser{}.Focus(context.Background(), "0xabc")
	require.Error(t, err)
	require.Less(t, time.Since(start), 2*time.Second)
}
