package hypr

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rbright/nova/internal/registry"
)

// Client is the subset of a hyprctl client record used for window lookup.
type Client struct {
	Address      string `json:"address"`
	Class        string `json:"class"`
	Title        string `json:"title"`
	InitialTitle string `json:"initialTitle"`
	Mapped       bool   `json:"mapped"`
	Hidden       bool   `json:"hidden"`
}

// ListClients returns every client Hyprland knows about.
func ListClients(ctx context.Context) ([]Client, error) {
	output, err := runHyprctlJSON(ctx, "clients")
	if err != nil {
		return nil, err
	}

	var clients []Client
	if err := json.Unmarshal(output, &clients); err != nil {
		return nil, fmt.Errorf("decode hyprctl clients json: %w", err)
	}
	for i := range clients {
		clients[i].Address = strings.TrimSpace(clients[i].Address)
		clients[i].Class = strings.TrimSpace(clients[i].Class)
		clients[i].Title = strings.TrimSpace(clients[i].Title)
		clients[i].InitialTitle = strings.TrimSpace(clients[i].InitialTitle)
	}
	return clients, nil
}

// dispatchTimeout bounds a single hyprctl dispatch call.
var dispatchTimeout = 2 * time.Second

// FocusWindow focuses the client at address.
func FocusWindow(ctx context.Context, address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return fmt.Errorf("focuswindow requires a window address")
	}
	return runDispatch(ctx, "focuswindow", "address:"+address)
}

// Exec asks Hyprland to spawn command detached from the caller.
func Exec(ctx context.Context, command string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return fmt.Errorf("exec requires a non-empty command")
	}
	return runDispatch(ctx, "exec", command)
}

func runDispatch(ctx context.Context, args ...string) error {
	dispatchCtx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()
	return runHyprctl(dispatchCtx, append([]string{"--quiet", "dispatch"}, args...)...)
}

// Windows snapshots visible clients as a window index.
type Windows struct {
	Timeout time.Duration
}

// Windows lists mapped, visible, titled clients. The title keywords also
// include the window class so "kitty" finds a kitty window titled "~/src".
func (w Windows) Windows(ctx context.Context) (registry.WindowIndex, error) {
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	clients, err := ListClients(queryCtx)
	if err != nil {
		return nil, err
	}

	index := make(registry.WindowIndex, 0, len(clients))
	for _, client := range clients {
		if !client.Mapped || client.Hidden || client.Address == "" {
			continue
		}
		title := client.Title
		if title == "" {
			title = client.InitialTitle
		}
		if title == "" && client.Class == "" {
			continue
		}
		entry := registry.NewWindowEntry(strings.TrimSpace(title+" "+client.Class), client.Address)
		entry.Title = title
		index = append(index, entry)
	}
	return index, nil
}

// Focuser focuses windows by Hyprland address.
type Focuser struct{}

// Focus focuses the window at address.
func (Focuser) Focus(ctx context.Context, address string) error {
	return FocusWindow(ctx, address)
}
