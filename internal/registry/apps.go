package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/rbright/nova/internal/transcript"
)

// AppEntry names an installed application and how to launch it.
type AppEntry struct {
	Name         string `json:"name"`
	LaunchTarget string `json:"launch_target"`
}

// Apps is the installed-application registry.
//
// Discovery writes concurrently with dispatch reads. Keys are never removed,
// so a reader observes a partially populated but consistent table.
type Apps struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewApps returns an empty registry.
func NewApps() *Apps {
	return &Apps{entries: make(map[string]string)}
}

// Put records an application, last write wins per key.
func (a *Apps) Put(name, launchTarget string) {
	key := transcript.Key(name)
	launchTarget = strings.TrimSpace(launchTarget)
	if key == "" || launchTarget == "" {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries[key] = launchTarget
}

// Lookup returns the launch target for an exact key.
func (a *Apps) Lookup(name string) (AppEntry, bool) {
	key := transcript.Key(name)

	a.mu.RLock()
	defer a.mu.RUnlock()
	target, ok := a.entries[key]
	if !ok {
		return AppEntry{}, false
	}
	return AppEntry{Name: key, LaunchTarget: target}, true
}

// FindContaining returns the shortest key containing fragment.
// Equal-length keys resolve lexicographically.
func (a *Apps) FindContaining(fragment string) (AppEntry, bool) {
	fragment = transcript.Key(fragment)
	if fragment == "" {
		return AppEntry{}, false
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	best := ""
	for key := range a.entries {
		if !strings.Contains(key, fragment) {
			continue
		}
		if best == "" || len(key) < len(best) || (len(key) == len(best) && key < best) {
			best = key
		}
	}
	if best == "" {
		return AppEntry{}, false
	}
	return AppEntry{Name: best, LaunchTarget: a.entries[best]}, true
}

// Resolve tries an exact key first, then the shortest containing key.
func (a *Apps) Resolve(name string) (AppEntry, bool) {
	if entry, ok := a.Lookup(name); ok {
		return entry, true
	}
	return a.FindContaining(name)
}

// Entries returns all applications sorted by name.
func (a *Apps) Entries() []AppEntry {
	a.mu.RLock()
	out := make([]AppEntry, 0, len(a.entries))
	for name, target := range a.entries {
		out = append(out, AppEntry{Name: name, LaunchTarget: target})
	}
	a.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of known applications.
func (a *Apps) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}
