// Package registry holds the lookup tables consulted during dispatch.
package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/rbright/nova/internal/transcript"
)

// CommandEntry maps a spoken trigger to a URL or filesystem path.
type CommandEntry struct {
	Trigger string `json:"trigger"`
	Target  string `json:"target"`
}

// Commands is the custom-command registry. Triggers are unique folded keys.
type Commands struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewCommands returns a registry seeded from a trigger→target map.
func NewCommands(seed map[string]string) *Commands {
	c := &Commands{entries: make(map[string]string, len(seed))}
	for trigger, target := range seed {
		c.set(trigger, target)
	}
	return c
}

// Set stores target under trigger, replacing any previous entry.
// Empty triggers or targets are ignored and reported as false.
func (c *Commands) Set(trigger, target string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.set(trigger, target)
}

func (c *Commands) set(trigger, target string) bool {
	key := transcript.Normalize(trigger)
	target = strings.TrimSpace(target)
	if key == "" || target == "" {
		return false
	}
	c.entries[key] = target
	return true
}

// Delete removes trigger and reports whether it existed.
func (c *Commands) Delete(trigger string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := transcript.Normalize(trigger)
	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	return true
}

// Get returns the target registered for trigger.
func (c *Commands) Get(trigger string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	target, ok := c.entries[transcript.Normalize(trigger)]
	return target, ok
}

// Replace swaps the whole registry content.
func (c *Commands) Replace(entries map[string]string) {
	next := NewCommands(entries)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = next.entries
}

// Len returns the number of registered triggers.
func (c *Commands) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Entries returns entries sorted by trigger.
func (c *Commands) Entries() []CommandEntry {
	out := c.snapshot()
	sort.Slice(out, func(i, j int) bool { return out[i].Trigger < out[j].Trigger })
	return out
}

// ByPriority returns entries ordered for matching: longer triggers first,
// then lexicographic.
func (c *Commands) ByPriority() []CommandEntry {
	out := c.snapshot()
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Trigger) != len(out[j].Trigger) {
			return len(out[i].Trigger) > len(out[j].Trigger)
		}
		return out[i].Trigger < out[j].Trigger
	})
	return out
}

// Map returns a copy of the trigger→target table.
func (c *Commands) Map() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]string, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

func (c *Commands) snapshot() []CommandEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]CommandEntry, 0, len(c.entries))
	for trigger, target := range c.entries {
		out = append(out, CommandEntry{Trigger: trigger, Target: target})
	}
	return out
}
