// Package store persists custom commands and settings as JSON files.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rbright/nova/internal/transcript"
)

// ErrUnknownCommand reports a trigger that is not in the commands file.
var ErrUnknownCommand = errors.New("unknown command")

// LegacyCommandFiles are read, in order, when the commands file is absent.
var LegacyCommandFiles = []string{"stark_commands.json", "anna_commands.json"}

// CommandFile is a flat trigger→target JSON object on disk.
type CommandFile struct {
	Path string
}

// Load reads the command table. A missing file falls back to legacy files in
// the same directory, then to an empty table. The returned path is the file
// actually read, empty when none existed.
func (f CommandFile) Load() (map[string]string, string, error) {
	candidates := []string{f.Path}
	for _, name := range LegacyCommandFiles {
		candidates = append(candidates, filepath.Join(filepath.Dir(f.Path), name))
	}

	for _, path := range candidates {
		commands, err := readCommands(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return commands, path, nil
	}
	return map[string]string{}, "", nil
}

// Save writes commands to Path, replacing the file atomically.
func (f CommandFile) Save(commands map[string]string) error {
	if commands == nil {
		commands = map[string]string{}
	}
	return writeJSON(f.Path, commands)
}

// Add stores target under trigger, overwriting any previous target.
func (f CommandFile) Add(trigger, target string) error {
	key := transcript.Normalize(trigger)
	target = strings.TrimSpace(target)
	if key == "" {
		return fmt.Errorf("trigger cannot be empty")
	}
	if target == "" {
		return fmt.Errorf("target cannot be empty")
	}

	commands, _, err := f.Load()
	if err != nil {
		return err
	}
	removeFolded(commands, key)
	commands[key] = target
	return f.Save(commands)
}

// Remove deletes trigger from the file.
func (f CommandFile) Remove(trigger string) error {
	key := transcript.Normalize(trigger)

	commands, _, err := f.Load()
	if err != nil {
		return err
	}
	if !removeFolded(commands, key) {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, key)
	}
	return f.Save(commands)
}

// removeFolded deletes every entry whose folded trigger equals key.
func removeFolded(commands map[string]string, key string) bool {
	removed := false
	for trigger := range commands {
		if transcript.Normalize(trigger) == key {
			delete(commands, trigger)
			removed = true
		}
	}
	return removed
}

func readCommands(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	commands := map[string]string{}
	if strings.TrimSpace(string(data)) == "" {
		return commands, nil
	}
	if err := json.Unmarshal(data, &commands); err != nil {
		return nil, fmt.Errorf("decode commands %q: %w", path, err)
	}
	return commands, nil
}

// Settings is the persisted user preference record.
type Settings struct {
	StayActive bool `json:"stay_active"`
}

// SettingsFile stores Settings as JSON.
type SettingsFile struct {
	Path string
}

// Load reads settings; a missing file yields defaults.
func (f SettingsFile) Load() (Settings, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Settings{}, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings %q: %w", f.Path, err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("decode settings %q: %w", f.Path, err)
	}
	return settings, nil
}

// Save writes settings to Path.
func (f SettingsFile) Save(settings Settings) error {
	return writeJSON(f.Path, settings)
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %q: %w", path, err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create dir for %q: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %q: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %q: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %q: %w", path, err)
	}
	return nil
}
