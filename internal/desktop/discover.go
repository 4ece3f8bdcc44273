// Package desktop discovers installed applications and drives process,
// launcher and file-browser commands.
package desktop

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rbright/nova/internal/registry"
)

// Entry is the subset of a .desktop file used for discovery.
type Entry struct {
	ID        string
	Name      string
	NoDisplay bool
	Hidden    bool
	Type      string
}

// DefaultDirs returns the XDG application directories in precedence order
// (user first).
func DefaultDirs() []string {
	var dirs []string
	if home := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); home != "" {
		dirs = append(dirs, filepath.Join(home, "applications"))
	} else if userHome, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(userHome, ".local", "share", "applications"))
	}

	dataDirs := strings.TrimSpace(os.Getenv("XDG_DATA_DIRS"))
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	for _, dir := range strings.Split(dataDirs, ":") {
		if dir = strings.TrimSpace(dir); dir != "" {
			dirs = append(dirs, filepath.Join(dir, "applications"))
		}
	}
	return dirs
}

// Discover scans dirs for launchable entries and records them in apps.
//
// Directories are scanned lowest precedence first so user entries overwrite
// system entries with the same name. Missing directories are skipped.
func Discover(ctx context.Context, dirs []string, apps *registry.Apps, logger *slog.Logger) (int, error) {
	count := 0
	for i := len(dirs) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		entries, err := scanDir(dirs[i])
		if err != nil {
			if logger != nil {
				logger.Warn("desktop entry scan failed", "dir", dirs[i], "error", err.Error())
			}
			continue
		}
		for _, entry := range entries {
			if !entry.Launchable() {
				continue
			}
			apps.Put(entry.Name, entry.ID)
			count++
		}
	}
	return count, nil
}

// Launchable reports whether the entry should be offered for launch.
func (e Entry) Launchable() bool {
	return e.Name != "" && e.ID != "" && !e.NoDisplay && !e.Hidden && (e.Type == "" || e.Type == "Application")
}

func scanDir(root string) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == root {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".desktop") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entry, err := parseEntryFile(path)
		if err != nil {
			return nil
		}
		entry.ID = strings.ReplaceAll(filepath.ToSlash(rel), "/", "-")
		entries = append(entries, entry)
		return nil
	})
	return entries, err
}

func parseEntryFile(path string) (Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return Entry{}, err
	}
	defer f.Close()

	var entry Entry
	inMain := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inMain = line == "[Desktop Entry]"
			continue
		}
		if !inMain {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch key {
		case "Name":
			entry.Name = value
		case "Type":
			entry.Type = value
		case "NoDisplay":
			entry.NoDisplay = strings.EqualFold(value, "true")
		case "Hidden":
			entry.Hidden = strings.EqualFold(value, "true")
		}
	}
	return entry, scanner.Err()
}
