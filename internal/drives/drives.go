// Package drives maps spoken drive letters to mounted filesystem roots.
package drives

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const letterPlaceholder = "{letter}"

// Locator resolves drive letters through explicit roots, then a path pattern.
type Locator struct {
	Pattern string
	Roots   map[string]string
}

// DriveRoot returns the existing directory for letter.
func (l Locator) DriveRoot(letter byte) (string, bool) {
	key := strings.ToLower(string(letter))
	if len(key) != 1 || key[0] < 'a' || key[0] > 'z' {
		return "", false
	}

	for _, candidate := range l.candidates(key) {
		if PathExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (l Locator) candidates(key string) []string {
	var letters []string
	for letter, root := range l.Roots {
		if strings.ToLower(strings.TrimSpace(letter)) == key && strings.TrimSpace(root) != "" {
			letters = append(letters, letter)
		}
	}
	// An exact lowercase key comes first so duplicate spellings resolve the same way.
	sort.Slice(letters, func(i, j int) bool {
		if exact := letters[i] == key; exact != (letters[j] == key) {
			return exact
		}
		return letters[i] < letters[j]
	})

	out := make([]string, 0, len(letters)+1)
	for _, letter := range letters {
		out = append(out, strings.TrimSpace(l.Roots[letter]))
	}
	if strings.TrimSpace(l.Pattern) != "" {
		out = append(out, strings.ReplaceAll(l.Pattern, letterPlaceholder, key))
	}
	return out
}

// ListTopLevelDirectories returns the visible directory names directly under
// root, sorted. Symlinks to directories count as directories.
func (l Locator) ListTopLevelDirectories(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", root, err)
	}

	dirs := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if entry.IsDir() {
			dirs = append(dirs, name)
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(root, name)); err == nil && info.IsDir() {
				dirs = append(dirs, name)
			}
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// PathExists reports whether path is an existing directory.
func PathExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
