package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Dir returns the nova configuration directory (XDG, then ~/.config).
func Dir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "nova"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("unable to resolve user home for config fallback")
	}

	return filepath.Join(home, ".config", "nova"), nil
}

// ResolvePath applies CLI/XDG/home fallback rules for config.jsonc location.
func ResolvePath(explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}

	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.jsonc"), nil
}

// ResolveDataPath returns configured when set, else name inside Dir.
func ResolveDataPath(configured string, name string) (string, error) {
	if strings.TrimSpace(configured) != "" {
		return expandHome(strings.TrimSpace(configured)), nil
	}

	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
