package config

import (
	"errors"
	"fmt"
	"os"
)

// Loaded captures resolved config path, parsed values, and non-fatal warnings.
type Loaded struct {
	Path     string
	Config   Config
	Warnings []Warning
	Exists   bool
}

// Load resolves, reads, parses, and validates the runtime configuration.
//
// A .env file beside the config is loaded first; NOVA_* variables then
// override file values.
func Load(explicitPath string) (Loaded, error) {
	resolvedPath, err := ResolvePath(explicitPath)
	if err != nil {
		return Loaded{}, err
	}
	if err := loadDotenv(resolvedPath); err != nil {
		return Loaded{}, err
	}

	loaded := Loaded{Path: resolvedPath, Config: Default()}
	content, err := os.ReadFile(resolvedPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		loaded.Warnings = []Warning{{
			Message: fmt.Sprintf("config file %q not found; using defaults", resolvedPath),
		}}
	case err != nil:
		return Loaded{}, fmt.Errorf("read config %q: %w", resolvedPath, err)
	default:
		cfg, warnings, err := Parse(string(content), loaded.Config)
		if err != nil {
			return Loaded{}, fmt.Errorf("parse config %q: %w", resolvedPath, err)
		}
		loaded.Config = cfg
		loaded.Warnings = warnings
		loaded.Exists = true
	}

	applied, err := applyEnv(&loaded.Config)
	if err != nil {
		return Loaded{}, err
	}
	if applied {
		if _, err := Validate(loaded.Config); err != nil {
			return Loaded{}, fmt.Errorf("environment overrides: %w", err)
		}
	}

	return loaded, nil
}
