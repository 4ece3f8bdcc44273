package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envOverrides lists the NOVA_* variables that take precedence over the file.
type envOverrides struct {
	LogLevel           *string  `env:"NOVA_LOG_LEVEL"`
	LogConsole         *bool    `env:"NOVA_LOG_CONSOLE"`
	WakeWord           *string  `env:"NOVA_WAKE_WORD"`
	WakeThreshold      *float64 `env:"NOVA_WAKE_THRESHOLD"`
	ListenCommand      *string  `env:"NOVA_LISTEN_CMD"`
	ListenInput        *string  `env:"NOVA_LISTEN_INPUT"`
	SpeechEnable       *bool    `env:"NOVA_SPEECH_ENABLE"`
	SpeechCommand      *string  `env:"NOVA_SPEECH_CMD"`
	Terminal           *string  `env:"NOVA_TERMINAL_CMD"`
	OpenCommand        *string  `env:"NOVA_OPEN_CMD"`
	DrivesPattern      *string  `env:"NOVA_DRIVES_PATTERN"`
	CommandsFile       *string  `env:"NOVA_COMMANDS_FILE"`
	SettingsFile       *string  `env:"NOVA_SETTINGS_FILE"`
	AliasesFile        *string  `env:"NOVA_ALIASES_FILE"`
	GRPCHealthEndpoint *string  `env:"NOVA_STT_HEALTH_ENDPOINT"`
}

// loadDotenv reads a .env file beside the config file. Existing process
// variables are never overwritten.
func loadDotenv(configPath string) error {
	path := filepath.Join(filepath.Dir(configPath), ".env")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %q: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %q: %w", path, err)
	}
	return nil
}

// applyEnv overlays NOVA_* variables onto cfg and reports whether any applied.
func applyEnv(cfg *Config) (bool, error) {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return false, fmt.Errorf("parse env: %w", err)
	}

	applied := false
	setString := func(dst *string, src *string) {
		if src == nil {
			return
		}
		*dst = strings.TrimSpace(*src)
		applied = true
	}
	setCommand := func(field string, dst *CommandConfig, src *string) error {
		if src == nil {
			return nil
		}
		command, err := parseCommand(field, *src)
		if err != nil {
			return err
		}
		*dst = command
		applied = true
		return nil
	}

	setString(&cfg.Log.Level, overrides.LogLevel)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if overrides.LogConsole != nil {
		cfg.Log.Console = *overrides.LogConsole
		applied = true
	}
	setString(&cfg.Wake.Word, overrides.WakeWord)
	if overrides.WakeThreshold != nil {
		cfg.Wake.Threshold = *overrides.WakeThreshold
		applied = true
	}
	if overrides.SpeechEnable != nil {
		cfg.Speech.Enable = *overrides.SpeechEnable
		applied = true
	}
	setString(&cfg.Listen.Input, overrides.ListenInput)
	setString(&cfg.Drives.Pattern, overrides.DrivesPattern)
	setString(&cfg.CommandsFile, overrides.CommandsFile)
	setString(&cfg.SettingsFile, overrides.SettingsFile)
	setString(&cfg.AliasesFile, overrides.AliasesFile)
	setString(&cfg.Listen.GRPCHealthEndpoint, overrides.GRPCHealthEndpoint)

	if err := setCommand("NOVA_LISTEN_CMD", &cfg.Listen.Command, overrides.ListenCommand); err != nil {
		return false, err
	}
	if err := setCommand("NOVA_SPEECH_CMD", &cfg.Speech.Command, overrides.SpeechCommand); err != nil {
		return false, err
	}
	if err := setCommand("NOVA_TERMINAL_CMD", &cfg.Terminal, overrides.Terminal); err != nil {
		return false, err
	}
	if err := setCommand("NOVA_OPEN_CMD", &cfg.OpenCmd, overrides.OpenCommand); err != nil {
		return false, err
	}

	return applied, nil
}
