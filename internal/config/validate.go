package config

import (
	"fmt"
	"sort"
	"strings"
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if strings.TrimSpace(cfg.Wake.Word) == "" {
		return nil, fmt.Errorf("wake.word must not be empty")
	}
	if cfg.Wake.Threshold <= 0 || cfg.Wake.Threshold > 1 {
		return nil, fmt.Errorf("wake.threshold must be in (0, 1]")
	}
	if cfg.Wake.Threshold < 0.5 {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("wake.threshold %.2f is low; expect frequent false wakes", cfg.Wake.Threshold)})
	}
	if len(cfg.Wake.Spellings) == 0 {
		warnings = append(warnings, Warning{Message: "wake.spellings is empty; only fuzzy wake matching is active"})
	}

	if len(cfg.Listen.Command.Argv) == 0 {
		return nil, fmt.Errorf("listen.command must not be empty")
	}
	for name, value := range map[string]int{
		"listen.wake_timeout_ms":         cfg.Listen.WakeTimeoutMS,
		"listen.wake_phrase_limit_ms":    cfg.Listen.WakePhraseLimitMS,
		"listen.command_timeout_ms":      cfg.Listen.CommandTimeoutMS,
		"listen.command_phrase_limit_ms": cfg.Listen.CommandPhraseLimitMS,
	} {
		if value <= 0 {
			return nil, fmt.Errorf("%s must be > 0", name)
		}
	}
	if strings.TrimSpace(cfg.Listen.Input) == "" {
		return nil, fmt.Errorf("listen.input must not be empty; use \"default\" for the default source")
	}
	if cfg.Listen.GraceMS < 0 {
		return nil, fmt.Errorf("listen.grace_ms must be >= 0")
	}
	if cfg.Listen.ErrorBackoffMS < 0 {
		return nil, fmt.Errorf("listen.error_backoff_ms must be >= 0")
	}
	if cfg.Listen.UnintelligibleExitCode <= 0 || cfg.Listen.UnintelligibleExitCode > 255 {
		return nil, fmt.Errorf("listen.unintelligible_exit_code must be in 1..255")
	}

	if cfg.Speech.Enable && len(cfg.Speech.Command.Argv) == 0 {
		return nil, fmt.Errorf("speech.command must not be empty when speech.enable=true")
	}
	if cfg.Speech.TimeoutMS <= 0 {
		return nil, fmt.Errorf("speech.timeout_ms must be > 0")
	}

	if len(cfg.OpenCmd.Argv) == 0 {
		return nil, fmt.Errorf("open_cmd must not be empty")
	}
	if len(cfg.Close.Command.Argv) == 0 {
		return nil, fmt.Errorf("close.command must not be empty")
	}
	if len(cfg.Terminal.Argv) == 0 {
		warnings = append(warnings, Warning{Message: "terminal is empty; terminal requests can only switch to open windows"})
	}

	if cfg.Drives.FolderThreshold <= 0 || cfg.Drives.FolderThreshold > 1 {
		return nil, fmt.Errorf("drives.folder_threshold must be in (0, 1]")
	}
	if strings.TrimSpace(cfg.Drives.Pattern) != "" && !strings.Contains(cfg.Drives.Pattern, "{letter}") {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("drives.pattern %q has no {letter} placeholder; every drive maps to the same root", cfg.Drives.Pattern)})
	}
	letters := make([]string, 0, len(cfg.Drives.Roots))
	for letter := range cfg.Drives.Roots {
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	for _, letter := range letters {
		if !isDriveLetter(letter) {
			return nil, fmt.Errorf("drives.roots key %q must be a single letter a-z", letter)
		}
		if strings.TrimSpace(cfg.Drives.Roots[letter]) == "" {
			return nil, fmt.Errorf("drives.roots[%q] must not be empty", letter)
		}
	}

	if cfg.Indicator.SoundTimeoutMS < 0 {
		return nil, fmt.Errorf("indicator.sound_timeout_ms must be >= 0")
	}

	if !logLevels[strings.ToLower(strings.TrimSpace(cfg.Log.Level))] {
		return nil, fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}

	return warnings, nil
}

func isDriveLetter(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	return len(value) == 1 && value[0] >= 'a' && value[0] <= 'z'
}
