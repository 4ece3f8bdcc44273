package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateDefaultHasNoWarnings(t *testing.T) {
	warnings, err := Validate(Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
}

func TestValidateRejectsInvalidCoreFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "empty wake word", mutate: func(c *Config) { c.Wake.Word = " " }, wantErr: "wake.word"},
		{name: "zero wake threshold", mutate: func(c *Config) { c.Wake.Threshold = 0 }, wantErr: "wake.threshold"},
		{name: "wake threshold above one", mutate: func(c *Config) { c.Wake.Threshold = 1.2 }, wantErr: "wake.threshold"},
		{name: "empty listen command", mutate: func(c *Config) { c.Listen.Command.Argv = nil }, wantErr: "listen.command"},
		{name: "empty listen input", mutate: func(c *Config) { c.Listen.Input = "" }, wantErr: "listen.input"},
		{name: "zero command timeout", mutate: func(c *Config) { c.Listen.CommandTimeoutMS = 0 }, wantErr: "listen.command_timeout_ms"},
		{name: "negative grace", mutate: func(c *Config) { c.Listen.GraceMS = -1 }, wantErr: "listen.grace_ms"},
		{name: "bad exit code", mutate: func(c *Config) { c.Listen.UnintelligibleExitCode = 0 }, wantErr: "unintelligible_exit_code"},
		{name: "empty speech command", mutate: func(c *Config) { c.Speech.Command.Argv = nil }, wantErr: "speech.command"},
		{name: "empty open command", mutate: func(c *Config) { c.OpenCmd.Argv = nil }, wantErr: "open_cmd"},
		{name: "empty close command", mutate: func(c *Config) { c.Close.Command.Argv = nil }, wantErr: "close.command"},
		{name: "folder threshold", mutate: func(c *Config) { c.Drives.FolderThreshold = 0 }, wantErr: "drives.folder_threshold"},
		{name: "drive key", mutate: func(c *Config) { c.Drives.Roots = map[string]string{"dd": "/x"} }, wantErr: "single letter"},
		{name: "drive root", mutate: func(c *Config) { c.Drives.Roots = map[string]string{"d": " "} }, wantErr: "must not be empty"},
		{name: "log level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: "log.level"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			_, err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateWarnings(t *testing.T) {
	cfg := Default()
	cfg.Wake.Threshold = 0.4
	cfg.Wake.Spellings = nil
	cfg.Terminal = CommandConfig{}
	cfg.Drives.Pattern = "/mnt/data"

	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 4)
	require.Contains(t, warnings[0].Message, "wake.threshold")
	require.Contains(t, warnings[1].Message, "wake.spellings")
	require.Contains(t, warnings[2].Message, "terminal")
	require.Contains(t, warnings[3].Message, "{letter}")
}

func TestValidateSpeechCommandOptionalWhenDisabled(t *testing.T) {
	cfg := Default()
	cfg.Speech.Enable = false
	cfg.Speech.Command = CommandConfig{}

	_, err := Validate(cfg)
	require.NoError(t, err)
}
