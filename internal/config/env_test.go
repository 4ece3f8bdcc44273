package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesEnvOverridesOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{"log":{"level":"warn"},"terminal":"foot"}`), 0o600))

	t.Setenv("NOVA_LOG_LEVEL", "DEBUG")
	t.Setenv("NOVA_TERMINAL_CMD", "wezterm start")
	t.Setenv("NOVA_WAKE_THRESHOLD", "0.75")
	t.Setenv("NOVA_LOG_CONSOLE", "true")
	t.Setenv("NOVA_LISTEN_INPUT", " webcam ")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", loaded.Config.Log.Level)
	require.True(t, loaded.Config.Log.Console)
	require.Equal(t, []string{"wezterm", "start"}, loaded.Config.Terminal.Argv)
	require.InDelta(t, 0.75, loaded.Config.Wake.Threshold, 1e-9)
	require.Equal(t, "webcam", loaded.Config.Listen.Input)
}

func TestLoadReadsDotenvBesideConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.jsonc")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NOVA_WAKE_WORD=jarvis\n"), 0o600))

	// Registers cleanup so the variable set by godotenv does not leak.
	t.Setenv("NOVA_WAKE_WORD", "")
	require.NoError(t, os.Unsetenv("NOVA_WAKE_WORD"))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "jarvis", loaded.Config.Wake.Word)
}

func TestLoadDotenvDoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.jsonc")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NOVA_WAKE_WORD=jarvis\n"), 0o600))
	t.Setenv("NOVA_WAKE_WORD", "friday")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "friday", loaded.Config.Wake.Word)
}

func TestLoadRejectsInvalidEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.jsonc")

	t.Setenv("NOVA_LOG_LEVEL", "loud")
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "environment overrides")

	t.Setenv("NOVA_LOG_LEVEL", "")
	t.Setenv("NOVA_WAKE_THRESHOLD", "high")
	_, err = Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse env")
}

func TestApplyEnvReportsNoOverrides(t *testing.T) {
	cfg := Default()
	applied, err := applyEnv(&cfg)
	require.NoError(t, err)
	require.False(t, applied)
	require.Equal(t, Default(), cfg)
}
