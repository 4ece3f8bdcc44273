package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDefaultsToHelp(t *testing.T) {
	parsed, err := Parse(nil)
	require.NoError(t, err)
	require.True(t, parsed.ShowHelp)
	require.Equal(t, CommandHelp, parsed.Command)
}

func TestParseCommandWithConfig(t *testing.T) {
	parsed, err := Parse([]string{"--config", "/tmp/nova.jsonc", "doctor"})
	require.NoError(t, err)
	require.Equal(t, CommandDoctor, parsed.Command)
	require.Equal(t, "/tmp/nova.jsonc", parsed.ConfigPath)
	require.False(t, parsed.ShowHelp)
}

func TestParseArgMatrix(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     string
		wantCmd     Command
		wantHelp    bool
		wantPath    string
		wantArgs    []string
		wantStdin   bool
		wantVerbose bool
	}{
		{name: "help short flag", args: []string{"-h"}, wantCmd: CommandHelp, wantHelp: true},
		{name: "help long flag", args: []string{"--help"}, wantCmd: CommandHelp, wantHelp: true},
		{name: "help command", args: []string{"help"}, wantCmd: CommandHelp, wantHelp: true},
		{name: "version flag", args: []string{"--version"}, wantCmd: CommandVersion},
		{name: "config equals form", args: []string{"--config=/tmp/cfg", "status"}, wantCmd: CommandStatus, wantPath: "/tmp/cfg"},
		{name: "verbose short flag", args: []string{"-v", "run"}, wantCmd: CommandRun, wantVerbose: true},
		{name: "run with stdin", args: []string{"run", "--stdin"}, wantCmd: CommandRun, wantStdin: true},
		{name: "run extra operand", args: []string{"run", "now"}, wantErr: "unexpected arguments"},
		{name: "run unknown flag", args: []string{"run", "--bogus"}, wantErr: "run: unknown flag"},
		{name: "config after command", args: []string{"status", "--config", "/tmp/cfg"}, wantErr: "unexpected arguments after command"},
		{name: "missing config path", args: []string{"--config"}, wantErr: "needs an argument"},
		{name: "unknown flag", args: []string{"--bogus"}, wantErr: "unknown flag"},
		{name: "unknown command", args: []string{"bogus"}, wantErr: "unknown command"},
		{name: "extra args after command", args: []string{"doctor", "extra"}, wantErr: "unexpected arguments"},
		{name: "parse joins utterance", args: []string{"parse", "open", "photos", "from", "e", "drive"}, wantCmd: CommandParse, wantArgs: []string{"open photos from e drive"}},
		{name: "parse requires utterance", args: []string{"parse"}, wantErr: "parse requires an utterance"},
		{name: "commands defaults to list", args: []string{"commands"}, wantCmd: CommandCommands, wantArgs: []string{"list"}},
		{name: "commands add", args: []string{"commands", "add", "my notes", "/home/me/notes"}, wantCmd: CommandCommands, wantArgs: []string{"add", "my notes", "/home/me/notes"}},
		{name: "commands add missing target", args: []string{"commands", "add", "notes"}, wantErr: "usage: commands add"},
		{name: "commands remove", args: []string{"commands", "remove", "notes"}, wantCmd: CommandCommands, wantArgs: []string{"remove", "notes"}},
		{name: "commands unknown action", args: []string{"commands", "rename"}, wantErr: "unknown commands action"},
		{name: "settings stay active", args: []string{"settings", "stay-active", "on"}, wantCmd: CommandSettings, wantArgs: []string{"stay-active", "on"}},
		{name: "settings bad value", args: []string{"settings", "stay-active", "maybe"}, wantErr: "want on or off"},
		{name: "settings unknown key", args: []string{"settings", "volume", "on"}, wantErr: "usage: settings"},
		{name: "devices", args: []string{"devices"}, wantCmd: CommandDevices},
		{name: "valid stop with config", args: []string{"--config", "/tmp/cfg", "stop"}, wantCmd: CommandStop, wantPath: "/tmp/cfg"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := Parse(tc.args)
			if tc.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.wantCmd, parsed.Command)
			require.Equal(t, tc.wantHelp, parsed.ShowHelp)
			require.Equal(t, tc.wantPath, parsed.ConfigPath)
			require.Equal(t, tc.wantArgs, parsed.Args)
			require.Equal(t, tc.wantStdin, parsed.Stdin)
			require.Equal(t, tc.wantVerbose, parsed.Verbose)
		})
	}
}

func TestHelpTextIncludesCoreCommands(t *testing.T) {
	text := HelpText("nova")
	require.Contains(t, text, "run [--stdin]")
	require.Contains(t, text, "toggle")
	require.Contains(t, text, "commands add <trigger> <target>")
	require.Contains(t, text, "doctor")
	require.Contains(t, text, "devices")
	require.Contains(t, text, "--config PATH")
}
