// Package cli parses nova command-line arguments.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

type Command string

const (
	CommandRun      Command = "run"
	CommandStart    Command = "start"
	CommandStop     Command = "stop"
	CommandToggle   Command = "toggle"
	CommandStatus   Command = "status"
	CommandReload   Command = "reload"
	CommandParse    Command = "parse"
	CommandCommands Command = "commands"
	CommandSettings Command = "settings"
	CommandApps     Command = "apps"
	CommandDevices  Command = "devices"
	CommandDoctor   Command = "doctor"
	CommandVersion  Command = "version"
	CommandHelp     Command = "help"
)

// Subcommands of `commands`.
const (
	CommandsList   = "list"
	CommandsAdd    = "add"
	CommandsRemove = "remove"
)

// SettingStayActive is the only toggle exposed by `settings`.
const SettingStayActive = "stay-active"

var validCommands = map[Command]struct{}{
	CommandRun:      {},
	CommandStart:    {},
	CommandStop:     {},
	CommandToggle:   {},
	CommandStatus:   {},
	CommandReload:   {},
	CommandParse:    {},
	CommandCommands: {},
	CommandSettings: {},
	CommandApps:     {},
	CommandDevices:  {},
	CommandDoctor:   {},
	CommandVersion:  {},
	CommandHelp:     {},
}

// Parsed is the validated result of one invocation.
type Parsed struct {
	Command    Command
	ConfigPath string
	Verbose    bool
	ShowHelp   bool

	// Stdin reads transcripts from standard input instead of the STT command.
	Stdin bool
	// Args holds command operands, e.g. the utterance words of `parse`.
	Args []string
}

// Parse reads global flags, then one command and its operands.
func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}

	fs := pflag.NewFlagSet("nova", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(false)
	fs.StringVar(&parsed.ConfigPath, "config", "", "config file path")
	fs.BoolVarP(&parsed.Verbose, "verbose", "v", false, "log to stderr")
	help := fs.BoolP("help", "h", false, "show help")
	showVersion := fs.Bool("version", false, "show version")

	if err := fs.Parse(args); err != nil {
		return Parsed{}, err
	}
	if *help {
		return parsed, nil
	}
	if *showVersion {
		parsed.Command = CommandVersion
		parsed.ShowHelp = false
		return parsed, nil
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return parsed, nil
	}

	cmd := Command(rest[0])
	if _, ok := validCommands[cmd]; !ok {
		return Parsed{}, fmt.Errorf("unknown command: %s", rest[0])
	}
	parsed.Command = cmd
	parsed.ShowHelp = cmd == CommandHelp

	operands, err := parseOperands(&parsed, rest[1:])
	if err != nil {
		return Parsed{}, err
	}
	parsed.Args = operands
	return parsed, nil
}

// parseOperands validates the operands of parsed.Command.
func parseOperands(parsed *Parsed, args []string) ([]string, error) {
	switch parsed.Command {
	case CommandRun:
		fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
		fs.SetOutput(io.Discard)
		fs.BoolVar(&parsed.Stdin, "stdin", false, "read transcripts from stdin")
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("run: %w", err)
		}
		if fs.NArg() > 0 {
			return nil, unexpected(parsed.Command)
		}
		return nil, nil
	case CommandParse:
		utterance := strings.TrimSpace(strings.Join(args, " "))
		if utterance == "" {
			return nil, fmt.Errorf("parse requires an utterance")
		}
		return []string{utterance}, nil
	case CommandCommands:
		return commandsOperands(args)
	case CommandSettings:
		if len(args) != 2 || args[0] != SettingStayActive {
			return nil, fmt.Errorf("usage: settings %s <on|off>", SettingStayActive)
		}
		switch args[1] {
		case "on", "off":
			return args, nil
		default:
			return nil, fmt.Errorf("invalid %s value %q (want on or off)", SettingStayActive, args[1])
		}
	default:
		if len(args) > 0 {
			return nil, unexpected(parsed.Command)
		}
		return nil, nil
	}
}

func commandsOperands(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{CommandsList}, nil
	}
	switch args[0] {
	case CommandsList:
		if len(args) != 1 {
			return nil, unexpected(CommandCommands)
		}
	case CommandsAdd:
		if len(args) != 3 || strings.TrimSpace(args[1]) == "" || strings.TrimSpace(args[2]) == "" {
			return nil, fmt.Errorf("usage: commands add <trigger> <target>")
		}
	case CommandsRemove:
		if len(args) != 2 || strings.TrimSpace(args[1]) == "" {
			return nil, fmt.Errorf("usage: commands remove <trigger>")
		}
	default:
		return nil, fmt.Errorf("unknown commands action: %s", args[0])
	}
	return args, nil
}

func unexpected(cmd Command) error {
	return fmt.Errorf("unexpected arguments after command %q", cmd)
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] [--verbose] <command> [args]

Commands:
  run [--stdin]                  Run the daemon in the foreground
  start                          Start listening for the wake word
  stop                           Stop listening
  toggle                         Start or stop listening
  status                         Print daemon state and counters
  reload                         Re-read custom commands in the daemon
  parse <utterance...>           Show the intent and action for an utterance
  commands [list]                List custom commands
  commands add <trigger> <target>
                                 Add or replace a custom command
  commands remove <trigger>      Remove a custom command
  settings stay-active <on|off>  Listen as soon as the daemon starts
  apps                           List discovered applications
  devices                        List audio input sources
  doctor                         Run configuration and environment checks
  version                        Print version information
  help                           Show this help

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/nova/config.jsonc)
  -v, --verbose   Also log to stderr
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
