// Package doctor runs readiness diagnostics for the nova runtime.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/rbright/nova/internal/alias"
	"github.com/rbright/nova/internal/audio"
	"github.com/rbright/nova/internal/config"
	"github.com/rbright/nova/internal/drives"
	"github.com/rbright/nova/internal/store"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(ctx context.Context, cfg config.Loaded) Report {
	checks := []Check{}

	message := fmt.Sprintf("loaded %q", cfg.Path)
	if !cfg.Exists {
		message = fmt.Sprintf("%q not found; using defaults", cfg.Path)
	}
	checks = append(checks, Check{Name: "config", Pass: true, Message: message})

	checks = append(checks, checkEnv("HYPRLAND_INSTANCE_SIGNATURE", func(v string) bool {
		return strings.TrimSpace(v) != ""
	}, "Hyprland session detected", "HYPRLAND_INSTANCE_SIGNATURE is empty"))
	checks = append(checks, checkBinary("hyprctl", "window listing and focus"))

	checks = append(checks, checkCommand(cfg.Config.Listen.Command.Argv, "listen.command"))
	checks = append(checks, checkMicrophone(ctx, cfg.Config.Listen.Input))
	if cfg.Config.Speech.Enable {
		checks = append(checks, checkCommand(cfg.Config.Speech.Command.Argv, "speech.command"))
	}
	checks = append(checks, checkCommand(cfg.Config.Apps.Launcher.Argv, "apps.launcher"))
	checks = append(checks, checkCommand(cfg.Config.Terminal.Argv, "terminal"))
	checks = append(checks, checkCommand(cfg.Config.OpenCmd.Argv, "open_cmd"))
	checks = append(checks, checkCommand(cfg.Config.Close.Command.Argv, "close.command"))

	checks = append(checks, checkCommandsFile(cfg.Config))
	checks = append(checks, checkAliases(cfg.Config))
	checks = append(checks, checkDrives(cfg.Config.Drives))

	if endpoint := strings.TrimSpace(cfg.Config.Listen.GRPCHealthEndpoint); endpoint != "" {
		checks = append(checks, checkGRPCHealth(ctx, endpoint))
	}

	return Report{Checks: checks}
}

// checkEnv validates an environment variable through a caller-supplied predicate.
func checkEnv(name string, predicate func(string) bool, okMsg, failMsg string) Check {
	value := os.Getenv(name)
	if predicate(value) {
		return Check{Name: name, Pass: true, Message: okMsg}
	}
	return Check{Name: name, Pass: false, Message: failMsg}
}

// checkCommand validates that argv contains a runnable command.
func checkCommand(argv []string, name string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	return checkBinary(argv[0], fmt.Sprintf("%s command is available", name))
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

// checkCommandsFile reads the custom command table the daemon would load.
func checkCommandsFile(cfg config.Config) Check {
	path, err := config.ResolveDataPath(cfg.CommandsFile, "commands.json")
	if err != nil {
		return Check{Name: "commands_file", Pass: false, Message: err.Error()}
	}

	commands, used, err := store.CommandFile{Path: path}.Load()
	if err != nil {
		return Check{Name: "commands_file", Pass: false, Message: err.Error()}
	}
	if used == "" {
		return Check{Name: "commands_file", Pass: true, Message: fmt.Sprintf("%q not found; no custom commands", path)}
	}
	return Check{Name: "commands_file", Pass: true, Message: fmt.Sprintf("%d commands in %q", len(commands), used)}
}

// checkAliases validates the alias override file when one is configured.
func checkAliases(cfg config.Config) Check {
	if strings.TrimSpace(cfg.AliasesFile) == "" {
		return Check{Name: "aliases_file", Pass: true, Message: "using built-in aliases"}
	}
	if _, err := alias.Load(cfg.AliasesFile); err != nil {
		return Check{Name: "aliases_file", Pass: false, Message: err.Error()}
	}
	return Check{Name: "aliases_file", Pass: true, Message: fmt.Sprintf("loaded %q", cfg.AliasesFile)}
}

// checkDrives reports which drive letters resolve to a mounted root.
func checkDrives(cfg config.DrivesConfig) Check {
	locator := drives.Locator{Pattern: cfg.Pattern, Roots: cfg.Roots}

	var found []string
	for letter := byte('a'); letter <= 'z'; letter++ {
		if root, ok := locator.DriveRoot(letter); ok {
			found = append(found, fmt.Sprintf("%c=%s", letter, root))
		}
	}

	var missing []string
	for letter, root := range cfg.Roots {
		if !drives.PathExists(root) {
			missing = append(missing, fmt.Sprintf("%s=%s", letter, root))
		}
	}
	sort.Strings(missing)

	if len(missing) > 0 {
		return Check{Name: "drives", Pass: false, Message: "configured roots missing: " + strings.Join(missing, ", ")}
	}
	if len(found) == 0 {
		return Check{Name: "drives", Pass: true, Message: "no drive roots found"}
	}
	return Check{Name: "drives", Pass: true, Message: strings.Join(found, ", ")}
}

// checkMicrophone verifies the configured input source can record.
func checkMicrophone(ctx context.Context, input string) Check {
	selection, err := audio.SelectDevice(ctx, input)
	if err != nil {
		return Check{Name: "listen.input", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("%s (%s)", selection.Device.ID, selection.Device.Description)
	if selection.Warning != "" {
		message += "; " + selection.Warning
	}
	return Check{Name: "listen.input", Pass: true, Message: message}
}
