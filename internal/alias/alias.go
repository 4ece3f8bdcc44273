// Package alias maps spoken application names to window-title keywords and
// process names.
package alias

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rbright/nova/internal/transcript"
)

//go:embed aliases.yaml
var defaultTable []byte

// WindowAlias lists window-title keywords for an application.
type WindowAlias struct {
	App    string   `yaml:"app"`
	Titles []string `yaml:"titles"`
}

// ProcessAlias lists process names for an application.
type ProcessAlias struct {
	App   string   `yaml:"app"`
	Names []string `yaml:"names"`
}

// Table is an ordered alias table. Earlier entries take precedence.
type Table struct {
	Windows   []WindowAlias  `yaml:"windows"`
	Terminal  []string       `yaml:"terminal"`
	Processes []ProcessAlias `yaml:"processes"`
}

// Default returns the embedded alias table.
func Default() Table {
	table, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("parse embedded aliases: %v", err))
	}
	return table
}

// Parse decodes a YAML alias table and folds every key.
func Parse(data []byte) (Table, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return Table{}, fmt.Errorf("decode aliases: %w", err)
	}

	for i := range table.Windows {
		table.Windows[i].App = transcript.Key(table.Windows[i].App)
		table.Windows[i].Titles = foldAll(table.Windows[i].Titles)
		if table.Windows[i].App == "" {
			return Table{}, fmt.Errorf("windows[%d]: app is required", i)
		}
	}
	for i := range table.Processes {
		table.Processes[i].App = transcript.Key(table.Processes[i].App)
		table.Processes[i].Names = trimAll(table.Processes[i].Names)
		if table.Processes[i].App == "" {
			return Table{}, fmt.Errorf("processes[%d]: app is required", i)
		}
	}
	table.Terminal = foldAll(table.Terminal)
	return table, nil
}

// Load returns the default table merged with the override file at path.
// A missing override file is not an error.
func Load(path string) (Table, error) {
	table := Default()
	if strings.TrimSpace(path) == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return table, nil
	}
	if err != nil {
		return Table{}, fmt.Errorf("read aliases %q: %w", path, err)
	}

	override, err := Parse(data)
	if err != nil {
		return Table{}, fmt.Errorf("parse aliases %q: %w", path, err)
	}
	return table.Merge(override), nil
}

// Merge returns t with override entries placed ahead of existing entries for
// the same app. A non-empty override terminal list replaces the default.
func (t Table) Merge(override Table) Table {
	out := Table{Terminal: t.Terminal}
	if len(override.Terminal) > 0 {
		out.Terminal = override.Terminal
	}

	seenWindows := make(map[string]bool, len(override.Windows))
	out.Windows = append(out.Windows, override.Windows...)
	for _, w := range override.Windows {
		seenWindows[w.App] = true
	}
	for _, w := range t.Windows {
		if !seenWindows[w.App] {
			out.Windows = append(out.Windows, w)
		}
	}

	seenProcesses := make(map[string]bool, len(override.Processes))
	out.Processes = append(out.Processes, override.Processes...)
	for _, p := range override.Processes {
		seenProcesses[p.App] = true
	}
	for _, p := range t.Processes {
		if !seenProcesses[p.App] {
			out.Processes = append(out.Processes, p)
		}
	}
	return out
}

// WindowKeywords returns the title keywords for a spoken target. Entries
// whose app name appears in the target contribute their titles; without any
// alias the target itself is the only keyword.
func (t Table) WindowKeywords(target string) []string {
	target = transcript.Key(target)
	if target == "" {
		return nil
	}

	var keywords []string
	for _, w := range t.Windows {
		if strings.Contains(target, w.App) {
			keywords = append(keywords, w.Titles...)
		}
	}
	if len(keywords) == 0 {
		return []string{target}
	}
	return keywords
}

// TerminalKeywords returns window-title keywords that identify a terminal.
func (t Table) TerminalKeywords() []string {
	return append([]string(nil), t.Terminal...)
}

// ProcessNames returns the process names for a spoken target. The first
// entry whose app name appears in the target wins.
func (t Table) ProcessNames(target string) ([]string, bool) {
	target = transcript.Key(target)
	if target == "" {
		return nil, false
	}
	for _, p := range t.Processes {
		if strings.Contains(target, p.App) && len(p.Names) > 0 {
			return append([]string(nil), p.Names...), true
		}
	}
	return nil, false
}

func foldAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if key := transcript.Key(v); key != "" {
			out = append(out, key)
		}
	}
	return out
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
