// Package intent parses normalized utterances into command intents.
package intent

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rbright/nova/internal/transcript"
)

// Verb identifies what an utterance asks for.
type Verb string

const (
	Open            Verb = "open"
	Close           Verb = "close"
	OpenDriveFolder Verb = "open_drive_folder"
	OpenDriveRoot   Verb = "open_drive_root"
	OpenTerminal    Verb = "open_terminal"
	Unknown         Verb = "unknown"
)

// Intent is the parsed form of a single utterance.
type Intent struct {
	Verb      Verb
	Target    string
	Drive     byte // lowercase drive letter, 0 when absent
	Utterance string
}

// HasDrive reports whether the intent names a drive.
func (i Intent) HasDrive() bool { return i.Drive != 0 }

// String renders the intent for logs and dry runs.
func (i Intent) String() string {
	if i.HasDrive() {
		return fmt.Sprintf("%s target=%q drive=%c", i.Verb, i.Target, i.Drive)
	}
	return fmt.Sprintf("%s target=%q", i.Verb, i.Target)
}

var (
	closePattern       = regexp.MustCompile(`^close\s+(.+)$`)
	driveFolderPattern = regexp.MustCompile(`^open\s+(.+?)\s+from\s+([a-z])\s+drive$`)
	driveRootPattern   = regexp.MustCompile(`^open\s+([a-z])\s+drive$`)
	openPattern        = regexp.MustCompile(`^open\s+(.+)$`)
)

var terminalPhrases = []string{"command prompt", "terminal"}

// Parse applies the command grammar to utterance. The first matching rule
// wins and every utterance yields exactly one verb.
func Parse(utterance string) Intent {
	text := transcript.Normalize(utterance)
	base := Intent{Utterance: text}

	if m := closePattern.FindStringSubmatch(text); m != nil {
		base.Verb, base.Target = Close, strings.TrimSpace(m[1])
		return base
	}
	if m := driveFolderPattern.FindStringSubmatch(text); m != nil {
		base.Verb, base.Target, base.Drive = OpenDriveFolder, strings.TrimSpace(m[1]), m[2][0]
		return base
	}
	if m := driveRootPattern.FindStringSubmatch(text); m != nil {
		base.Verb, base.Drive = OpenDriveRoot, m[1][0]
		return base
	}
	if m := openPattern.FindStringSubmatch(text); m != nil {
		base.Verb, base.Target = Open, strings.TrimSpace(m[1])
		return base
	}
	if NamesTerminal(text) {
		base.Verb = OpenTerminal
		return base
	}

	base.Verb, base.Target = Unknown, text
	return base
}

// NamesTerminal reports whether text mentions a terminal.
func NamesTerminal(text string) bool {
	text = transcript.Key(text)
	for _, phrase := range terminalPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
