package dispatch

import (
	"fmt"
	"strings"
)

// Kind identifies what an Action asks the executor to do.
type Kind string

const (
	Launch   Kind = "launch"
	Switch   Kind = "switch"
	Kill     Kind = "kill"
	OpenPath Kind = "open_path"
	Speak    Kind = "speak"
	NoOp     Kind = "noop"
)

// Action is the single instruction produced for one intent.
//
// Payload is the launch target, window handle or path. Targets holds the
// process identifiers of a Kill. Speech is the confirmation or miss notice.
type Action struct {
	Kind    Kind
	Payload string
	Targets []string
	Speech  string
}

// String renders the action for logs and dry runs.
func (a Action) String() string {
	var b strings.Builder
	b.WriteString(string(a.Kind))
	if a.Payload != "" {
		fmt.Fprintf(&b, " payload=%q", a.Payload)
	}
	if len(a.Targets) > 0 {
		fmt.Fprintf(&b, " targets=%q", a.Targets)
	}
	if a.Speech != "" {
		fmt.Fprintf(&b, " speech=%q", a.Speech)
	}
	return b.String()
}

func speak(text string) Action {
	return Action{Kind: Speak, Speech: text}
}

func miss(text string) Action {
	return Action{Kind: NoOp, Speech: text}
}
