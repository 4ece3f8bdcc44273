package registry

import (
	"strings"

	"github.com/rbright/nova/internal/transcript"
)

// WindowEntry is one live window from a single window query.
// Handle is only valid for the query that produced it.
type WindowEntry struct {
	Title    string
	Keywords map[string]struct{}
	Handle   string
}

// NewWindowEntry folds title into its keyword set.
func NewWindowEntry(title, handle string) WindowEntry {
	keywords := make(map[string]struct{})
	for _, token := range strings.Fields(transcript.Key(title)) {
		keywords[token] = struct{}{}
	}
	return WindowEntry{Title: title, Keywords: keywords, Handle: handle}
}

// Matches reports whether the window title contains keyword.
func (w WindowEntry) Matches(keyword string) bool {
	keyword = transcript.Key(keyword)
	if keyword == "" {
		return false
	}
	if _, ok := w.Keywords[keyword]; ok {
		return true
	}
	return strings.Contains(transcript.Key(w.Title), keyword)
}

// WindowIndex is an ordered snapshot of live windows.
type WindowIndex []WindowEntry

// Find returns the first window matching any keyword. Keywords are tried in
// order so earlier aliases take precedence over window order.
func (idx WindowIndex) Find(keywords []string) (WindowEntry, bool) {
	for _, keyword := range keywords {
		for _, window := range idx {
			if window.Matches(keyword) {
				return window, true
			}
		}
	}
	return WindowEntry{}, false
}
