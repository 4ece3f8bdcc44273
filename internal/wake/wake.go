// Package wake classifies transcribed utterances as wake triggers.
package wake

import (
	"strings"

	"github.com/rbright/nova/internal/fuzzy"
	"github.com/rbright/nova/internal/transcript"
)

// DefaultWord is the canonical wake word.
const DefaultWord = "nova"

// DefaultThreshold is the per-token similarity needed for a fuzzy wake.
const DefaultThreshold = 0.6

// DefaultSpellings lists known transcriptions of the wake word.
func DefaultSpellings() []string {
	return []string{"nova", "noah", "nora", "novah", "nover", "know va", "now a", "no va"}
}

// Detector decides whether an utterance contains the wake word.
type Detector struct {
	word      string
	spellings []string
	threshold float64
}

// NewDetector builds a detector. Empty arguments fall back to defaults.
func NewDetector(word string, spellings []string, threshold float64) *Detector {
	word = transcript.Key(word)
	if word == "" {
		word = DefaultWord
	}
	if len(spellings) == 0 {
		spellings = DefaultSpellings()
	}
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}

	folded := make([]string, 0, len(spellings))
	for _, spelling := range spellings {
		if key := transcript.Key(spelling); key != "" {
			folded = append(folded, key)
		}
	}
	return &Detector{word: word, spellings: folded, threshold: threshold}
}

// Word returns the canonical wake word.
func (d *Detector) Word() string { return d.word }

// IsWake reports whether utterance is a wake trigger.
//
// Literal containment of a known spelling short-circuits; otherwise each
// whitespace token is stripped to letters and compared to the canonical word.
func (d *Detector) IsWake(utterance string) bool {
	folded := transcript.Key(utterance)
	if folded == "" {
		return false
	}

	for _, spelling := range d.spellings {
		if strings.Contains(folded, spelling) {
			return true
		}
	}

	for _, token := range strings.Fields(folded) {
		letters := transcript.Letters(token)
		if letters == "" {
			continue
		}
		if fuzzy.Ratio(letters, d.word) >= d.threshold {
			return true
		}
	}
	return false
}
