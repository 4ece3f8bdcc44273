// Package transcript normalizes recognized utterances and registry keys.
package transcript

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Und)

// Key folds a registry key: NFKC, lowercase, trimmed, inner whitespace collapsed.
func Key(raw string) string {
	folded := lower.String(norm.NFKC.String(raw))
	return strings.Join(strings.Fields(folded), " ")
}

// Normalize prepares an ASR utterance for wake detection and parsing.
//
// Punctuation hugging a token ("Notepad.", "nova,") is dropped while inner
// punctuation ("notes.txt", "o'clock") survives.
func Normalize(utterance string) string {
	fields := strings.Fields(Key(utterance))
	out := fields[:0]
	for _, field := range fields {
		field = strings.TrimFunc(field, isEdgePunct)
		if field == "" {
			continue
		}
		out = append(out, field)
	}
	return strings.Join(out, " ")
}

// Letters keeps only letter runes of a token.
func Letters(token string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, token)
}

// Alnum keeps only letter and digit runes.
func Alnum(token string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, token)
}

func isEdgePunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
