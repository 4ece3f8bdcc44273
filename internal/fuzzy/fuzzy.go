// Package fuzzy ranks approximate string matches for noisy transcripts.
package fuzzy

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/rbright/nova/internal/transcript"
)

// Ratio returns the Ratcliff-Obershelp similarity of a and b in [0,1].
//
// Both inputs are compared rune by rune exactly as given; callers normalize.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

type scored struct {
	candidate string
	ratio     float64
}

// BestMatch returns the candidate closest to query.
//
// An exact (case-insensitive) match wins immediately. Otherwise a candidate
// qualifies when its similarity reaches threshold or when one string contains
// the other. Qualifying candidates rank by similarity, then by shorter length,
// then lexicographically.
func BestMatch(query string, candidates []string, threshold float64) (string, bool) {
	q := transcript.Key(query)
	if q == "" {
		return "", false
	}

	accepted := make([]scored, 0, len(candidates))
	for _, candidate := range candidates {
		c := transcript.Key(candidate)
		if c == "" {
			continue
		}
		if c == q {
			return candidate, true
		}

		ratio := Ratio(q, c)
		if ratio >= threshold || strings.Contains(c, q) || strings.Contains(q, c) {
			accepted = append(accepted, scored{candidate: candidate, ratio: ratio})
		}
	}
	if len(accepted) == 0 {
		return "", false
	}

	sort.Slice(accepted, func(i, j int) bool {
		a, b := accepted[i], accepted[j]
		if a.ratio != b.ratio {
			return a.ratio > b.ratio
		}
		if len(a.candidate) != len(b.candidate) {
			return len(a.candidate) < len(b.candidate)
		}
		return a.candidate < b.candidate
	})
	return accepted[0].candidate, true
}

// runes splits s into single-rune elements for the sequence matcher.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
