package wake

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbright/nova/internal/fuzzy"
)

func TestIsWakeLiteralSpellings(t *testing.T) {
	t.Parallel()

	d := NewDetector("", nil, 0)
	for _, spelling := range DefaultSpellings() {
		require.Truef(t, d.IsWake(spelling), "spelling %q", spelling)
		require.Truef(t, d.IsWake("hey "+spelling+" are you there"), "embedded %q", spelling)
	}
	require.True(t, d.IsWake("NOVA!"))
}

func TestIsWakeFuzzyToken(t *testing.T) {
	t.Parallel()

	d := NewDetector("", nil, 0)

	tests := []struct {
		name      string
		utterance string
		want      bool
	}{
		{name: "dropped letter", utterance: "hey nva", want: true},
		{name: "swapped vowel", utterance: "okay novo please", want: true},
		{name: "trailing punctuation", utterance: "nuva?", want: true},
		{name: "unrelated", utterance: "what time is it", want: false},
		{name: "empty", utterance: "   ", want: false},
		{name: "digits only", utterance: "1234", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, d.IsWake(tc.utterance))
		})
	}
}

func TestIsWakeHonorsRatioBoundaries(t *testing.T) {
	t.Parallel()

	d := NewDetector("", nil, 0)

	above := "nvaa"
	require.GreaterOrEqual(t, fuzzy.Ratio(above, "nova"), DefaultThreshold)
	require.True(t, d.IsWake(above))

	below := "tree"
	require.Less(t, fuzzy.Ratio(below, "nova"), 0.5)
	require.False(t, d.IsWake(below))
}

func TestNewDetectorCustomWord(t *testing.T) {
	t.Parallel()

	d := NewDetector("  Jarvis ", []string{"jarvis", "service"}, 0.8)
	require.Equal(t, "jarvis", d.Word())
	require.True(t, d.IsWake("hey jarvis"))
	require.True(t, d.IsWake("customer service"))
	require.True(t, d.IsWake("jarvs"))
	require.False(t, d.IsWake("nova"))
}
