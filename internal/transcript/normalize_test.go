package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyFoldsCaseAndWhitespace(t *testing.T) {
	t.Parallel()

	require.Equal(t, "visual studio code", Key("  Visual   Studio\tCode "))
	require.Equal(t, "", Key("   "))
}

func TestKeyAppliesCompatibilityNormalization(t *testing.T) {
	t.Parallel()

	// Fullwidth letters fold to ASCII.
	require.Equal(t, "nova", Key("ＮＯＶＡ"))
}

func TestNormalizeStripsEdgePunctuation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "trailing period", in: "Open Notepad.", want: "open notepad"},
		{name: "comma after wake word", in: "Nova, open chrome!", want: "nova open chrome"},
		{name: "inner punctuation kept", in: "open notes.txt", want: "open notes.txt"},
		{name: "apostrophe kept", in: "what's up", want: "what's up"},
		{name: "standalone punctuation dropped", in: "open - chrome", want: "open chrome"},
		{name: "empty", in: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	first := Normalize("  Open   Internship from M drive. ")
	require.Equal(t, "open internship from m drive", first)
	require.Equal(t, first, Normalize(first))
}

func TestLettersAndAlnum(t *testing.T) {
	t.Parallel()

	require.Equal(t, "nova", Letters("nova,"))
	require.Equal(t, "nova", Letters("no-va"))
	require.Equal(t, "vscode2", Alnum("vs-code 2"))
}
