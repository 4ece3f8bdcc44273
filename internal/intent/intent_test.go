package intent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGrammar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		utterance string
		want      Intent
	}{
		{
			name:      "close",
			utterance: "close chrome",
			want:      Intent{Verb: Close, Target: "chrome", Utterance: "close chrome"},
		},
		{
			name:      "drive folder",
			utterance: "open internship from m drive",
			want:      Intent{Verb: OpenDriveFolder, Target: "internship", Drive: 'm', Utterance: "open internship from m drive"},
		},
		{
			name:      "drive folder uppercase letter and punctuation",
			utterance: "Open Internship Notes from M drive.",
			want:      Intent{Verb: OpenDriveFolder, Target: "internship notes", Drive: 'm', Utterance: "open internship notes from m drive"},
		},
		{
			name:      "drive root",
			utterance: "open m drive",
			want:      Intent{Verb: OpenDriveRoot, Drive: 'm', Utterance: "open m drive"},
		},
		{
			name:      "drive root trailing whitespace",
			utterance: "open D drive   ",
			want:      Intent{Verb: OpenDriveRoot, Drive: 'd', Utterance: "open d drive"},
		},
		{
			name:      "open",
			utterance: "open notepad",
			want:      Intent{Verb: Open, Target: "notepad", Utterance: "open notepad"},
		},
		{
			name:      "multi-letter drive is a plain open",
			utterance: "open mm drive",
			want:      Intent{Verb: Open, Target: "mm drive", Utterance: "open mm drive"},
		},
		{
			name:      "terminal",
			utterance: "launch a terminal please",
			want:      Intent{Verb: OpenTerminal, Utterance: "launch a terminal please"},
		},
		{
			name:      "command prompt",
			utterance: "start command prompt",
			want:      Intent{Verb: OpenTerminal, Utterance: "start command prompt"},
		},
		{
			name:      "open terminal is an open intent",
			utterance: "open terminal",
			want:      Intent{Verb: Open, Target: "terminal", Utterance: "open terminal"},
		},
		{
			name:      "unknown keeps utterance as target",
			utterance: "play some music",
			want:      Intent{Verb: Unknown, Target: "play some music", Utterance: "play some music"},
		},
		{
			name:      "bare verb is unknown",
			utterance: "open",
			want:      Intent{Verb: Unknown, Target: "open", Utterance: "open"},
		},
		{
			name:      "empty",
			utterance: "",
			want:      Intent{Verb: Unknown},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Parse(tc.utterance))
		})
	}
}

func TestParseIsDeterministic(t *testing.T) {
	t.Parallel()

	first := Parse("open photos from e drive")
	for range 10 {
		require.Equal(t, first, Parse("open photos from e drive"))
	}
}

func TestIntentString(t *testing.T) {
	t.Parallel()

	require.Equal(t, `open_drive_folder target="photos" drive=e`, Parse("open photos from e drive").String())
	require.Equal(t, `close target="chrome"`, Parse("close chrome").String())
	require.True(t, Parse("open e drive").HasDrive())
	require.False(t, Parse("open notepad").HasDrive())
}

func TestNamesTerminal(t *testing.T) {
	t.Parallel()

	require.True(t, NamesTerminal("Open the Terminal"))
	require.True(t, NamesTerminal("command prompt"))
	require.False(t, NamesTerminal("open chrome"))
}
