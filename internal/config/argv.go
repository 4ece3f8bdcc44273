package config

import (
	"fmt"
	"strings"
	"unicode"
)

// argvLexer splits a command line with POSIX-shell-like quoting. It never
// expands variables or globs; placeholders such as {text} pass through.
type argvLexer struct {
	argv    []string
	token   strings.Builder
	inToken bool
	quote   rune
	escape  bool
}

func (l *argvLexer) emit() {
	if !l.inToken {
		return
	}
	l.argv = append(l.argv, l.token.String())
	l.token.Reset()
	l.inToken = false
}

func (l *argvLexer) write(r rune) {
	l.token.WriteRune(r)
	l.inToken = true
}

func (l *argvLexer) feed(r rune) {
	switch {
	case l.escape:
		l.write(r)
		l.escape = false
	case l.quote != 0 && r == l.quote:
		l.quote = 0
	case l.quote != 0:
		l.write(r)
	case r == '\\':
		l.escape = true
	case r == '\'' || r == '"':
		l.quote = r
		l.inToken = true
	case unicode.IsSpace(r):
		l.emit()
	default:
		l.write(r)
	}
}

// parseArgv splits input into argv. Blank input and lines starting with '#'
// yield a nil argv. A quoted empty string is kept as an empty argument.
func parseArgv(input string) ([]string, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.HasPrefix(input, "#") {
		return nil, nil
	}

	var l argvLexer
	for _, r := range input {
		l.feed(r)
	}
	switch {
	case l.escape:
		return nil, fmt.Errorf("unterminated escape sequence in command: %q", input)
	case l.quote != 0:
		return nil, fmt.Errorf("unterminated quote in command: %q", input)
	}
	l.emit()
	return l.argv, nil
}

// mustParseArgv is for compiled-in defaults only.
func mustParseArgv(input string) []string {
	argv, err := parseArgv(input)
	if err != nil {
		panic(err)
	}
	return argv
}
