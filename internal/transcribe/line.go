package transcribe

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rbright/nova/internal/session"
)

type lineResult struct {
	text string
	err  error
}

// LineListener reads one transcript per line from r. A blank line stands for
// unrecognized speech.
type LineListener struct {
	once  sync.Once
	r     io.Reader
	lines chan lineResult
}

// NewLineListener creates a listener over r. Reading starts on first Listen.
func NewLineListener(r io.Reader) *LineListener {
	return &LineListener{r: r, lines: make(chan lineResult)}
}

// Listen waits up to timeout+phraseLimit for the next line.
func (l *LineListener) Listen(ctx context.Context, timeout, phraseLimit time.Duration) (string, error) {
	l.once.Do(func() { go l.read() })

	var expired <-chan time.Time
	if wait := timeout + phraseLimit; wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-expired:
		return "", session.ErrTimedOut
	case res, ok := <-l.lines:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		if res.text == "" {
			return "", session.ErrUnintelligible
		}
		return res.text, nil
	}
}

// read forwards lines until the reader is exhausted.
func (l *LineListener) read() {
	defer close(l.lines)

	scanner := bufio.NewScanner(l.r)
	for scanner.Scan() {
		l.lines <- lineResult{text: strings.TrimSpace(scanner.Text())}
	}
	if err := scanner.Err(); err != nil {
		l.lines <- lineResult{err: err}
	}
}
