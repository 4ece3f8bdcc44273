package session

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrTimedOut indicates no speech started before the listen timeout.
	ErrTimedOut = errors.New("no speech before timeout")
	// ErrUnintelligible indicates speech was heard but could not be transcribed.
	ErrUnintelligible = errors.New("speech could not be understood")
)

// Listener captures one utterance and returns its transcript.
//
// timeout bounds the wait for speech to start; phraseLimit bounds the
// utterance itself. Implementations return io.EOF when their source is
// exhausted for good.
type Listener interface {
	Listen(ctx context.Context, timeout, phraseLimit time.Duration) (string, error)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(context.Context, time.Duration, time.Duration) (string, error)

func (f ListenerFunc) Listen(ctx context.Context, timeout, phraseLimit time.Duration) (string, error) {
	return f(ctx, timeout, phraseLimit)
}

// IsQuiet reports whether err is an expected empty-capture outcome.
func IsQuiet(err error) bool {
	return errors.Is(err, ErrTimedOut) || errors.Is(err, ErrUnintelligible)
}
