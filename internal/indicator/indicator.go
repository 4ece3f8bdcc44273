// Package indicator plays audible cues for wake, completion, and misses.
package indicator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rbright/nova/internal/config"
)

const defaultCueTimeout = 1500 * time.Millisecond

// Cues is the indicator used by runtime sessions.
type Cues struct {
	cfg    config.IndicatorConfig
	logger *slog.Logger
	play   func(context.Context, cueKind, config.IndicatorConfig) error

	soundMu sync.Mutex
	wg      sync.WaitGroup
}

// New creates a cue player from config.
func New(cfg config.IndicatorConfig, logger *slog.Logger) *Cues {
	return &Cues{cfg: cfg, logger: logger, play: emitCue}
}

// CueWake signals that the wake word was heard.
func (c *Cues) CueWake(context.Context) { c.playCue(cueWake) }

// CueDone signals that an action was carried out.
func (c *Cues) CueDone(context.Context) { c.playCue(cueDone) }

// CueMiss signals that nothing could be done for the command.
func (c *Cues) CueMiss(context.Context) { c.playCue(cueMiss) }

// Wait blocks until queued cues have finished.
func (c *Cues) Wait() { c.wg.Wait() }

// playCue serializes cue playback and emits audio asynchronously.
func (c *Cues) playCue(kind cueKind) {
	if !c.cfg.SoundEnable {
		return
	}
	timeout := defaultCueTimeout
	if c.cfg.SoundTimeoutMS > 0 {
		timeout = time.Duration(c.cfg.SoundTimeoutMS) * time.Millisecond
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.soundMu.Lock()
		defer c.soundMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := c.play(ctx, kind, c.cfg); err != nil {
			c.log("indicator audio cue failed", kind, err)
		}
	}()
}

// log emits debug-only indicator failures to the runtime logger.
func (c *Cues) log(message string, kind cueKind, err error) {
	if c.logger == nil || err == nil {
		return
	}
	c.logger.Debug(message, "cue", kind.String(), "error", err.Error())
}
