// Package session runs the wake-word listening loop and serves its IPC controls.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rbright/nova/internal/config"
	"github.com/rbright/nova/internal/dispatch"
	"github.com/rbright/nova/internal/fsm"
	"github.com/rbright/nova/internal/intent"
	"github.com/rbright/nova/internal/ipc"
)

type action int

const (
	actionStart action = iota + 1
)

// WakeDetector decides whether a transcript contains the wake word.
type WakeDetector interface {
	IsWake(utterance string) bool
}

// Resolver turns an intent into one action.
type Resolver interface {
	Dispatch(ctx context.Context, in intent.Intent) dispatch.Action
}

// Performer carries out actions and speaks notices.
type Performer interface {
	Execute(ctx context.Context, action dispatch.Action) error
	Say(ctx context.Context, text string)
}

// Indicator is the session-facing subset of indicator behavior.
type Indicator interface {
	CueWake(context.Context)
	CueDone(context.Context)
	CueMiss(context.Context)
}

// noopIndicator preserves session flow when no indicator is wired.
type noopIndicator struct{}

func (noopIndicator) CueWake(context.Context) {}
func (noopIndicator) CueDone(context.Context) {}
func (noopIndicator) CueMiss(context.Context) {}

// noopPerformer drops actions and notices.
type noopPerformer struct{}

func (noopPerformer) Execute(context.Context, dispatch.Action) error { return nil }
func (noopPerformer) Say(context.Context, string)                    {}

// ReloadFunc re-reads custom commands and returns how many are loaded.
type ReloadFunc func(context.Context) (int, error)

// Deps are the collaborators of a Controller. Listener, Wake and Resolver are
// required.
type Deps struct {
	Listener  Listener
	Wake      WakeDetector
	Resolver  Resolver
	Performer Performer
	Indicator Indicator
	Reload    ReloadFunc
}

// Timings bounds each capture of the listening loop.
type Timings struct {
	WakeTimeout        time.Duration
	WakePhraseLimit    time.Duration
	CommandTimeout     time.Duration
	CommandPhraseLimit time.Duration
	Grace              time.Duration
	ErrorBackoff       time.Duration
}

// TimingsFromConfig converts listen millisecond settings to durations.
func TimingsFromConfig(cfg config.ListenConfig) Timings {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	return Timings{
		WakeTimeout:        ms(cfg.WakeTimeoutMS),
		WakePhraseLimit:    ms(cfg.WakePhraseLimitMS),
		CommandTimeout:     ms(cfg.CommandTimeoutMS),
		CommandPhraseLimit: ms(cfg.CommandPhraseLimitMS),
		Grace:              ms(cfg.GraceMS),
		ErrorBackoff:       ms(cfg.ErrorBackoffMS),
	}
}

// Stats counts loop outcomes since the controller was created.
type Stats struct {
	Wakes    int64
	Commands int64
	Failures int64
}

// Controller owns the session state and runs the listening loop.
type Controller struct {
	logger    *slog.Logger
	listener  Listener
	wake      WakeDetector
	resolver  Resolver
	performer Performer
	indicator Indicator
	reload    ReloadFunc
	timings   Timings

	mu          sync.RWMutex
	state       fsm.State
	cancelRun   context.CancelFunc
	stopPending bool

	actions chan action

	wakes    atomic.Int64
	commands atomic.Int64
	failures atomic.Int64
}

// NewController constructs a session controller with safe default fallbacks.
func NewController(logger *slog.Logger, deps Deps, timings Timings) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if deps.Performer == nil {
		deps.Performer = noopPerformer{}
	}
	if deps.Indicator == nil {
		deps.Indicator = noopIndicator{}
	}

	return &Controller{
		logger:    logger,
		listener:  deps.Listener,
		wake:      deps.Wake,
		resolver:  deps.Resolver,
		performer: deps.Performer,
		indicator: deps.Indicator,
		reload:    deps.Reload,
		timings:   timings,
		state:     fsm.StateIdle,
		actions:   make(chan action, 1),
	}
}

// State returns the current FSM state snapshot.
func (c *Controller) State() fsm.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Stats returns a snapshot of the loop counters.
func (c *Controller) Stats() Stats {
	return Stats{
		Wakes:    c.wakes.Load(),
		Commands: c.commands.Load(),
		Failures: c.failures.Load(),
	}
}

// transition applies one FSM event to the controller state.
func (c *Controller) transition(event fsm.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transitionLocked(event)
}

func (c *Controller) transitionLocked(event fsm.Event) error {
	next, err := fsm.Transition(c.state, event)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// Run services start requests until ctx is cancelled. It is the only
// goroutine that captures speech.
func (c *Controller) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case a := <-c.actions:
			switch a {
			case actionStart:
				c.listen(ctx)
			default:
				c.logger.Error("unknown session action", "action", int(a))
			}
		}
	}
}

// RunUntilIdle starts a listening period on the calling goroutine and
// returns once the session is idle again. It must not be combined with Run.
func (c *Controller) RunUntilIdle(ctx context.Context) error {
	if resp := c.requestStart(); !resp.OK {
		return errors.New(resp.Error)
	}
	<-c.actions
	c.listen(ctx)
	return nil
}

// listen runs one Listening period until stop, source exhaustion, or ctx end.
func (c *Controller) listen(ctx context.Context) {
	runCtx, ok := c.beginRun(ctx)
	if !ok {
		return
	}
	defer c.finishRun()

	c.logger.Info("listening started", "state", string(c.State()))
	c.performer.Say(ctx, phraseOnline)

	for {
		if c.halted(ctx) {
			return
		}

		text, err := c.capture(runCtx, c.timings.WakeTimeout, c.timings.WakePhraseLimit)
		if c.halted(ctx) {
			return
		}

		switch {
		case err == nil:
		case IsQuiet(err):
			continue
		case errors.Is(err, io.EOF):
			c.logger.Info("transcript source closed")
			return
		default:
			c.failures.Add(1)
			c.logger.Warn("wake capture failed", "error", err.Error())
			c.backoff(runCtx)
			continue
		}

		if !c.wake.IsWake(text) {
			c.logger.Debug("ignored transcript", "transcript", text)
			continue
		}

		if !c.handleWake(ctx, runCtx) {
			return
		}
	}
}

// handleWake captures and executes one command. It returns false when the
// listening period should end.
func (c *Controller) handleWake(ctx, runCtx context.Context) bool {
	if err := c.transition(fsm.EventWake); err != nil {
		c.logger.Error("session transition failed", "event", string(fsm.EventWake), "error", err.Error())
		return false
	}
	c.wakes.Add(1)
	c.indicator.CueWake(ctx)
	c.performer.Say(ctx, phraseAcknowledge)

	text, err := c.capture(runCtx, c.timings.CommandTimeout, c.timings.CommandPhraseLimit)
	if c.halted(ctx) {
		return false
	}

	switch {
	case err == nil:
	case errors.Is(err, ErrTimedOut):
		c.performer.Say(ctx, phraseTimedOut)
		return c.reset()
	case errors.Is(err, ErrUnintelligible):
		c.performer.Say(ctx, phraseUnintelligible)
		return c.reset()
	case errors.Is(err, io.EOF):
		c.logger.Info("transcript source closed")
		_ = c.reset()
		return false
	default:
		c.failures.Add(1)
		c.logger.Warn("command capture failed", "error", err.Error())
		if !c.reset() {
			return false
		}
		c.backoff(runCtx)
		return true
	}

	if err := c.transition(fsm.EventCommand); err != nil {
		c.logger.Error("session transition failed", "event", string(fsm.EventCommand), "error", err.Error())
		return false
	}
	c.commands.Add(1)
	c.execute(ctx, text)

	if err := c.transition(fsm.EventDone); err != nil {
		c.logger.Error("session transition failed", "event", string(fsm.EventDone), "error", err.Error())
		return false
	}
	return true
}

// execute parses, resolves, and applies one command transcript.
func (c *Controller) execute(ctx context.Context, text string) {
	utteranceID := uuid.NewString()
	in := intent.Parse(text)
	act := c.resolver.Dispatch(ctx, in)

	c.logger.Info("command dispatched",
		"utterance_id", utteranceID,
		"transcript", text,
		"intent", in.String(),
		"action", act.String(),
	)

	if err := c.performer.Execute(ctx, act); err != nil {
		c.failures.Add(1)
		c.logger.Warn("command execution failed",
			"utterance_id", utteranceID,
			"action", string(act.Kind),
			"error", err.Error(),
		)
		c.performer.Say(ctx, phraseFailed)
		c.indicator.CueMiss(ctx)
		return
	}

	switch act.Kind {
	case dispatch.NoOp, dispatch.Speak:
		c.indicator.CueMiss(ctx)
	default:
		c.indicator.CueDone(ctx)
	}
}

// capture runs one bounded Listen call. A capture cut short by its own bound
// is reported as ErrTimedOut; blank transcripts are treated the same way.
func (c *Controller) capture(ctx context.Context, timeout, phraseLimit time.Duration) (string, error) {
	bound := timeout + phraseLimit + c.timings.Grace
	listenCtx, cancel := context.WithTimeout(ctx, bound)
	defer cancel()

	text, err := c.listener.Listen(listenCtx, timeout, phraseLimit)
	if err != nil {
		if ctx.Err() == nil && errors.Is(listenCtx.Err(), context.DeadlineExceeded) {
			return "", ErrTimedOut
		}
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrTimedOut
	}
	return text, nil
}

// reset returns an armed session to listening.
func (c *Controller) reset() bool {
	if err := c.transition(fsm.EventReset); err != nil {
		c.logger.Error("session transition failed", "event", string(fsm.EventReset), "error", err.Error())
		return false
	}
	return true
}

// backoff pauses after an unexpected listener failure.
func (c *Controller) backoff(ctx context.Context) {
	if c.timings.ErrorBackoff <= 0 {
		return
	}
	timer := time.NewTimer(c.timings.ErrorBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// beginRun arms the cancellable context for one listening period. It returns
// false when a stop landed before the worker picked up the start.
func (c *Controller) beginRun(ctx context.Context) (context.Context, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopPending {
		c.stopPending = false
		_ = c.transitionLocked(fsm.EventStop)
		return nil, false
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancelRun = cancel
	return runCtx, true
}

// finishRun releases the listening period and returns to idle.
func (c *Controller) finishRun() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelRun != nil {
		c.cancelRun()
		c.cancelRun = nil
	}
	c.stopPending = false
	if c.state == fsm.StateListening || c.state == fsm.StateArmed {
		_ = c.transitionLocked(fsm.EventStop)
	}
	c.logger.Info("listening stopped", "state", string(c.state))
}

// halted reports whether the loop must end after the current step.
func (c *Controller) halted(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stopPending
}

// Handle serves IPC commands for the running daemon.
func (c *Controller) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case ipc.CommandStatus:
		stats := c.Stats()
		return ipc.Response{
			OK:      true,
			State:   string(c.State()),
			Message: fmt.Sprintf("wakes=%d commands=%d failures=%d", stats.Wakes, stats.Commands, stats.Failures),
		}
	case ipc.CommandStart:
		return c.requestStart()
	case ipc.CommandStop:
		return c.requestStop()
	case ipc.CommandToggle:
		if c.State() == fsm.StateIdle {
			return c.requestStart()
		}
		return c.requestStop()
	case ipc.CommandReload:
		return c.requestReload(ctx)
	default:
		return ipc.Response{OK: false, State: string(c.State()), Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}
}

// requestStart moves an idle session to listening and wakes the worker.
func (c *Controller) requestStart() ipc.Response {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != fsm.StateIdle {
		return ipc.Response{OK: false, State: string(c.state), Error: fmt.Sprintf("cannot start from state %s", c.state)}
	}

	select {
	case c.actions <- actionStart:
	default:
		return ipc.Response{OK: true, State: string(c.state), Message: "start already requested"}
	}
	if err := c.transitionLocked(fsm.EventStart); err != nil {
		return ipc.Response{OK: false, State: string(c.state), Error: err.Error()}
	}
	return ipc.Response{OK: true, State: string(c.state), Message: "listening"}
}

// requestStop flags the loop to stop and interrupts any capture in flight.
func (c *Controller) requestStop() ipc.Response {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == fsm.StateIdle {
		return ipc.Response{OK: false, State: string(c.state), Error: fmt.Sprintf("cannot stop from state %s", c.state)}
	}
	if c.stopPending {
		return ipc.Response{OK: true, State: string(c.state), Message: "stop already requested"}
	}

	c.stopPending = true
	if c.cancelRun != nil {
		c.cancelRun()
	}
	return ipc.Response{OK: true, State: string(c.state), Message: "stop requested"}
}

// requestReload re-reads custom commands through the configured hook.
func (c *Controller) requestReload(ctx context.Context) ipc.Response {
	if c.reload == nil {
		return ipc.Response{OK: false, State: string(c.State()), Error: "reload unavailable"}
	}
	n, err := c.reload(ctx)
	if err != nil {
		return ipc.Response{OK: false, State: string(c.State()), Error: fmt.Sprintf("reload commands: %v", err)}
	}
	return ipc.Response{OK: true, State: string(c.State()), Message: fmt.Sprintf("reloaded %d commands", n)}
}
