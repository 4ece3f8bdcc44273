// Package fsm defines the listening session states and their transitions.
package fsm

import "fmt"

type State string

type Event string

const (
	StateIdle      State = "idle"
	StateListening State = "listening"
	StateArmed     State = "armed"
	StateExecuting State = "executing"
)

const (
	EventStart   Event = "start"
	EventWake    Event = "wake"
	EventCommand Event = "command"
	EventReset   Event = "reset"
	EventDone    Event = "done"
	EventStop    Event = "stop"
)

// Transition returns the state reached by applying event to current.
func Transition(current State, event Event) (State, error) {
	switch current {
	case StateIdle:
		switch event {
		case EventStart:
			return StateListening, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateListening:
		switch event {
		case EventWake:
			return StateArmed, nil
		case EventStop:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateArmed:
		switch event {
		case EventCommand:
			return StateExecuting, nil
		case EventReset:
			return StateListening, nil
		case EventStop:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateExecuting:
		switch event {
		case EventDone:
			return StateListening, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
