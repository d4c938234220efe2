package application

import "fmt"

type State string

type Event string

const (
	StateIdle         State = "idle"
	StateListening    State = "listening"
	StateTranscribing State = "transcribing"
	StateDeciding     State = "deciding"
	StateSearching    State = "searching"
	StateGenerating   State = "generating"
	StateSpeaking     State = "speaking"
	StateLogging      State = "logging"
	StateTerminated   State = "terminated"
)

const (
	EventStart        Event = "start"
	EventCaptured     Event = "captured"
	EventTranscribed  Event = "transcribed"
	EventExitPhrase   Event = "exit_phrase"
	EventSearchNeeded Event = "search_needed"
	EventNoSearch     Event = "no_search"
	EventSearched     Event = "searched"
	EventGenerated    Event = "generated"
	EventSpoken       Event = "spoken"
	EventLogged       Event = "logged"
	EventFail         Event = "fail"
)

// Transition returns the session state that follows current on event.
// EventFail terminates the session from any state except Terminated.
func Transition(current State, event Event) (State, error) {
	if current == StateTerminated {
		return current, invalidTransition(current, event)
	}
	if event == EventFail {
		return StateTerminated, nil
	}

	switch current {
	case StateIdle:
		if event == EventStart {
			return StateListening, nil
		}
	case StateListening:
		if event == EventCaptured {
			return StateTranscribing, nil
		}
	case StateTranscribing:
		switch event {
		case EventTranscribed:
			return StateDeciding, nil
		case EventExitPhrase:
			return StateTerminated, nil
		}
	case StateDeciding:
		switch event {
		case EventSearchNeeded:
			return StateSearching, nil
		case EventNoSearch:
			return StateGenerating, nil
		}
	case StateSearching:
		if event == EventSearched {
			return StateGenerating, nil
		}
	case StateGenerating:
		if event == EventGenerated {
			return StateSpeaking, nil
		}
	case StateSpeaking:
		if event == EventSpoken {
			return StateLogging, nil
		}
	case StateLogging:
		if event == EventLogged {
			return StateListening, nil
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}

	return current, invalidTransition(current, event)
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
