package session

import (
	"fmt"
	"strings"
	"time"
)

type State uint8

const (
	StateIdle          = State(0)
	StateCreatingEvent = State(1)
	StateFetchingToken = State(2)
	StateConnecting    = State(3)
	StateWaiting       = State(4)
	StateDisconnecting = State(5)
)

func (this State) String() string {
	switch this {
	case StateIdle:
		return "idle"
	case StateCreatingEvent:
		return "creatingEvent"
	case StateFetchingToken:
		return "fetchingToken"
	case StateConnecting:
		return "connecting"
	case StateWaiting:
		return "waiting"
	case StateDisconnecting:
		return "disconnecting"
	default:
		return fmt.Sprintf("illegal-session-state-%d", this)
	}
}

func (this State) MarshalText() (text []byte, err error) {
	return []byte(this.String()), nil
}

type Outcome uint8

const (
	OutcomeFailed    = Outcome(0)
	OutcomeEnded     = Outcome(1)
	OutcomeTimedOut  = Outcome(2)
	OutcomeCancelled = Outcome(3)
)

func (this Outcome) String() string {
	switch this {
	case OutcomeFailed:
		return "failed"
	case OutcomeEnded:
		return "ended"
	case OutcomeTimedOut:
		return "timedOut"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("illegal-session-outcome-%d", this)
	}
}

func (this Outcome) MarshalText() (text []byte, err error) {
	return []byte(this.String()), nil
}

// Call holds everything known about the current call attempt. It only lives
// for the duration of one Orchestrator.Dial.
type Call struct {
	Id         string
	IncidentId string
	RoomName   string
	Token      string
	State      State
	StartedAt  time.Time
	AnsweredBy string
}

func (this *Call) String() string {
	var parts []string
	parts = append(parts, "id="+this.Id)
	if v := this.IncidentId; v != "" {
		parts = append(parts, "incident="+v)
	}
	if v := this.RoomName; v != "" {
		parts = append(parts, "room="+v)
	}
	parts = append(parts, "state="+this.State.String())
	return strings.Join(parts, " ")
}

type Result struct {
	Outcome    Outcome
	IncidentId string
	RoomName   string
	Answered   bool
	AnsweredBy string
	Duration   time.Duration
}
