package attendance

import "fmt"

// State names which session events of a record are populated.
type State int

const (
	StateNone State = iota
	StateCheckedIn
	StateCheckedOut
	StateReCheckedIn
	StateReCheckedOut
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "NONE"
	case StateCheckedIn:
		return "CHECKED_IN"
	case StateCheckedOut:
		return "CHECKED_OUT"
	case StateReCheckedIn:
		return "RE_CHECKED_IN"
	case StateReCheckedOut:
		return "RE_CHECKED_OUT"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// StateOf derives the state from the furthest populated event. A nil record
// or a record without a check-in (for example one marked absent) is StateNone.
func StateOf(r *Record) State {
	switch {
	case r == nil:
		return StateNone
	case r.ReCheckOut != nil:
		return StateReCheckedOut
	case r.ReCheckIn != nil:
		return StateReCheckedIn
	case r.CheckOut != nil:
		return StateCheckedOut
	case r.CheckIn != nil:
		return StateCheckedIn
	}
	return StateNone
}

type Event int

const (
	EventCheckIn Event = iota
	EventCheckOut
	EventReCheckIn
	EventReCheckOut
)

func (e Event) String() string {
	switch e {
	case EventCheckIn:
		return "check_in"
	case EventCheckOut:
		return "check_out"
	case EventReCheckIn:
		return "re_check_in"
	case EventReCheckOut:
		return "re_check_out"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// Next returns the state reached by applying e to s, or the precondition
// error explaining why e is not legal from s.
func (s State) Next(e Event) (State, error) {
	switch e {
	case EventCheckIn:
		if s != StateNone {
			return s, ErrAlreadyCheckedIn
		}
		return StateCheckedIn, nil
	case EventCheckOut:
		switch {
		case s == StateNone:
			return s, ErrNoCheckInFound
		case s >= StateCheckedOut:
			return s, ErrAlreadyCheckedOut
		}
		return StateCheckedOut, nil
	case EventReCheckIn:
		switch {
		case s < StateCheckedOut:
			return s, ErrNoCheckOutFound
		case s >= StateReCheckedIn:
			return s, ErrAlreadyReCheckedIn
		}
		return StateReCheckedIn, nil
	case EventReCheckOut:
		switch {
		case s < StateReCheckedIn:
			return s, ErrNoReCheckInFound
		case s == StateReCheckedOut:
			return s, ErrAlreadyReCheckedOut
		}
		return StateReCheckedOut, nil
	}
	return s, fmt.Errorf("unknown attendance event %d", int(e))
}

// Actions is the set of session events legal right now.
type Actions struct {
	CanCheckIn    bool `json:"can_check_in"`
	CanCheckOut   bool `json:"can_check_out"`
	CanReCheckIn  bool `json:"can_re_check_in"`
	CanReCheckOut bool `json:"can_re_check_out"`
}

// ActionsFor is computed from event presence only; the status field plays no part.
func ActionsFor(r *Record) Actions {
	if r == nil {
		return Actions{CanCheckIn: true}
	}
	return Actions{
		CanCheckIn:    r.CheckIn == nil,
		CanCheckOut:   r.CheckIn != nil && r.CheckOut == nil,
		CanReCheckIn:  r.CheckOut != nil && r.ReCheckIn == nil,
		CanReCheckOut: r.ReCheckIn != nil && r.ReCheckOut == nil,
	}
}
