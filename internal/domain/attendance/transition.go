package attendance

import (
	"fmt"
	"time"
)

// Apply validates e against the state of current and returns the mutated,
// re-derived record. current is nil when no record exists for the day.
func Apply(current *Record, e Event, at time.Time, meta Metadata, policy LatePolicy) (Record, error) {
	state := StateOf(current)
	if _, err := state.Next(e); err != nil {
		return Record{}, err
	}

	var r Record
	if current != nil {
		r = *current
	}

	event := meta.eventAt(at)
	switch e {
	case EventCheckIn:
		r.CheckIn = event
		r.CheckInCount = 1
		r.Status = StatusPresent
		r.IsLate, r.LateMinutes = false, 0
		if policy != nil {
			if late, minutes := policy.Evaluate(at); late {
				r.Status = StatusLate
				r.IsLate = true
				r.LateMinutes = minutes
			}
		}
	case EventCheckOut:
		if err := checkElapsed(r.CheckIn.Time, at); err != nil {
			return Record{}, err
		}
		r.CheckOut = event
	case EventReCheckIn:
		r.ReCheckIn = event
	case EventReCheckOut:
		if err := checkElapsed(r.ReCheckIn.Time, at); err != nil {
			return Record{}, err
		}
		r.ReCheckOut = event
	default:
		return Record{}, fmt.Errorf("unknown attendance event %d", int(e))
	}

	return DeriveFields(r), nil
}

func checkElapsed(since, at time.Time) error {
	elapsed := at.Sub(since)
	if elapsed < MinSessionDuration {
		return &TooSoonError{Elapsed: elapsed}
	}
	return nil
}
