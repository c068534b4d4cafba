package attendance

import (
	"fmt"
	"math"
	"time"
)

// LatePolicy decides whether a check-in is late and by how many minutes.
type LatePolicy interface {
	Evaluate(checkIn time.Time) (late bool, minutes int)
}

// NoLatePolicy never marks a check-in late.
type NoLatePolicy struct{}

func (NoLatePolicy) Evaluate(time.Time) (bool, int) {
	return false, 0
}

// CutoffPolicy marks check-ins after Cutoff + Grace on the business-zone clock
// as late. Minutes are counted from Cutoff and floored.
type CutoffPolicy struct {
	Cutoff time.Duration
	Grace  time.Duration
}

// ParseCutoff reads an "HH:MM" business-zone wall clock time.
func ParseCutoff(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid cutoff %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func (p CutoffPolicy) Evaluate(checkIn time.Time) (bool, int) {
	cutoff := DayStart(checkIn).Add(p.Cutoff)
	if !checkIn.After(cutoff.Add(p.Grace)) {
		return false, 0
	}
	return true, int(math.Floor(checkIn.Sub(cutoff).Minutes()))
}
