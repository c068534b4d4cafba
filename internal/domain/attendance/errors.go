package attendance

import (
	"errors"
	"fmt"
	"time"
)

// Attendance domain errors
var (
	// Session transition errors
	ErrAlreadyCheckedIn    = errors.New("you have already checked in today")
	ErrNoCheckInFound      = errors.New("no check-in found for today")
	ErrAlreadyCheckedOut   = errors.New("you have already checked out today")
	ErrNoCheckOutFound     = errors.New("you must check out before checking in again")
	ErrAlreadyReCheckedIn  = errors.New("you have already re-checked in today")
	ErrNoReCheckInFound    = errors.New("no re-check-in found for today")
	ErrAlreadyReCheckedOut = errors.New("you have already re-checked out today")
	ErrTooSoon             = errors.New("too soon to check out")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidStatus      = errors.New("invalid attendance status")
)

// TooSoonError reports how long the open session has run.
type TooSoonError struct {
	Elapsed time.Duration
}

func (e *TooSoonError) Error() string {
	return fmt.Sprintf("%s: only %d seconds elapsed, minimum is %d seconds",
		ErrTooSoon.Error(), int(e.Elapsed.Seconds()), int(MinSessionDuration.Seconds()))
}

func (e *TooSoonError) Is(target error) bool {
	return target == ErrTooSoon
}

// ElapsedSeconds is the whole number of seconds since the session opened.
func (e *TooSoonError) ElapsedSeconds() int {
	return int(e.Elapsed / time.Second)
}
