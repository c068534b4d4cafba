package leave

import "errors"

var (
	ErrLeaveRequestNotFound  = errors.New("leave request not found")
	ErrLeaveAlreadyProcessed = errors.New("leave request has already been processed")
	ErrOverlappingLeave      = errors.New("leave request overlaps an existing request")
	ErrNoWorkingDays         = errors.New("leave request covers no working days")
	ErrEmployeesOnly         = errors.New("only employees can request leave")
)
