package payroll

import "errors"

var (
	ErrPayrollRecordNotFound  = errors.New("payroll record not found")
	ErrDuplicatePayrollPeriod = errors.New("payroll has already been generated for this period")
	ErrGenerationInProgress   = errors.New("payroll generation for this period is already running")
	ErrInvalidTransition      = errors.New("invalid payroll status transition")
	ErrInvalidPeriod          = errors.New("invalid payroll period")
	ErrNoActiveEmployees      = errors.New("no active employees to generate payroll for")
	ErrPayrollStatusConflict  = errors.New("payroll status changed concurrently")
)
