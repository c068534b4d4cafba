package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
)

// sessionConflicts carries the reason code of every rejected session transition.
var sessionConflicts = []struct {
	err  error
	code string
}{
	{attendance.ErrAlreadyCheckedIn, "ALREADY_CHECKED_IN"},
	{attendance.ErrNoCheckInFound, "NO_CHECK_IN_FOUND"},
	{attendance.ErrAlreadyCheckedOut, "ALREADY_CHECKED_OUT"},
	{attendance.ErrNoCheckOutFound, "NO_CHECK_OUT_FOUND"},
	{attendance.ErrAlreadyReCheckedIn, "ALREADY_RE_CHECKED_IN"},
	{attendance.ErrNoReCheckInFound, "NO_RE_CHECK_IN_FOUND"},
	{attendance.ErrAlreadyReCheckedOut, "ALREADY_RE_CHECKED_OUT"},
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var tooSoon *attendance.TooSoonError
	if errors.As(err, &tooSoon) {
		ErrorWithCode(w, http.StatusConflict, "TOO_SOON", tooSoon.Error(), map[string]string{
			"elapsed_seconds": strconv.Itoa(tooSoon.ElapsedSeconds()),
			"minimum_seconds": strconv.Itoa(int(attendance.MinSessionDuration.Seconds())),
		})
		return
	}

	for _, c := range sessionConflicts {
		if errors.Is(err, c.err) {
			ErrorWithCode(w, http.StatusConflict, c.code, c.err.Error(), nil)
			return
		}
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, "Account is inactive")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrInsufficientPermission), errors.Is(err, user.ErrForbidden):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrInvalidUserType):
		BadRequest(w, err.Error(), nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrInactiveEmployee):
		Forbidden(w, "Employee is inactive")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrInvalidStatus):
		BadRequest(w, err.Error(), nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrDuplicatePayrollPeriod):
		ErrorWithCode(w, http.StatusConflict, "DUPLICATE_PAYROLL_PERIOD", err.Error(), nil)
	case errors.Is(err, payroll.ErrGenerationInProgress):
		ErrorWithCode(w, http.StatusConflict, "GENERATION_IN_PROGRESS", err.Error(), nil)
	case errors.Is(err, payroll.ErrPayrollStatusConflict):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrInvalidTransition):
		ErrorWithCode(w, http.StatusConflict, "INVALID_TRANSITION", err.Error(), nil)
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrNoActiveEmployees):
		ErrorWithCode(w, http.StatusUnprocessableEntity, "NO_ACTIVE_EMPLOYEES", err.Error(), nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveAlreadyProcessed):
		ErrorWithCode(w, http.StatusConflict, "LEAVE_ALREADY_PROCESSED", err.Error(), nil)
	case errors.Is(err, leave.ErrOverlappingLeave):
		ErrorWithCode(w, http.StatusConflict, "OVERLAPPING_LEAVE", err.Error(), nil)
	case errors.Is(err, leave.ErrNoWorkingDays):
		ErrorWithCode(w, http.StatusUnprocessableEntity, "NO_WORKING_DAYS", err.Error(), nil)
	case errors.Is(err, leave.ErrEmployeesOnly):
		Forbidden(w, err.Error())

	// Report domain errors
	case errors.Is(err, report.ErrNoDataFound):
		NotFound(w, err.Error())

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
