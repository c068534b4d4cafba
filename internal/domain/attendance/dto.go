package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
)

// ========================================
// SESSION DTOs
// ========================================

// SessionRequest carries the optional metadata of a check-in or check-out.
type SessionRequest struct {
	Location   string  `json:"location"`
	IPAddress  *string `json:"-"`
	DeviceInfo *string `json:"device_info,omitempty"`
}

func (r *SessionRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Location) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location must not exceed 255 characters",
		})
	}

	if r.DeviceInfo != nil && len(*r.DeviceInfo) > 512 {
		errs = append(errs, validator.ValidationError{
			Field:   "device_info",
			Message: "device_info must not exceed 512 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func (r SessionRequest) Metadata() Metadata {
	return Metadata{
		Location:   strings.TrimSpace(r.Location),
		IPAddress:  r.IPAddress,
		DeviceInfo: r.DeviceInfo,
	}
}

type SessionEventResponse struct {
	Time       string  `json:"time"`
	Location   string  `json:"location"`
	IPAddress  *string `json:"ip_address,omitempty"`
	DeviceInfo *string `json:"device_info,omitempty"`
}

type AttendanceResponse struct {
	ID                 string                `json:"id"`
	UserID             string                `json:"user_id"`
	UserType           string                `json:"user_type"`
	Date               string                `json:"date"`
	CheckIn            *SessionEventResponse `json:"check_in,omitempty"`
	CheckOut           *SessionEventResponse `json:"check_out,omitempty"`
	ReCheckIn          *SessionEventResponse `json:"re_check_in,omitempty"`
	ReCheckOut         *SessionEventResponse `json:"re_check_out,omitempty"`
	FirstSessionHours  *float64              `json:"first_session_hours,omitempty"`
	SecondSessionHours *float64              `json:"second_session_hours,omitempty"`
	TotalHours         float64               `json:"total_hours"`
	Status             string                `json:"status"`
	CheckInCount       int                   `json:"check_in_count"`
	IsLate             bool                  `json:"is_late"`
	LateMinutes        int                   `json:"late_minutes"`
	CreatedAt          string                `json:"created_at"`
	UpdatedAt          string                `json:"updated_at"`
}

// SessionResponse is returned by every session transition.
type SessionResponse struct {
	Event      string             `json:"event"`
	Time       string             `json:"time"`
	Attendance AttendanceResponse `json:"attendance"`
}

type TodayResponse struct {
	Attendance *AttendanceResponse `json:"attendance"`
	Actions
}

// ========================================
// LIST DTOs
// ========================================

type HistoryFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validator.ValidatePaging(&f.Page, &f.Limit)...)
	errs = append(errs, validateDateRange(f.StartDate, f.EndDate)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// AttendanceFilter is the admin listing filter.
type AttendanceFilter struct {
	UserType  *string `json:"user_type,omitempty"`
	UserID    *string `json:"user_id,omitempty"`
	Status    *string `json:"status,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validator.ValidatePaging(&f.Page, &f.Limit)...)
	errs = append(errs, validateDateRange(f.StartDate, f.EndDate)...)

	if f.UserID != nil && !validator.IsValidUUID(*f.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	if f.UserType != nil && !user.UserType(*f.UserType).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "user_type",
			Message: "user_type must be one of: admin, employee",
		})
	}

	if f.Status != nil && !Status(*f.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, absent, late, half-day, leave, re-checked-in",
		})
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
		f.SortOrder = strings.ToLower(f.SortOrder)
	} else {
		f.SortOrder = "desc" // newest first
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ListQuery is the storage-level form of a listing filter.
type ListQuery struct {
	UserID   *string
	UserType *user.UserType
	Status   *Status
	From     *time.Time
	To       *time.Time
	Offset   int
	Limit    int
	Asc      bool
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// ========================================
// ADMIN DTOs
// ========================================

type UpdateStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	valid := false
	for _, s := range AssignableStatuses {
		if Status(r.Status) == s {
			valid = true
			break
		}
	}
	if !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, absent, late, half-day, leave",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SummaryRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *SummaryRequest) Validate() error {
	errs := validator.ValidatePeriod(r.Month, r.Year)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SummaryResponse struct {
	UserID        string  `json:"user_id"`
	UserType      string  `json:"user_type"`
	Month         int     `json:"month"`
	Year          int     `json:"year"`
	TotalDays     int     `json:"total_days"`
	PresentDays   int     `json:"present_days"`
	AbsentDays    int     `json:"absent_days"`
	HalfDays      int     `json:"half_days"`
	LateDays      int     `json:"late_days"`
	LeaveDays     int     `json:"leave_days"`
	TotalHours    float64 `json:"total_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
}

// MarkAbsentResult reports the outcome of an absence sweep for one day.
type MarkAbsentResult struct {
	Date    string `json:"date"`
	Checked int    `json:"checked"`
	Marked  int    `json:"marked"`
	Skipped bool   `json:"skipped"`
}

func validateDateRange(startDate, endDate *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	var start, end time.Time
	var startOK, endOK bool

	if startDate != nil && *startDate != "" {
		if start, startOK = validator.IsValidDate(*startDate); !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if endDate != nil && *endDate != "" {
		if end, endOK = validator.IsValidDate(*endDate); !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	return errs
}
