package payroll

import (
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// REQUEST DTOs
// ========================================

type GenerateRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *GenerateRequest) Validate() error {
	errs := validator.ValidatePeriod(r.Month, r.Year)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r GenerateRequest) Period() Period {
	return Period{Month: r.Month, Year: r.Year}
}

type ListRequest struct {
	EmployeeID string `json:"-"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

func (r *ListRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	errs = append(errs, validator.ValidatePaging(&r.Page, &r.Limit)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PeriodFilter struct {
	Month int `json:"month"`
	Year  int `json:"year"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *PeriodFilter) Validate() error {
	errs := validator.ValidatePeriod(f.Month, f.Year)
	errs = append(errs, validator.ValidatePaging(&f.Page, &f.Limit)...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

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

	if !Status(r.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: draft, generated, paid",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// RESPONSE DTOs
// ========================================

type GenerateResponse struct {
	Month     int    `json:"month"`
	Year      int    `json:"year"`
	Generated int    `json:"generated"`
	Status    string `json:"status"`
}

type AllowancesResponse struct {
	Housing   decimal.Decimal `json:"housing"`
	Transport decimal.Decimal `json:"transport"`
	Meal      decimal.Decimal `json:"meal"`
	Medical   decimal.Decimal `json:"medical"`
	Other     decimal.Decimal `json:"other"`
	Total     decimal.Decimal `json:"total_allowances"`
}

type DeductionsResponse struct {
	Absent    decimal.Decimal `json:"absent"`
	HalfDay   decimal.Decimal `json:"half_day"`
	Tax       decimal.Decimal `json:"tax"`
	Insurance decimal.Decimal `json:"insurance"`
	Other     decimal.Decimal `json:"other"`
	Total     decimal.Decimal `json:"total_deductions"`
}

type OvertimeResponse struct {
	Hours  float64         `json:"hours"`
	Amount decimal.Decimal `json:"amount"`
}

type AttendanceDataResponse struct {
	TotalDays     int     `json:"total_days"`
	PresentDays   int     `json:"present_days"`
	AbsentDays    int     `json:"absent_days"`
	HalfDays      int     `json:"half_days"`
	OvertimeHours float64 `json:"overtime_hours"`
}

type PayrollResponse struct {
	ID             string                 `json:"id"`
	EmployeeID     string                 `json:"employee_id"`
	EmployeeName   *string                `json:"employee_name,omitempty"`
	Department     *string                `json:"department,omitempty"`
	Month          int                    `json:"month"`
	Year           int                    `json:"year"`
	BasicSalary    decimal.Decimal        `json:"basic_salary"`
	Allowances     AllowancesResponse     `json:"allowances"`
	Overtime       OvertimeResponse       `json:"overtime"`
	Deductions     DeductionsResponse     `json:"deductions"`
	NetPay         decimal.Decimal        `json:"net_pay"`
	AttendanceData AttendanceDataResponse `json:"attendance_data"`
	Status         string                 `json:"status"`
	GeneratedBy    *string                `json:"generated_by,omitempty"`
	GeneratedAt    *string                `json:"generated_at,omitempty"`
	PaidAt         *string                `json:"paid_at,omitempty"`
	CreatedAt      string                 `json:"created_at"`
	UpdatedAt      string                 `json:"updated_at"`
}

type ListPayrollResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Showing    string            `json:"showing"`
	Payrolls   []PayrollResponse `json:"payrolls"`
}
