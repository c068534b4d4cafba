package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusGenerated Status = "generated"
	StatusPaid      Status = "paid"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusGenerated || s == StatusPaid
}

// CanTransitionTo allows only draft to generated and generated to paid.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusGenerated
	case StatusGenerated:
		return next == StatusPaid
	}
	return false
}

type Allowances struct {
	Housing   decimal.Decimal
	Transport decimal.Decimal
	Meal      decimal.Decimal
	Medical   decimal.Decimal
	Other     decimal.Decimal
	Total     decimal.Decimal
}

type Deductions struct {
	Absent    decimal.Decimal
	HalfDay   decimal.Decimal
	Tax       decimal.Decimal
	Insurance decimal.Decimal
	Other     decimal.Decimal
	Total     decimal.Decimal
}

type Overtime struct {
	Hours  float64
	Amount decimal.Decimal
}

// AttendanceData is the month of attendance a record was generated from.
// It is never refreshed after generation.
type AttendanceData struct {
	TotalDays     int
	PresentDays   int
	AbsentDays    int
	HalfDays      int
	OvertimeHours float64
}

// Record is the payroll of one employee for one month.
type Record struct {
	ID             string
	EmployeeID     string
	Month          int
	Year           int
	BasicSalary    decimal.Decimal
	Allowances     Allowances
	Overtime       Overtime
	Deductions     Deductions
	NetPay         decimal.Decimal
	AttendanceData AttendanceData
	Status         Status
	GeneratedBy    *string
	GeneratedAt    *time.Time
	PaidAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined fields
	EmployeeName *string
	Department   *string
}

// Period identifies a payroll month.
type Period struct {
	Month int
	Year  int
}

func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12 && p.Year >= 2000 && p.Year <= 9999
}

func (p Period) String() string {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}
