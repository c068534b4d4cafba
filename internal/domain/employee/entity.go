package employee

import (
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

// Employee is an employee account together with its pay structure.
type Employee struct {
	user.Account
	Position     *string
	Compensation CompensationProfile
}

// Allowances are the fixed monthly allowance components.
type Allowances struct {
	Housing   decimal.Decimal
	Transport decimal.Decimal
	Meal      decimal.Decimal
	Medical   decimal.Decimal
	Other     decimal.Decimal
}

func (a Allowances) Total() decimal.Decimal {
	return a.Housing.Add(a.Transport).Add(a.Meal).Add(a.Medical).Add(a.Other)
}

// CompensationProfile is the pay structure payroll is derived from.
// TaxRate and InsuranceRate are percentages of the basic salary.
type CompensationProfile struct {
	BasicSalary        decimal.Decimal
	Allowances         Allowances
	OvertimeRate       decimal.Decimal
	TaxRate            decimal.Decimal
	InsuranceRate      decimal.Decimal
	OtherDeduction     decimal.Decimal
	StandardDailyHours float64
	OvertimeEligible   bool
}

func (p CompensationProfile) OvertimeRule() attendance.OvertimeRule {
	return attendance.OvertimeRule{
		Eligible:           p.OvertimeEligible,
		StandardDailyHours: p.StandardDailyHours,
	}
}

// Compensated is anything payroll can be derived for.
type Compensated interface {
	UserRef() user.Ref
	DepartmentName() string
	CompensationProfile() CompensationProfile
}

func (e Employee) UserRef() user.Ref {
	return e.Ref
}

func (e Employee) CompensationProfile() CompensationProfile {
	return e.Compensation
}

func (e Employee) PositionName() string {
	if e.Position == nil {
		return ""
	}
	return *e.Position
}
