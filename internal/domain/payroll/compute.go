package payroll

import (
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// Compute derives the pay breakdown of one employee from a month summary.
// Each component is rounded to two places before totals are taken so that
// net pay always equals the sum of the stored parts. Approved leave days
// are paid: only absent and half days are deducted.
func Compute(profile employee.CompensationProfile, summary attendance.Summary) Record {
	basic := profile.BasicSalary.Round(2)

	allowances := Allowances{
		Housing:   profile.Allowances.Housing.Round(2),
		Transport: profile.Allowances.Transport.Round(2),
		Meal:      profile.Allowances.Meal.Round(2),
		Medical:   profile.Allowances.Medical.Round(2),
		Other:     profile.Allowances.Other.Round(2),
	}
	allowances.Total = allowances.Housing.Add(allowances.Transport).Add(allowances.Meal).
		Add(allowances.Medical).Add(allowances.Other)

	overtime := Overtime{Hours: summary.OvertimeHours}
	overtime.Amount = decimal.NewFromFloat(summary.OvertimeHours).Mul(profile.OvertimeRate).Round(2)

	perDay := decimal.Zero
	if summary.TotalDays > 0 {
		perDay = basic.Div(decimal.NewFromInt(int64(summary.TotalDays)))
	}

	deductions := Deductions{
		Absent:    perDay.Mul(decimal.NewFromInt(int64(summary.AbsentDays))).Round(2),
		HalfDay:   perDay.Mul(half).Mul(decimal.NewFromInt(int64(summary.HalfDays))).Round(2),
		Tax:       basic.Mul(profile.TaxRate).Div(hundred).Round(2),
		Insurance: basic.Mul(profile.InsuranceRate).Div(hundred).Round(2),
		Other:     profile.OtherDeduction.Round(2),
	}
	deductions.Total = deductions.Absent.Add(deductions.HalfDay).Add(deductions.Tax).
		Add(deductions.Insurance).Add(deductions.Other)

	return Record{
		BasicSalary: basic,
		Allowances:  allowances,
		Overtime:    overtime,
		Deductions:  deductions,
		NetPay:      NetPay(basic, allowances.Total, overtime.Amount, deductions.Total),
		AttendanceData: AttendanceData{
			TotalDays:     summary.TotalDays,
			PresentDays:   summary.PresentDays,
			AbsentDays:    summary.AbsentDays,
			HalfDays:      summary.HalfDays,
			OvertimeHours: summary.OvertimeHours,
		},
	}
}

// NetPay is basic + allowances + overtime - deductions.
func NetPay(basic, totalAllowances, overtimeAmount, totalDeductions decimal.Decimal) decimal.Decimal {
	return basic.Add(totalAllowances).Add(overtimeAmount).Sub(totalDeductions)
}
