package report

import (
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

type slipLine struct {
	label  string
	amount decimal.Decimal
}

func renderPayslip(w io.Writer, r payroll.Record, generatedAt time.Time) error {
	period := payroll.Period{Month: r.Month, Year: r.Year}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+period.String(), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	name := r.EmployeeID
	if r.EmployeeName != nil {
		name = *r.EmployeeName
	}
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", name))
	pdf.Ln(7)
	if r.Department != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Department: %s", *r.Department))
		pdf.Ln(7)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s", period.String()))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Status: %s", r.Status))
	pdf.Ln(10)

	section := func(title string, lines []slipLine, total slipLine) {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(120, 8, title)
		pdf.Cell(60, 8, "Amount")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 11)
		for _, l := range lines {
			pdf.Cell(120, 7, l.label)
			pdf.CellFormat(60, 7, l.amount.StringFixed(2), "", 0, "R", false, 0, "")
			pdf.Ln(7)
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(120, 7, total.label)
		pdf.CellFormat(60, 7, total.amount.StringFixed(2), "T", 0, "R", false, 0, "")
		pdf.Ln(10)
	}

	section("Earnings", []slipLine{
		{"Basic salary", r.BasicSalary},
		{"Housing allowance", r.Allowances.Housing},
		{"Transport allowance", r.Allowances.Transport},
		{"Meal allowance", r.Allowances.Meal},
		{"Medical allowance", r.Allowances.Medical},
		{"Other allowance", r.Allowances.Other},
		{fmt.Sprintf("Overtime (%.2f h)", r.Overtime.Hours), r.Overtime.Amount},
	}, slipLine{"Gross", r.BasicSalary.Add(r.Allowances.Total).Add(r.Overtime.Amount)})

	section("Deductions", []slipLine{
		{fmt.Sprintf("Absent (%d days)", r.AttendanceData.AbsentDays), r.Deductions.Absent},
		{fmt.Sprintf("Half day (%d days)", r.AttendanceData.HalfDays), r.Deductions.HalfDay},
		{"Tax", r.Deductions.Tax},
		{"Insurance", r.Deductions.Insurance},
		{"Other", r.Deductions.Other},
	}, slipLine{"Total deductions", r.Deductions.Total})

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(120, 9, "Net pay")
	pdf.CellFormat(60, 9, r.NetPay.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.Ln(14)

	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Working days %d, present %d. Generated %s",
		r.AttendanceData.TotalDays, r.AttendanceData.PresentDays,
		generatedAt.In(attendance.BusinessZone).Format(time.DateTime)))

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
