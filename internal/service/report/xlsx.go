package report

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/xuri/excelize/v2"
)

var workbookHeader = []string{
	"Employee ID", "Employee", "Department", "Basic Salary", "Total Allowances",
	"Overtime Hours", "Overtime Amount", "Absent Days", "Half Days", "Total Deductions",
	"Net Pay", "Status",
}

func writePayrollWorkbook(w io.Writer, period payroll.Period, records []payroll.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Payroll " + period.String()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	for i, h := range workbookHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(workbookHeader))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, r := range records {
		row := i + 2
		values := []any{
			r.EmployeeID,
			deref(r.EmployeeName),
			deref(r.Department),
			r.BasicSalary.InexactFloat64(),
			r.Allowances.Total.InexactFloat64(),
			r.Overtime.Hours,
			r.Overtime.Amount.InexactFloat64(),
			r.AttendanceData.AbsentDays,
			r.AttendanceData.HalfDays,
			r.Deductions.Total.InexactFloat64(),
			r.NetPay.InexactFloat64(),
			string(r.Status),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "C", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "D", lastCol, 16); err != nil {
		return err
	}

	return f.Write(w)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
