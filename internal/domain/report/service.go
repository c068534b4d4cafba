package report

import (
	"context"
	"io"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
)

// ReportService renders exports straight into w.
type ReportService interface {
	// AttendanceCSV writes every record in the range as CSV, oldest first.
	AttendanceCSV(ctx context.Context, req AttendanceExportRequest, w io.Writer) error

	// Payslip writes a one-page PDF for a payroll record the principal may view.
	Payslip(ctx context.Context, principal user.Principal, payrollID string, w io.Writer) error

	// PayrollWorkbook writes every record of a period as an XLSX workbook.
	PayrollWorkbook(ctx context.Context, req PayrollExportRequest, w io.Writer) error
}
