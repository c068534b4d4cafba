package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
)

// PayrollSource is the part of the payroll service exports read from.
type PayrollSource interface {
	GetRecord(ctx context.Context, principal user.Principal, id string) (payroll.Record, error)
	PeriodRecords(ctx context.Context, period payroll.Period) ([]payroll.Record, error)
}

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	payrolls       PayrollSource
	now            func() time.Time
}

func NewReportService(attendanceRepo attendance.AttendanceRepository, payrolls PayrollSource) report.ReportService {
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		payrolls:       payrolls,
		now:            time.Now,
	}
}

const exportPageSize = 1000

// AttendanceCSV implements report.ReportService.
func (s *ReportServiceImpl) AttendanceCSV(ctx context.Context, req report.AttendanceExportRequest, w io.Writer) error {
	if err := req.Validate(); err != nil {
		return err
	}

	from, err := attendance.ParseBusinessDate(req.StartDate)
	if err != nil {
		return err
	}
	end, err := attendance.ParseBusinessDate(req.EndDate)
	if err != nil {
		return err
	}
	to := end.Add(24 * time.Hour)

	query := attendance.ListQuery{From: &from, To: &to, Limit: exportPageSize, Asc: true}
	if req.UserType != nil {
		t := user.UserType(*req.UserType)
		query.UserType = &t
	}

	var records []attendance.Record
	for {
		page, total, err := s.attendanceRepo.List(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to list attendance for export: %w", err)
		}
		records = append(records, page...)
		if len(page) == 0 || int64(len(records)) >= total {
			break
		}
		query.Offset += exportPageSize
	}

	return writeAttendanceCSV(w, records)
}

// Payslip implements report.ReportService.
func (s *ReportServiceImpl) Payslip(ctx context.Context, principal user.Principal, payrollID string, w io.Writer) error {
	record, err := s.payrolls.GetRecord(ctx, principal, payrollID)
	if err != nil {
		return err
	}
	return renderPayslip(w, record, s.now())
}

// PayrollWorkbook implements report.ReportService.
func (s *ReportServiceImpl) PayrollWorkbook(ctx context.Context, req report.PayrollExportRequest, w io.Writer) error {
	if err := req.Validate(); err != nil {
		return err
	}

	period := payroll.Period{Month: req.Month, Year: req.Year}
	records, err := s.payrolls.PeriodRecords(ctx, period)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return report.ErrNoDataFound
	}

	return writePayrollWorkbook(w, period, records)
}
