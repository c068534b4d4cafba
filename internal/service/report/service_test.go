package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func local(day, hour, minute int) time.Time {
	return time.Date(2024, 3, day, hour, minute, 0, 0, attendance.BusinessZone)
}

func event(t time.Time) *attendance.SessionEvent {
	return &attendance.SessionEvent{Time: t.UTC(), Location: attendance.DefaultLocation}
}

func f64(v float64) *float64 { return &v }

func exportFixture() []attendance.Record {
	return []attendance.Record{
		{
			User:               user.EmployeeRef("emp-1"),
			Date:               attendance.DayStart(local(1, 9, 0)),
			CheckIn:            event(local(1, 9, 0)),
			CheckOut:           event(local(1, 12, 30)),
			ReCheckIn:          event(local(1, 13, 30)),
			ReCheckOut:         event(local(1, 18, 0)),
			FirstSessionHours:  f64(3.5),
			SecondSessionHours: f64(4.5),
			TotalHours:         8,
			Status:             attendance.StatusReCheckedIn,
			CheckInCount:       2,
		},
		{
			User:         user.AdminRef("adm-1"),
			Date:         attendance.DayStart(local(1, 9, 20)),
			CheckIn:      event(local(1, 9, 20)),
			Status:       attendance.StatusLate,
			CheckInCount: 1,
			IsLate:       true,
			LateMinutes:  20,
		},
		{
			User:   user.EmployeeRef("emp-2"),
			Date:   attendance.DayStart(local(4, 0, 0)),
			Status: attendance.StatusAbsent,
		},
	}
}

func TestWriteAttendanceCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeAttendanceCSV(&buf, exportFixture()))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "attendance_export", buf.Bytes())
}

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	records []attendance.Record
	queries []attendance.ListQuery
}

func (f *fakeAttendanceRepo) List(_ context.Context, q attendance.ListQuery) ([]attendance.Record, int64, error) {
	f.queries = append(f.queries, q)
	if q.Offset >= len(f.records) {
		return nil, int64(len(f.records)), nil
	}
	return f.records[q.Offset:min(q.Offset+q.Limit, len(f.records))], int64(len(f.records)), nil
}

type fakePayrolls struct {
	records map[string]payroll.Record
}

func (f *fakePayrolls) GetRecord(_ context.Context, principal user.Principal, id string) (payroll.Record, error) {
	r, ok := f.records[id]
	if !ok {
		return payroll.Record{}, payroll.ErrPayrollRecordNotFound
	}
	if !principal.CanView(user.EmployeeRef(r.EmployeeID)) {
		return payroll.Record{}, user.ErrForbidden
	}
	return r, nil
}

func (f *fakePayrolls) PeriodRecords(_ context.Context, p payroll.Period) ([]payroll.Record, error) {
	var out []payroll.Record
	for _, r := range f.records {
		if r.Month == p.Month && r.Year == p.Year {
			out = append(out, r)
		}
	}
	return out, nil
}

func samplePayroll() payroll.Record {
	name := "Dina"
	d := decimal.RequireFromString
	return payroll.Record{
		ID:           "pay-1",
		EmployeeID:   "emp-1",
		EmployeeName: &name,
		Month:        3,
		Year:         2024,
		BasicSalary:  d("2100"),
		Allowances:   payroll.Allowances{Housing: d("100"), Transport: d("50"), Total: d("150")},
		Overtime:     payroll.Overtime{Hours: 3.5, Amount: d("70")},
		Deductions:   payroll.Deductions{Absent: d("100"), HalfDay: d("50"), Tax: d("210"), Insurance: d("105"), Total: d("465")},
		NetPay:       d("1855"),
		AttendanceData: payroll.AttendanceData{
			TotalDays: 21, PresentDays: 3, AbsentDays: 1, HalfDays: 1, OvertimeHours: 3.5,
		},
		Status: payroll.StatusGenerated,
	}
}

func newTestReportService() (report.ReportService, *fakeAttendanceRepo) {
	repo := &fakeAttendanceRepo{records: exportFixture()}
	payrolls := &fakePayrolls{records: map[string]payroll.Record{"pay-1": samplePayroll()}}
	return NewReportService(repo, payrolls), repo
}

func TestAttendanceCSV(t *testing.T) {
	svc, repo := newTestReportService()
	employee := "employee"

	var buf bytes.Buffer
	err := svc.AttendanceCSV(context.Background(), report.AttendanceExportRequest{
		StartDate: "2024-03-01",
		EndDate:   "2024-03-31",
		UserType:  &employee,
	}, &buf)
	require.NoError(t, err)

	require.Len(t, repo.queries, 1)
	q := repo.queries[0]
	assert.True(t, q.Asc)
	assert.Equal(t, user.TypeEmployee, *q.UserType)
	assert.Equal(t, time.Date(2024, 2, 29, 19, 0, 0, 0, time.UTC), *q.From)
	assert.Equal(t, time.Date(2024, 3, 31, 19, 0, 0, 0, time.UTC), *q.To)
	assert.Contains(t, buf.String(), "emp-2,absent")
}

func TestAttendanceCSVValidation(t *testing.T) {
	svc, _ := newTestReportService()

	tests := []report.AttendanceExportRequest{
		{StartDate: "2024-03-31", EndDate: "2024-03-01"},
		{StartDate: "2024-03", EndDate: "2024-03-31"},
		{StartDate: "2023-01-01", EndDate: "2024-12-31"},
	}
	for _, req := range tests {
		err := svc.AttendanceCSV(context.Background(), req, &bytes.Buffer{})
		assert.Error(t, err, req)
	}
}

func TestPayslip(t *testing.T) {
	svc, _ := newTestReportService()
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, svc.Payslip(ctx, user.Principal{Ref: user.EmployeeRef("emp-1")}, "pay-1", &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	err := svc.Payslip(ctx, user.Principal{Ref: user.EmployeeRef("emp-9")}, "pay-1", &bytes.Buffer{})
	assert.ErrorIs(t, err, user.ErrForbidden)

	err = svc.Payslip(ctx, user.Principal{Ref: user.AdminRef("adm-1")}, "nope", &bytes.Buffer{})
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

func TestPayrollWorkbook(t *testing.T) {
	svc, _ := newTestReportService()
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, svc.PayrollWorkbook(ctx, report.PayrollExportRequest{Month: 3, Year: 2024}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := "Payroll 2024-03"
	header, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Employee ID", header)

	id, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "emp-1", id)

	net, err := f.GetCellValue(sheet, "K2")
	require.NoError(t, err)
	assert.Equal(t, "1855", net)

	err = svc.PayrollWorkbook(ctx, report.PayrollExportRequest{Month: 4, Year: 2024}, &bytes.Buffer{})
	assert.ErrorIs(t, err, report.ErrNoDataFound)
}
