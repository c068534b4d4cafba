package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/lock"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	LockTTL time.Duration
	Workers int
}

type PayrollServiceImpl struct {
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	locker         lock.Locker
	metrics        *metrics.Metrics
	cfg            Config
	logger         *slog.Logger
	now            func() time.Time
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	locker lock.Locker,
	m *metrics.Metrics,
	cfg Config,
) *PayrollServiceImpl {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 5 * time.Minute
	}
	return &PayrollServiceImpl{
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		locker:         locker,
		metrics:        m,
		cfg:            cfg,
		logger:         slog.Default(),
		now:            time.Now,
	}
}

// SetClock replaces time.Now, mainly for tests.
func (s *PayrollServiceImpl) SetClock(now func() time.Time) {
	s.now = now
}

func (s *PayrollServiceImpl) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// GeneratePayroll implements payroll.PayrollService.
//
// The period lock makes concurrent runs fail fast; the unique constraint on
// (employee, month, year) remains the final guard against duplicates.
func (s *PayrollServiceImpl) GeneratePayroll(ctx context.Context, req payroll.GenerateRequest, generatedBy user.Ref) (resp payroll.GenerateResponse, err error) {
	if err := req.Validate(); err != nil {
		return payroll.GenerateResponse{}, err
	}
	period := req.Period()

	var generated int
	defer func() {
		s.metrics.PayrollRun(metrics.Outcome(err, isExpectedGenerationError), generated)
	}()

	release, err := s.locker.Acquire(ctx, "payroll:"+period.String(), s.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			s.logger.Warn("payroll generation already running", "period", period.String())
			return payroll.GenerateResponse{}, payroll.ErrGenerationInProgress
		}
		return payroll.GenerateResponse{}, fmt.Errorf("failed to acquire payroll lock: %w", err)
	}
	defer func() {
		if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
			s.logger.Error("failed to release payroll lock", "period", period.String(), "error", rerr)
		}
	}()

	exists, err := s.payrollRepo.ExistsForPeriod(ctx, period)
	if err != nil {
		return payroll.GenerateResponse{}, fmt.Errorf("failed to check existing payroll: %w", err)
	}
	if exists {
		return payroll.GenerateResponse{}, payroll.ErrDuplicatePayrollPeriod
	}

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return payroll.GenerateResponse{}, fmt.Errorf("failed to list active employees: %w", err)
	}
	if len(employees) == 0 {
		return payroll.GenerateResponse{}, payroll.ErrNoActiveEmployees
	}

	s.logger.Info("payroll generation started", "period", period.String(), "employees", len(employees))

	records, err := s.computeAll(ctx, period, employees)
	if err != nil {
		return payroll.GenerateResponse{}, err
	}

	now := s.now().UTC()
	actor := generatedBy.ID
	for i := range records {
		id, err := uuid.NewV7()
		if err != nil {
			return payroll.GenerateResponse{}, fmt.Errorf("failed to generate payroll id: %w", err)
		}
		records[i].ID = id.String()
		records[i].Status = payroll.StatusGenerated
		records[i].GeneratedBy = &actor
		records[i].GeneratedAt = &now
		records[i].CreatedAt = now
		records[i].UpdatedAt = now
	}

	if err := s.payrollRepo.CreateBatch(ctx, records); err != nil {
		if errors.Is(err, payroll.ErrDuplicatePayrollPeriod) {
			return payroll.GenerateResponse{}, err
		}
		return payroll.GenerateResponse{}, fmt.Errorf("failed to save payroll records: %w", err)
	}
	generated = len(records)

	s.logger.Info("payroll generation finished", "period", period.String(), "records", generated)

	return payroll.GenerateResponse{
		Month:     period.Month,
		Year:      period.Year,
		Generated: generated,
		Status:    string(payroll.StatusGenerated),
	}, nil
}

// computeAll derives every employee's record in memory. Nothing is written
// until all of them succeed.
func (s *PayrollServiceImpl) computeAll(ctx context.Context, period payroll.Period, employees []employee.Employee) ([]payroll.Record, error) {
	from, to := attendance.MonthRange(period.Month, period.Year)
	workDays := attendance.StandardWorkDays(period.Month, period.Year)
	records := make([]payroll.Record, len(employees))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for i, emp := range employees {
		g.Go(func() error {
			days, err := s.attendanceRepo.ListInRange(gCtx, emp.UserRef(), from, to)
			if err != nil {
				return fmt.Errorf("failed to load attendance for employee %s: %w", emp.Ref.ID, err)
			}
			records[i] = derive(emp, days, workDays, period)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func derive(c employee.Compensated, days []attendance.Record, workDays int, period payroll.Period) payroll.Record {
	profile := c.CompensationProfile()
	summary := attendance.Summarize(days, workDays, profile.OvertimeRule())

	r := payroll.Compute(profile, summary)
	r.EmployeeID = c.UserRef().ID
	r.Month = period.Month
	r.Year = period.Year
	return r
}

// GetPayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayroll(ctx context.Context, principal user.Principal, req payroll.ListRequest) (payroll.ListPayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ListPayrollResponse{}, err
	}
	if !principal.CanView(user.EmployeeRef(req.EmployeeID)) {
		return payroll.ListPayrollResponse{}, user.ErrForbidden
	}

	records, total, err := s.payrollRepo.ListByEmployee(ctx, req.EmployeeID, (req.Page-1)*req.Limit, req.Limit)
	if err != nil {
		return payroll.ListPayrollResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
	}

	return listResponse(records, total, req.Page, req.Limit), nil
}

// GetPayrollRecord implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayrollRecord(ctx context.Context, principal user.Principal, id string) (payroll.PayrollResponse, error) {
	record, err := s.getRecord(ctx, principal, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return mapToRecordResponse(record), nil
}

// GetRecord returns the raw record for renderers, with the same access rule
// as GetPayrollRecord.
func (s *PayrollServiceImpl) GetRecord(ctx context.Context, principal user.Principal, id string) (payroll.Record, error) {
	return s.getRecord(ctx, principal, id)
}

func (s *PayrollServiceImpl) getRecord(ctx context.Context, principal user.Principal, id string) (payroll.Record, error) {
	if !validator.IsValidUUID(id) {
		return payroll.Record{}, payroll.ErrPayrollRecordNotFound
	}
	record, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return payroll.Record{}, err
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	if !principal.CanView(user.EmployeeRef(record.EmployeeID)) {
		return payroll.Record{}, user.ErrForbidden
	}
	return record, nil
}

// ListByPeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListByPeriod(ctx context.Context, filter payroll.PeriodFilter) (payroll.ListPayrollResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	period := payroll.Period{Month: filter.Month, Year: filter.Year}
	records, total, err := s.payrollRepo.ListByPeriod(ctx, period, (filter.Page-1)*filter.Limit, filter.Limit)
	if err != nil {
		return payroll.ListPayrollResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
	}

	return listResponse(records, total, filter.Page, filter.Limit), nil
}

// PeriodRecords returns every record of a period for exports.
func (s *PayrollServiceImpl) PeriodRecords(ctx context.Context, period payroll.Period) ([]payroll.Record, error) {
	if !period.Valid() {
		return nil, payroll.ErrInvalidPeriod
	}

	var all []payroll.Record
	const pageSize = 500
	for offset := 0; ; offset += pageSize {
		records, total, err := s.payrollRepo.ListByPeriod(ctx, period, offset, pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list payroll records: %w", err)
		}
		all = append(all, records...)
		if len(records) == 0 || int64(len(all)) >= total {
			return all, nil
		}
	}
}

// SetPayrollStatus implements payroll.PayrollService.
func (s *PayrollServiceImpl) SetPayrollStatus(ctx context.Context, req payroll.UpdateStatusRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return payroll.PayrollResponse{}, payroll.ErrPayrollRecordNotFound
	}

	current, err := s.payrollRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return payroll.PayrollResponse{}, err
		}
		return payroll.PayrollResponse{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	next := payroll.Status(req.Status)
	if !current.Status.CanTransitionTo(next) {
		return payroll.PayrollResponse{}, fmt.Errorf("%w: %s to %s", payroll.ErrInvalidTransition, current.Status, next)
	}

	updated, err := s.payrollRepo.UpdateStatus(ctx, req.ID, current.Status, next, s.now().UTC())
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollStatusConflict) {
			return payroll.PayrollResponse{}, err
		}
		return payroll.PayrollResponse{}, fmt.Errorf("failed to update payroll status: %w", err)
	}

	return mapToRecordResponse(updated), nil
}

func isExpectedGenerationError(err error) bool {
	return errors.Is(err, payroll.ErrDuplicatePayrollPeriod) ||
		errors.Is(err, payroll.ErrGenerationInProgress) ||
		errors.Is(err, payroll.ErrNoActiveEmployees)
}

func listResponse(records []payroll.Record, total int64, page, limit int) payroll.ListPayrollResponse {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	showing := fmt.Sprintf("%d-%d of %d", (page-1)*limit+1, min(page*limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return payroll.ListPayrollResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		Showing:    showing,
		Payrolls:   mapToRecordResponses(records),
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.In(attendance.BusinessZone).Format("2006-01-02 15:04:05")
	return &format
}

func mapToRecordResponse(r payroll.Record) payroll.PayrollResponse {
	return payroll.PayrollResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Department:   r.Department,
		Month:        r.Month,
		Year:         r.Year,
		BasicSalary:  r.BasicSalary,
		Allowances: payroll.AllowancesResponse{
			Housing:   r.Allowances.Housing,
			Transport: r.Allowances.Transport,
			Meal:      r.Allowances.Meal,
			Medical:   r.Allowances.Medical,
			Other:     r.Allowances.Other,
			Total:     r.Allowances.Total,
		},
		Overtime: payroll.OvertimeResponse{
			Hours:  r.Overtime.Hours,
			Amount: r.Overtime.Amount,
		},
		Deductions: payroll.DeductionsResponse{
			Absent:    r.Deductions.Absent,
			HalfDay:   r.Deductions.HalfDay,
			Tax:       r.Deductions.Tax,
			Insurance: r.Deductions.Insurance,
			Other:     r.Deductions.Other,
			Total:     r.Deductions.Total,
		},
		NetPay: r.NetPay,
		AttendanceData: payroll.AttendanceDataResponse{
			TotalDays:     r.AttendanceData.TotalDays,
			PresentDays:   r.AttendanceData.PresentDays,
			AbsentDays:    r.AttendanceData.AbsentDays,
			HalfDays:      r.AttendanceData.HalfDays,
			OvertimeHours: r.AttendanceData.OvertimeHours,
		},
		Status:      string(r.Status),
		GeneratedBy: r.GeneratedBy,
		GeneratedAt: timePtrToString(r.GeneratedAt),
		PaidAt:      timePtrToString(r.PaidAt),
		CreatedAt:   r.CreatedAt.In(attendance.BusinessZone).Format("2006-01-02 15:04:05"),
		UpdatedAt:   r.UpdatedAt.In(attendance.BusinessZone).Format("2006-01-02 15:04:05"),
	}
}

func mapToRecordResponses(records []payroll.Record) []payroll.PayrollResponse {
	responses := make([]payroll.PayrollResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, mapToRecordResponse(r))
	}
	return responses
}

var _ payroll.PayrollService = (*PayrollServiceImpl)(nil)
