package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	employee.EmployeeRepository
	policy  attendance.LatePolicy
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*AttendanceServiceImpl)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *AttendanceServiceImpl) { s.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *AttendanceServiceImpl) { s.logger = logger }
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
	policy attendance.LatePolicy,
	m *metrics.Metrics,
	opts ...Option,
) attendance.AttendanceService {
	if policy == nil {
		policy = attendance.NoLatePolicy{}
	}
	s := &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepository,
		EmployeeRepository:   employeeRepository,
		policy:               policy,
		metrics:              m,
		logger:               slog.Default(),
		now:                  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, ref user.Ref, req attendance.SessionRequest) (attendance.SessionResponse, error) {
	return a.transition(ctx, ref, attendance.EventCheckIn, req)
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, ref user.Ref, req attendance.SessionRequest) (attendance.SessionResponse, error) {
	return a.transition(ctx, ref, attendance.EventCheckOut, req)
}

// ReCheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ReCheckIn(ctx context.Context, ref user.Ref, req attendance.SessionRequest) (attendance.SessionResponse, error) {
	return a.transition(ctx, ref, attendance.EventReCheckIn, req)
}

// ReCheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ReCheckOut(ctx context.Context, ref user.Ref, req attendance.SessionRequest) (attendance.SessionResponse, error) {
	return a.transition(ctx, ref, attendance.EventReCheckOut, req)
}

// transition runs read, validate and write for one session event inside a
// transaction that holds the row lock of the day's record.
func (a *AttendanceServiceImpl) transition(ctx context.Context, ref user.Ref, event attendance.Event, req attendance.SessionRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	now := a.now().UTC()
	day := attendance.DayStart(now)
	meta := req.Metadata()

	var saved attendance.Record
	err := a.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := a.lockDay(ctx, ref, day)
		if err != nil {
			return err
		}

		next, err := attendance.Apply(current, event, now, meta, a.policy)
		if err != nil {
			return err
		}

		if current == nil {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate attendance id: %w", err)
			}
			next.ID = id.String()
			next.User = ref
			next.Date = day
			next.CreatedAt = now
			next.UpdatedAt = now

			inserted, err := a.AttendanceRepository.Insert(ctx, next)
			if err != nil {
				return fmt.Errorf("failed to create attendance: %w", err)
			}
			if inserted {
				saved = next
				return nil
			}

			// A concurrent request created the record first; validate
			// against what it wrote.
			current, err = a.lockDay(ctx, ref, day)
			if err != nil {
				return err
			}
			if current == nil {
				return fmt.Errorf("attendance for %s on %s vanished after insert conflict", ref, day.Format(time.RFC3339))
			}
			next, err = attendance.Apply(current, event, now, meta, a.policy)
			if err != nil {
				return err
			}
		}

		next.UpdatedAt = now
		if err := a.AttendanceRepository.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		saved = next
		return nil
	})

	a.metrics.AttendanceTransition(event.String(), metrics.Outcome(err, isPrecondition))
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	return attendance.SessionResponse{
		Event:      event.String(),
		Time:       formatTime(now),
		Attendance: mapRecordToResponse(saved),
	}, nil
}

// lockDay returns the locked record of ref on day, or nil if there is none.
func (a *AttendanceServiceImpl) lockDay(ctx context.Context, ref user.Ref, day time.Time) (*attendance.Record, error) {
	record, err := a.AttendanceRepository.GetForUpdate(ctx, ref, day)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return &record, nil
}

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context, ref user.Ref) (attendance.TodayResponse, error) {
	record, err := a.AttendanceRepository.GetByUserAndDate(ctx, ref, attendance.DayStart(a.now()))
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	resp := attendance.TodayResponse{Actions: attendance.ActionsFor(record)}
	if record != nil {
		mapped := mapRecordToResponse(*record)
		resp.Attendance = &mapped
	}
	return resp, nil
}

// GetHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetHistory(ctx context.Context, ref user.Ref, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	from, to, err := dateBounds(filter.StartDate, filter.EndDate)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	userType := ref.Type
	query := attendance.ListQuery{
		UserID:   &ref.ID,
		UserType: &userType,
		From:     from,
		To:       to,
		Offset:   (filter.Page - 1) * filter.Limit,
		Limit:    filter.Limit,
	}

	return a.list(ctx, query, filter.Page, filter.Limit)
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	from, to, err := dateBounds(filter.StartDate, filter.EndDate)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	query := attendance.ListQuery{
		UserID: filter.UserID,
		From:   from,
		To:     to,
		Offset: (filter.Page - 1) * filter.Limit,
		Limit:  filter.Limit,
		Asc:    filter.SortOrder == "asc",
	}
	if filter.UserType != nil {
		userType := user.UserType(*filter.UserType)
		query.UserType = &userType
	}
	if filter.Status != nil {
		status := attendance.Status(*filter.Status)
		query.Status = &status
	}

	return a.list(ctx, query, filter.Page, filter.Limit)
}

func (a *AttendanceServiceImpl) list(ctx context.Context, query attendance.ListQuery, page, limit int) (attendance.ListAttendanceResponse, error) {
	records, total, err := a.AttendanceRepository.List(ctx, query)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, mapRecordToResponse(r))
	}

	totalPages, showing := paginate(total, page, limit)
	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

// GetMonthlySummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMonthlySummary(ctx context.Context, ref user.Ref, req attendance.SummaryRequest) (attendance.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	var rule attendance.OvertimeRule
	if ref.Type == user.TypeEmployee {
		emp, err := a.EmployeeRepository.GetByID(ctx, ref.ID)
		if err != nil {
			if !errors.Is(err, employee.ErrEmployeeNotFound) {
				return attendance.SummaryResponse{}, fmt.Errorf("failed to get employee: %w", err)
			}
		} else {
			rule = emp.Compensation.OvertimeRule()
		}
	}

	from, to := attendance.MonthRange(req.Month, req.Year)
	records, err := a.AttendanceRepository.ListInRange(ctx, ref, from, to)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	s := attendance.Summarize(records, attendance.StandardWorkDays(req.Month, req.Year), rule)
	return attendance.SummaryResponse{
		UserID:        ref.ID,
		UserType:      string(ref.Type),
		Month:         req.Month,
		Year:          req.Year,
		TotalDays:     s.TotalDays,
		PresentDays:   s.PresentDays,
		AbsentDays:    s.AbsentDays,
		HalfDays:      s.HalfDays,
		LateDays:      s.LateDays,
		LeaveDays:     s.LeaveDays,
		TotalHours:    s.TotalHours,
		OvertimeHours: s.OvertimeHours,
	}, nil
}

// SetAttendanceStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) SetAttendanceStatus(ctx context.Context, req attendance.UpdateStatusRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	var saved attendance.Record
	err := a.tx.WithinTx(ctx, func(ctx context.Context) error {
		found, err := a.AttendanceRepository.GetByID(ctx, req.ID)
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				return err
			}
			return fmt.Errorf("failed to get attendance: %w", err)
		}

		record, err := a.AttendanceRepository.GetForUpdate(ctx, found.User, found.Date)
		if err != nil {
			return fmt.Errorf("failed to lock attendance: %w", err)
		}

		record.Status = attendance.Status(req.Status)
		if record.Status == attendance.StatusLate {
			record.IsLate = true
		} else {
			record.IsLate, record.LateMinutes = false, 0
		}
		record = attendance.DeriveFields(record)
		record.UpdatedAt = a.now().UTC()

		if err := a.AttendanceRepository.Update(ctx, record); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		saved = record
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapRecordToResponse(saved), nil
}

// MarkAbsent implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MarkAbsent(ctx context.Context, day time.Time) (attendance.MarkAbsentResult, error) {
	start := attendance.DayStart(day)
	result := attendance.MarkAbsentResult{Date: formatDate(start)}

	if !attendance.IsWorkday(start) {
		result.Skipped = true
		return result, nil
	}

	employees, err := a.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list active employees: %w", err)
	}

	refs := make([]user.Ref, 0, len(employees))
	for _, emp := range employees {
		refs = append(refs, emp.Ref)
	}
	result.Checked = len(refs)
	if len(refs) == 0 {
		return result, nil
	}

	marked, err := a.AttendanceRepository.MarkAbsent(ctx, refs, start)
	if err != nil {
		return result, fmt.Errorf("failed to mark absences: %w", err)
	}
	result.Marked = marked
	a.metrics.AbsencesMarked(marked)

	a.logger.Info("absence sweep applied", "date", result.Date, "checked", result.Checked, "marked", marked)
	return result, nil
}

func isPrecondition(err error) bool {
	for _, target := range []error{
		attendance.ErrAlreadyCheckedIn,
		attendance.ErrNoCheckInFound,
		attendance.ErrAlreadyCheckedOut,
		attendance.ErrNoCheckOutFound,
		attendance.ErrAlreadyReCheckedIn,
		attendance.ErrNoReCheckInFound,
		attendance.ErrAlreadyReCheckedOut,
		attendance.ErrTooSoon,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// dateBounds turns inclusive YYYY-MM-DD dates into a half-open UTC range.
func dateBounds(startDate, endDate *string) (from, to *time.Time, err error) {
	if startDate != nil && *startDate != "" {
		start, err := attendance.ParseBusinessDate(*startDate)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start_date: %w", err)
		}
		from = &start
	}
	if endDate != nil && *endDate != "" {
		end, err := attendance.ParseBusinessDate(*endDate)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid end_date: %w", err)
		}
		end = end.Add(24 * time.Hour)
		to = &end
	}
	return from, to, nil
}

func paginate(total int64, page, limit int) (int, string) {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	showing := fmt.Sprintf("%d-%d of %d", (page-1)*limit+1, min(page*limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}
	return totalPages, showing
}
