package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
)

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	interval          time.Duration
	now               func() time.Time
	logger            *slog.Logger
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, interval time.Duration, logger *slog.Logger) *AttendanceJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceJobs{
		attendanceService: attendanceService,
		interval:          interval,
		now:               time.Now,
		logger:            logger,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_employees", j.interval, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees closes out the previous business day. Re-running it
// is harmless because only users without a record are marked.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	yesterday := j.now().Add(-24 * time.Hour)

	result, err := j.attendanceService.MarkAbsent(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to mark absent employees: %w", err)
	}

	if result.Skipped {
		j.logger.Debug("Cron: absence sweep skipped non-working day", "date", result.Date)
		return nil
	}

	j.logger.Info("Cron: absence sweep finished",
		"date", result.Date,
		"checked", result.Checked,
		"marked", result.Marked,
	)
	return nil
}
