package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	CheckIn(ctx context.Context, ref user.Ref, req SessionRequest) (SessionResponse, error)
	CheckOut(ctx context.Context, ref user.Ref, req SessionRequest) (SessionResponse, error)
	ReCheckIn(ctx context.Context, ref user.Ref, req SessionRequest) (SessionResponse, error)
	ReCheckOut(ctx context.Context, ref user.Ref, req SessionRequest) (SessionResponse, error)

	// GetToday returns the caller's record for the current business day
	// together with the actions still open to them.
	GetToday(ctx context.Context, ref user.Ref) (TodayResponse, error)

	GetHistory(ctx context.Context, ref user.Ref, filter HistoryFilter) (ListAttendanceResponse, error)
	GetMonthlySummary(ctx context.Context, ref user.Ref, req SummaryRequest) (SummaryResponse, error)

	// ListAttendance retrieves attendance records with filters (admin)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// SetAttendanceStatus overrides the status of a record (admin)
	SetAttendanceStatus(ctx context.Context, req UpdateStatusRequest) (AttendanceResponse, error)

	// MarkAbsent records every active employee without attendance on the
	// business day containing day as absent. Weekends are skipped.
	MarkAbsent(ctx context.Context, day time.Time) (MarkAbsentResult, error)
}
