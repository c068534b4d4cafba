package leave

import (
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/leave"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	dateLayout = "2006-01-02"
)

func formatTime(t time.Time) string {
	return t.In(attendance.BusinessZone).Format(timeLayout)
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func mapRequestToResponse(r leave.Request) leave.LeaveRequestResponse {
	return leave.LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		StartDate:       r.StartDate.In(attendance.BusinessZone).Format(dateLayout),
		EndDate:         r.EndDate.In(attendance.BusinessZone).Format(dateLayout),
		WorkingDays:     r.WorkingDays,
		Reason:          r.Reason,
		Status:          string(r.Status),
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      formatOptionalTime(r.ApprovedAt),
		RejectionReason: r.RejectionReason,
		CancelledAt:     formatOptionalTime(r.CancelledAt),
		SubmittedAt:     formatTime(r.SubmittedAt),
	}
}

func paginate(total int64, page, limit int) (int, string) {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	showing := fmt.Sprintf("%d-%d of %d", (page-1)*limit+1, min(page*limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}
	return totalPages, showing
}
