package attendance

import (
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	dateLayout = "2006-01-02"
)

// formatTime renders an instant on the business-zone clock.
func formatTime(t time.Time) string {
	return t.In(attendance.BusinessZone).Format(timeLayout)
}

func formatDate(t time.Time) string {
	return t.In(attendance.BusinessZone).Format(dateLayout)
}

func mapEvent(e *attendance.SessionEvent) *attendance.SessionEventResponse {
	if e == nil {
		return nil
	}
	return &attendance.SessionEventResponse{
		Time:       formatTime(e.Time),
		Location:   e.Location,
		IPAddress:  e.IPAddress,
		DeviceInfo: e.DeviceInfo,
	}
}

// mapRecordToResponse converts a Record to AttendanceResponse
func mapRecordToResponse(r attendance.Record) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:                 r.ID,
		UserID:             r.User.ID,
		UserType:           string(r.User.Type),
		Date:               formatDate(r.Date),
		CheckIn:            mapEvent(r.CheckIn),
		CheckOut:           mapEvent(r.CheckOut),
		ReCheckIn:          mapEvent(r.ReCheckIn),
		ReCheckOut:         mapEvent(r.ReCheckOut),
		FirstSessionHours:  r.FirstSessionHours,
		SecondSessionHours: r.SecondSessionHours,
		TotalHours:         r.TotalHours,
		Status:             string(r.Status),
		CheckInCount:       r.CheckInCount,
		IsLate:             r.IsLate,
		LateMinutes:        r.LateMinutes,
		CreatedAt:          formatTime(r.CreatedAt),
		UpdatedAt:          formatTime(r.UpdatedAt),
	}
}
