package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
)

var attendanceCSVHeader = []string{
	"date", "user_type", "user_id", "status",
	"check_in", "check_out", "re_check_in", "re_check_out",
	"first_session_hours", "second_session_hours", "total_hours",
	"check_in_count", "is_late", "late_minutes",
}

func writeAttendanceCSV(w io.Writer, records []attendance.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(attendanceCSVHeader); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Date.In(attendance.BusinessZone).Format("2006-01-02"),
			string(r.User.Type),
			r.User.ID,
			string(r.Status),
			eventTime(r.CheckIn),
			eventTime(r.CheckOut),
			eventTime(r.ReCheckIn),
			eventTime(r.ReCheckOut),
			hours(r.FirstSessionHours),
			hours(r.SecondSessionHours),
			strconv.FormatFloat(r.TotalHours, 'f', 2, 64),
			strconv.Itoa(r.CheckInCount),
			strconv.FormatBool(r.IsLate),
			strconv.Itoa(r.LateMinutes),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func eventTime(e *attendance.SessionEvent) string {
	if e == nil {
		return ""
	}
	return e.Time.In(attendance.BusinessZone).Format(time.DateTime)
}

func hours(h *float64) string {
	if h == nil {
		return ""
	}
	return strconv.FormatFloat(*h, 'f', 2, 64)
}
