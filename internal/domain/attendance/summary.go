package attendance

import (
	"math"
	"time"
)

// Summary folds a month of records into day counts and worked hours.
type Summary struct {
	TotalDays     int
	PresentDays   int
	AbsentDays    int
	HalfDays      int
	LateDays      int
	LeaveDays     int
	TotalHours    float64
	OvertimeHours float64
}

// OvertimeRule is the per-day overtime threshold of a compensation profile.
// A zero rule accrues no overtime.
type OvertimeRule struct {
	Eligible           bool
	StandardDailyHours float64
}

// Summarize aggregates records over a period of totalDays working days.
// Leave days are counted apart from absences: they are paid and carry no
// absence deduction in payroll.
func Summarize(records []Record, totalDays int, rule OvertimeRule) Summary {
	s := Summary{TotalDays: totalDays}

	for _, r := range records {
		switch {
		case r.Status.CountsAsPresent():
			s.PresentDays++
		case r.Status == StatusAbsent:
			s.AbsentDays++
		case r.Status == StatusHalfDay:
			s.HalfDays++
		case r.Status == StatusLeave:
			s.LeaveDays++
		}
		if r.IsLate {
			s.LateDays++
		}

		s.TotalHours += r.TotalHours
		if rule.Eligible && rule.StandardDailyHours > 0 && r.TotalHours > rule.StandardDailyHours {
			s.OvertimeHours += r.TotalHours - rule.StandardDailyHours
		}
	}

	s.TotalHours = round2(s.TotalHours)
	s.OvertimeHours = round2(s.OvertimeHours)
	return s
}

// IsWorkday reports whether the business day containing t is Monday to Friday.
func IsWorkday(t time.Time) bool {
	switch t.In(BusinessZone).Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return true
}

// Workdays lists the starts of the Monday to Friday business days from the
// day containing first through the day containing last.
func Workdays(first, last time.Time) []time.Time {
	var days []time.Time
	end := DayStart(last)
	for d := DayStart(first); !d.After(end); d = d.Add(24 * time.Hour) {
		if IsWorkday(d) {
			days = append(days, d)
		}
	}
	return days
}

// StandardWorkDays counts the Monday to Friday days of a month.
func StandardWorkDays(month, year int) int {
	start, end := MonthRange(month, year)
	days := 0
	for d := start; d.Before(end); d = d.Add(24 * time.Hour) {
		if IsWorkday(d) {
			days++
		}
	}
	return days
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
