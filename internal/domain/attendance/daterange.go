package attendance

import (
	"math"
	"time"
)

// BusinessZone is the fixed UTC+5 zone all business days are cut in.
var BusinessZone = time.FixedZone("UTC+5", 5*60*60)

// MinSessionDuration is the shortest session a check-out will close.
const MinSessionDuration = time.Minute

// DayRange returns the half-open UTC interval [start, end) of the business
// day containing t.
func DayRange(t time.Time) (start, end time.Time) {
	local := t.In(BusinessZone)
	start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, BusinessZone).UTC()
	return start, start.Add(24 * time.Hour)
}

// DayStart is the start of the business day containing t.
func DayStart(t time.Time) time.Time {
	start, _ := DayRange(t)
	return start
}

// ParseBusinessDate reads a YYYY-MM-DD date as a business day.
func ParseBusinessDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", s, BusinessZone)
	if err != nil {
		return time.Time{}, err
	}
	return d.UTC(), nil
}

// MonthRange returns the UTC interval covering a calendar month in the business zone.
func MonthRange(month, year int) (start, end time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, BusinessZone)
	return first.UTC(), first.AddDate(0, 1, 0).UTC()
}

// HoursBetween rounds the elapsed time to two decimal places.
func HoursBetween(start, end time.Time) float64 {
	ms := float64(end.Sub(start).Milliseconds())
	return math.Round(ms/3_600_000*100) / 100
}
