package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayRange(t *testing.T) {
	tests := []struct {
		name      string
		instant   time.Time
		wantStart time.Time
	}{
		{
			name:      "evening UTC is next local day",
			instant:   time.Date(2024, 1, 15, 20, 5, 0, 0, time.UTC),
			wantStart: time.Date(2024, 1, 15, 19, 0, 0, 0, time.UTC),
		},
		{
			name:      "local midnight belongs to that day",
			instant:   time.Date(2024, 1, 15, 19, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, 1, 15, 19, 0, 0, 0, time.UTC),
		},
		{
			name:      "one nanosecond before local midnight",
			instant:   time.Date(2024, 1, 15, 18, 59, 59, 999999999, time.UTC),
			wantStart: time.Date(2024, 1, 14, 19, 0, 0, 0, time.UTC),
		},
		{
			name:      "instant in another zone",
			instant:   time.Date(2024, 3, 1, 8, 0, 0, 0, time.FixedZone("UTC-8", -8*3600)),
			wantStart: time.Date(2024, 2, 29, 19, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := DayRange(tt.instant)
			assert.True(t, tt.wantStart.Equal(start), "start = %s, want %s", start, tt.wantStart)
			assert.Equal(t, 24*time.Hour, end.Sub(start))
			assert.False(t, tt.instant.Before(start))
			assert.True(t, tt.instant.Before(end))
		})
	}
}

func TestDayRangeSameLocalDay(t *testing.T) {
	morning := time.Date(2024, 1, 15, 19, 30, 0, 0, time.UTC)
	night := time.Date(2024, 1, 16, 18, 30, 0, 0, time.UTC)

	s1, e1 := DayRange(morning)
	s2, e2 := DayRange(night)
	assert.Equal(t, s1, s2)
	assert.Equal(t, e1, e2)
}

func TestHoursBetween(t *testing.T) {
	start := time.Date(2024, 1, 15, 4, 0, 0, 0, time.UTC)

	tests := []struct {
		elapsed time.Duration
		want    float64
	}{
		{61 * time.Second, 0.02},
		{time.Minute, 0.02},
		{30 * time.Minute, 0.5},
		{8*time.Hour + 20*time.Minute, 8.33},
		{9 * time.Hour, 9},
		{0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HoursBetween(start, start.Add(tt.elapsed)), tt.elapsed.String())
	}
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(3, 2024)
	assert.Equal(t, time.Date(2024, 2, 29, 19, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 31, 19, 0, 0, 0, time.UTC), end)
}

func TestStandardWorkDays(t *testing.T) {
	assert.Equal(t, 21, StandardWorkDays(3, 2024))
	assert.Equal(t, 23, StandardWorkDays(1, 2024))
	assert.Equal(t, 20, StandardWorkDays(2, 2023))
}

func TestWorkdays(t *testing.T) {
	// Thursday 2024-01-18 through Tuesday 2024-01-23
	first, _ := ParseBusinessDate("2024-01-18")
	last, _ := ParseBusinessDate("2024-01-23")

	days := Workdays(first, last)
	var got []string
	for _, d := range days {
		got = append(got, d.In(BusinessZone).Format("2006-01-02"))
	}
	assert.Equal(t, []string{"2024-01-18", "2024-01-19", "2024-01-22", "2024-01-23"}, got)

	sat, _ := ParseBusinessDate("2024-01-20")
	sun, _ := ParseBusinessDate("2024-01-21")
	assert.Empty(t, Workdays(sat, sun))
	assert.Len(t, Workdays(first, first), 1)
}

func TestParseBusinessDate(t *testing.T) {
	d, err := ParseBusinessDate("2024-01-16")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 19, 0, 0, 0, time.UTC), d)

	_, err = ParseBusinessDate("16/01/2024")
	assert.Error(t, err)
}
