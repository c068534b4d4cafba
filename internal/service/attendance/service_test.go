package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc       attendance.AttendanceService
	repo      *fakeAttendanceRepo
	employees *fakeEmployeeRepo
	clock     *clock
}

// 09:00 on 2024-01-16 in the business zone.
var morning = time.Date(2024, 1, 16, 4, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, policy attendance.LatePolicy) *fixture {
	t.Helper()
	f := &fixture{
		repo:      newFakeAttendanceRepo(),
		employees: &fakeEmployeeRepo{},
		clock:     &clock{now: morning},
	}
	f.svc = NewAttendanceService(&serialTransactor{}, f.repo, f.employees, policy, metrics.New(), WithClock(f.clock.Now))
	return f
}

func TestFullSessionDay(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	ref := user.EmployeeRef("emp-1")
	ip := "10.0.0.1"

	resp, err := f.svc.CheckIn(ctx, ref, attendance.SessionRequest{IPAddress: &ip})
	require.NoError(t, err)
	assert.Equal(t, "check_in", resp.Event)
	assert.Equal(t, "2024-01-16 09:00:00", resp.Time)
	assert.Equal(t, "2024-01-16", resp.Attendance.Date)
	assert.Equal(t, "Office", resp.Attendance.CheckIn.Location)
	assert.Equal(t, &ip, resp.Attendance.CheckIn.IPAddress)
	assert.False(t, resp.Attendance.IsLate)

	f.clock.Advance(4 * time.Hour)
	resp, err = f.svc.CheckOut(ctx, ref, attendance.SessionRequest{Location: "Site B"})
	require.NoError(t, err)
	require.NotNil(t, resp.Attendance.FirstSessionHours)
	assert.Equal(t, 4.0, *resp.Attendance.FirstSessionHours)
	assert.Equal(t, "Site B", resp.Attendance.CheckOut.Location)

	f.clock.Advance(30 * time.Minute)
	resp, err = f.svc.ReCheckIn(ctx, ref, attendance.SessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "re-checked-in", resp.Attendance.Status)
	assert.Equal(t, 2, resp.Attendance.CheckInCount)

	f.clock.Advance(3*time.Hour + 15*time.Minute)
	resp, err = f.svc.ReCheckOut(ctx, ref, attendance.SessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3.25, *resp.Attendance.SecondSessionHours)
	assert.Equal(t, 7.25, resp.Attendance.TotalHours)

	today, err := f.svc.GetToday(ctx, ref)
	require.NoError(t, err)
	require.NotNil(t, today.Attendance)
	assert.Equal(t, attendance.Actions{}, today.Actions)
}

func TestTransitionGuards(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	ref := user.AdminRef("adm-1")

	_, err := f.svc.CheckOut(ctx, ref, attendance.SessionRequest{})
	assert.ErrorIs(t, err, attendance.ErrNoCheckInFound)
	_, err = f.svc.ReCheckIn(ctx, ref, attendance.SessionRequest{})
	assert.ErrorIs(t, err, attendance.ErrNoCheckOutFound)
	_, err = f.svc.ReCheckOut(ctx, ref, attendance.SessionRequest{})
	assert.ErrorIs(t, err, attendance.ErrNoReCheckInFound)

	_, err = f.svc.CheckIn(ctx, ref, attendance.SessionRequest{})
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx, ref, attendance.SessionRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	f.clock.Advance(59 * time.Second)
	_, err = f.svc.CheckOut(ctx, ref, attendance.SessionRequest{})
	var tooSoon *attendance.TooSoonError
	require.ErrorAs(t, err, &tooSoon)
	assert.Equal(t, 59, tooSoon.ElapsedSeconds())

	f.clock.Advance(2 * time.Second)
	resp, err := f.svc.CheckOut(ctx, ref, attendance.SessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0.02, *resp.Attendance.FirstSessionHours)

	_, err = f.svc.CheckOut(ctx, ref, attendance.SessionRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestAdminAndEmployeeWithSameIDAreSeparate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, user.AdminRef("42"), attendance.SessionRequest{})
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx, user.EmployeeRef("42"), attendance.SessionRequest{})
	require.NoError(t, err)
	assert.Len(t, f.repo.records, 2)
}

func TestConcurrentCheckIn(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	ref := user.EmployeeRef("emp-1")

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.CheckIn(ctx, ref, attendance.SessionRequest{})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	}
	assert.Equal(t, 1, successes)
	assert.Len(t, f.repo.records, 1)
}

func TestCheckInLosesInsertRace(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	ref := user.EmployeeRef("emp-1")
	day := attendance.DayStart(morning)

	f.repo.beforeInsert = func() {
		f.repo.put(attendance.Record{
			ID:           "winner",
			User:         ref,
			Date:         day,
			CheckIn:      &attendance.SessionEvent{Time: morning, Location: "Office"},
			Status:       attendance.StatusPresent,
			CheckInCount: 1,
		})
	}

	_, err := f.svc.CheckIn(ctx, ref, attendance.SessionRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	got, err := f.repo.GetForUpdate(ctx, ref, day)
	require.NoError(t, err)
	assert.Equal(t, "winner", got.ID)
}

func TestCheckInAfterAbsentMark(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	ref := user.EmployeeRef("emp-1")
	day := attendance.DayStart(morning)
	f.repo.put(attendance.Record{ID: "abs", User: ref, Date: day, Status: attendance.StatusAbsent})

	resp, err := f.svc.CheckIn(ctx, ref, attendance.SessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "abs", resp.Attendance.ID)
	assert.Equal(t, "present", resp.Attendance.Status)
	assert.Equal(t, 1, f.repo.updates)
}

func TestLateCheckIn(t *testing.T) {
	f := newFixture(t, attendance.CutoffPolicy{Cutoff: 8*time.Hour + 30*time.Minute, Grace: 10 * time.Minute})
	resp, err := f.svc.CheckIn(context.Background(), user.EmployeeRef("emp-1"), attendance.SessionRequest{})
	require.NoError(t, err)
	assert.True(t, resp.Attendance.IsLate)
	assert.Equal(t, 30, resp.Attendance.LateMinutes)
	assert.Equal(t, "late", resp.Attendance.Status)
}

func TestCheckInValidation(t *testing.T) {
	f := newFixture(t, nil)
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	_, err := f.svc.CheckIn(context.Background(), user.EmployeeRef("emp-1"), attendance.SessionRequest{Location: string(long)})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "location", verrs[0].Field)
}

func TestGetTodayActions(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	ref := user.EmployeeRef("emp-1")

	today, err := f.svc.GetToday(ctx, ref)
	require.NoError(t, err)
	assert.Nil(t, today.Attendance)
	assert.Equal(t, attendance.Actions{CanCheckIn: true}, today.Actions)

	_, err = f.svc.CheckIn(ctx, ref, attendance.SessionRequest{})
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.svc.CheckOut(ctx, ref, attendance.SessionRequest{})
	require.NoError(t, err)

	today, err = f.svc.GetToday(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, attendance.Actions{CanReCheckIn: true}, today.Actions)

	// next business day starts fresh
	f.clock.Advance(24 * time.Hour)
	today, err = f.svc.GetToday(ctx, ref)
	require.NoError(t, err)
	assert.Nil(t, today.Attendance)
}

func TestGetHistory(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	ref := user.EmployeeRef("emp-1")

	for i := 0; i < 5; i++ {
		_, err := f.svc.CheckIn(ctx, ref, attendance.SessionRequest{})
		require.NoError(t, err)
		f.clock.Advance(24 * time.Hour)
	}
	_, err := f.svc.CheckIn(ctx, user.EmployeeRef("emp-2"), attendance.SessionRequest{})
	require.NoError(t, err)

	page, err := f.svc.GetHistory(ctx, ref, attendance.HistoryFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, "1-2 of 5", page.Showing)
	require.Len(t, page.Attendances, 2)
	assert.Equal(t, "2024-01-20", page.Attendances[0].Date)

	start, end := "2024-01-17", "2024-01-18"
	ranged, err := f.svc.GetHistory(ctx, ref, attendance.HistoryFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.EqualValues(t, 2, ranged.TotalCount)
	assert.Equal(t, 20, ranged.Limit)

	bad := "2024-01-10"
	_, err = f.svc.GetHistory(ctx, ref, attendance.HistoryFilter{StartDate: &start, EndDate: &bad})
	assert.Error(t, err)

	empty, err := f.svc.GetHistory(ctx, user.AdminRef("nobody"), attendance.HistoryFilter{})
	require.NoError(t, err)
	assert.Equal(t, "0 of 0", empty.Showing)
}

func TestListAttendanceFilters(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, user.EmployeeRef("emp-1"), attendance.SessionRequest{})
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx, user.AdminRef("adm-1"), attendance.SessionRequest{})
	require.NoError(t, err)

	employeeType := "employee"
	list, err := f.svc.ListAttendance(ctx, attendance.AttendanceFilter{UserType: &employeeType})
	require.NoError(t, err)
	require.Len(t, list.Attendances, 1)
	assert.Equal(t, "emp-1", list.Attendances[0].UserID)

	bogus := "manager"
	_, err = f.svc.ListAttendance(ctx, attendance.AttendanceFilter{UserType: &bogus})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	badID := "emp-1"
	_, err = f.svc.ListAttendance(ctx, attendance.AttendanceFilter{UserID: &badID})
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "user_id")
}

func TestSetAttendanceStatusClearsLateness(t *testing.T) {
	f := newFixture(t, attendance.CutoffPolicy{Cutoff: 8 * time.Hour})
	ctx := context.Background()
	ref := user.EmployeeRef("emp-1")

	resp, err := f.svc.CheckIn(ctx, ref, attendance.SessionRequest{})
	require.NoError(t, err)
	require.True(t, resp.Attendance.IsLate)
	require.Equal(t, 60, resp.Attendance.LateMinutes)

	updated, err := f.svc.SetAttendanceStatus(ctx, attendance.UpdateStatusRequest{ID: resp.Attendance.ID, Status: "present"})
	require.NoError(t, err)
	assert.Equal(t, "present", updated.Status)
	assert.False(t, updated.IsLate)
	assert.Zero(t, updated.LateMinutes)

	summary, err := f.svc.GetMonthlySummary(ctx, ref, attendance.SummaryRequest{Month: 1, Year: 2024})
	require.NoError(t, err)
	assert.Zero(t, summary.LateDays)
	assert.Equal(t, 1, summary.PresentDays)

	updated, err = f.svc.SetAttendanceStatus(ctx, attendance.UpdateStatusRequest{ID: resp.Attendance.ID, Status: "late"})
	require.NoError(t, err)
	assert.True(t, updated.IsLate)
}

func TestSetAttendanceStatus(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	ref := user.EmployeeRef("emp-1")

	resp, err := f.svc.CheckIn(ctx, ref, attendance.SessionRequest{})
	require.NoError(t, err)

	updated, err := f.svc.SetAttendanceStatus(ctx, attendance.UpdateStatusRequest{ID: resp.Attendance.ID, Status: "half-day"})
	require.NoError(t, err)
	assert.Equal(t, "half-day", updated.Status)

	f.clock.Advance(time.Hour)
	_, err = f.svc.CheckOut(ctx, ref, attendance.SessionRequest{})
	require.NoError(t, err)
	_, err = f.svc.ReCheckIn(ctx, ref, attendance.SessionRequest{})
	require.NoError(t, err)

	// a re-check-in always wins
	updated, err = f.svc.SetAttendanceStatus(ctx, attendance.UpdateStatusRequest{ID: resp.Attendance.ID, Status: "absent"})
	require.NoError(t, err)
	assert.Equal(t, "re-checked-in", updated.Status)

	for _, missing := range []string{"missing", "0190f3a0-5c1e-7000-8000-0000000000ff"} {
		_, err = f.svc.SetAttendanceStatus(ctx, attendance.UpdateStatusRequest{ID: missing, Status: "absent"})
		assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound, missing)
	}

	_, err = f.svc.SetAttendanceStatus(ctx, attendance.UpdateStatusRequest{ID: resp.Attendance.ID, Status: "re-checked-in"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestMarkAbsent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.employees.employees = []employee.Employee{
		{Account: user.Account{Ref: user.EmployeeRef("emp-1"), IsActive: true}},
		{Account: user.Account{Ref: user.EmployeeRef("emp-2"), IsActive: true}},
		{Account: user.Account{Ref: user.EmployeeRef("emp-3"), IsActive: false}},
	}

	_, err := f.svc.CheckIn(ctx, user.EmployeeRef("emp-1"), attendance.SessionRequest{})
	require.NoError(t, err)

	result, err := f.svc.MarkAbsent(ctx, morning)
	require.NoError(t, err)
	assert.Equal(t, attendance.MarkAbsentResult{Date: "2024-01-16", Checked: 2, Marked: 1}, result)

	again, err := f.svc.MarkAbsent(ctx, morning)
	require.NoError(t, err)
	assert.Zero(t, again.Marked)

	// 2024-01-20 is a Saturday
	saturday := time.Date(2024, 1, 20, 6, 0, 0, 0, time.UTC)
	skipped, err := f.svc.MarkAbsent(ctx, saturday)
	require.NoError(t, err)
	assert.True(t, skipped.Skipped)
}

func TestGetMonthlySummary(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	ref := user.EmployeeRef("emp-1")
	f.employees.employees = []employee.Employee{{
		Account:      user.Account{Ref: ref, IsActive: true},
		Compensation: employee.CompensationProfile{StandardDailyHours: 8, OvertimeEligible: true},
	}}

	_, err := f.svc.CheckIn(ctx, ref, attendance.SessionRequest{})
	require.NoError(t, err)
	f.clock.Advance(9*time.Hour + 30*time.Minute)
	_, err = f.svc.CheckOut(ctx, ref, attendance.SessionRequest{})
	require.NoError(t, err)

	_, err = f.svc.MarkAbsent(ctx, morning.Add(24*time.Hour))
	require.NoError(t, err)

	summary, err := f.svc.GetMonthlySummary(ctx, ref, attendance.SummaryRequest{Month: 1, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, 23, summary.TotalDays)
	assert.Equal(t, 1, summary.PresentDays)
	assert.Equal(t, 1, summary.AbsentDays)
	assert.Equal(t, 9.5, summary.TotalHours)
	assert.Equal(t, 1.5, summary.OvertimeHours)

	_, err = f.svc.GetMonthlySummary(ctx, ref, attendance.SummaryRequest{Month: 0, Year: 2024})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}
