package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/repository/postgresql"
	leaveService "github.com/cmlabs-hris/hrms-backend-go/internal/service/leave"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceRepositoryMarkLeave(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	ref := user.EmployeeRef(uuid.NewString())

	worked := time.Date(2024, 3, 4, 4, 0, 0, 0, time.UTC)
	_, err := repo.Insert(ctx, newRecord(ref, worked))
	require.NoError(t, err)

	swept := attendance.DayStart(worked.Add(24 * time.Hour))
	marked, err := repo.MarkAbsent(ctx, []user.Ref{ref}, swept)
	require.NoError(t, err)
	require.Equal(t, 1, marked)

	fresh := attendance.DayStart(worked.Add(48 * time.Hour))
	days := []time.Time{attendance.DayStart(worked), swept, fresh}

	marked, err = repo.MarkLeave(ctx, ref, days)
	require.NoError(t, err)
	assert.Equal(t, 2, marked)

	marked, err = repo.MarkLeave(ctx, ref, days)
	require.NoError(t, err)
	assert.Zero(t, marked, "leave days stay leave")

	got, err := repo.GetByUserAndDate(ctx, ref, attendance.DayStart(worked))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, got.Status)

	for _, day := range []time.Time{swept, fresh} {
		got, err := repo.GetByUserAndDate(ctx, ref, day)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, attendance.StatusLeave, got.Status)
		assert.Nil(t, got.CheckIn)
	}
}

func TestLeaveApprovalWritesAttendance(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	emp := createTestEmployee(t, ctx, db, "Lena", employee.CompensationProfile{StandardDailyHours: 8})
	approver := createTestAccount(t, ctx, db, user.TypeAdmin, "Boss")

	requests := postgresql.NewLeaveRequestRepository(db)
	attendances := postgresql.NewAttendanceRepository(db)
	svc := leaveService.NewRequestService(postgresql.NewTransactor(db), requests, attendances)

	created, err := svc.CreateLeaveRequest(ctx, emp.Ref, leave.CreateLeaveRequestRequest{
		StartDate: "2024-03-07", EndDate: "2024-03-12", Reason: "family event",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, created.WorkingDays)

	_, err = svc.CreateLeaveRequest(ctx, emp.Ref, leave.CreateLeaveRequestRequest{
		StartDate: "2024-03-12", EndDate: "2024-03-14", Reason: "overlap",
	})
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)

	approved, err := svc.ApproveLeaveRequest(ctx, created.ID, approver.Ref)
	require.NoError(t, err)
	require.NotNil(t, approved.MarkedDays)
	assert.Equal(t, 4, *approved.MarkedDays)

	stored, err := requests.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, stored.Status)
	require.NotNil(t, stored.EmployeeName)
	assert.Equal(t, "Lena", *stored.EmployeeName)

	from, to := attendance.MonthRange(3, 2024)
	records, err := attendances.ListInRange(ctx, emp.Ref, from, to)
	require.NoError(t, err)
	summary := attendance.Summarize(records, attendance.StandardWorkDays(3, 2024), attendance.OvertimeRule{})
	assert.Equal(t, 4, summary.LeaveDays)

	status := leave.StatusApproved
	list, total, err := requests.List(ctx, leave.ListQuery{EmployeeID: &emp.Ref.ID, Status: &status, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	_, err = requests.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}
