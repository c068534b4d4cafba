package leave

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
)

type serialTransactor struct {
	mu sync.Mutex
}

func (t *serialTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[string]leave.Request
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]leave.Request)}
}

func (f *fakeRequestRepo) Create(_ context.Context, r leave.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[r.ID] = r
	return nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string) (leave.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}
	return r, nil
}

func (f *fakeRequestRepo) GetForUpdate(ctx context.Context, id string) (leave.Request, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeRequestRepo) CheckOverlapping(_ context.Context, employeeID string, start, end time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r.EmployeeID != employeeID {
			continue
		}
		if r.Status != leave.StatusWaitingApproval && r.Status != leave.StatusApproved {
			continue
		}
		if !r.StartDate.After(end) && !r.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequestRepo) List(_ context.Context, q leave.ListQuery) ([]leave.Request, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []leave.Request
	for _, r := range f.requests {
		if q.EmployeeID != nil && r.EmployeeID != *q.EmployeeID {
			continue
		}
		if q.Status != nil && r.Status != *q.Status {
			continue
		}
		matched = append(matched, r)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	if q.Offset >= len(matched) {
		return nil, total, nil
	}
	end := min(q.Offset+q.Limit, len(matched))
	return matched[q.Offset:end], total, nil
}

func (f *fakeRequestRepo) UpdateStatus(_ context.Context, r leave.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.requests[r.ID]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	f.requests[r.ID] = r
	return nil
}

type dayKey struct {
	ref  user.Ref
	date time.Time
}

// fakeAttendanceRepo only backs the calls leave approval makes.
type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	mu      sync.Mutex
	records map[dayKey]attendance.Record
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[dayKey]attendance.Record)}
}

func (f *fakeAttendanceRepo) put(r attendance.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[dayKey{r.User, r.Date}] = r
}

func (f *fakeAttendanceRepo) get(ref user.Ref, day time.Time) (attendance.Record, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[dayKey{ref, day}]
	return r, ok
}

func (f *fakeAttendanceRepo) all() []attendance.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]attendance.Record, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r)
	}
	return out
}

func (f *fakeAttendanceRepo) MarkLeave(_ context.Context, ref user.Ref, days []time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	marked := 0
	for _, day := range days {
		key := dayKey{ref, day}
		existing, exists := f.records[key]
		switch {
		case !exists:
			f.records[key] = attendance.Record{User: ref, Date: day, Status: attendance.StatusLeave}
		case existing.CheckIn == nil && existing.Status == attendance.StatusAbsent:
			existing.Status = attendance.StatusLeave
			f.records[key] = existing
		default:
			continue
		}
		marked++
	}
	return marked, nil
}
