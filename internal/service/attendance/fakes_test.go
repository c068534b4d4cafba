package attendance

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
)

// serialTransactor runs one transaction at a time, which is what the row
// lock taken by GetForUpdate guarantees for a single record.
type serialTransactor struct {
	mu sync.Mutex
}

func (t *serialTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

type dayKey struct {
	ref  user.Ref
	date time.Time
}

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records map[dayKey]attendance.Record

	// beforeInsert runs just before Insert checks for a conflict.
	beforeInsert func()
	updates      int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[dayKey]attendance.Record)}
}

func (f *fakeAttendanceRepo) put(r attendance.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[dayKey{r.User, r.Date}] = r
}

func (f *fakeAttendanceRepo) GetForUpdate(_ context.Context, ref user.Ref, date time.Time) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[dayKey{ref, date}]
	if !ok {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return r, nil
}

func (f *fakeAttendanceRepo) Insert(_ context.Context, r attendance.Record) (bool, error) {
	if f.beforeInsert != nil {
		hook := f.beforeInsert
		f.beforeInsert = nil
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := dayKey{r.User, r.Date}
	if _, exists := f.records[key]; exists {
		return false, nil
	}
	f.records[key] = r
	return true, nil
}

func (f *fakeAttendanceRepo) Update(_ context.Context, r attendance.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := dayKey{r.User, r.Date}
	if _, exists := f.records[key]; !exists {
		return attendance.ErrAttendanceNotFound
	}
	f.records[key] = r
	f.updates++
	return nil
}

func (f *fakeAttendanceRepo) GetByID(_ context.Context, id string) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return attendance.Record{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) GetByUserAndDate(_ context.Context, ref user.Ref, date time.Time) (*attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[dayKey{ref, date}]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeAttendanceRepo) matching(match func(attendance.Record) bool) []attendance.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Record
	for _, r := range f.records {
		if match(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (f *fakeAttendanceRepo) List(_ context.Context, q attendance.ListQuery) ([]attendance.Record, int64, error) {
	all := f.matching(func(r attendance.Record) bool {
		switch {
		case q.UserID != nil && r.User.ID != *q.UserID:
			return false
		case q.UserType != nil && r.User.Type != *q.UserType:
			return false
		case q.Status != nil && r.Status != *q.Status:
			return false
		case q.From != nil && r.Date.Before(*q.From):
			return false
		case q.To != nil && !r.Date.Before(*q.To):
			return false
		}
		return true
	})
	if q.Asc {
		sort.Slice(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })
	}
	total := int64(len(all))
	if q.Offset >= len(all) {
		return nil, total, nil
	}
	end := min(q.Offset+q.Limit, len(all))
	return all[q.Offset:end], total, nil
}

func (f *fakeAttendanceRepo) ListInRange(_ context.Context, ref user.Ref, from, to time.Time) ([]attendance.Record, error) {
	return f.matching(func(r attendance.Record) bool {
		return r.User == ref && !r.Date.Before(from) && r.Date.Before(to)
	}), nil
}

func (f *fakeAttendanceRepo) MarkAbsent(_ context.Context, refs []user.Ref, date time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	marked := 0
	for _, ref := range refs {
		key := dayKey{ref, date}
		if _, exists := f.records[key]; exists {
			continue
		}
		f.records[key] = attendance.Record{ID: "absent-" + ref.ID, User: ref, Date: date, Status: attendance.StatusAbsent}
		marked++
	}
	return marked, nil
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
			f.records[key] = attendance.Record{ID: "leave-" + ref.ID, User: ref, Date: day, Status: attendance.StatusLeave}
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

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.Ref.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
