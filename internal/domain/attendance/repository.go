package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
)

// AttendanceRepository defines data access methods for attendance records.
// Write paths are expected to run inside a transaction carried by ctx.
type AttendanceRepository interface {
	// GetForUpdate locks and returns the record of ref on the business day
	// starting at date. It returns ErrAttendanceNotFound when none exists.
	GetForUpdate(ctx context.Context, ref user.Ref, date time.Time) (Record, error)

	// Insert creates the record unless one already exists for the same
	// user and day, in which case inserted is false.
	Insert(ctx context.Context, record Record) (inserted bool, err error)

	Update(ctx context.Context, record Record) error

	GetByID(ctx context.Context, id string) (Record, error)
	GetByUserAndDate(ctx context.Context, ref user.Ref, date time.Time) (*Record, error)

	// List returns one page of records and the total match count.
	List(ctx context.Context, query ListQuery) ([]Record, int64, error)

	// ListInRange returns every record of ref with from <= date < to.
	ListInRange(ctx context.Context, ref user.Ref, from, to time.Time) ([]Record, error)

	// MarkAbsent inserts absent records for the refs that have none on date
	// and returns how many were created.
	MarkAbsent(ctx context.Context, refs []user.Ref, date time.Time) (int, error)

	// MarkLeave sets the days of ref to leave. Days without a record get a
	// new one and days only swept as absent are overwritten. Days with a
	// check-in are left untouched. It returns how many days changed.
	MarkLeave(ctx context.Context, ref user.Ref, days []time.Time) (int, error)
}
