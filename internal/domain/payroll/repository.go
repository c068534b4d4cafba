package payroll

import (
	"context"
	"time"
)

type PayrollRepository interface {
	// ExistsForPeriod reports whether any record exists for the period.
	ExistsForPeriod(ctx context.Context, period Period) (bool, error)

	// CreateBatch inserts all records or none. A unique violation on
	// (employee, month, year) is reported as ErrDuplicatePayrollPeriod.
	CreateBatch(ctx context.Context, records []Record) error

	GetByID(ctx context.Context, id string) (Record, error)
	ListByEmployee(ctx context.Context, employeeID string, offset, limit int) ([]Record, int64, error)
	ListByPeriod(ctx context.Context, period Period, offset, limit int) ([]Record, int64, error)

	// UpdateStatus moves a record from one status to another only if it is
	// still in from. It reports ErrPayrollStatusConflict otherwise.
	UpdateStatus(ctx context.Context, id string, from, to Status, at time.Time) (Record, error)
}
