package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request Request) error
	GetByID(ctx context.Context, id string) (Request, error)

	// GetForUpdate locks the request until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (Request, error)

	// CheckOverlapping reports whether the employee has a waiting or
	// approved request sharing any day with [start, end].
	CheckOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error)

	List(ctx context.Context, query ListQuery) ([]Request, int64, error)

	// UpdateStatus stores the status and review fields of request.
	UpdateStatus(ctx context.Context, request Request) error
}
