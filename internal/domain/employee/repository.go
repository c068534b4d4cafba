package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActive returns every active employee ordered by name.
	ListActive(ctx context.Context) ([]Employee, error)
}

// ProfileWriter stores the pay structure and position of an employee.
type ProfileWriter interface {
	SetProfile(ctx context.Context, id string, position *string, profile CompensationProfile) error
}
