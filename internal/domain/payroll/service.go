package payroll

import (
	"context"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
)

type PayrollService interface {
	// GeneratePayroll creates one generated record per active employee for
	// the period, or nothing at all.
	GeneratePayroll(ctx context.Context, req GenerateRequest, generatedBy user.Ref) (GenerateResponse, error)

	// GetPayroll lists the records of one employee. Only the employee and
	// admins may read them.
	GetPayroll(ctx context.Context, principal user.Principal, req ListRequest) (ListPayrollResponse, error)

	GetPayrollRecord(ctx context.Context, principal user.Principal, id string) (PayrollResponse, error)
	ListByPeriod(ctx context.Context, filter PeriodFilter) (ListPayrollResponse, error)
	SetPayrollStatus(ctx context.Context, req UpdateStatusRequest) (PayrollResponse, error)
}
