package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestColumns = `
	lr.id, lr.employee_id, lr.start_date, lr.end_date, lr.working_days, lr.reason,
	lr.status, lr.approved_by, lr.approved_at, lr.rejection_reason, lr.cancelled_at,
	lr.submitted_at, lr.created_at, lr.updated_at, e.full_name`

const leaveRequestFrom = ` FROM leave_requests lr LEFT JOIN employees e ON e.id = lr.employee_id`

func scanLeaveRequest(row rowScanner) (leave.Request, error) {
	var (
		req    leave.Request
		status string
	)
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.StartDate, &req.EndDate, &req.WorkingDays, &req.Reason,
		&status, &req.ApprovedBy, &req.ApprovedAt, &req.RejectionReason, &req.CancelledAt,
		&req.SubmittedAt, &req.CreatedAt, &req.UpdatedAt, &req.EmployeeName,
	)
	if err != nil {
		return leave.Request{}, err
	}
	req.Status = leave.RequestStatus(status)
	return req, nil
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, req leave.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, start_date, end_date, working_days, reason,
			status, submitted_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := q.Exec(ctx, query,
		req.ID, req.EmployeeID, req.StartDate, req.EndDate, req.WorkingDays, req.Reason,
		string(req.Status), req.SubmittedAt, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create leave request: %w", err)
	}
	return nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.Request, error) {
	return r.get(ctx, `SELECT `+leaveRequestColumns+leaveRequestFrom+` WHERE lr.id = $1`, id)
}

// GetForUpdate implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetForUpdate(ctx context.Context, id string) (leave.Request, error) {
	return r.get(ctx, `SELECT `+leaveRequestColumns+leaveRequestFrom+` WHERE lr.id = $1 FOR UPDATE OF lr`, id)
}

func (r *leaveRequestRepository) get(ctx context.Context, query, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if isMissingRow(err) {
			return leave.Request{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request by ID: %w", err)
	}
	return req, nil
}

// CheckOverlapping implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) CheckOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
				AND status IN ('waiting_approval', 'approved')
				AND start_date <= $3 AND end_date >= $2
		)
	`
	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check overlapping leave requests: %w", err)
	}
	return exists, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) List(ctx context.Context, lq leave.ListQuery) ([]leave.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := " WHERE 1=1"
	args := []any{}
	argIdx := 1

	if lq.EmployeeID != nil {
		where += fmt.Sprintf(" AND lr.employee_id = $%d", argIdx)
		args = append(args, *lq.EmployeeID)
		argIdx++
	}
	if lq.Status != nil {
		where += fmt.Sprintf(" AND lr.status = $%d", argIdx)
		args = append(args, string(*lq.Status))
		argIdx++
	}

	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM leave_requests lr"+where, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	selectQuery := fmt.Sprintf(`SELECT %s%s%s ORDER BY lr.submitted_at DESC, lr.id DESC LIMIT $%d OFFSET $%d`,
		leaveRequestColumns, leaveRequestFrom, where, argIdx, argIdx+1)
	args = append(args, lq.Limit, lq.Offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate leave requests: %w", err)
	}
	return requests, totalCount, nil
}

// UpdateStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) UpdateStatus(ctx context.Context, req leave.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2, approved_by = $3, approved_at = $4, rejection_reason = $5,
			cancelled_at = $6, updated_at = $7
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		req.ID, string(req.Status), req.ApprovedBy, req.ApprovedAt, req.RejectionReason,
		req.CancelledAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}
