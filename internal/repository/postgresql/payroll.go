package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
	tx database.Transactor
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db, tx: NewTransactor(db)}
}

const payrollColumns = `
	p.id, p.employee_id, p.month, p.year, p.basic_salary,
	p.housing_allowance, p.transport_allowance, p.meal_allowance, p.medical_allowance, p.other_allowance, p.total_allowances,
	p.overtime_hours, p.overtime_amount,
	p.absent_deduction, p.half_day_deduction, p.tax_deduction, p.insurance_deduction, p.other_deduction, p.total_deductions,
	p.net_pay, p.total_days, p.present_days, p.absent_days, p.half_days, p.attendance_overtime,
	p.status, p.generated_by, p.generated_at, p.paid_at, p.created_at, p.updated_at,
	e.full_name, e.department`

const payrollFrom = ` FROM payrolls p LEFT JOIN employees e ON e.id = p.employee_id`

func scanPayroll(row rowScanner) (payroll.Record, error) {
	var (
		rec    payroll.Record
		status string
	)
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Month, &rec.Year, &rec.BasicSalary,
		&rec.Allowances.Housing, &rec.Allowances.Transport, &rec.Allowances.Meal, &rec.Allowances.Medical, &rec.Allowances.Other, &rec.Allowances.Total,
		&rec.Overtime.Hours, &rec.Overtime.Amount,
		&rec.Deductions.Absent, &rec.Deductions.HalfDay, &rec.Deductions.Tax, &rec.Deductions.Insurance, &rec.Deductions.Other, &rec.Deductions.Total,
		&rec.NetPay, &rec.AttendanceData.TotalDays, &rec.AttendanceData.PresentDays, &rec.AttendanceData.AbsentDays,
		&rec.AttendanceData.HalfDays, &rec.AttendanceData.OvertimeHours,
		&status, &rec.GeneratedBy, &rec.GeneratedAt, &rec.PaidAt, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.Department,
	)
	if err != nil {
		return payroll.Record{}, err
	}
	rec.Status = payroll.Status(status)
	return rec, nil
}

// ExistsForPeriod implements payroll.PayrollRepository.
func (r *payrollRepository) ExistsForPeriod(ctx context.Context, period payroll.Period) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM payrolls WHERE month = $1 AND year = $2)`, period.Month, period.Year).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check payroll period: %w", err)
	}
	return exists, nil
}

// CreateBatch implements payroll.PayrollRepository.
func (r *payrollRepository) CreateBatch(ctx context.Context, records []payroll.Record) error {
	query := `
		INSERT INTO payrolls (
			id, employee_id, month, year, basic_salary,
			housing_allowance, transport_allowance, meal_allowance, medical_allowance, other_allowance, total_allowances,
			overtime_hours, overtime_amount,
			absent_deduction, half_day_deduction, tax_deduction, insurance_deduction, other_deduction, total_deductions,
			net_pay, total_days, present_days, absent_days, half_days, attendance_overtime,
			status, generated_by, generated_at, paid_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11,
			$12, $13,
			$14, $15, $16, $17, $18, $19,
			$20, $21, $22, $23, $24, $25,
			$26, $27, $28, $29, $30, $31
		)
	`

	err := r.tx.WithinTx(ctx, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)
		for _, rec := range records {
			_, err := q.Exec(ctx, query,
				rec.ID, rec.EmployeeID, rec.Month, rec.Year, rec.BasicSalary,
				rec.Allowances.Housing, rec.Allowances.Transport, rec.Allowances.Meal, rec.Allowances.Medical, rec.Allowances.Other, rec.Allowances.Total,
				rec.Overtime.Hours, rec.Overtime.Amount,
				rec.Deductions.Absent, rec.Deductions.HalfDay, rec.Deductions.Tax, rec.Deductions.Insurance, rec.Deductions.Other, rec.Deductions.Total,
				rec.NetPay, rec.AttendanceData.TotalDays, rec.AttendanceData.PresentDays, rec.AttendanceData.AbsentDays,
				rec.AttendanceData.HalfDays, rec.AttendanceData.OvertimeHours,
				string(rec.Status), rec.GeneratedBy, rec.GeneratedAt, rec.PaidAt, rec.CreatedAt, rec.UpdatedAt,
			)
			if err != nil {
				if isUniqueViolation(err) {
					return payroll.ErrDuplicatePayrollPeriod
				}
				return fmt.Errorf("failed to insert payroll record for employee %s: %w", rec.EmployeeID, err)
			}
		}
		return nil
	})
	return err
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	rec, err := scanPayroll(q.QueryRow(ctx, `SELECT `+payrollColumns+payrollFrom+` WHERE p.id = $1`, id))
	if err != nil {
		if isMissingRow(err) {
			return payroll.Record{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return rec, nil
}

// ListByEmployee implements payroll.PayrollRepository. Newest period first.
func (r *payrollRepository) ListByEmployee(ctx context.Context, employeeID string, offset, limit int) ([]payroll.Record, int64, error) {
	return r.list(ctx, ` WHERE p.employee_id = $1`, `p.year DESC, p.month DESC`, []any{employeeID}, offset, limit)
}

// ListByPeriod implements payroll.PayrollRepository.
func (r *payrollRepository) ListByPeriod(ctx context.Context, period payroll.Period, offset, limit int) ([]payroll.Record, int64, error) {
	return r.list(ctx, ` WHERE p.month = $1 AND p.year = $2`, `e.full_name ASC, p.employee_id ASC`, []any{period.Month, period.Year}, offset, limit)
}

func (r *payrollRepository) list(ctx context.Context, where, orderBy string, args []any, offset, limit int) ([]payroll.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	var totalCount int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*)`+payrollFrom+where, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	argIdx := len(args) + 1
	selectQuery := fmt.Sprintf(`SELECT %s%s%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		payrollColumns, payrollFrom, where, orderBy, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Record
	for rows.Next() {
		rec, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll records: %w", err)
	}

	return records, totalCount, nil
}

// UpdateStatus implements payroll.PayrollRepository.
func (r *payrollRepository) UpdateStatus(ctx context.Context, id string, from, to payroll.Status, at time.Time) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls
		SET status = $3::varchar,
			paid_at = CASE WHEN $3::varchar = 'paid' THEN $4 ELSE paid_at END,
			updated_at = $4
		WHERE id = $1 AND status = $2
	`

	tag, err := q.Exec(ctx, query, id, string(from), string(to), at)
	if err != nil {
		return payroll.Record{}, fmt.Errorf("failed to update payroll status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return payroll.Record{}, err
		}
		return payroll.Record{}, payroll.ErrPayrollStatusConflict
	}

	return r.GetByID(ctx, id)
}
