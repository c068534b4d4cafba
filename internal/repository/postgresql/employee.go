package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, email, password_hash, full_name, department, position, is_active,
	basic_salary, housing_allowance, transport_allowance, meal_allowance, medical_allowance, other_allowance,
	overtime_rate, tax_rate, insurance_rate, other_deduction, standard_daily_hours, overtime_eligible,
	created_at, updated_at`

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var e employee.Employee
	c := &e.Compensation
	err := row.Scan(
		&e.Ref.ID, &e.Email, &e.PasswordHash, &e.FullName, &e.Department, &e.Position, &e.IsActive,
		&c.BasicSalary, &c.Allowances.Housing, &c.Allowances.Transport, &c.Allowances.Meal, &c.Allowances.Medical, &c.Allowances.Other,
		&c.OvertimeRate, &c.TaxRate, &c.InsuranceRate, &c.OtherDeduction, &c.StandardDailyHours, &c.OvertimeEligible,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	e.Ref.Type = user.TypeEmployee
	return e, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if isMissingRow(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}
	return e, nil
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+employeeColumns+` FROM employees WHERE is_active = TRUE ORDER BY full_name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, nil
}

func NewEmployeeProfileWriter(db *database.DB) employee.ProfileWriter {
	return &employeeRepositoryImpl{db: db}
}

// SetProfile implements employee.ProfileWriter.
func (r *employeeRepositoryImpl) SetProfile(ctx context.Context, id string, position *string, p employee.CompensationProfile) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees SET
			position = $2,
			basic_salary = $3, housing_allowance = $4, transport_allowance = $5,
			meal_allowance = $6, medical_allowance = $7, other_allowance = $8,
			overtime_rate = $9, tax_rate = $10, insurance_rate = $11, other_deduction = $12,
			standard_daily_hours = $13, overtime_eligible = $14, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, position,
		p.BasicSalary, p.Allowances.Housing, p.Allowances.Transport,
		p.Allowances.Meal, p.Allowances.Medical, p.Allowances.Other,
		p.OvertimeRate, p.TaxRate, p.InsuranceRate, p.OtherDeduction,
		p.StandardDailyHours, p.OvertimeEligible,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
