package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type accountRepositoryImpl struct {
	db *database.DB
}

func NewAccountRepository(db *database.DB) user.AccountRepository {
	return &accountRepositoryImpl{db: db}
}

// accountTable maps a user type to its table. The result is only ever one
// of two constants, so it is safe to splice into SQL.
func accountTable(t user.UserType) (string, error) {
	switch t {
	case user.TypeAdmin:
		return "admins", nil
	case user.TypeEmployee:
		return "employees", nil
	}
	return "", user.ErrInvalidUserType
}

const accountColumns = `id, email, password_hash, full_name, department, is_active, created_at, updated_at`

func scanAccount(row rowScanner, t user.UserType) (user.Account, error) {
	var a user.Account
	err := row.Scan(&a.Ref.ID, &a.Email, &a.PasswordHash, &a.FullName, &a.Department, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return user.Account{}, err
	}
	a.Ref.Type = t
	return a, nil
}

// GetByRef implements user.AccountRepository.
func (r *accountRepositoryImpl) GetByRef(ctx context.Context, ref user.Ref) (user.Account, error) {
	table, err := accountTable(ref.Type)
	if err != nil {
		return user.Account{}, err
	}
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, accountColumns, table)
	a, err := scanAccount(q.QueryRow(ctx, query, ref.ID), ref.Type)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Account{}, user.ErrUserNotFound
		}
		return user.Account{}, fmt.Errorf("failed to get account by ID: %w", err)
	}
	return a, nil
}

// GetByEmail implements user.AccountRepository.
func (r *accountRepositoryImpl) GetByEmail(ctx context.Context, userType user.UserType, email string) (user.Account, error) {
	table, err := accountTable(userType)
	if err != nil {
		return user.Account{}, err
	}
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(email) = LOWER($1)`, accountColumns, table)
	a, err := scanAccount(q.QueryRow(ctx, query, email), userType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Account{}, user.ErrUserNotFound
		}
		return user.Account{}, fmt.Errorf("failed to get account by email: %w", err)
	}
	return a, nil
}

// Create implements user.AccountRepository. An empty ID is filled with a new
// UUIDv7.
func (r *accountRepositoryImpl) Create(ctx context.Context, account user.Account) (user.Account, error) {
	table, err := accountTable(account.Ref.Type)
	if err != nil {
		return user.Account{}, err
	}
	if account.Ref.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return user.Account{}, fmt.Errorf("failed to generate account id: %w", err)
		}
		account.Ref.ID = id.String()
	}
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO %s (id, email, password_hash, full_name, department, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`, table, accountColumns)

	created, err := scanAccount(q.QueryRow(ctx, query,
		account.Ref.ID, account.Email, account.PasswordHash, account.FullName, account.Department, account.IsActive,
	), account.Ref.Type)
	if err != nil {
		if isUniqueViolation(err) {
			return user.Account{}, user.ErrUserEmailExists
		}
		return user.Account{}, fmt.Errorf("failed to create account: %w", err)
	}
	return created, nil
}

// ListActive implements user.AccountRepository.
func (r *accountRepositoryImpl) ListActive(ctx context.Context, userType user.UserType) ([]user.Account, error) {
	table, err := accountTable(userType)
	if err != nil {
		return nil, err
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, fmt.Sprintf(`SELECT %s FROM %s WHERE is_active = TRUE ORDER BY full_name, id`, accountColumns, table))
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []user.Account
	for rows.Next() {
		a, err := scanAccount(rows, userType)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}
