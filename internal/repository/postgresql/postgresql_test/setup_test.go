package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// newTestDB connects to TEST_DATABASE_URL, applies migrations and empties
// every table. Tests are skipped when the variable is unset.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.Migrate(ctx)
	require.NoError(t, err)

	truncateAllTables(t, ctx, db)
	return db
}

func truncateAllTables(t *testing.T, ctx context.Context, db *database.DB) {
	t.Helper()
	tables := []string{"payrolls", "leave_requests", "attendances", "refresh_tokens", "employees", "admins"}

	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "failed to truncate table %s", table)
	}
}

func createTestAccount(t *testing.T, ctx context.Context, db *database.DB, userType user.UserType, name string) user.Account {
	t.Helper()
	account, err := postgresql.NewAccountRepository(db).Create(ctx, user.Account{
		Ref:      user.Ref{Type: userType},
		Email:    fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		FullName: name,
		IsActive: true,
	})
	require.NoError(t, err)
	return account
}

func createTestEmployee(t *testing.T, ctx context.Context, db *database.DB, name string, profile employee.CompensationProfile) user.Account {
	t.Helper()
	account := createTestAccount(t, ctx, db, user.TypeEmployee, name)
	require.NoError(t, postgresql.NewEmployeeProfileWriter(db).SetProfile(ctx, account.Ref.ID, nil, profile))
	return account
}
