package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsOrdered(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	versions := make([]string, 0, len(migrations))
	for _, m := range migrations {
		assert.NotEmpty(t, m.SQL, m.Version)
		versions = append(versions, m.Version)
	}
	assert.Equal(t, []string{"0001_accounts", "0002_attendances", "0003_payrolls", "0004_leave_requests"}, versions)
}

func TestMigrationsDeclareUniqueKeys(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)

	all := ""
	for _, m := range migrations {
		all += m.SQL
	}
	assert.Contains(t, all, "UNIQUE (user_id, user_type, date)")
	assert.Contains(t, all, "UNIQUE (employee_id, month, year)")
}
