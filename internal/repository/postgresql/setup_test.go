package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/fleetcrm/fleet-backend-go/internal/pkg/database"
	"github.com/fleetcrm/fleet-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// newTestDB connects to TEST_DATABASE_URL, applies the schema and empties
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

	require.NoError(t, postgresql.Migrate(ctx, db))
	require.NoError(t, truncateAll(ctx, db))
	return db
}

func truncateAll(ctx context.Context, db *database.DB) error {
	tables := []string{
		"fastag_recharges",
		"accident_logs",
		"fuel_entries",
		"advances",
		"parking_entries",
		"duties",
		"refresh_tokens",
		"users",
		"drivers",
		"companies",
	}
	for _, table := range tables {
		if _, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return nil
}

type seed struct {
	CompanyID string
	AdminID   string
	DriverID  string
}

func seedCompany(t *testing.T, ctx context.Context, db *database.DB) seed {
	t.Helper()
	var s seed
	require.NoError(t, db.QueryRow(ctx, `INSERT INTO companies (name) VALUES ('Test Fleet') RETURNING id`).Scan(&s.CompanyID))
	require.NoError(t, db.QueryRow(ctx, `
		INSERT INTO users (company_id, email, password_hash, role)
		VALUES ($1, 'owner@fleet.test', 'x', 'admin') RETURNING id
	`, s.CompanyID).Scan(&s.AdminID))
	require.NoError(t, db.QueryRow(ctx, `
		INSERT INTO drivers (company_id, name, mobile, vehicle_number, daily_wage)
		VALUES ($1, 'Ravi', '9876543210', 'MH12AB1234', 500) RETURNING id
	`, s.CompanyID).Scan(&s.DriverID))
	return s
}
