package postgresql

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/fleetcrm/fleet-backend-go/internal/pkg/database"
)

//go:embed schema.sql
var schemaSQL string

// Migrate applies the idempotent schema.
func Migrate(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
