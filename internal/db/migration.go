package db

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Migrate applies the goose migrations that back the redemption audit store.
// Like Connect, it reports failure to the caller instead of exiting itself.
func Migrate(db *sql.DB, migrationsDir string) error {
	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations from %s: %w", migrationsDir, err)
	}
	return nil
}
