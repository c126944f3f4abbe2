package catalog

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate runs all pending schema migrations. Databases created before the
// migrations existed are adopted as they are.
func (s *SQLiteStore) Migrate() error {
	if s.db == nil {
		return ErrNotOpened
	}

	if err := configureGoose(s); err != nil {
		return err
	}

	if err := goose.Up(s.db.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// MigrationVersion returns the current schema version.
func (s *SQLiteStore) MigrationVersion() (int64, error) {
	if s.db == nil {
		return 0, ErrNotOpened
	}

	if err := configureGoose(s); err != nil {
		return 0, err
	}

	return goose.GetDBVersion(s.db.DB)
}

func configureGoose(s *SQLiteStore) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(s.log)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}
