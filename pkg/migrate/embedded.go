package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var embedded embed.FS

// Up applies the embedded migrations for driver. It does not touch goose's
// package-level state, so it is safe to call from tests and the API binary
// without a checkout on disk.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}

	sub := "migrations/postgres"
	dialect := goose.DialectPostgres
	if driver == config.DriverSQLite {
		sub = "migrations/sqlite"
		dialect = goose.DialectSQLite3
	}

	fsys, err := fs.Sub(embedded, sub)
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
