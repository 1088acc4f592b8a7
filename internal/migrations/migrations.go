// Package migrations embeds the relational schema and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/sbilibin2017/gw-plant-doctor/internal/config"
)

//go:embed mysql/*.sql postgres/*.sql
var FS embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Dir returns the migration directory and goose dialect for a SQL driver name.
func Dir(driver string) (dir, dialect string, err error) {
	switch driver {
	case config.DriverMySQL:
		return "mysql", "mysql", nil
	case config.DriverPostgres:
		return "postgres", "postgres", nil
	default:
		return "", "", fmt.Errorf("no migrations for driver %q", driver)
	}
}

// Run applies all pending migrations for the given driver.
func Run(ctx context.Context, db *sql.DB, driver string) error {
	dir, dialect, err := Dir(driver)
	if err != nil {
		return err
	}

	goose.SetBaseFS(FS)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("apply %s migrations: %w", dialect, err)
	}
	return nil
}
