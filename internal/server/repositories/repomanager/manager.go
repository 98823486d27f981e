package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/authgate/internal/dbx"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// Supported values of the DATABASE_DRIVER setting.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type RepositoryManager interface {
	// SQLDriver is the database/sql driver name to pass to sql.Open.
	SQLDriver() string
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// New returns the manager for the configured driver.
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case DriverPostgres:
		return NewPostgresRepositoryManager(), nil
	case DriverSQLite:
		return NewSQLiteRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open connects to dsn with the manager's driver, verifies the connection
// and applies pending migrations.
func Open(ctx context.Context, m RepositoryManager, dsn string) (*sql.DB, error) {
	db, err := sql.Open(m.SQLDriver(), dsn)
	if err != nil {
		return nil, err
	}
	if m.SQLDriver() == "sqlite" {
		// SQLite allows a single writer; serialize through one connection.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}
