package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/stapelberg/postgrestest"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// SetupEphemeralPostgresDatabase creates an ephemeral PostgreSQL instance
// that is removed again on Close
func SetupEphemeralPostgresDatabase() (*BunDB, error) {
	Logger.Info("Starting ephemeral PostgreSQL server...")

	ctx := context.Background()

	// Uses a temporary directory by default for simplicity
	pgt, err := postgrestest.Start(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start ephemeral postgres: %w", err)
	}
	Logger.Info("Ephemeral PostgreSQL server started", "dsn", pgt.DefaultDatabase())

	// Create a new database for the application
	dsn, err := pgt.CreateDatabase(ctx)
	if err != nil {
		pgt.Cleanup()
		return nil, fmt.Errorf("failed to create docstudio database: %w", err)
	}
	Logger.Info("Created ephemeral database", "dsn", dsn)

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		pgt.Cleanup()
		return nil, fmt.Errorf("failed to open docstudio database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		pgt.Cleanup()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	result, err := newBunDB(sqlDB, pgdialect.New(), "ephemeral")
	if err != nil {
		pgt.Cleanup()
		return nil, err
	}
	result.server = pgt
	return result, nil
}
