package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// runMigrations runs all Bun migrations
func (b *BunDB) runMigrations(ctx context.Context) error {
	// Create a simple migrations tracking table
	_, err := b.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS bun_schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Check which migrations have been applied
	type AppliedMigration struct {
		bun.BaseModel `bun:"table:bun_schema_migrations"`
		Version       string `bun:"version,pk"`
	}
	var applied []AppliedMigration
	err = b.db.NewSelect().
		Model(&applied).
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("failed to check applied migrations: %w", err)
	}

	appliedMap := make(map[string]bool)
	for _, m := range applied {
		appliedMap[m.Version] = true
	}

	// Run migrations in order
	migrations := []struct {
		version string
		name    string
		up      func(context.Context, *bun.DB, bool) error
	}{
		{"001", "create_documents_table", init001CreateDocumentsTable},
		{"002", "create_server_config_table", init002CreateServerConfigTable},
		{"003", "add_document_preview", init003AddDocumentPreview},
	}

	for _, m := range migrations {
		if appliedMap[m.version] {
			continue
		}

		Logger.Info("Running migration", "version", m.version, "name", m.name)
		if err := m.up(ctx, b.db, b.isPostgres()); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", m.version, err)
		}

		// Mark as applied
		_, err = b.db.NewInsert().
			Model(&AppliedMigration{Version: m.version}).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to mark migration %s as applied: %w", m.version, err)
		}
	}

	Logger.Info("All migrations completed successfully")
	return nil
}

// Migration 001: collection documents
func init001CreateDocumentsTable(ctx context.Context, db *bun.DB, isPostgres bool) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if isPostgres {
		idColumn = "id SERIAL PRIMARY KEY"
	}
	_, err := db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS documents (
			%s,
			ulid TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			blob_key TEXT NOT NULL UNIQUE,
			content_type TEXT NOT NULL,
			size BIGINT NOT NULL DEFAULT 0,
			page_count INTEGER NOT NULL DEFAULT 0,
			hash TEXT NOT NULL,
			workspace TEXT,
			added_time TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`, idColumn))
	if err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}

	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_documents_hash ON documents(hash)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_added_time ON documents(added_time)`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// Migration 002: persisted server settings, a single row with id 1
func init002CreateServerConfigTable(ctx context.Context, db *bun.DB, isPostgres bool) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS server_config (
			id INTEGER PRIMARY KEY,
			listen_addr_ip TEXT NOT NULL DEFAULT '',
			listen_addr_port TEXT NOT NULL DEFAULT '8000',
			storage_url TEXT NOT NULL DEFAULT '',
			renderer TEXT NOT NULL DEFAULT 'pdfium',
			render_dpi INTEGER NOT NULL DEFAULT 150,
			render_width INTEGER NOT NULL DEFAULT 1024,
			workspace_ttl INTEGER NOT NULL DEFAULT 60,
			workspace_sweep_interval INTEGER NOT NULL DEFAULT 5,
			max_upload_mb INTEGER NOT NULL DEFAULT 64,
			use_reverse_proxy BOOLEAN NOT NULL DEFAULT FALSE,
			base_url TEXT NOT NULL DEFAULT '',
			server_api_url TEXT NOT NULL DEFAULT '',
			render_failure_policy TEXT NOT NULL DEFAULT 'abort',
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create server_config table: %w", err)
	}

	// Insert default config row
	_, err = db.ExecContext(ctx, `INSERT INTO server_config (id) VALUES (1) ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to insert default config: %w", err)
	}
	return nil
}

// Migration 003: first page thumbnails for listings
func init003AddDocumentPreview(ctx context.Context, db *bun.DB, isPostgres bool) error {
	columnType := "BLOB"
	if isPostgres {
		columnType = "BYTEA"
	}
	if _, err := db.ExecContext(ctx, "ALTER TABLE documents ADD COLUMN preview "+columnType); err != nil {
		return fmt.Errorf("failed to add preview column: %w", err)
	}
	return nil
}
