package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
// Note: WAL mode and pragmas are configured in db.go.
func InitSchema(db *sql.DB) error {
	if err := createProvidersTable(db); err != nil {
		return err
	}

	if err := createResourcesTable(db); err != nil {
		return err
	}

	if err := createUserRolesTable(db); err != nil {
		return err
	}

	return createRatingsTable(db)
}

func createProvidersTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS providers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		country TEXT NOT NULL DEFAULT 'Ireland',
		provider_type TEXT CHECK(provider_type IN ('government', 'independent', 'international', 'community')) NOT NULL,
		description TEXT,
		target_audience TEXT,
		website_url TEXT,
		logo_url TEXT,
		is_verified INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_providers_name ON providers(name);
	CREATE INDEX IF NOT EXISTS idx_providers_type ON providers(provider_type);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create providers table: %w", err)
	}

	return nil
}

func createResourcesTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS resources (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		learning_outcomes TEXT,
		duration_minutes INTEGER,
		levels TEXT NOT NULL,
		segments TEXT,
		topics TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		curriculum_tags TEXT,
		external_url TEXT,
		provider_id TEXT REFERENCES providers(id),
		submitted_by TEXT,
		review_status TEXT CHECK(review_status IN ('pending', 'approved', 'needs_changes', 'rejected')) NOT NULL DEFAULT 'pending',
		review_notes TEXT,
		reviewed_by TEXT,
		reviewed_at TEXT,
		is_featured INTEGER NOT NULL DEFAULT 0,
		view_count INTEGER NOT NULL DEFAULT 0,
		download_count INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_resources_title ON resources(title);
	CREATE INDEX IF NOT EXISTS idx_resources_status ON resources(review_status);
	CREATE INDEX IF NOT EXISTS idx_resources_provider ON resources(provider_id);
	CREATE INDEX IF NOT EXISTS idx_resources_featured ON resources(is_featured);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create resources table: %w", err)
	}

	return nil
}

func createUserRolesTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS user_roles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		role TEXT CHECK(role IN ('admin', 'submitter', 'user')) NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(user_id, role)
	);
	CREATE INDEX IF NOT EXISTS idx_user_roles_user ON user_roles(user_id);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create user_roles table: %w", err)
	}

	return nil
}

func createRatingsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS ratings (
		id TEXT PRIMARY KEY,
		resource_id TEXT NOT NULL REFERENCES resources(id),
		user_id TEXT NOT NULL,
		stars INTEGER CHECK(stars BETWEEN 1 AND 5) NOT NULL,
		comment TEXT,
		is_approved INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(resource_id, user_id)
	);
	CREATE INDEX IF NOT EXISTS idx_ratings_resource ON ratings(resource_id);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create ratings table: %w", err)
	}

	return nil
}
