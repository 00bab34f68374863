package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// nowRFC3339 returns the current UTC time in RFC3339, the timestamp format
// used for all created_at/updated_at columns.
func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// encodeList serializes a string slice as JSON text for storage.
// Nil and empty slices are stored as NULL.
func encodeList(values []string) (sql.NullString, error) {
	if len(values) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode list: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// decodeList deserializes a JSON text column into a string slice.
func decodeList(value sql.NullString) ([]string, error) {
	if !value.Valid || value.String == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(value.String), &values); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	return values, nil
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// InsertProvider inserts a new provider record.
// Missing ID and timestamps are filled in.
func (db *DB) InsertProvider(ctx context.Context, p *Provider) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := nowRFC3339()
	if p.CreatedAt == "" {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	audience, err := encodeList(p.TargetAudience)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO providers (id, name, country, provider_type, description, target_audience, website_url, logo_url, is_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = db.conn.ExecContext(ctx, query,
		p.ID, p.Name, p.Country, p.ProviderType,
		nullableString(p.Description), audience,
		nullableString(p.WebsiteURL), nullableString(p.LogoURL),
		p.IsVerified, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert provider: %w", err)
	}
	return nil
}

// GetProviderByID retrieves a provider by ID.
// Returns nil when no provider matches.
func (db *DB) GetProviderByID(ctx context.Context, id string) (*Provider, error) {
	query := `
		SELECT id, name, country, provider_type, description, target_audience, website_url, logo_url, is_verified, created_at, updated_at
		FROM providers WHERE id = ?
	`
	p, err := scanProvider(db.conn.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query provider: %w", err)
	}
	return p, nil
}

// ListProviders retrieves all providers ordered by name.
func (db *DB) ListProviders(ctx context.Context) ([]*Provider, error) {
	query := `
		SELECT id, name, country, provider_type, description, target_audience, website_url, logo_url, is_verified, created_at, updated_at
		FROM providers ORDER BY name COLLATE NOCASE
	`
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query providers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var providers []*Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

// SelectProviderRefs retrieves all providers as (id, name) pairs.
// The import pipeline builds its name lookup from this in one query.
func (db *DB) SelectProviderRefs(ctx context.Context) ([]ProviderRef, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, name FROM providers`)
	if err != nil {
		return nil, fmt.Errorf("failed to query provider refs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var refs []ProviderRef
	for rows.Next() {
		var ref ProviderRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("failed to scan provider ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// CountProviders returns the number of provider records.
func (db *DB) CountProviders(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM providers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count providers: %w", err)
	}
	return count, nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan helpers
type scanner interface {
	Scan(dest ...any) error
}

func scanProvider(row scanner) (*Provider, error) {
	var p Provider
	var description, audience, website, logo sql.NullString
	err := row.Scan(
		&p.ID, &p.Name, &p.Country, &p.ProviderType,
		&description, &audience, &website, &logo,
		&p.IsVerified, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Description = stringPtr(description)
	p.WebsiteURL = stringPtr(website)
	p.LogoURL = stringPtr(logo)
	p.TargetAudience, err = decodeList(audience)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
