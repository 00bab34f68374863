package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// UpsertRating records a user's rating on a resource.
// A second rating from the same user replaces the first and resets moderation.
func (db *DB) UpsertRating(ctx context.Context, r *Rating) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := nowRFC3339()
	if r.CreatedAt == "" {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	query := `
		INSERT INTO ratings (id, resource_id, user_id, stars, comment, is_approved, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(resource_id, user_id) DO UPDATE SET
			stars = excluded.stars,
			comment = excluded.comment,
			is_approved = excluded.is_approved,
			updated_at = excluded.updated_at
	`
	_, err := db.conn.ExecContext(ctx, query,
		r.ID, r.ResourceID, r.UserID, r.Stars,
		nullableString(r.Comment), r.IsApproved, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

// ListApprovedRatings retrieves approved ratings for a resource, newest first.
func (db *DB) ListApprovedRatings(ctx context.Context, resourceID string) ([]*Rating, error) {
	query := `
		SELECT id, resource_id, user_id, stars, comment, is_approved, created_at, updated_at
		FROM ratings
		WHERE resource_id = ? AND is_approved = 1
		ORDER BY created_at DESC
	`
	rows, err := db.conn.QueryContext(ctx, query, resourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ratings []*Rating
	for rows.Next() {
		var r Rating
		var comment sql.NullString
		if err := rows.Scan(&r.ID, &r.ResourceID, &r.UserID, &r.Stars, &comment, &r.IsApproved, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		r.Comment = stringPtr(comment)
		ratings = append(ratings, &r)
	}
	return ratings, rows.Err()
}
