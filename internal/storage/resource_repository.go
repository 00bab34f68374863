package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const resourceColumns = `id, title, description, learning_outcomes, duration_minutes, levels, segments, topics,
	resource_type, curriculum_tags, external_url, provider_id, submitted_by, review_status, review_notes,
	reviewed_by, reviewed_at, is_featured, view_count, download_count, created_at, updated_at`

// InsertResource inserts a new resource record.
// Missing ID and timestamps are filled in.
func (db *DB) InsertResource(ctx context.Context, r *Resource) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := nowRFC3339()
	if r.CreatedAt == "" {
		r.CreatedAt = now
	}
	if r.UpdatedAt == "" {
		r.UpdatedAt = now
	}
	if r.ReviewStatus == "" {
		r.ReviewStatus = "pending"
	}

	outcomes, levels, segments, topics, tags, err := encodeResourceLists(r)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO resources (` + resourceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = db.conn.ExecContext(ctx, query,
		r.ID, r.Title, r.Description, outcomes, nullableInt(r.DurationMinutes),
		levels, segments, topics, r.ResourceType, tags,
		nullableString(r.ExternalURL), nullableString(r.ProviderID), nullableString(r.SubmittedBy),
		r.ReviewStatus, nullableString(r.ReviewNotes), nullableString(r.ReviewedBy), nullableString(r.ReviewedAt),
		r.IsFeatured, r.ViewCount, r.DownloadCount, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert resource: %w", err)
	}
	return nil
}

// UpdateResource overwrites the content fields of an existing resource.
// Review bookkeeping (submitted_by, reviewed_*) and counters are not touched;
// updated_at is taken from the caller so import stamping is preserved.
func (db *DB) UpdateResource(ctx context.Context, id string, r *Resource) error {
	if r.UpdatedAt == "" {
		r.UpdatedAt = nowRFC3339()
	}

	outcomes, levels, segments, topics, tags, err := encodeResourceLists(r)
	if err != nil {
		return err
	}

	query := `
		UPDATE resources SET
			title = ?, description = ?, learning_outcomes = ?, duration_minutes = ?,
			levels = ?, segments = ?, topics = ?, resource_type = ?, curriculum_tags = ?,
			external_url = ?, provider_id = ?, review_status = ?, is_featured = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := db.conn.ExecContext(ctx, query,
		r.Title, r.Description, outcomes, nullableInt(r.DurationMinutes),
		levels, segments, topics, r.ResourceType, tags,
		nullableString(r.ExternalURL), nullableString(r.ProviderID),
		r.ReviewStatus, r.IsFeatured, r.UpdatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("failed to update resource %s: no such row", id)
	}
	return nil
}

// SetReviewStatus records a review decision on a resource.
func (db *DB) SetReviewStatus(ctx context.Context, id, status, notes, reviewedBy string) error {
	now := nowRFC3339()
	query := `
		UPDATE resources SET review_status = ?, review_notes = ?, reviewed_by = ?, reviewed_at = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := db.conn.ExecContext(ctx, query, status, notes, reviewedBy, now, now, id)
	if err != nil {
		return fmt.Errorf("failed to set review status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("failed to set review status on %s: no such row", id)
	}
	return nil
}

// IncrementViewCount bumps a resource's view counter.
func (db *DB) IncrementViewCount(ctx context.Context, id string) error {
	_, err := db.conn.ExecContext(ctx, `UPDATE resources SET view_count = view_count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	return nil
}

// GetResourceByID retrieves a resource by ID with its provider joined.
// Returns nil when no resource matches.
func (db *DB) GetResourceByID(ctx context.Context, id string) (*Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = ?`
	r, err := scanResource(db.conn.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query resource: %w", err)
	}

	if err := db.attachProviders(ctx, []*Resource{r}); err != nil {
		return nil, err
	}
	return r, nil
}

// ListResources retrieves approved resources matching the filter, featured
// first then newest. Array-overlap and substring filters are applied in Go:
// array columns are stored as JSON text, and at the directory's scale
// (hundreds of rows) a table scan per request is cheaper than maintaining
// join tables for every facet.
func (db *DB) ListResources(ctx context.Context, filter ResourceFilter) ([]*Resource, error) {
	query := `
		SELECT ` + resourceColumns + ` FROM resources
		WHERE review_status = 'approved'
		ORDER BY is_featured DESC, created_at DESC
	`
	resources, err := db.queryResources(ctx, query)
	if err != nil {
		return nil, err
	}

	filtered := resources[:0]
	for _, r := range resources {
		if matchesFilter(r, filter) {
			filtered = append(filtered, r)
		}
	}

	if err := db.attachProviders(ctx, filtered); err != nil {
		return nil, err
	}
	return filtered, nil
}

// ListFeaturedResources retrieves approved featured resources, newest first.
func (db *DB) ListFeaturedResources(ctx context.Context) ([]*Resource, error) {
	query := `
		SELECT ` + resourceColumns + ` FROM resources
		WHERE review_status = 'approved' AND is_featured = 1
		ORDER BY created_at DESC
	`
	resources, err := db.queryResources(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := db.attachProviders(ctx, resources); err != nil {
		return nil, err
	}
	return resources, nil
}

// ListResourcesByStatus retrieves resources in one review state, newest first.
// Used by the admin review queue.
func (db *DB) ListResourcesByStatus(ctx context.Context, status string) ([]*Resource, error) {
	query := `
		SELECT ` + resourceColumns + ` FROM resources
		WHERE review_status = ?
		ORDER BY created_at DESC
	`
	resources, err := db.queryResources(ctx, query, status)
	if err != nil {
		return nil, err
	}
	if err := db.attachProviders(ctx, resources); err != nil {
		return nil, err
	}
	return resources, nil
}

// SelectResourceRefs retrieves all resources as (id, title, provider_id)
// triples for duplicate detection.
func (db *DB) SelectResourceRefs(ctx context.Context) ([]ResourceRef, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, title, provider_id FROM resources`)
	if err != nil {
		return nil, fmt.Errorf("failed to query resource refs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var refs []ResourceRef
	for rows.Next() {
		var ref ResourceRef
		var providerID sql.NullString
		if err := rows.Scan(&ref.ID, &ref.Title, &providerID); err != nil {
			return nil, fmt.Errorf("failed to scan resource ref: %w", err)
		}
		ref.ProviderID = stringPtr(providerID)
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// CountResources returns the number of resource records.
func (db *DB) CountResources(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM resources`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count resources: %w", err)
	}
	return count, nil
}

func (db *DB) queryResources(ctx context.Context, query string, args ...any) ([]*Resource, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var resources []*Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, r)
	}
	return resources, rows.Err()
}

// attachProviders populates the Provider field on each resource in one query.
func (db *DB) attachProviders(ctx context.Context, resources []*Resource) error {
	ids := make(map[string]bool)
	for _, r := range resources {
		if r.ProviderID != nil {
			ids[*r.ProviderID] = true
		}
	}
	if len(ids) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}

	query := `
		SELECT id, name, country, provider_type, description, target_audience, website_url, logo_url, is_verified, created_at, updated_at
		FROM providers WHERE id IN (` + strings.Join(placeholders, ", ") + `)`
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query joined providers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byID := make(map[string]*Provider)
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return fmt.Errorf("failed to scan joined provider: %w", err)
		}
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, r := range resources {
		if r.ProviderID != nil {
			r.Provider = byID[*r.ProviderID]
		}
	}
	return nil
}

func matchesFilter(r *Resource, f ResourceFilter) bool {
	if f.ProviderID != "" && (r.ProviderID == nil || *r.ProviderID != f.ProviderID) {
		return false
	}
	if len(f.Levels) > 0 && !overlaps(r.Levels, f.Levels) {
		return false
	}
	if len(f.Topics) > 0 && !overlaps(r.Topics, f.Topics) {
		return false
	}
	if len(f.Segments) > 0 && !overlaps(r.Segments, f.Segments) {
		return false
	}
	if len(f.Types) > 0 && !contains(f.Types, r.ResourceType) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.Title), needle) &&
			!strings.Contains(strings.ToLower(r.Description), needle) {
			return false
		}
	}
	return true
}

func overlaps(a, b []string) bool {
	for _, v := range a {
		if contains(b, v) {
			return true
		}
	}
	return false
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func encodeResourceLists(r *Resource) (outcomes, levels, segments, topics, tags sql.NullString, err error) {
	if outcomes, err = encodeList(r.LearningOutcomes); err != nil {
		return
	}
	if levels, err = encodeList(r.Levels); err != nil {
		return
	}
	if segments, err = encodeList(r.Segments); err != nil {
		return
	}
	if topics, err = encodeList(r.Topics); err != nil {
		return
	}
	tags, err = encodeList(r.CurriculumTags)
	return
}

func scanResource(row scanner) (*Resource, error) {
	var r Resource
	var outcomes, levels, segments, topics, tags sql.NullString
	var external, providerID, submittedBy, notes, reviewedBy, reviewedAt sql.NullString
	var duration sql.NullInt64

	err := row.Scan(
		&r.ID, &r.Title, &r.Description, &outcomes, &duration,
		&levels, &segments, &topics, &r.ResourceType, &tags,
		&external, &providerID, &submittedBy, &r.ReviewStatus, &notes,
		&reviewedBy, &reviewedAt, &r.IsFeatured, &r.ViewCount, &r.DownloadCount,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if r.LearningOutcomes, err = decodeList(outcomes); err != nil {
		return nil, err
	}
	if r.Levels, err = decodeList(levels); err != nil {
		return nil, err
	}
	if r.Segments, err = decodeList(segments); err != nil {
		return nil, err
	}
	if r.Topics, err = decodeList(topics); err != nil {
		return nil, err
	}
	if r.CurriculumTags, err = decodeList(tags); err != nil {
		return nil, err
	}

	if duration.Valid {
		d := int(duration.Int64)
		r.DurationMinutes = &d
	}
	r.ExternalURL = stringPtr(external)
	r.ProviderID = stringPtr(providerID)
	r.SubmittedBy = stringPtr(submittedBy)
	r.ReviewNotes = stringPtr(notes)
	r.ReviewedBy = stringPtr(reviewedBy)
	r.ReviewedAt = stringPtr(reviewedAt)

	return &r, nil
}
