// Package importer implements the bulk import pipelines for resources and
// providers: row validation, enum normalization, duplicate detection against
// existing records, insert/upsert reconciliation, and summary reporting.
package importer

import (
	"context"

	"github.com/flithub-ie/flithub-go/internal/storage"
)

// Mode controls how duplicate titles are reconciled.
type Mode string

const (
	// ModeInsert skips rows whose title already exists.
	ModeInsert Mode = "insert"

	// ModeUpsert updates existing records in place.
	ModeUpsert Mode = "upsert"
)

// ResourceRow is one candidate resource in an import batch, as submitted.
// List-valued fields accept either arrays or delimited strings; booleans
// accept string tokens. Normalization happens in the transform step.
type ResourceRow struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	ExternalURL      string     `json:"external_url"`
	ResourceType     string     `json:"resource_type"`
	Topics           FlexList   `json:"topics"`
	Levels           FlexList   `json:"levels"`
	Segments         FlexList   `json:"segments"`
	DurationMinutes  FlexNumber `json:"duration_minutes"`
	LearningOutcomes FlexList   `json:"learning_outcomes"`
	CurriculumTags   FlexList   `json:"curriculum_tags"`
	ProviderName     string     `json:"provider_name"`
	ProviderID       string     `json:"provider_id"`
	IsFeatured       FlexBool   `json:"is_featured"`
	ReviewStatus     string     `json:"review_status"`
}

// ProviderRow is one candidate provider in an import batch.
type ProviderRow struct {
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Website        string   `json:"website"`
	Description    string   `json:"description"`
	TargetAudience FlexList `json:"targetAudience"`
}

// SkippedRow records a row that was neither written nor in error.
type SkippedRow struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// RowError records a failed row with every problem found in it.
type RowError struct {
	Title  string   `json:"title"`
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

// Summary carries the numeric totals for a batch.
type Summary struct {
	Total    int `json:"total"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

// Result is the resource import batch response. Every input row lands in
// exactly one of the four outcome bins.
type Result struct {
	Success  bool         `json:"success"`
	Summary  Summary      `json:"summary"`
	Inserted []string     `json:"inserted"`
	Updated  []string     `json:"updated"`
	Skipped  []SkippedRow `json:"skipped"`
	Errors   []RowError   `json:"errors"`
}

func newResult(total int) *Result {
	return &Result{
		Success:  true,
		Summary:  Summary{Total: total},
		Inserted: []string{},
		Updated:  []string{},
		Skipped:  []SkippedRow{},
		Errors:   []RowError{},
	}
}

func (r *Result) addInserted(title string) {
	r.Inserted = append(r.Inserted, title)
	r.Summary.Inserted++
}

func (r *Result) addUpdated(title string) {
	r.Updated = append(r.Updated, title)
	r.Summary.Updated++
}

func (r *Result) addSkipped(title, reason string) {
	r.Skipped = append(r.Skipped, SkippedRow{Title: title, Reason: reason})
	r.Summary.Skipped++
}

func (r *Result) addError(title string, row int, errs []string) {
	r.Errors = append(r.Errors, RowError{Title: title, Row: row, Errors: errs})
	r.Summary.Errors++
}

// ProviderSkip records an already-present provider.
type ProviderSkip struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ProviderError records a failed provider row.
type ProviderError struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// ProviderResult is the provider import batch response.
type ProviderResult struct {
	Imported []string        `json:"imported"`
	Skipped  []ProviderSkip  `json:"skipped"`
	Errors   []ProviderError `json:"errors"`
}

// Store is the persistence surface the import pipelines depend on.
// *storage.DB satisfies it.
type Store interface {
	SelectProviderRefs(ctx context.Context) ([]storage.ProviderRef, error)
	SelectResourceRefs(ctx context.Context) ([]storage.ResourceRef, error)
	InsertResource(ctx context.Context, r *storage.Resource) error
	UpdateResource(ctx context.Context, id string, r *storage.Resource) error
	InsertProvider(ctx context.Context, p *storage.Provider) error
}

// MetricsRecorder counts import outcomes. May be nil.
type MetricsRecorder interface {
	RecordImportRow(pipeline, outcome string)
	RecordImportBatch(pipeline, mode string, seconds float64)
}
