package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flithub-ie/flithub-go/internal/logger"
	"github.com/flithub-ie/flithub-go/internal/storage"
)

// ProviderImporter runs provider import batches against a store. Providers
// are insert-only: an existing name is skipped, never updated.
type ProviderImporter struct {
	store   Store
	log     *logger.Logger
	metrics MetricsRecorder
}

// NewProviderImporter builds a provider importer. metrics may be nil.
func NewProviderImporter(store Store, log *logger.Logger, metrics MetricsRecorder) *ProviderImporter {
	return &ProviderImporter{
		store:   store,
		log:     log.WithModule("importer.providers"),
		metrics: metrics,
	}
}

// Run processes a batch of provider rows. A non-nil error means the existing
// names could not be loaded and nothing was processed.
func (imp *ProviderImporter) Run(ctx context.Context, rows []ProviderRow) (*ProviderResult, error) {
	start := time.Now()

	refs, err := imp.store.SelectProviderRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch existing providers: %w", err)
	}

	existingNames := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		existingNames[strings.ToLower(strings.TrimSpace(ref.Name))] = struct{}{}
	}

	imp.log.WithFields(map[string]any{
		"rows":     len(rows),
		"existing": len(existingNames),
	}).Info("starting provider import")

	result := &ProviderResult{
		Imported: []string{},
		Skipped:  []ProviderSkip{},
		Errors:   []ProviderError{},
	}

	for i := range rows {
		row := &rows[i]

		if strings.TrimSpace(row.Name) == "" {
			result.Errors = append(result.Errors, ProviderError{Name: "Unknown", Error: "Missing name"})
			imp.recordRow("error")
			continue
		}

		normalized := strings.ToLower(strings.TrimSpace(row.Name))
		if _, ok := existingNames[normalized]; ok {
			result.Skipped = append(result.Skipped, ProviderSkip{Name: row.Name, Reason: "Already exists"})
			imp.recordRow("skipped")
			continue
		}

		provider := transformProvider(row)
		if err := imp.store.InsertProvider(ctx, provider); err != nil {
			result.Errors = append(result.Errors, ProviderError{Name: row.Name, Error: err.Error()})
			imp.recordRow("error")
			imp.log.WithError(err).WithField("name", row.Name).Error("insert failed")
			continue
		}

		result.Imported = append(result.Imported, row.Name)
		imp.recordRow("inserted")

		// Guard against duplicate names within the same batch
		existingNames[normalized] = struct{}{}
	}

	if imp.metrics != nil {
		imp.metrics.RecordImportBatch("providers", string(ModeInsert), time.Since(start).Seconds())
	}

	imp.log.WithFields(map[string]any{
		"imported": len(result.Imported),
		"skipped":  len(result.Skipped),
		"errors":   len(result.Errors),
	}).Info("provider import complete")

	return result, nil
}

func transformProvider(row *ProviderRow) *storage.Provider {
	var website *string
	if trimmed := strings.TrimSpace(row.Website); trimmed != "" {
		website = &trimmed
	}

	var description *string
	if trimmed := strings.TrimSpace(row.Description); trimmed != "" {
		description = &trimmed
	}

	audience := row.TargetAudience.Values(",")
	if len(audience) == 0 {
		audience = nil
	}

	return &storage.Provider{
		Name:           strings.TrimSpace(row.Name),
		ProviderType:   mapProviderType(row.Type),
		WebsiteURL:     website,
		Description:    description,
		TargetAudience: audience,
		IsVerified:     false,
		Country:        "Ireland",
	}
}

func (imp *ProviderImporter) recordRow(outcome string) {
	if imp.metrics != nil {
		imp.metrics.RecordImportRow("providers", outcome)
	}
}
