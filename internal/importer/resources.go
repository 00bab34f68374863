package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/flithub-ie/flithub-go/internal/logger"
	"github.com/flithub-ie/flithub-go/internal/storage"
)

// ResourceImporter runs resource import batches against a store.
type ResourceImporter struct {
	store   Store
	log     *logger.Logger
	metrics MetricsRecorder
}

// NewResourceImporter builds a resource importer. metrics may be nil.
func NewResourceImporter(store Store, log *logger.Logger, metrics MetricsRecorder) *ResourceImporter {
	return &ResourceImporter{
		store:   store,
		log:     log.WithModule("importer.resources"),
		metrics: metrics,
	}
}

// Run processes a batch of rows under the given mode. Rows are handled
// sequentially and independently; a row failure never aborts the batch. A
// non-nil error is returned only when the reference data cannot be loaded,
// in which case no row was processed.
func (imp *ResourceImporter) Run(ctx context.Context, mode Mode, rows []ResourceRow) (*Result, error) {
	start := time.Now()

	providers, existing, err := imp.loadRefs(ctx)
	if err != nil {
		return nil, err
	}

	imp.log.WithFields(map[string]any{
		"rows":      len(rows),
		"mode":      string(mode),
		"providers": len(providers),
		"existing":  len(existing),
	}).Info("starting resource import")

	result := newResult(len(rows))

	for i := range rows {
		row := &rows[i]
		rowNumber := i + 1

		titleForLog := strings.TrimSpace(row.Title)
		if titleForLog == "" {
			titleForLog = fmt.Sprintf("Row %d", rowNumber)
		}

		if errs := validateResource(row, providers); len(errs) > 0 {
			result.addError(titleForLog, rowNumber, errs)
			imp.recordRow("error")
			imp.log.WithField("row", rowNumber).Warn("validation failed: " + strings.Join(errs, ", "))
			continue
		}

		normalizedTitle := strings.ToLower(strings.TrimSpace(row.Title))
		ref, exists := existing[normalizedTitle]

		if exists {
			if mode == ModeInsert {
				result.addSkipped(row.Title, "Already exists (insert mode)")
				imp.recordRow("skipped")
				continue
			}

			transformed := transformResource(row, providers)
			if err := imp.store.UpdateResource(ctx, ref.ID, transformed); err != nil {
				result.addError(row.Title, rowNumber, []string{err.Error()})
				imp.recordRow("error")
				imp.log.WithError(err).WithField("row", rowNumber).Error("update failed")
				continue
			}
			result.addUpdated(row.Title)
			imp.recordRow("updated")
			continue
		}

		transformed := transformResource(row, providers)
		if err := imp.store.InsertResource(ctx, transformed); err != nil {
			result.addError(row.Title, rowNumber, []string{err.Error()})
			imp.recordRow("error")
			imp.log.WithError(err).WithField("row", rowNumber).Error("insert failed")
			continue
		}
		result.addInserted(row.Title)
		imp.recordRow("inserted")

		// Later duplicates of this title within the batch reconcile against
		// the record just written: skipped in insert mode, updated in upsert
		// mode. InsertResource fills the id before returning.
		existing[normalizedTitle] = storage.ResourceRef{
			ID:         transformed.ID,
			Title:      row.Title,
			ProviderID: transformed.ProviderID,
		}
	}

	if imp.metrics != nil {
		imp.metrics.RecordImportBatch("resources", string(mode), time.Since(start).Seconds())
	}

	imp.log.WithFields(map[string]any{
		"inserted": result.Summary.Inserted,
		"updated":  result.Summary.Updated,
		"skipped":  result.Summary.Skipped,
		"errors":   result.Summary.Errors,
	}).Info("resource import complete")

	return result, nil
}

// Prepare validates and transforms a single row outside a batch, for the
// admin create/update endpoints. A non-empty messages slice means the row
// failed validation; a non-nil error means the provider lookup could not be
// loaded.
func (imp *ResourceImporter) Prepare(ctx context.Context, row *ResourceRow) (*storage.Resource, []string, error) {
	refs, err := imp.store.SelectProviderRefs(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch providers: %w", err)
	}

	providers := make(map[string]string, len(refs))
	for _, p := range refs {
		providers[strings.ToLower(strings.TrimSpace(p.Name))] = p.ID
	}

	if errs := validateResource(row, providers); len(errs) > 0 {
		return nil, errs, nil
	}
	return transformResource(row, providers), nil, nil
}

// loadRefs fetches the provider lookup map and the existing-resource index
// concurrently. Either failure is fatal for the batch.
func (imp *ResourceImporter) loadRefs(ctx context.Context) (map[string]string, map[string]storage.ResourceRef, error) {
	var (
		providerRefs []storage.ProviderRef
		resourceRefs []storage.ResourceRef
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		refs, err := imp.store.SelectProviderRefs(gctx)
		if err != nil {
			return fmt.Errorf("fetch providers: %w", err)
		}
		providerRefs = refs
		return nil
	})
	g.Go(func() error {
		refs, err := imp.store.SelectResourceRefs(gctx)
		if err != nil {
			return fmt.Errorf("fetch existing resources: %w", err)
		}
		resourceRefs = refs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	providers := make(map[string]string, len(providerRefs))
	for _, p := range providerRefs {
		providers[strings.ToLower(strings.TrimSpace(p.Name))] = p.ID
	}

	existing := make(map[string]storage.ResourceRef, len(resourceRefs))
	for _, r := range resourceRefs {
		existing[strings.ToLower(strings.TrimSpace(r.Title))] = r
	}

	return providers, existing, nil
}

func (imp *ResourceImporter) recordRow(outcome string) {
	if imp.metrics != nil {
		imp.metrics.RecordImportRow("resources", outcome)
	}
}
