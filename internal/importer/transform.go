package importer

import (
	"strings"
	"time"

	"github.com/flithub-ie/flithub-go/internal/storage"
)

// transformResource converts a row that has passed validation into a
// storable record. Every transform stamps updated_at with the current time,
// including inserts.
func transformResource(row *ResourceRow, providers map[string]string) *storage.Resource {
	// A directly supplied provider_id is used as-is without an existence
	// check; only the name path was validated. Preserved as-is pending a
	// product decision on whether ids should be checked too.
	var providerID *string
	if row.ProviderID != "" {
		id := row.ProviderID
		providerID = &id
	} else if row.ProviderName != "" {
		normalized := strings.ToLower(strings.TrimSpace(row.ProviderName))
		if id, ok := providers[normalized]; ok {
			providerID = &id
		}
	}

	levels := row.Levels.Values(",")
	for i, level := range levels {
		levels[i] = normalizeEnumToken(level)
	}

	var externalURL *string
	if trimmed := strings.TrimSpace(row.ExternalURL); trimmed != "" {
		externalURL = &trimmed
	}

	// Zero is treated as not set, matching the import contract.
	var duration *int
	if n, ok := row.DurationMinutes.Value(); ok && n != 0 {
		d := int(n)
		duration = &d
	}

	reviewStatus := strings.ToLower(strings.TrimSpace(row.ReviewStatus))
	if reviewStatus == "" {
		// Administrative bulk import is assumed pre-vetted unless told otherwise
		reviewStatus = "approved"
	}

	return &storage.Resource{
		Title:            strings.TrimSpace(row.Title),
		Description:      strings.TrimSpace(row.Description),
		ExternalURL:      externalURL,
		ResourceType:     normalizeEnumToken(row.ResourceType),
		Topics:           row.Topics.Values(","),
		Levels:           levels,
		Segments:         row.Segments.Values(","),
		DurationMinutes:  duration,
		LearningOutcomes: row.LearningOutcomes.Values("|"),
		CurriculumTags:   row.CurriculumTags.Values(","),
		ProviderID:       providerID,
		IsFeatured:       row.IsFeatured.True(),
		ReviewStatus:     reviewStatus,
		UpdatedAt:        time.Now().UTC().Format(time.RFC3339),
	}
}
