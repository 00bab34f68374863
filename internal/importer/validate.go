package importer

import (
	"fmt"
	"net/url"
	"strings"
)

// validateResource checks one row against every rule independently and
// returns all violations at once, so a bulk-upload user sees every problem
// with a row in a single pass instead of fixing them one round-trip at a
// time. An empty slice means the row is valid.
func validateResource(row *ResourceRow, providers map[string]string) []string {
	var errs []string

	// Required fields
	if strings.TrimSpace(row.Title) == "" {
		errs = append(errs, "Missing required field: title")
	}
	if strings.TrimSpace(row.Description) == "" {
		errs = append(errs, "Missing required field: description")
	}
	if strings.TrimSpace(row.ResourceType) == "" {
		errs = append(errs, "Missing required field: resource_type")
	}
	if row.Topics.IsEmpty() {
		errs = append(errs, "Missing required field: topics")
	}
	if row.Levels.IsEmpty() {
		errs = append(errs, "Missing required field: levels")
	}

	// resource_type enum
	if row.ResourceType != "" {
		if normalized := normalizeEnumToken(row.ResourceType); !checkEnum(normalized, validResourceTypes) {
			errs = append(errs, fmt.Sprintf("Invalid resource_type: '%s'. Valid values: %s",
				row.ResourceType, strings.Join(validResourceTypes, ", ")))
		}
	}

	// levels enum, one error per invalid value
	for _, level := range row.Levels.Values(",") {
		if normalized := normalizeEnumToken(level); !checkEnum(normalized, validLevels) {
			errs = append(errs, fmt.Sprintf("Invalid level: '%s'. Valid values: %s",
				level, strings.Join(validLevels, ", ")))
		}
	}

	// review_status enum, when provided
	if row.ReviewStatus != "" {
		if normalized := strings.ToLower(strings.TrimSpace(row.ReviewStatus)); !checkEnum(normalized, validReviewStatuses) {
			errs = append(errs, fmt.Sprintf("Invalid review_status: '%s'. Valid values: %s",
				row.ReviewStatus, strings.Join(validReviewStatuses, ", ")))
		}
	}

	// external_url must be an absolute URL, when provided
	if row.ExternalURL != "" {
		if u, err := url.Parse(row.ExternalURL); err != nil || !u.IsAbs() {
			errs = append(errs, fmt.Sprintf("Invalid external_url: '%s'", row.ExternalURL))
		}
	}

	// A provider referenced by name must exist; a directly supplied
	// provider_id is trusted as-is (see transform).
	if row.ProviderName != "" && row.ProviderID == "" {
		normalized := strings.ToLower(strings.TrimSpace(row.ProviderName))
		if _, ok := providers[normalized]; !ok {
			errs = append(errs, fmt.Sprintf("Provider not found: '%s'", row.ProviderName))
		}
	}

	// duration_minutes must coerce to a non-negative number, when provided
	if row.DurationMinutes.IsSet() {
		if n, ok := row.DurationMinutes.Value(); !ok || n < 0 {
			errs = append(errs, fmt.Sprintf("Invalid duration_minutes: '%s'. Must be a positive number",
				row.DurationMinutes.String()))
		}
	}

	return errs
}
