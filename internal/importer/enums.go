package importer

import "strings"

// Valid enum values for resource rows. Unknown values are validation errors.
var (
	validResourceTypes = []string{
		"lesson_plan", "slides", "worksheet", "project_brief",
		"video", "quiz", "guide", "interactive", "podcast",
	}

	validLevels = []string{
		"primary", "junior_cycle", "transition_year",
		"senior_cycle", "lca", "adult_community",
	}

	validReviewStatuses = []string{"pending", "approved", "needs_changes", "rejected"}
)

// providerTypeMapping maps free-text provider type strings to the
// provider_type enum. Unlike resource enums, unrecognized types fall back to
// "independent" instead of failing the row: provider type is lower-stakes
// metadata and the source feeds use wildly inconsistent labels.
var providerTypeMapping = map[string]string{
	"government body":       "government",
	"government service":    "government",
	"government/regulatory": "government",
	"government department": "government",
	"government/education":  "government",
	"education sector":      "community",
	"independent/ngo":       "independent",
	"independent/charity":   "independent",
	"charity":               "community",
	"commercial bank":       "independent",
	"industry body":         "independent",
	"credit union sector":   "community",
	"international":         "international",
	"european/regulatory":   "international",
	"international (uk)":    "international",
	"international (usa)":   "international",
}

const defaultProviderType = "independent"

// normalizeEnumToken lower-cases, trims, and collapses internal whitespace
// runs to a single underscore, so "Lesson Plan" matches "lesson_plan".
// Hyphenated or otherwise misspelled variants are not auto-corrected.
func normalizeEnumToken(s string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	return strings.Join(fields, "_")
}

// checkEnum reports whether the normalized value belongs to the enum.
// This is the strict policy used by the resource importer.
func checkEnum(normalized string, valid []string) bool {
	for _, v := range valid {
		if v == normalized {
			return true
		}
	}
	return false
}

// mapProviderType resolves a free-text provider type through the mapping
// table, falling back to "independent". This is the lenient policy used by
// the provider importer; it is intentionally not unified with checkEnum.
func mapProviderType(raw string) string {
	if mapped, ok := providerTypeMapping[strings.ToLower(raw)]; ok {
		return mapped
	}
	return defaultProviderType
}
