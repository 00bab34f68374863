package importer

import (
	"errors"
	"strings"
)

// ParseProviderCSV parses spreadsheet-exported provider data into rows.
// Fields may be quoted, with doubled quotes as the escape; quoted fields may
// contain commas. Records never span lines, which keeps the format
// paste-friendly and matches what Google Sheets exports for this data.
// Columns are matched by header name; only "name" is required. Data rows with
// a blank name are dropped silently.
func ParseProviderCSV(csvText string) ([]ProviderRow, error) {
	lines := strings.Split(strings.TrimSpace(csvText), "\n")
	if len(lines) < 2 {
		return nil, errors.New("CSV must have a header row and at least one data row")
	}

	headers := parseCSVLine(strings.TrimSuffix(lines[0], "\r"))
	for i, h := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	columnIndex := func(names ...string) int {
		for i, h := range headers {
			for _, name := range names {
				if h == name {
					return i
				}
			}
		}
		return -1
	}

	nameIdx := columnIndex("name")
	if nameIdx == -1 {
		return nil, errors.New(`CSV must have a "name" column`)
	}

	typeIdx := columnIndex("type")
	websiteIdx := columnIndex("website")
	descriptionIdx := columnIndex("description")
	audienceIdx := columnIndex("targetaudience", "target_audience", "target audience")

	field := func(values []string, idx int) string {
		if idx < 0 || idx >= len(values) {
			return ""
		}
		return strings.TrimSpace(values[idx])
	}

	var rows []ProviderRow
	for _, line := range lines[1:] {
		values := parseCSVLine(strings.TrimSuffix(line, "\r"))
		if field(values, nameIdx) == "" {
			continue
		}

		row := ProviderRow{
			Name:        field(values, nameIdx),
			Type:        field(values, typeIdx),
			Website:     field(values, websiteIdx),
			Description: field(values, descriptionIdx),
		}
		if audience := field(values, audienceIdx); audience != "" {
			row.TargetAudience = FlexFromString(audience)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// parseCSVLine splits one record on commas outside quotes. A doubled quote
// inside a quoted field yields a literal quote.
func parseCSVLine(line string) []string {
	var result []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			result = append(result, current.String())
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	result = append(result, current.String())

	return result
}
