// Command export writes the resource catalogue to CSV for spreadsheet
// editing. The column layout round-trips through the import pipeline:
// list fields are comma-joined (pipe for learning outcomes) and the file can
// be re-imported in upsert mode after edits.
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/flithub-ie/flithub-go/internal/config"
	"github.com/flithub-ie/flithub-go/internal/storage"
)

func main() {
	var (
		out      = flag.String("out", "data/resources.csv", "output CSV path")
		dbPath   = flag.String("db", "", "SQLite path (defaults to the configured data dir)")
		compress = flag.Bool("gzip", false, "gzip the output (appends .gz)")
	)
	flag.Parse()

	path := *dbPath
	if path == "" {
		path = config.DefaultSQLitePath()
	}

	db, err := storage.New(path)
	if err != nil {
		log.Fatalf("open database failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	outPath := *out
	if *compress && !strings.HasSuffix(outPath, ".gz") {
		outPath += ".gz"
	}

	n, err := exportResources(ctx, db.Conn(), outPath, *compress)
	if err != nil {
		log.Fatalf("export resources failed: %v", err)
	}

	log.Printf("exported %d resources to %s", n, outPath)
}

func exportResources(ctx context.Context, db *sql.DB, outPath string, compress bool) (int, error) {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, err
		}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var sink io.Writer = f
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(f)
		defer gz.Close()
		sink = gz
	}

	w := csv.NewWriter(sink)
	header := []string{
		"title", "description", "external_url", "resource_type",
		"topics", "levels", "segments", "duration_minutes",
		"learning_outcomes", "curriculum_tags", "provider_name",
		"is_featured", "review_status",
	}
	if err := w.Write(header); err != nil {
		return 0, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT r.title, r.description, r.external_url, r.resource_type,
		       r.topics, r.levels, r.segments, r.duration_minutes,
		       r.learning_outcomes, r.curriculum_tags, p.name,
		       r.is_featured, r.review_status
		FROM resources r
		LEFT JOIN providers p ON p.id = r.provider_id
		ORDER BY r.title COLLATE NOCASE
	`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var (
			title, description, resourceType, reviewStatus     string
			externalURL, providerName                          sql.NullString
			topics, levels, segments, outcomes, curriculumTags sql.NullString
			duration                                           sql.NullInt64
			isFeatured                                         bool
		)
		if err := rows.Scan(
			&title, &description, &externalURL, &resourceType,
			&topics, &levels, &segments, &duration,
			&outcomes, &curriculumTags, &providerName,
			&isFeatured, &reviewStatus,
		); err != nil {
			return count, err
		}

		durationStr := ""
		if duration.Valid {
			durationStr = strconv.FormatInt(duration.Int64, 10)
		}

		featured := ""
		if isFeatured {
			featured = "true"
		}

		record := []string{
			title, description, externalURL.String, resourceType,
			joinJSONList(topics, ","), joinJSONList(levels, ","),
			joinJSONList(segments, ","), durationStr,
			joinJSONList(outcomes, " | "), joinJSONList(curriculumTags, ","),
			providerName.String, featured, reviewStatus,
		}
		if err := w.Write(record); err != nil {
			return count, err
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return count, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return count, err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// joinJSONList flattens a JSON array column to a delimited string.
func joinJSONList(col sql.NullString, sep string) string {
	if !col.Valid || col.String == "" {
		return ""
	}
	var items []string
	if err := json.Unmarshal([]byte(col.String), &items); err != nil {
		return col.String
	}
	return strings.Join(items, sep)
}
