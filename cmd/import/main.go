// Command import loads resource and provider batches into the local database
// from JSON or CSV files. It runs the same pipelines as the admin API, so
// validation, duplicate handling, and summaries behave identically.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/flithub-ie/flithub-go/internal/config"
	"github.com/flithub-ie/flithub-go/internal/importer"
	"github.com/flithub-ie/flithub-go/internal/logger"
	"github.com/flithub-ie/flithub-go/internal/storage"
)

func main() {
	var (
		resourcesIn = flag.String("resources", "", "input JSON path for resources")
		providersIn = flag.String("providers", "", "input path for providers (.json or .csv)")
		mode        = flag.String("mode", "insert", "duplicate handling: insert or upsert")
		dbPath      = flag.String("db", "", "SQLite path (defaults to the configured data dir)")
	)
	flag.Parse()

	if *resourcesIn == "" && *providersIn == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -resources and/or -providers")
		flag.Usage()
		os.Exit(2)
	}

	importMode := importer.Mode(*mode)
	if importMode != importer.ModeInsert && importMode != importer.ModeUpsert {
		fmt.Fprintf(os.Stderr, "invalid -mode %q: must be insert or upsert\n", *mode)
		os.Exit(2)
	}

	log := logger.New("info")

	path := *dbPath
	if path == "" {
		path = config.DefaultSQLitePath()
	}

	db, err := storage.New(path)
	if err != nil {
		log.WithError(err).Fatal("Failed to open database")
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Providers first so resource rows can resolve them by name
	if *providersIn != "" {
		if err := runProviderImport(ctx, db, log, *providersIn); err != nil {
			log.WithError(err).Fatal("Provider import failed")
		}
	}

	if *resourcesIn != "" {
		if err := runResourceImport(ctx, db, log, *resourcesIn, importMode); err != nil {
			log.WithError(err).Fatal("Resource import failed")
		}
	}
}

func runProviderImport(ctx context.Context, db *storage.DB, log *logger.Logger, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var rows []importer.ProviderRow
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		rows, err = importer.ParseProviderCSV(string(data))
		if err != nil {
			return err
		}
	} else {
		if err := json.Unmarshal(data, &rows); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	result, err := importer.NewProviderImporter(db, log, nil).Run(ctx, rows)
	if err != nil {
		return err
	}

	fmt.Printf("providers: %d imported, %d skipped, %d errors\n",
		len(result.Imported), len(result.Skipped), len(result.Errors))
	printProviderErrors(result)
	return nil
}

func runResourceImport(ctx context.Context, db *storage.DB, log *logger.Logger, path string, mode importer.Mode) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var rows []importer.ResourceRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	result, err := importer.NewResourceImporter(db, log, nil).Run(ctx, mode, rows)
	if err != nil {
		return err
	}

	fmt.Printf("resources: %d inserted, %d updated, %d skipped, %d errors (of %d)\n",
		result.Summary.Inserted, result.Summary.Updated,
		result.Summary.Skipped, result.Summary.Errors, result.Summary.Total)
	printResourceErrors(result)
	return nil
}

func printProviderErrors(result *importer.ProviderResult) {
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", e.Name, e.Error)
	}
}

func printResourceErrors(result *importer.Result) {
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "  row %d (%s): %s\n", e.Row, e.Title, strings.Join(e.Errors, "; "))
	}
}
