package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	if m.ImportRowsTotal == nil {
		t.Error("ImportRowsTotal not initialized")
	}
	if m.ImportBatchesTotal == nil {
		t.Error("ImportBatchesTotal not initialized")
	}
	if m.ImportDurationSeconds == nil {
		t.Error("ImportDurationSeconds not initialized")
	}
	if m.HTTPErrorsTotal == nil {
		t.Error("HTTPErrorsTotal not initialized")
	}
	if m.AuthFailuresTotal == nil {
		t.Error("AuthFailuresTotal not initialized")
	}
}

func TestRecordImportRow(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordImportRow("resources", "inserted")
	m.RecordImportRow("resources", "inserted")
	m.RecordImportRow("resources", "skipped")
	m.RecordImportRow("providers", "error")

	if got := testutil.ToFloat64(m.ImportRowsTotal.WithLabelValues("resources", "inserted")); got != 2 {
		t.Errorf("Expected 2 inserted rows, got %v", got)
	}
	if got := testutil.ToFloat64(m.ImportRowsTotal.WithLabelValues("resources", "skipped")); got != 1 {
		t.Errorf("Expected 1 skipped row, got %v", got)
	}
	if got := testutil.ToFloat64(m.ImportRowsTotal.WithLabelValues("providers", "error")); got != 1 {
		t.Errorf("Expected 1 provider error row, got %v", got)
	}
}

func TestRecordImportBatch(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordImportBatch("resources", "upsert", 0.42)

	if got := testutil.ToFloat64(m.ImportBatchesTotal.WithLabelValues("resources", "upsert")); got != 1 {
		t.Errorf("Expected 1 batch, got %v", got)
	}
}

func TestRecordAuthFailure(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordAuthFailure("not_admin")

	if got := testutil.ToFloat64(m.AuthFailuresTotal.WithLabelValues("not_admin")); got != 1 {
		t.Errorf("Expected 1 auth failure, got %v", got)
	}
}
