package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestExporter_Export(t *testing.T) {
	c := NewInMemoryCache(3600, 0)
	c.Set("h2:ru:en", `{"translation":"hello"}`)
	c.Set("h1:en:ru", `{"translation":"привет"}`)

	exporter := NewExporter(c)
	exporter.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	var buf bytes.Buffer

	n, err := exporter.Export(&buf, map[string]string{"model": "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Export returned %d, want 2", n)
	}

	var export ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &export); err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}

	if export.Version != ExportVersion {
		t.Errorf("Expected version %s, got %s", ExportVersion, export.Version)
	}
	if export.ExportedAt != "2026-03-01T12:00:00Z" {
		t.Errorf("ExportedAt = %s", export.ExportedAt)
	}
	if len(export.Entries) != 2 || export.Entries[0].Key != "h1:en:ru" {
		t.Errorf("entries should be sorted by key, got %+v", export.Entries)
	}
	if export.Metadata["model"] != "gpt-4o-mini" {
		t.Errorf("Expected metadata model, got %v", export.Metadata)
	}
}

// plainCache cannot list its entries.
type plainCache struct{}

func (plainCache) Get(string) (string, bool) { return "", false }
func (plainCache) Set(string, string) error  { return nil }

func TestExporter_RequiresLister(t *testing.T) {
	_, err := NewExporter(plainCache{}).Export(&bytes.Buffer{}, nil)
	if err == nil {
		t.Error("expected error for a cache without Entries")
	}
}

func TestImporter_Import(t *testing.T) {
	jsonData := `{
		"version": "gotdir/1",
		"exported_at": "2026-01-01T00:00:00Z",
		"entries": [
			{"key": "h1:en:ru", "value": "v1"},
			{"key": "h2:ru:en", "value": "v2"},
			{"key": "", "value": "orphan"}
		],
		"metadata": {"model": "gpt-4o-mini"}
	}`

	c := NewInMemoryCache(3600, 0)
	result, err := NewImporter(c).Import(strings.NewReader(jsonData))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Imported != 2 || result.Failed != 1 {
		t.Errorf("Imported/Failed = %d/%d, want 2/1", result.Imported, result.Failed)
	}
	if val, ok := c.Get("h1:en:ru"); !ok || val != "v1" {
		t.Errorf("h1:en:ru not found or wrong value: %s", val)
	}
	if result.Metadata["model"] != "gpt-4o-mini" {
		t.Errorf("metadata not returned: %v", result.Metadata)
	}
}

// failingSetCache rejects every write.
type failingSetCache struct{ plainCache }

func (failingSetCache) Set(string, string) error { return errors.New("read only") }

func TestImporter_CountsFailures(t *testing.T) {
	data := `{"version":"gotdir/1","entries":[{"key":"a","value":"1"}]}`
	result, err := NewImporter(failingSetCache{}).Import(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Failed != 1 || result.Imported != 0 {
		t.Errorf("got %+v", result)
	}
}

func TestImporter_RejectsForeignVersion(t *testing.T) {
	_, err := NewImporter(NewInMemoryCache(0, 0)).Import(strings.NewReader(`{"version":"1.0","entries":[]}`))
	if err == nil {
		t.Error("expected version error")
	}
}

func TestImporter_InvalidJSON(t *testing.T) {
	_, err := NewImporter(NewInMemoryCache(0, 0)).Import(strings.NewReader("invalid json"))
	if err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestExportImport_FileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	src := NewInMemoryCache(3600, 0)
	src.Set("h1:en:ru", "привет")
	src.Set("h2:ru:en", "hello")

	if _, err := NewExporter(src).ExportToFile(path, nil); err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be gone")
	}

	dst := NewInMemoryCache(3600, 0)
	result, err := NewImporter(dst).ImportFromFile(path)
	if err != nil {
		t.Fatalf("ImportFromFile failed: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("Expected 2 imported, got %d", result.Imported)
	}
	if val, ok := dst.Get("h1:en:ru"); !ok || val != "привет" {
		t.Errorf("h1:en:ru not found or wrong value")
	}
}

func TestImporter_MissingFile(t *testing.T) {
	result, err := NewImporter(NewInMemoryCache(0, 0)).ImportFromFile(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if result.Imported != 0 {
		t.Errorf("Imported = %d", result.Imported)
	}
}

func TestExporter_EmptyCache(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewExporter(NewInMemoryCache(3600, 0)).Export(&buf, nil)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var export ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &export); err != nil {
		t.Fatal(err)
	}
	if n != 0 || len(export.Entries) != 0 {
		t.Errorf("Expected 0 entries for empty cache, got %d", len(export.Entries))
	}
}
