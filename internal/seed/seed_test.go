package seed

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ranfysvalle02/bridgebase/internal/docstore"
	"github.com/ranfysvalle02/bridgebase/internal/relstore"
)

func testStores(t *testing.T) (*docstore.Store, relstore.Store) {
	t.Helper()
	dir := t.TempDir()

	docs, err := docstore.Open(filepath.Join(dir, "docs"))
	if err != nil {
		t.Fatalf("failed to open document store: %v", err)
	}
	t.Cleanup(func() { docs.Close() })

	rel, err := relstore.Open(context.Background(), relstore.Config{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(dir, "rel.db"),
	})
	if err != nil {
		t.Fatalf("failed to open relational store: %v", err)
	}
	t.Cleanup(func() { rel.Close() })
	return docs, rel
}

func TestGenerateShapesRecords(t *testing.T) {
	cfg := Config{Records: 200, Seed: 7}
	records := generate(cfg)
	if len(records) != 200 {
		t.Fatalf("expected 200 records, got %d", len(records))
	}
	for i, rec := range records {
		if len(rec.Name) != 7 {
			t.Fatalf("record %d: name %q is not 7 characters", i, rec.Name)
		}
		for _, c := range rec.Name {
			if c < 'a' || c > 'z' {
				t.Fatalf("record %d: name %q is not lowercase ascii", i, rec.Name)
			}
		}
		if rec.Age < 18 || rec.Age > 90 {
			t.Fatalf("record %d: age %d out of range", i, rec.Age)
		}
	}
}

func TestGenerateIsDeterministicWithSeed(t *testing.T) {
	cfg := Config{Records: 50, Seed: 42}
	if !reflect.DeepEqual(generate(cfg), generate(cfg)) {
		t.Fatal("expected identical datasets for identical seeds")
	}
}

func TestRunSeedsBothStores(t *testing.T) {
	docs, rel := testStores(t)
	cfg := Config{Collection: "users", Records: 250, BatchSize: 100, Workers: 3, Seed: 42}

	report, err := Run(context.Background(), cfg, docs, rel)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if report.Records != 250 {
		t.Fatalf("expected 250 records in report, got %d", report.Records)
	}
	if report.Batches != 3 {
		t.Fatalf("expected 3 relational batches, got %d", report.Batches)
	}

	docCount, relCount, err := Status(context.Background(), "users", docs, rel)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if docCount != 250 || relCount != 250 {
		t.Fatalf("expected 250/250 records, got %d/%d", docCount, relCount)
	}
}

func TestRunInstallsSchema(t *testing.T) {
	docs, rel := testStores(t)
	cfg := Config{Records: 10, BatchSize: 10, Seed: 1}
	if _, err := Run(context.Background(), cfg, docs, rel); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	col, err := docs.Collection("users")
	if err != nil {
		t.Fatalf("failed to look up collection: %v", err)
	}
	_, err = col.Insert(docstore.Document{"name": 123, "age": 30})
	if !errors.Is(err, docstore.ErrSchemaViolation) {
		t.Fatalf("expected schema violation, got %v", err)
	}
}

func TestRunReplacesExistingData(t *testing.T) {
	docs, rel := testStores(t)
	cfg := Config{Records: 120, BatchSize: 50, Workers: 2, Seed: 9}

	for i := 0; i < 2; i++ {
		if _, err := Run(context.Background(), cfg, docs, rel); err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
	}

	docCount, relCount, err := Status(context.Background(), "users", docs, rel)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if docCount != 120 || relCount != 120 {
		t.Fatalf("expected reseed to replace data, got %d/%d", docCount, relCount)
	}
}

func TestRunRejectsNonPositiveRecordCount(t *testing.T) {
	docs, rel := testStores(t)
	if _, err := Run(context.Background(), Config{Records: 0}, docs, rel); err == nil {
		t.Fatal("expected an error for zero records")
	}
}

func TestClearEmptiesBothStores(t *testing.T) {
	docs, rel := testStores(t)
	cfg := Config{Records: 40, BatchSize: 20, Seed: 3}
	if _, err := Run(context.Background(), cfg, docs, rel); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if err := Clear(context.Background(), "users", docs, rel); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	col, err := docs.Collection("users")
	if err != nil {
		t.Fatalf("failed to look up collection: %v", err)
	}
	if col.Count() != 0 {
		t.Fatalf("expected empty collection, got %d documents", col.Count())
	}
	if _, err := rel.Query(context.Background(), "SELECT COUNT(*) FROM users"); err == nil {
		t.Fatal("expected query against dropped table to fail")
	}
}
