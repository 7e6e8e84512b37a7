package bench

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/ranfysvalle02/bridgebase/internal/docstore"
	"github.com/ranfysvalle02/bridgebase/internal/relstore"
)

// newTestBackends seeds both stores with the same six users so translated
// and native executions are comparable.
func newTestBackends(t *testing.T) (*DocStoreExecutor, *RelStoreExecutor) {
	t.Helper()
	ctx := context.Background()

	docs, err := docstore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("docstore.Open: %v", err)
	}
	t.Cleanup(func() { docs.Close() })

	rel, err := relstore.OpenSQLite(filepath.Join(t.TempDir(), "rel.db"))
	if err != nil {
		t.Fatalf("relstore.OpenSQLite: %v", err)
	}
	t.Cleanup(func() { rel.Close() })

	users := []struct {
		name string
		age  int
	}{
		{"ada", 25},
		{"bob", 31},
		{"cyd", 35},
		{"dot", 40},
		{"eli", 28},
		{"fay", 50},
	}

	col, err := docs.EnsureCollection("users")
	if err != nil {
		t.Fatalf("EnsureCollection: %v", err)
	}
	batch := make([]docstore.Document, 0, len(users))
	for _, u := range users {
		batch = append(batch, docstore.Document{"name": u.name, "age": u.age})
	}
	if _, err := col.InsertBatch(batch); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	if err := rel.Exec(ctx, "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, age INTEGER)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	for _, u := range users {
		stmt := fmt.Sprintf("INSERT INTO users (name, age) VALUES ('%s', %d)", u.name, u.age)
		if err := rel.Exec(ctx, stmt); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	return NewDocStoreExecutor(docs), NewRelStoreExecutor(rel)
}

func TestRunMatchesAcrossBackends(t *testing.T) {
	doc, rel := newTestBackends(t)
	r := NewRunner(doc, rel, nil, nil)
	ctx := context.Background()

	type tc struct {
		name     string
		sql      string
		wantRows int
	}
	tests := []tc{
		{"all", "SELECT * FROM users", 6},
		{"filter gt", "SELECT * FROM users WHERE age > 30", 4},
		{"filter eq string", "SELECT * FROM users WHERE name = 'ada'", 1},
		{"conjunction", "SELECT * FROM users WHERE age > 30 AND age < 45", 3},
		{"projection", "SELECT name FROM users WHERE age < 30", 2},
		{"limit", "SELECT * FROM users LIMIT 2", 2},
		{"limit offset", "SELECT * FROM users WHERE age > 30 LIMIT 2 OFFSET 1", 2},
		{"offset past end", "SELECT * FROM users LIMIT 10 OFFSET 100", 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res, err := r.Run(ctx, test.sql)
			if err != nil {
				t.Fatalf("Run(%q): %v", test.sql, err)
			}
			if res.DocumentStoreRows != test.wantRows {
				t.Errorf("document rows = %d, want %d", res.DocumentStoreRows, test.wantRows)
			}
			if res.RelationalRows != test.wantRows {
				t.Errorf("relational rows = %d, want %d", res.RelationalRows, test.wantRows)
			}
			if res.TotalParallelSeconds < res.DocumentStoreSeconds ||
				res.TotalParallelSeconds < res.RelationalSeconds {
				t.Errorf("total %.6fs below a backend time", res.TotalParallelSeconds)
			}
		})
	}
}

func TestRunUnknownCollectionFailsWholeRun(t *testing.T) {
	doc, rel := newTestBackends(t)
	r := NewRunner(doc, rel, nil, nil)

	// Neither store knows this name, so both sides error; the run reports
	// a backend failure rather than a partial result.
	res, err := r.Run(context.Background(), "SELECT * FROM ghosts")
	if res != nil {
		t.Errorf("result = %v, want nil", res)
	}
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("error = %v, want *BackendError", err)
	}
}

func TestHistoryRecordsRuns(t *testing.T) {
	h, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	defer h.Close()
	ctx := context.Background()

	if err := h.Record(ctx, "SELECT * FROM users", &Result{
		TotalParallelSeconds: 0.5,
		DocumentStoreSeconds: 0.4,
		DocumentStoreRows:    10,
		RelationalSeconds:    0.3,
		RelationalRows:       10,
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := h.Record(ctx, "SELECT name FROM users", &Result{
		TotalParallelSeconds: 0.2,
		DocumentStoreSeconds: 0.1,
		DocumentStoreRows:    3,
		RelationalSeconds:    0.1,
		RelationalRows:       3,
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := h.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Query != "SELECT name FROM users" {
		t.Errorf("newest entry = %q, want the second run first", entries[0].Query)
	}
	if entries[1].DocumentStoreRows != 10 || entries[1].RelationalRows != 10 {
		t.Errorf("oldest entry rows = %d/%d, want 10/10",
			entries[1].DocumentStoreRows, entries[1].RelationalRows)
	}
	if entries[0].CreatedAt == "" {
		t.Error("created_at is empty")
	}

	one, err := h.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent(1): %v", err)
	}
	if len(one) != 1 {
		t.Errorf("got %d entries, want 1", len(one))
	}
}
