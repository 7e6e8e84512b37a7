// Package seed loads both stores with the same synthetic user records so
// benchmark comparisons run against identical data.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/ranfysvalle02/bridgebase/internal/docstore"
	"github.com/ranfysvalle02/bridgebase/internal/logger"
	"github.com/ranfysvalle02/bridgebase/internal/relstore"
)

// userSchema is installed on the document collection so malformed records
// are rejected at insert time.
const userSchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "integer", "minimum": 18, "maximum": 90}
	},
	"required": ["name", "age"]
}`

// Config controls a seeding run.
type Config struct {
	Collection string
	Records    int
	BatchSize  int
	// Workers bounds concurrent relational insert batches.
	Workers int
	// Seed fixes the RNG; 0 uses the clock.
	Seed int64
}

// DefaultConfig mirrors the canonical dataset: half a million users.
func DefaultConfig() Config {
	return Config{
		Collection: "users",
		Records:    500_000,
		BatchSize:  5_000,
		Workers:    4,
	}
}

// Record is one synthetic user.
type Record struct {
	Name string
	Age  int
}

// Report summarizes a seeding run.
type Report struct {
	Records           int
	Batches           int
	DocumentSeconds   float64
	RelationalSeconds float64
}

// generate builds the full dataset up front so both stores receive the same
// records: seven lowercase letters and an age in [18, 90].
func generate(cfg Config) []Record {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))

	const letters = "abcdefghijklmnopqrstuvwxyz"
	records := make([]Record, cfg.Records)
	for i := range records {
		name := make([]byte, 7)
		for j := range name {
			name[j] = letters[r.Intn(len(letters))]
		}
		records[i] = Record{Name: string(name), Age: 18 + r.Intn(73)}
	}
	return records
}

// Run wipes and reloads both stores. The document store is loaded in
// batches under its collection schema; the relational store is rebuilt and
// loaded with multi-row inserts fanned out over a bounded worker pool.
func Run(ctx context.Context, cfg Config, docs *docstore.Store, rel relstore.Store) (*Report, error) {
	if cfg.Collection == "" {
		cfg.Collection = "users"
	}
	if cfg.Records <= 0 {
		return nil, fmt.Errorf("records must be positive, got %d", cfg.Records)
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5_000
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	records := generate(cfg)
	report := &Report{Records: len(records)}

	start := time.Now()
	if err := seedDocuments(cfg, records, docs); err != nil {
		return nil, fmt.Errorf("failed to seed document store: %w", err)
	}
	report.DocumentSeconds = time.Since(start).Seconds()

	start = time.Now()
	batches, err := seedRelational(ctx, cfg, records, rel)
	if err != nil {
		return nil, fmt.Errorf("failed to seed relational store: %w", err)
	}
	report.Batches = batches
	report.RelationalSeconds = time.Since(start).Seconds()

	logger.Info("seeding complete",
		"records", report.Records,
		"document_seconds", report.DocumentSeconds,
		"relational_seconds", report.RelationalSeconds)
	return report, nil
}

func seedDocuments(cfg Config, records []Record, docs *docstore.Store) error {
	col, err := docs.EnsureCollection(cfg.Collection)
	if err != nil {
		return err
	}
	if err := col.SetSchema(userSchema); err != nil {
		return err
	}
	if err := col.DeleteAll(); err != nil {
		return err
	}

	for lo := 0; lo < len(records); lo += cfg.BatchSize {
		hi := lo + cfg.BatchSize
		if hi > len(records) {
			hi = len(records)
		}
		batch := make([]docstore.Document, 0, hi-lo)
		for _, rec := range records[lo:hi] {
			batch = append(batch, docstore.Document{"name": rec.Name, "age": rec.Age})
		}
		if _, err := col.InsertBatch(batch); err != nil {
			return err
		}
		logger.Debug("seeded document batch", "collection", cfg.Collection, "through", hi)
	}
	return nil
}

func seedRelational(ctx context.Context, cfg Config, records []Record, rel relstore.Store) (int, error) {
	if err := rel.Exec(ctx, "DROP TABLE IF EXISTS "+cfg.Collection); err != nil {
		return 0, err
	}
	if err := rel.Exec(ctx, createTableStmt(rel.Name(), cfg.Collection)); err != nil {
		return 0, err
	}

	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return 0, err
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	batches := 0
	for lo := 0; lo < len(records); lo += cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			setErr(err)
			break
		}
		hi := lo + cfg.BatchSize
		if hi > len(records) {
			hi = len(records)
		}
		stmt := insertStmt(cfg.Collection, records[lo:hi])
		batches++

		wg.Add(1)
		task := func() {
			defer wg.Done()
			if err := rel.Exec(ctx, stmt); err != nil {
				setErr(err)
			}
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			setErr(err)
			break
		}
	}
	wg.Wait()

	return batches, firstErr
}

func createTableStmt(driver, table string) string {
	if driver == "postgres" {
		return fmt.Sprintf("CREATE TABLE %s (id SERIAL PRIMARY KEY, name VARCHAR(100), age INT)", table)
	}
	return fmt.Sprintf("CREATE TABLE %s (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, age INTEGER)", table)
}

// insertStmt builds one multi-row insert. Values are inlined; names are
// lowercase letters and ages are ints, so no quoting hazards exist.
func insertStmt(table string, records []Record) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (name, age) VALUES ")
	for i, rec := range records {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "('%s', %d)", rec.Name, rec.Age)
	}
	return b.String()
}

// Clear empties both stores.
func Clear(ctx context.Context, collection string, docs *docstore.Store, rel relstore.Store) error {
	if collection == "" {
		collection = "users"
	}

	col, err := docs.Collection(collection)
	if err == nil {
		if err := col.DeleteAll(); err != nil {
			return fmt.Errorf("failed to clear document store: %w", err)
		}
	}
	if err := rel.Exec(ctx, "DROP TABLE IF EXISTS "+collection); err != nil {
		return fmt.Errorf("failed to clear relational store: %w", err)
	}
	return nil
}

// Status reports document and relational row counts for the collection.
func Status(ctx context.Context, collection string, docs *docstore.Store, rel relstore.Store) (int, int, error) {
	if collection == "" {
		collection = "users"
	}

	docCount := 0
	if col, err := docs.Collection(collection); err == nil {
		docCount = col.Count()
	}

	rows, err := rel.Query(ctx, "SELECT COUNT(*) FROM "+collection)
	if err != nil {
		return docCount, 0, err
	}
	relCount := 0
	if len(rows) == 1 && len(rows[0]) == 1 {
		switch n := rows[0][0].(type) {
		case int64:
			relCount = int(n)
		case int:
			relCount = n
		case float64:
			relCount = int(n)
		}
	}
	return docCount, relCount, nil
}
