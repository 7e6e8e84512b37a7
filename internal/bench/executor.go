// Package bench races one SQL statement against two backends: translated
// onto the document store and verbatim onto the relational store, dispatched
// concurrently and joined before reporting.
package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/ranfysvalle02/bridgebase/internal/docstore"
	"github.com/ranfysvalle02/bridgebase/internal/relstore"
	"github.com/ranfysvalle02/bridgebase/internal/translate"
)

// Outcome is one backend's result: how many rows materialized and the wall
// clock from dispatch to full materialization. Rows are counted inside the
// executor and released; nothing downstream consumes them.
type Outcome struct {
	Count   int
	Elapsed time.Duration
}

// DocumentExecutor runs a translated query against the document store.
type DocumentExecutor interface {
	Execute(ctx context.Context, tr *translate.Translation) (Outcome, error)
}

// RelationalExecutor runs the original SQL against the relational store.
type RelationalExecutor interface {
	Execute(ctx context.Context, sql string) (Outcome, error)
}

// BackendError reports which backend failed during a benchmark run.
type BackendError struct {
	Backend string // "document" or "relational"
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// DocStoreExecutor is the DocumentExecutor over an embedded docstore.Store.
type DocStoreExecutor struct {
	store *docstore.Store
}

func NewDocStoreExecutor(store *docstore.Store) *DocStoreExecutor {
	return &DocStoreExecutor{store: store}
}

// Execute applies the translation as filter, projection, skip, then limit,
// and materializes the full result. Store errors pass through to the caller.
func (e *DocStoreExecutor) Execute(_ context.Context, tr *translate.Translation) (Outcome, error) {
	start := time.Now()

	col, err := e.store.Collection(tr.Collection)
	if err != nil {
		return Outcome{}, err
	}
	cur, err := col.Find(tr.Filter, tr.Projection)
	if err != nil {
		return Outcome{}, err
	}
	if tr.Offset != nil {
		cur.Skip(*tr.Offset)
	}
	if tr.Limit != nil {
		cur.Limit(*tr.Limit)
	}
	docs := cur.All()

	return Outcome{Count: len(docs), Elapsed: time.Since(start)}, nil
}

// RelStoreExecutor is the RelationalExecutor over a relstore backend.
type RelStoreExecutor struct {
	store relstore.Store
}

func NewRelStoreExecutor(store relstore.Store) *RelStoreExecutor {
	return &RelStoreExecutor{store: store}
}

// Execute runs the SQL exactly as written and materializes every row.
func (e *RelStoreExecutor) Execute(ctx context.Context, sql string) (Outcome, error) {
	start := time.Now()

	rows, err := e.store.Query(ctx, sql)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Count: len(rows), Elapsed: time.Since(start)}, nil
}
