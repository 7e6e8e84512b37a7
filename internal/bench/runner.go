package bench

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ranfysvalle02/bridgebase/internal/logger"
	"github.com/ranfysvalle02/bridgebase/internal/translate"
)

// Result is one benchmark run. Total is the span around both dispatches and
// the join, so it includes scheduling overhead and is reported separately
// rather than derived from the per-backend times.
type Result struct {
	TotalParallelSeconds float64 `json:"total_parallel_seconds"`
	DocumentStoreSeconds float64 `json:"document_store_seconds"`
	DocumentStoreRows    int     `json:"document_store_rows"`
	RelationalSeconds    float64 `json:"relational_seconds"`
	RelationalRows       int     `json:"relational_rows"`

	// Dropped lists WHERE fragments the translator absorbed. The relational
	// side still honors them, so a non-empty list usually explains a row
	// count mismatch.
	Dropped []string `json:"dropped_conditions,omitempty"`
}

// Runner translates a statement once and races it on both backends.
type Runner struct {
	doc     DocumentExecutor
	rel     RelationalExecutor
	cache   *translate.Cache
	history *History
}

// NewRunner builds a runner. cache and history may be nil to disable
// translation memoization and run recording.
func NewRunner(doc DocumentExecutor, rel RelationalExecutor, cache *translate.Cache, history *History) *Runner {
	return &Runner{doc: doc, rel: rel, cache: cache, history: history}
}

// Translate exposes the runner's translation path, memoized when the cache
// is configured.
func (r *Runner) Translate(sql string) (*translate.Translation, error) {
	if r.cache != nil {
		return r.cache.Translate(sql)
	}
	return translate.Translate(sql)
}

// Run benchmarks one statement. Translation failures abort before either
// backend is contacted. Both backends always attempt the query; the runner
// blocks only at the join. If either side fails the whole run fails with a
// *BackendError carrying the first error observed, and no partial result is
// returned. No timeout is imposed here; bound ctx to bound the run.
func (r *Runner) Run(ctx context.Context, sql string) (*Result, error) {
	tr, err := r.Translate(sql)
	if err != nil {
		return nil, err
	}

	var docOut, relOut Outcome
	start := time.Now()

	var g errgroup.Group
	g.Go(func() error {
		out, err := r.doc.Execute(ctx, tr)
		if err != nil {
			return &BackendError{Backend: "document", Err: err}
		}
		docOut = out
		return nil
	})
	g.Go(func() error {
		out, err := r.rel.Execute(ctx, sql)
		if err != nil {
			return &BackendError{Backend: "relational", Err: err}
		}
		relOut = out
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	total := time.Since(start)

	res := &Result{
		TotalParallelSeconds: total.Seconds(),
		DocumentStoreSeconds: docOut.Elapsed.Seconds(),
		DocumentStoreRows:    docOut.Count,
		RelationalSeconds:    relOut.Elapsed.Seconds(),
		RelationalRows:       relOut.Count,
		Dropped:              tr.Dropped,
	}

	if r.history != nil {
		if err := r.history.Record(ctx, sql, res); err != nil {
			logger.Warn("failed to record benchmark run", "error", err)
		}
	}
	return res, nil
}
