package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ranfysvalle02/bridgebase/internal/bench"
	"github.com/ranfysvalle02/bridgebase/internal/docstore"
	"github.com/ranfysvalle02/bridgebase/internal/logger"
	"github.com/ranfysvalle02/bridgebase/internal/metrics"
	"github.com/ranfysvalle02/bridgebase/internal/relstore"
)

const (
	// inspectDocLimit caps how many documents /inspect returns per collection.
	inspectDocLimit = 50

	healthTimeout = 2 * time.Second
)

// Handler serves the HTTP API.
type Handler struct {
	runner  *bench.Runner
	docs    *docstore.Store
	rel     relstore.Store
	history *bench.History
}

// NewHandler creates a handler. history may be nil when run recording is
// disabled.
func NewHandler(runner *bench.Runner, docs *docstore.Store, rel relstore.Store, history *bench.History) *Handler {
	return &Handler{runner: runner, docs: docs, rel: rel, history: history}
}

// Health pings both stores and reports overall status.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.docs.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "document store unreachable: " + err.Error(),
		})
		return
	}
	if err := h.rel.Ping(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "relational store unreachable: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Inspect lists every collection with a sample of its documents, identity
// field suppressed.
func (h *Handler) Inspect(c *gin.Context) {
	names := h.docs.Collections()
	data := gin.H{}
	for _, name := range names {
		col, err := h.docs.Collection(name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		cur, err := col.Find(nil, map[string]int{docstore.IDField: 0})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		data[name] = cur.Limit(inspectDocLimit).All()
	}
	c.JSON(http.StatusOK, gin.H{"collections": names, "data": data})
}

// SpeedTest benchmarks the query given in the "query" parameter on both
// backends. Translation failures are the client's fault (400); backend
// failures are ours (500).
func (h *Handler) SpeedTest(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'query' parameter"})
		return
	}

	res, err := h.runner.Run(c.Request.Context(), query)
	if err != nil {
		var be *bench.BackendError
		if errors.As(err, &be) {
			metrics.BenchmarkTotal.WithLabelValues(be.Backend + "_error").Inc()
			logger.Error("benchmark failed", "query", query, "backend", be.Backend, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   err.Error(),
				"backend": be.Backend,
			})
			return
		}
		metrics.BenchmarkTotal.WithLabelValues("translate_error").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	metrics.BenchmarkTotal.WithLabelValues("ok").Inc()
	metrics.BackendDuration.WithLabelValues("document").Observe(res.DocumentStoreSeconds)
	metrics.BackendDuration.WithLabelValues("relational").Observe(res.RelationalSeconds)
	metrics.DroppedConditions.Add(float64(len(res.Dropped)))
	if len(res.Dropped) > 0 {
		logger.Warn("translation dropped conditions", "query", query, "dropped", res.Dropped)
	}

	c.JSON(http.StatusOK, res)
}

// HistoryRuns returns recent benchmark runs, newest first.
func (h *Handler) HistoryRuns(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history is not enabled"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit' parameter"})
			return
		}
		if n > 200 {
			n = 200
		}
		limit = n
	}

	entries, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": entries})
}
