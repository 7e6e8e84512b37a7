// Package server exposes the benchmark harness over HTTP: health and
// inspection endpoints plus the speedtest itself.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ranfysvalle02/bridgebase/internal/metrics"
)

// Config tunes the HTTP middleware stack.
type Config struct {
	// RateLimit is requests per minute per IP; 0 disables limiting.
	RateLimit int
	RateBurst int
}

// New builds the router with all routes and middleware attached.
func New(h *Handler, cfg Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.Middleware())
	router.Use(CORSMiddleware("*"))
	if cfg.RateLimit > 0 {
		router.Use(RateLimitMiddleware(cfg.RateLimit, cfg.RateBurst))
	}

	router.GET("/health", h.Health)
	router.GET("/inspect", h.Inspect)
	router.GET("/speedtest", h.SpeedTest)
	router.GET("/history", h.HistoryRuns)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
