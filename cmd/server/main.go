package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ranfysvalle02/bridgebase/internal/bench"
	"github.com/ranfysvalle02/bridgebase/internal/config"
	"github.com/ranfysvalle02/bridgebase/internal/docstore"
	"github.com/ranfysvalle02/bridgebase/internal/logger"
	"github.com/ranfysvalle02/bridgebase/internal/relstore"
	"github.com/ranfysvalle02/bridgebase/internal/server"
	"github.com/ranfysvalle02/bridgebase/internal/translate"
)

func main() {
	// 1. Load config
	cfg, err := config.FromEnv()
	if err != nil {
		logger.Init(logger.Config{})
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. Initialize logger
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log := logger.Get()
	log.Info("Starting bridgebase server...")

	// 3. Open the document store
	docs, err := docstore.Open(filepath.Join(cfg.DocStore.DataDir, cfg.DocStore.Name))
	if err != nil {
		log.Error("Failed to open document store", "error", err)
		os.Exit(1)
	}
	defer docs.Close()
	log.Info("Document store ready", "dir", cfg.DocStore.DataDir, "name", cfg.DocStore.Name)

	// 4. Open the relational store
	rel, err := relstore.Open(context.Background(), relstore.Config{
		Driver:         cfg.Relational.Driver,
		URI:            cfg.Relational.URI,
		SQLitePath:     cfg.Relational.SQLitePath,
		MigrationsPath: cfg.Relational.MigrationsPath,
	})
	if err != nil {
		log.Error("Failed to open relational store", "error", err)
		os.Exit(1)
	}
	defer rel.Close()
	log.Info("Relational store ready", "driver", rel.Name())

	// 5. Translation cache and run history are both optional
	var cache *translate.Cache
	if cfg.Bench.CacheSize > 0 {
		cache, err = translate.NewCache(cfg.Bench.CacheSize)
		if err != nil {
			log.Error("Failed to create translation cache", "error", err)
			os.Exit(1)
		}
	}

	var history *bench.History
	if cfg.Bench.HistoryPath != "" {
		history, err = bench.OpenHistory(cfg.Bench.HistoryPath)
		if err != nil {
			log.Error("Failed to open run history", "error", err)
			os.Exit(1)
		}
		defer history.Close()
		log.Info("Run history enabled", "path", cfg.Bench.HistoryPath)
	}

	// 6. Wire the benchmark runner and HTTP handlers
	runner := bench.NewRunner(
		bench.NewDocStoreExecutor(docs),
		bench.NewRelStoreExecutor(rel),
		cache,
		history,
	)
	handler := server.NewHandler(runner, docs, rel, history)

	gin.SetMode(gin.ReleaseMode)
	router := server.New(handler, server.Config{
		RateLimit: cfg.HTTP.RateLimit,
		RateBurst: cfg.HTTP.RateBurst,
	})

	httpServer := &http.Server{
		Addr:        cfg.HTTP.Addr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Benchmark responses over large datasets can take a while.
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-quit
		log.Info("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Error("Shutdown error", "error", err)
		}
	}()

	log.Info("Listening on HTTP", "addr", cfg.HTTP.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}
