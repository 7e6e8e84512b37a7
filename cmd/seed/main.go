package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ranfysvalle02/bridgebase/internal/config"
	"github.com/ranfysvalle02/bridgebase/internal/docstore"
	"github.com/ranfysvalle02/bridgebase/internal/logger"
	"github.com/ranfysvalle02/bridgebase/internal/relstore"
	"github.com/ranfysvalle02/bridgebase/internal/seed"
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load, clear, and inspect the benchmark dataset",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// CLI output goes through fmt; keep the logger quiet.
		logger.Init(logger.Config{Level: "WARN", Format: "text"})
	},
}

var collection string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStores opens both backends from the environment config.
func openStores(ctx context.Context) (*docstore.Store, relstore.Store, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, nil, err
	}

	docs, err := docstore.Open(filepath.Join(cfg.DocStore.DataDir, cfg.DocStore.Name))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open document store: %w", err)
	}

	rel, err := relstore.Open(ctx, relstore.Config{
		Driver:         cfg.Relational.Driver,
		URI:            cfg.Relational.URI,
		SQLitePath:     cfg.Relational.SQLitePath,
		MigrationsPath: cfg.Relational.MigrationsPath,
	})
	if err != nil {
		docs.Close()
		return nil, nil, fmt.Errorf("failed to open relational store: %w", err)
	}
	return docs, rel, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&collection, "collection", "users", "Collection and table name")

	defaults := seed.DefaultConfig()
	var (
		records   int
		batchSize int
		workers   int
		rngSeed   int64
	)

	loadCmd := &cobra.Command{
		Use:   "load",
		Short: "Generate synthetic users and load both stores",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			docs, rel, err := openStores(ctx)
			if err != nil {
				return err
			}
			defer docs.Close()
			defer rel.Close()

			report, err := seed.Run(ctx, seed.Config{
				Collection: collection,
				Records:    records,
				BatchSize:  batchSize,
				Workers:    workers,
				Seed:       rngSeed,
			}, docs, rel)
			if err != nil {
				return err
			}

			fmt.Printf("Seeded %d records into %q (%d relational batches)\n",
				report.Records, collection, report.Batches)
			fmt.Printf("  document store: %.2fs\n", report.DocumentSeconds)
			fmt.Printf("  relational:     %.2fs\n", report.RelationalSeconds)
			return nil
		},
	}
	loadCmd.Flags().IntVar(&records, "records", defaults.Records, "Number of users to generate")
	loadCmd.Flags().IntVar(&batchSize, "batch-size", defaults.BatchSize, "Records per insert batch")
	loadCmd.Flags().IntVar(&workers, "workers", defaults.Workers, "Concurrent relational insert workers")
	loadCmd.Flags().Int64Var(&rngSeed, "seed", 0, "RNG seed (0 uses the clock)")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the dataset from both stores",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			docs, rel, err := openStores(ctx)
			if err != nil {
				return err
			}
			defer docs.Close()
			defer rel.Close()

			if err := seed.Clear(ctx, collection, docs, rel); err != nil {
				return err
			}
			fmt.Printf("Cleared %q from both stores\n", collection)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show record counts in both stores",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			docs, rel, err := openStores(ctx)
			if err != nil {
				return err
			}
			defer docs.Close()
			defer rel.Close()

			docCount, relCount, err := seed.Status(ctx, collection, docs, rel)
			if err != nil {
				return fmt.Errorf("status failed (is the dataset loaded?): %w", err)
			}
			fmt.Printf("%q dataset:\n", collection)
			fmt.Printf("  document store: %d documents\n", docCount)
			fmt.Printf("  relational:     %d rows\n", relCount)
			return nil
		},
	}

	rootCmd.AddCommand(loadCmd, clearCmd, statusCmd)
}
