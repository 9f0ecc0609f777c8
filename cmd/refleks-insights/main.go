// Package main provides the CLI entrypoint for refleks-insights.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arm8-2/refleks-insights/internal/config"
	"github.com/arm8-2/refleks-insights/internal/storage"
	"github.com/arm8-2/refleks-insights/internal/storage/models"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "refleks-insights",
		Short:         "Session and performance analytics for KovaaK's aim training",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newScenariosCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newForecastCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// loadConfig loads the on-disk configuration and fills in the default
// database path when none is set.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Database.Path == "" {
		path, err := config.DefaultDatabasePath()
		if err != nil {
			return nil, err
		}
		cfg.Database.Path = path
	}

	return cfg, nil
}

// openRepository opens the run database and returns a repository plus a
// close function for deferred cleanup.
func openRepository(cfg *config.Config) (*storage.RunRepository, func(), error) {
	db, err := storage.Open(storage.DefaultConfig(cfg.Database.Path))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	cleanup := func() {
		if cerr := db.Close(); cerr != nil {
			log.Printf("failed to close database: %v", cerr)
		}
	}

	return storage.NewRunRepository(db), cleanup, nil
}

// resolveLocation resolves the configured time zone, defaulting to the
// local zone.
func resolveLocation(cfg *config.Config) (*time.Location, error) {
	if cfg.Stats.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(cfg.Stats.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time_zone %q: %w", cfg.Stats.TimeZone, err)
	}
	return loc, nil
}

func sessionGap(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Analysis.SessionGapMinutes) * time.Minute
}

// resolveMetric picks the metric from a flag value, falling back to the
// configured default.
func resolveMetric(flagValue string, cfg *config.Config) (models.Metric, error) {
	raw := flagValue
	if raw == "" {
		raw = cfg.Analysis.Metric
	}
	metric := models.Metric(raw)
	if !metric.Valid() {
		return "", fmt.Errorf("unknown metric %q (use score or acc)", raw)
	}
	return metric, nil
}
