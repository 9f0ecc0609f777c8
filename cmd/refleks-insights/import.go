package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arm8-2/refleks-insights/internal/kovaaks"
)

var (
	importDir   string
	importLimit int
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import KovaaK's stats files into the run database",
		Args:  cobra.NoArgs,
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importDir, "dir", "", "stats directory (default: configured stats.dir)")
	cmd.Flags().IntVar(&importLimit, "limit", -1, "max files to import, newest first (default: configured stats.max_import)")
	return cmd
}

func runImportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir := importDir
	if dir == "" {
		dir = cfg.Stats.Dir
	}
	if dir == "" {
		return fmt.Errorf("no stats directory configured (set stats.dir or pass --dir)")
	}

	limit := importLimit
	if limit < 0 {
		limit = cfg.Stats.MaxImport
	}

	loc, err := resolveLocation(cfg)
	if err != nil {
		return err
	}

	records, skipped, err := kovaaks.LoadDir(dir, limit, loc)
	if err != nil {
		return fmt.Errorf("failed to load stats files: %w", err)
	}

	repo, cleanup, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	inserted, err := repo.SaveRuns(cmd.Context(), records)
	if err != nil {
		return fmt.Errorf("failed to save runs: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new runs (%d parsed, %d already known, %d skipped)\n",
		inserted, len(records), len(records)-inserted, skipped)
	return nil
}
