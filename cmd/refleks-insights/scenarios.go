package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List stored scenarios with run counts and best scores",
		Args:  cobra.NoArgs,
		RunE:  runScenariosCmd,
	}
}

func runScenariosCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo, cleanup, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	summaries, err := repo.ListScenarios(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list scenarios: %w", err)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs imported yet. Run: refleks-insights import")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tRUNS\tBEST\tLAST PLAYED")
	for _, s := range summaries {
		last := "unknown"
		if !s.LastPlayed.IsZero() {
			last = s.LastPlayed.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%s\n", s.Name, s.RunCount, s.BestScore, last)
	}
	return w.Flush()
}
