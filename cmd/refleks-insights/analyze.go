package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arm8-2/refleks-insights/internal/analysis"
	"github.com/arm8-2/refleks-insights/internal/export"
)

var (
	analyzeMetric string
	analyzeJSON   bool
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <scenario>",
		Short: "Show expectation curves and session-length guidance for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyzeCmd,
	}
	cmd.Flags().StringVar(&analyzeMetric, "metric", "", "metric to analyze: score or acc (default: configured)")
	cmd.Flags().BoolVar(&analyzeJSON, "json", false, "emit JSON instead of a table")
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	metric, err := resolveMetric(analyzeMetric, cfg)
	if err != nil {
		return err
	}

	repo, cleanup, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	scenario := args[0]
	records, err := repo.ListByScenario(cmd.Context(), scenario)
	if err != nil {
		return fmt.Errorf("failed to load runs: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no runs recorded for scenario %q", scenario)
	}

	sessions := analysis.GroupIntoSessions(records, sessionGap(cfg))
	byIndex := analysis.ExpectedByIndex(sessions, metric)
	best := analysis.ExpectedBestVsLength(sessions, metric)
	rec := analysis.RecommendLengths(byIndex, best, nil)

	if analyzeJSON {
		payload := map[string]interface{}{
			"scenario":       scenario,
			"metric":         metric,
			"sessionCount":   len(sessions),
			"byIndex":        byIndex,
			"bestVsLength":   best,
			"recommendation": rec,
		}
		return export.WriteTo(cmd.OutOrStdout(), export.FormatJSON, payload, true)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s, %d runs in %d sessions)\n\n", scenario, metric, len(records), len(sessions))

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN #\tEXPECTED\tSTD\tBEST-OF-L")
	for i := 0; i < byIndex.Len(); i++ {
		fmt.Fprintf(w, "%d\t%.1f\t%.1f\t%.1f\n", i+1, byIndex.Mean[i], byIndex.Std[i], best[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nWarmup runs:            %d\n", rec.WarmupRuns)
	fmt.Fprintf(out, "Best average length:    %d\n", rec.OptimalAvgRuns)
	fmt.Fprintf(out, "Most consistent length: %d\n", rec.OptimalConsistentRuns)
	fmt.Fprintf(out, "Highscore length:       %d\n", rec.OptimalHighscoreRuns)
	return nil
}
