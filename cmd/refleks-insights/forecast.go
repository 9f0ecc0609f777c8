package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arm8-2/refleks-insights/internal/analysis"
	"github.com/arm8-2/refleks-insights/internal/export"
)

var forecastJSON bool

func newForecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast <scenario>",
		Short: "Forecast when the scenario's highscore will fall",
		Args:  cobra.ExactArgs(1),
		RunE:  runForecastCmd,
	}
	cmd.Flags().BoolVar(&forecastJSON, "json", false, "emit JSON instead of text")
	return cmd
}

func runForecastCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
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

	pred := analysis.PredictNextHighscore(records, sessionGap(cfg))

	if forecastJSON {
		return export.WriteTo(cmd.OutOrStdout(), export.FormatJSON, pred, true)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", scenario)
	fmt.Fprintf(out, "Current best:  %.1f (%d runs on record)\n", pred.CurrentBest, pred.SampleSize)
	fmt.Fprintf(out, "Next highscore: %s (confidence: %s)\n", pred.ETA, pred.Confidence)
	if pred.RunsExpected != nil {
		fmt.Fprintf(out, "Expected runs:  %d (range %d-%d)\n", *pred.RunsExpected, pred.RunsLow, pred.RunsHigh)
	}
	if pred.RecommendedPause > 0 {
		fmt.Fprintf(out, "Suggested pause between runs: %s\n", pred.RecommendedPause.Round(time.Second))
	}
	if pred.Reason != "" {
		fmt.Fprintf(out, "Note: %s\n", pred.Reason)
	}
	return nil
}
