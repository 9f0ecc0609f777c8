package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arm8-2/refleks-insights/internal/kovaaksapi"
)

var (
	progressBenchmark int
	progressSteamID   string
)

func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show benchmark rank progress from the KovaaK's leaderboards",
		Args:  cobra.NoArgs,
		RunE:  runProgressCmd,
	}
	cmd.Flags().IntVar(&progressBenchmark, "benchmark-id", 0, "benchmark ID to query")
	cmd.Flags().StringVar(&progressSteamID, "steam-id", "", "SteamID64 (default: configured stats.steam_id)")
	return cmd
}

func runProgressCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if progressBenchmark <= 0 {
		return fmt.Errorf("--benchmark-id is required")
	}
	steamID := progressSteamID
	if steamID == "" {
		steamID = cfg.Stats.SteamID
	}
	if steamID == "" {
		return fmt.Errorf("no SteamID configured (set stats.steam_id or pass --steam-id)")
	}

	client := kovaaksapi.NewClient()
	progress, err := client.GetBenchmarkProgress(cmd.Context(), progressBenchmark, steamID)
	if err != nil {
		return fmt.Errorf("failed to fetch benchmark progress: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (overall rank %.0f)\n\n", progress.BenchmarkName, progress.OverallRank)

	categories := make([]string, 0, len(progress.Categories))
	for name := range progress.Categories {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tSCENARIO\tSCORE\tRANK")
	for _, catName := range categories {
		cat := progress.Categories[catName]

		scenarios := make([]string, 0, len(cat.Scenarios))
		for name := range cat.Scenarios {
			scenarios = append(scenarios, name)
		}
		sort.Strings(scenarios)

		for _, scenName := range scenarios {
			scen := cat.Scenarios[scenName]
			fmt.Fprintf(w, "%s\t%s\t%.1f\t%.0f\n", catName, scenName, scen.Score, scen.ScenarioRank)
		}
	}
	return w.Flush()
}
