package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arm8-2/refleks-insights/internal/analysis"
	"github.com/arm8-2/refleks-insights/internal/export"
)

var (
	exportKind      string
	exportFormat    string
	exportOut       string
	exportMetric    string
	exportPretty    bool
	exportOverwrite bool
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <scenario>",
		Short: "Export analysis results to CSV or JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportKind, "kind", "curve", "what to export: curve, best, recommendation, forecast, runs")
	cmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or json")
	cmd.Flags().StringVar(&exportOut, "out", "", "output file (default: generated name in the working directory)")
	cmd.Flags().StringVar(&exportMetric, "metric", "", "metric for curve exports: score or acc (default: configured)")
	cmd.Flags().BoolVar(&exportPretty, "pretty", true, "indent JSON output")
	cmd.Flags().BoolVar(&exportOverwrite, "overwrite", false, "overwrite an existing output file")
	return cmd
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format := export.Format(exportFormat)
	if format != export.FormatCSV && format != export.FormatJSON {
		return fmt.Errorf("unknown format %q (use csv or json)", exportFormat)
	}

	metric, err := resolveMetric(exportMetric, cfg)
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

	gap := sessionGap(cfg)
	sessions := analysis.GroupIntoSessions(records, gap)

	var data interface{}
	switch exportKind {
	case "curve":
		data = export.CurveRows(analysis.ExpectedByIndex(sessions, metric))
	case "best":
		data = export.BestRows(analysis.ExpectedBestVsLength(sessions, metric))
	case "recommendation":
		byIndex := analysis.ExpectedByIndex(sessions, metric)
		best := analysis.ExpectedBestVsLength(sessions, metric)
		data = []export.RecommendationRow{
			export.RecommendationRowFor(scenario, analysis.RecommendLengths(byIndex, best, nil)),
		}
	case "forecast":
		data = []export.ForecastRow{
			export.ForecastRowFor(analysis.PredictNextHighscore(records, gap)),
		}
	case "runs":
		data = records
	default:
		return fmt.Errorf("unknown export kind %q", exportKind)
	}

	outPath := exportOut
	if outPath == "" {
		outPath = export.GenerateFilename(exportKind, format)
	}

	exporter := export.NewExporter(export.Options{
		Format:     format,
		FilePath:   outPath,
		PrettyJSON: exportPretty,
		Overwrite:  exportOverwrite,
	})
	if err := exporter.Export(data); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
	return nil
}
