package export

import (
	"time"

	"github.com/arm8-2/refleks-insights/internal/storage/models"
)

// CurveRow is one run index of an expectation or best-of-length curve,
// flattened for tabular export.
type CurveRow struct {
	RunIndex int     `csv:"run_index" json:"runIndex"`
	Mean     float64 `csv:"mean" json:"mean"`
	Std      float64 `csv:"std" json:"std"`
}

// CurveRows flattens an expectation curve into one row per run index.
// Run indices are reported one-based.
func CurveRows(curve models.ExpectationCurve) []CurveRow {
	rows := make([]CurveRow, 0, curve.Len())
	for i := 0; i < curve.Len(); i++ {
		rows = append(rows, CurveRow{
			RunIndex: i + 1,
			Mean:     curve.Mean[i],
			Std:      curve.Std[i],
		})
	}
	return rows
}

// BestRow is one session length of an expected best-of-length curve.
type BestRow struct {
	SessionLength int     `csv:"session_length" json:"sessionLength"`
	ExpectedBest  float64 `csv:"expected_best" json:"expectedBest"`
}

// BestRows flattens the expected best-of-length values, lengths 1..n.
func BestRows(best []float64) []BestRow {
	rows := make([]BestRow, 0, len(best))
	for i, v := range best {
		rows = append(rows, BestRow{SessionLength: i + 1, ExpectedBest: v})
	}
	return rows
}

// RecommendationRow is a length recommendation flattened for tabular
// export, one row per scenario.
type RecommendationRow struct {
	Scenario              string `csv:"scenario" json:"scenario"`
	WarmupRuns            int    `csv:"warmup_runs" json:"warmupRuns"`
	OptimalAvgRuns        int    `csv:"optimal_avg_runs" json:"optimalAvgRuns"`
	OptimalConsistentRuns int    `csv:"optimal_consistent_runs" json:"optimalConsistentRuns"`
	OptimalHighscoreRuns  int    `csv:"optimal_highscore_runs" json:"optimalHighscoreRuns"`
}

// RecommendationRowFor pairs a scenario name with its recommendation.
func RecommendationRowFor(scenario string, rec models.LengthRecommendation) RecommendationRow {
	return RecommendationRow{
		Scenario:              scenario,
		WarmupRuns:            rec.WarmupRuns,
		OptimalAvgRuns:        rec.OptimalAvgRuns,
		OptimalConsistentRuns: rec.OptimalConsistentRuns,
		OptimalHighscoreRuns:  rec.OptimalHighscoreRuns,
	}
}

// ForecastRow is a highscore forecast flattened for tabular export.
type ForecastRow struct {
	Scenario         string     `csv:"scenario" json:"scenario"`
	PredictedAt      *time.Time `csv:"predicted_at" json:"predictedAt"`
	ETA              string     `csv:"eta" json:"eta"`
	RunsExpected     *int       `csv:"runs_expected" json:"runsExpected"`
	RunsLow          int        `csv:"runs_low" json:"runsLow"`
	RunsHigh         int        `csv:"runs_high" json:"runsHigh"`
	RecommendedPause string     `csv:"recommended_pause" json:"recommendedPause"`
	Confidence       string     `csv:"confidence" json:"confidence"`
	Reason           string     `csv:"reason" json:"reason"`
	CurrentBest      float64    `csv:"current_best" json:"currentBest"`
	SampleSize       int        `csv:"sample_size" json:"sampleSize"`
}

// ForecastRowFor flattens a highscore prediction into a single row.
func ForecastRowFor(pred models.HighscorePrediction) ForecastRow {
	return ForecastRow{
		Scenario:         pred.ScenarioName,
		PredictedAt:      pred.PredictedAt,
		ETA:              pred.ETA,
		RunsExpected:     pred.RunsExpected,
		RunsLow:          pred.RunsLow,
		RunsHigh:         pred.RunsHigh,
		RecommendedPause: pred.RecommendedPause.String(),
		Confidence:       string(pred.Confidence),
		Reason:           pred.Reason,
		CurrentBest:      pred.CurrentBest,
		SampleSize:       pred.SampleSize,
	}
}
