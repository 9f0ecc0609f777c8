package models

import "time"

// ExpectationCurve holds the expected metric value and its spread at each
// within-session run index. Mean and Std are parallel arrays indexed by
// zero-based run position; both are empty when there are no sessions.
type ExpectationCurve struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Len returns the number of run indices covered by the curve.
func (c ExpectationCurve) Len() int { return len(c.Mean) }

// LengthStat carries richer externally computed statistics for one
// committed session length. A slice of these, parallel to lengths 1..n, may
// optionally be supplied to the length recommender.
type LengthStat struct {
	// Avg is the expected average score when committing to this length.
	Avg float64 `json:"avg"`
	// P10 and P90 bound the interdecile spread at this length.
	P10 float64 `json:"p10"`
	P90 float64 `json:"p90"`
}

// LengthRecommendation is the derived session-length guidance for one
// scenario. All fields are run counts in [1, max observed session length].
type LengthRecommendation struct {
	// WarmupRuns is the run count after which improvement rate and
	// variance stabilize.
	WarmupRuns int `json:"warmupRuns"`
	// OptimalAvgRuns is the shortest session length whose expected
	// average score stays within tolerance of the peak.
	OptimalAvgRuns int `json:"optimalAvgRuns"`
	// OptimalConsistentRuns is the shortest length at which run-to-run
	// variability settles at or below its median level.
	OptimalConsistentRuns int `json:"optimalConsistentRuns"`
	// OptimalHighscoreRuns is the shortest length capturing nearly all of
	// the expected best-of-session score.
	OptimalHighscoreRuns int `json:"optimalHighscoreRuns"`
}

// Confidence is the discrete confidence classification of a forecast.
type Confidence string

const (
	ConfidenceLow  Confidence = "low"
	ConfidenceMed  Confidence = "med"
	ConfidenceHigh Confidence = "high"
)

// HighscorePrediction is the output of the highscore forecaster. It is
// produced fresh per call and never cached.
type HighscorePrediction struct {
	ScenarioName string `json:"scenarioName"`

	// PredictedAt is the forecast arrival time of the next highscore.
	// Nil when no forecast could be made.
	PredictedAt *time.Time `json:"predictedAt"`

	// ETA is a human-readable rendering of PredictedAt ("in ~3 hours"),
	// or "unknown" when no forecast could be made.
	ETA string `json:"eta"`

	// RunsExpected is the expected number of runs until the record
	// falls. Nil when unknown. RunsLow/RunsHigh bound the estimate.
	RunsExpected *int `json:"runsExpected"`
	RunsLow      int  `json:"runsLow,omitempty"`
	RunsHigh     int  `json:"runsHigh,omitempty"`

	// RecommendedPause is the inter-run pause that minimizes expected
	// total time to the target.
	RecommendedPause time.Duration `json:"recommendedPauseMs"`

	Confidence Confidence `json:"confidence"`

	// Reason explains an unknown or low-confidence result.
	Reason string `json:"reason,omitempty"`

	// Diagnostics.
	SampleSize      int     `json:"sampleSize"`
	CurrentBest     float64 `json:"currentBest"`
	LastScore       float64 `json:"lastScore"`
	DaysSincePlayed float64 `json:"daysSincePlayed"`
	SlopePerRun     float64 `json:"slopePerRun"`
	SlopePerDay     float64 `json:"slopePerDay"`
}

// ScenarioSummary is a per-scenario aggregate used by listings.
type ScenarioSummary struct {
	Name       string    `json:"name"`
	RunCount   int       `json:"runCount"`
	BestScore  float64   `json:"bestScore"`
	LastPlayed time.Time `json:"lastPlayed"`
}
