package analysis

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arm8-2/refleks-insights/internal/storage/models"
)

func TestRecommendLengthsEndToEnd(t *testing.T) {
	// Two sessions of three runs each, oldest to newest within each.
	sessions := sessionsFromScores(
		[]float64{100, 110, 105},
		[]float64{90, 120, 130},
	)

	byIndex := ExpectedByIndex(sessions, models.MetricScore)
	bestVs := ExpectedBestVsLength(sessions, models.MetricScore)

	rec := RecommendLengths(byIndex, bestVs, nil)

	// The best-of-length curve peaks only when the full session is
	// played, so the highscore recommendation must point at length 3.
	assert.Equal(t, 3, rec.OptimalHighscoreRuns)

	for _, v := range []int{rec.WarmupRuns, rec.OptimalAvgRuns, rec.OptimalConsistentRuns, rec.OptimalHighscoreRuns} {
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 3)
	}
}

func TestRecommendLengthsBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 25; trial++ {
		var scoreLists [][]float64
		maxLen := 0
		for s := 0; s < 1+rng.Intn(6); s++ {
			n := 1 + rng.Intn(12)
			if n > maxLen {
				maxLen = n
			}
			scores := make([]float64, n)
			for i := range scores {
				scores[i] = rng.Float64() * 1000
			}
			scoreLists = append(scoreLists, scores)
		}
		sessions := sessionsFromScores(scoreLists...)

		byIndex := ExpectedByIndex(sessions, models.MetricScore)
		bestVs := ExpectedBestVsLength(sessions, models.MetricScore)
		rec := RecommendLengths(byIndex, bestVs, nil)

		for _, v := range []int{rec.WarmupRuns, rec.OptimalAvgRuns, rec.OptimalConsistentRuns, rec.OptimalHighscoreRuns} {
			require.GreaterOrEqual(t, v, 1)
			require.LessOrEqual(t, v, maxLen)
		}
	}
}

func TestRecommendLengthsDegenerate(t *testing.T) {
	tests := []struct {
		name    string
		byIndex models.ExpectationCurve
		bestVs  []float64
	}{
		{name: "empty everything"},
		{
			name:    "all zero metrics",
			byIndex: models.ExpectationCurve{Mean: []float64{0, 0, 0}, Std: []float64{0, 0, 0}},
			bestVs:  []float64{0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := RecommendLengths(tt.byIndex, tt.bestVs, nil)
			for _, v := range []int{rec.WarmupRuns, rec.OptimalAvgRuns, rec.OptimalConsistentRuns, rec.OptimalHighscoreRuns} {
				assert.GreaterOrEqual(t, v, 1)
			}
		})
	}
}

func TestWarmupRuns(t *testing.T) {
	// Improvement and spread both settle from index 3 on.
	curve := models.ExpectationCurve{
		Mean: []float64{50, 70, 80, 82, 83},
		Std:  []float64{20, 15, 5, 4, 3},
	}
	assert.Equal(t, 4, warmupRuns(curve))

	// Flat curve settles immediately.
	flat := models.ExpectationCurve{
		Mean: []float64{80, 80, 80},
		Std:  []float64{5, 5, 5},
	}
	assert.Equal(t, 2, warmupRuns(flat))
}

func TestOptimalAvgRuns(t *testing.T) {
	// Constant expectation: the shortest session already achieves the
	// peak average.
	assert.Equal(t, 1, optimalAvgRuns([]float64{100, 100, 100}, nil))

	// Peak cumulative average is at length 2 and length 1 gives up far
	// more than the tolerance.
	assert.Equal(t, 2, optimalAvgRuns([]float64{50, 150, 100}, nil))
}

func TestOptimalConsistentRuns(t *testing.T) {
	std := []float64{10, 2, 2, 2, 10}
	assert.Equal(t, 4, optimalConsistentRuns(std, nil))

	// With supplied per-length statistics the interdecile range drives
	// the decision instead of the index-wise std.
	stats := []models.LengthStat{
		{P10: 10, P90: 60}, // spread 50
		{P10: 20, P90: 25}, // spread 5
		{P10: 20, P90: 24}, // spread 4
		{P10: 21, P90: 25}, // spread 4
	}
	assert.Equal(t, 4, optimalConsistentRuns(std[:4], stats))
}

func TestOptimalHighscoreRuns(t *testing.T) {
	// Diminishing returns: length 3 is within 1% of the peak and the
	// next step adds less than 2% of it.
	curve := []float64{80, 95, 99.5, 100}
	assert.Equal(t, 3, optimalHighscoreRuns(curve))

	// Strictly climbing curve that never flattens inside the tolerance
	// band resolves to the peak itself.
	assert.Equal(t, 3, optimalHighscoreRuns([]float64{60, 80, 100}))
}
