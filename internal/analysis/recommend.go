package analysis

import "github.com/arm8-2/refleks-insights/internal/storage/models"

// Tunable cutoffs for the length recommender. The values are hand-tuned
// for behavioral compatibility with the original application and have no
// deeper derivation.
const (
	// avgTolerance is the fraction of the peak cumulative average a
	// shorter session is allowed to give up.
	avgTolerance = 0.01
	// peakTolerance is how close to the best-of-length peak a candidate
	// length must get.
	peakTolerance = 0.01
	// marginalGainCutoff is the diminishing-returns threshold on the
	// best-of-length curve, as a fraction of the peak.
	marginalGainCutoff = 0.02
	// consistencyWindow is the trailing window size used when comparing
	// per-length variability against its median.
	consistencyWindow = 3
)

// RecommendLengths derives the four session-length recommendations from an
// index-wise expectation curve and a best-of-length curve. stats may
// optionally carry richer per-length statistics; pass nil otherwise.
// Degenerate inputs produce safe defaults of 1 rather than an error; every
// returned field is in [1, curve length].
func RecommendLengths(byIndex models.ExpectationCurve, bestVsLength []float64, stats []models.LengthStat) models.LengthRecommendation {
	return models.LengthRecommendation{
		WarmupRuns:            warmupRuns(byIndex),
		OptimalAvgRuns:        optimalAvgRuns(byIndex.Mean, stats),
		OptimalConsistentRuns: optimalConsistentRuns(byIndex.Std, stats),
		OptimalHighscoreRuns:  optimalHighscoreRuns(bestVsLength),
	}
}

// warmupRuns finds the first run index at which both the index-to-index
// improvement rate and the spread have settled to their median levels. The
// boundary is reported as a 1-based run count.
func warmupRuns(curve models.ExpectationCurve) int {
	n := curve.Len()
	if n < 2 || len(curve.Std) != n {
		return 1
	}

	slopes := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		d := curve.Mean[i+1] - curve.Mean[i]
		if d < 0 {
			d = -d
		}
		slopes[i] = d
	}

	medSlope := median(slopes)
	medStd := median(curve.Std)

	for i := 1; i < n; i++ {
		if slopes[i-1] <= medSlope && curve.Std[i] <= medStd {
			return i + 1
		}
	}
	return 1
}

// optimalAvgRuns finds the session length maximizing the expected average
// score, then prefers the smallest shorter length that sacrifices no more
// than avgTolerance of that peak.
func optimalAvgRuns(meanByIndex []float64, stats []models.LengthStat) int {
	n := len(meanByIndex)
	if n == 0 {
		return 1
	}

	// cum[l-1] is the expected average score of a session of length l.
	cum := make([]float64, n)
	sum := 0.0
	for i, m := range meanByIndex {
		sum += m
		cum[i] = sum / float64(i+1)
	}

	best := 0
	for i := 1; i < n; i++ {
		if cum[i] > cum[best] {
			best = i
		}
	}

	// Tolerance is anchored on the peak cumulative average, or on the
	// best externally supplied per-length average when available.
	base := cum[best]
	if len(stats) > 0 {
		for _, s := range stats {
			if s.Avg > base {
				base = s.Avg
			}
		}
	}
	if base < 0 {
		base = -base
	}

	for i := 0; i <= best; i++ {
		if cum[best]-cum[i] <= avgTolerance*base {
			return i + 1
		}
	}
	return best + 1
}

// optimalConsistentRuns finds the smallest length at which a trailing
// window of per-length variability averages at or below the median
// variability. Variability is the index-wise standard deviation, or the
// interdecile range when per-length statistics are supplied.
func optimalConsistentRuns(stdByIndex []float64, stats []models.LengthStat) int {
	variability := stdByIndex
	if len(stats) > 0 {
		variability = make([]float64, len(stats))
		for i, s := range stats {
			variability[i] = s.P90 - s.P10
		}
	}

	n := len(variability)
	if n < 2 {
		return 1
	}

	medVar := median(variability)

	for l := 2; l <= n; l++ {
		start := l - consistencyWindow
		if start < 0 {
			start = 0
		}
		if mean(variability[start:l]) <= medVar {
			return l
		}
	}
	return 1
}

// optimalHighscoreRuns finds the shortest length on the best-of-length
// curve that is within peakTolerance of the peak and whose marginal gain to
// the next length has fallen below marginalGainCutoff of the peak.
func optimalHighscoreRuns(curve []float64) int {
	n := len(curve)
	if n == 0 {
		return 1
	}

	best := 0
	for i := 1; i < n; i++ {
		if curve[i] > curve[best] {
			best = i
		}
	}

	peak := curve[best]
	absPeak := peak
	if absPeak < 0 {
		absPeak = -absPeak
	}

	for i := 0; i <= best; i++ {
		if peak-curve[i] > peakTolerance*absPeak {
			continue
		}
		if i == n-1 || curve[i+1]-curve[i] < marginalGainCutoff*absPeak {
			return i + 1
		}
	}
	return best + 1
}
