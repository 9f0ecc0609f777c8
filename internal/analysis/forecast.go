package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/arm8-2/refleks-insights/internal/storage/models"
)

// Forecaster parameters. The margins are hand-tuned for behavioral
// compatibility with the original application.
const (
	// minForecastRuns is the minimum history size before a forecast is
	// attempted at all.
	minForecastRuns = 4

	// targetMarginFrac sets the target a forecast aims at: the current
	// best plus a small fixed margin.
	targetMarginFrac = 0.003
	// nearBestMarginFrac is the margin under which the last run already
	// counts as "at the record" and the shortcut path applies.
	nearBestMarginFrac = 0.0002

	// halfLifeRuns is the recency half-life, in runs, of the regression
	// weights.
	halfLifeRuns = 6.0

	// tauGridSize is the number of log-spaced time constants searched
	// when fitting the improvement-vs-pause curve.
	tauGridSize = 25
	// pauseGridSize is the number of candidate pause durations searched
	// when inverting the fitted curve.
	pauseGridSize = 60

	// maxPlausibleRuns caps forecasts; anything above is treated as a
	// modeling failure and routed to the fallback estimator.
	maxPlausibleRuns = 500

	// stalenessCapDays caps the days-since-played confidence penalty.
	stalenessCapDays = 21

	// minExpectedDelta is the per-run improvement below which a fitted
	// solution is considered negligible.
	minExpectedDelta = 1e-9
)

// pauseFit is the result of fitting dScore = a*(1 - exp(-dt/tau)) + b to
// the observed (pause, score delta) pairs.
type pauseFit struct {
	Tau float64 // seconds
	A   float64
	B   float64
	R2  float64
	OK  bool
}

// expectedDelta evaluates the fitted improvement at a pause of dt seconds.
func (f pauseFit) expectedDelta(dt float64) float64 {
	return f.A*(1-math.Exp(-dt/f.Tau)) + f.B
}

// deltaPair is one adjacent same-session run pair: pause duration in
// seconds and the score change across it.
type deltaPair struct {
	Pause float64
	Delta float64
}

// PredictNextHighscore forecasts when the scenario's record will next fall,
// given the scenario's full run history and the session idle-gap threshold.
func PredictNextHighscore(records []models.RunRecord, gap time.Duration) models.HighscorePrediction {
	return PredictNextHighscoreAt(records, gap, time.Now())
}

// PredictNextHighscoreAt is PredictNextHighscore evaluated relative to a
// caller-supplied "now", which keeps the forecast referentially transparent
// for testing.
func PredictNextHighscoreAt(records []models.RunRecord, gap time.Duration, now time.Time) models.HighscorePrediction {
	if gap <= 0 {
		gap = DefaultSessionGap
	}

	pred := models.HighscorePrediction{
		ETA:        "unknown",
		Confidence: models.ConfidenceLow,
	}
	if len(records) > 0 {
		pred.ScenarioName = records[0].ScenarioName
	}

	// Unparseable timestamps cannot be excluded here the way session
	// grouping excludes them: the run still happened and its score still
	// counts. Substitute "now" so ordering degrades gracefully.
	usable := make([]models.RunRecord, 0, len(records))
	for _, r := range records {
		if !r.HasTimestamp() {
			r.PlayedAt = now
		}
		usable = append(usable, r)
	}

	pred.SampleSize = len(usable)
	if len(usable) < minForecastRuns {
		pred.Reason = fmt.Sprintf("need at least %d runs to forecast, have %d", minForecastRuns, len(usable))
		for _, r := range usable {
			if r.Score > pred.CurrentBest {
				pred.CurrentBest = r.Score
			}
		}
		return pred
	}

	runs := tagSessions(usable, gap)

	best := runs[0].Score
	for _, r := range runs {
		if r.Score > best {
			best = r.Score
		}
	}
	last := runs[len(runs)-1]

	pred.CurrentBest = best
	pred.LastScore = last.Score
	pred.DaysSincePlayed = now.Sub(last.At).Hours() / 24
	if pred.DaysSincePlayed < 0 {
		pred.DaysSincePlayed = 0
	}

	// Trend diagnostics: weighted score-over-run-index and
	// score-over-calendar-time slopes.
	n := len(runs)
	idx := make([]float64, n)
	days := make([]float64, n)
	scores := make([]float64, n)
	for i, r := range runs {
		idx[i] = float64(i)
		days[i] = r.At.Sub(runs[0].At).Hours() / 24
		scores[i] = r.Score
	}
	weights := recencyWeights(n, halfLifeRuns)
	idxFit := weightedLinearRegression(idx, scores, weights)
	dayFit := weightedLinearRegression(days, scores, weights)
	pred.SlopePerRun = idxFit.Slope
	pred.SlopePerDay = dayFit.Slope

	target := best + math.Max(1, math.Round(best*targetMarginFrac))
	deficit := target - last.Score

	allGaps := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		allGaps = append(allGaps, runs[i].At.Sub(runs[i-1].At).Seconds())
	}

	// Near-best shortcut: the last run already sits at the record, so
	// one or two ordinary runs are expected to clear it.
	if best-last.Score <= math.Max(1, math.Round(best*nearBestMarginFrac)) {
		expected := 2
		if last.Score >= best {
			expected = 1
		}
		pause := percentile(allGaps, 25)
		eta := now.Add(time.Duration(float64(expected)*pause) * time.Second)
		if eta.Before(now.Add(time.Hour)) {
			eta = now.Add(time.Hour)
		}

		score := 0.6*idxFit.R2 + 0.4*math.Min(1, float64(n)/12)
		pred.PredictedAt = &eta
		pred.ETA = formatETA(eta.Sub(now))
		pred.RunsExpected = &expected
		pred.RunsLow = 1
		pred.RunsHigh = expected + 1
		pred.RecommendedPause = clampPause(time.Duration(pause*float64(time.Second)), gap)
		pred.Confidence = bucketConfidence(score)
		pred.Reason = "last run is at the current record"
		return pred
	}

	pairs := sameSessionPairs(runs)
	if len(pairs) == 0 {
		pred.Reason = "no same-session run pairs to learn from"
		return pred
	}
	pairs = clipOutlierDeltas(pairs)

	fit := fitDeltaVsPause(pairs)

	pauses := make([]float64, len(pairs))
	deltas := make([]float64, len(pairs))
	for i, p := range pairs {
		pauses[i] = p.Pause
		deltas[i] = p.Delta
	}
	p10 := percentile(pauses, 10)
	p90 := percentile(pauses, 90)

	// Invert the fitted model: choose the pause minimizing expected
	// total time to the target.
	bestPause, bestRuns, found := 0.0, 0.0, false
	if fit.OK {
		lo := p10 * 0.7
		hi := math.Min(gap.Seconds(), p90*1.4)
		if hi > lo && lo > 0 {
			bestTotal := math.Inf(1)
			step := (hi - lo) / float64(pauseGridSize-1)
			for i := 0; i < pauseGridSize; i++ {
				dt := lo + float64(i)*step
				delta := fit.expectedDelta(dt)
				if delta <= minExpectedDelta {
					continue
				}
				needed := deficit / delta
				if total := needed * dt; total < bestTotal {
					bestTotal = total
					bestPause = dt
					bestRuns = needed
					found = true
				}
			}
		}
	}

	// Modeling failure: fall back to the robust mean of positive deltas
	// at the median observed pause.
	usedFallback := false
	if !found || bestRuns > maxPlausibleRuns || fit.expectedDelta(bestPause) <= minExpectedDelta {
		var positives []float64
		for _, d := range deltas {
			if d > 0 {
				positives = append(positives, d)
			}
		}
		meanPos := mean(positives)
		if meanPos <= minExpectedDelta {
			pred.Reason = "no upward trend detected yet"
			return pred
		}
		bestRuns = deficit / meanPos
		bestPause = median(pauses)
		usedFallback = true
		if bestRuns > maxPlausibleRuns || math.IsInf(bestRuns, 0) {
			pred.Reason = "no upward trend detected yet"
			return pred
		}
	}

	score, cv := confidenceScore(fit, deltas, len(pairs), pred.DaysSincePlayed)

	expected := int(math.Ceil(bestRuns))
	if expected < 1 {
		expected = 1
	}

	// Widen the range with falling confidence and falling delta
	// stability.
	spread := 0.35*(1-score) + 0.25*math.Min(1, cv)
	low := int(math.Floor(bestRuns * (1 - spread)))
	if low < 1 {
		low = 1
	}
	high := int(math.Ceil(bestRuns * (1 + spread)))
	if high < expected {
		high = expected
	}

	pause := clampPause(time.Duration(bestPause*float64(time.Second)), gap)
	eta := now.Add(time.Duration(expected) * pause)

	pred.PredictedAt = &eta
	pred.ETA = formatETA(eta.Sub(now))
	pred.RunsExpected = &expected
	pred.RunsLow = low
	pred.RunsHigh = high
	pred.RecommendedPause = pause
	pred.Confidence = bucketConfidence(score)
	if usedFallback {
		pred.Reason = "pause model inconclusive, used mean improvement estimate"
	}
	return pred
}

// sameSessionPairs builds (pause, score delta) observations from adjacent
// runs within the same session. Cross-session gaps are excluded because
// they do not represent a controlled pause.
func sameSessionPairs(runs []taggedRun) []deltaPair {
	var pairs []deltaPair
	for i := 1; i < len(runs); i++ {
		if runs[i].Session != runs[i-1].Session {
			continue
		}
		pairs = append(pairs, deltaPair{
			Pause: runs[i].At.Sub(runs[i-1].At).Seconds(),
			Delta: runs[i].Score - runs[i-1].Score,
		})
	}
	return pairs
}

// clipOutlierDeltas clamps score deltas to the Tukey IQR fences. Applied
// only once there are enough pairs for the quartiles to mean anything.
func clipOutlierDeltas(pairs []deltaPair) []deltaPair {
	if len(pairs) < 6 {
		return pairs
	}
	deltas := make([]float64, len(pairs))
	for i, p := range pairs {
		deltas[i] = p.Delta
	}
	lo, hi := iqrBounds(deltas)

	clipped := make([]deltaPair, len(pairs))
	for i, p := range pairs {
		p.Delta = clamp(p.Delta, lo, hi)
		clipped[i] = p
	}
	return clipped
}

// fitDeltaVsPause fits dScore = a*(1 - exp(-dt/tau)) + b by searching a
// log-spaced grid of time constants and, for each, solving the remaining
// linear problem by recency-weighted least squares. The tau maximizing the
// weighted R2 wins. The fold keeps no state beyond the best candidate, so
// the fit is a pure function of its input.
func fitDeltaVsPause(pairs []deltaPair) pauseFit {
	if len(pairs) < 2 {
		return pauseFit{}
	}

	pauses := make([]float64, len(pairs))
	deltas := make([]float64, len(pairs))
	for i, p := range pairs {
		pauses[i] = p.Pause
		deltas[i] = p.Delta
	}

	minGap := pauses[0]
	for _, p := range pauses {
		if p < minGap {
			minGap = p
		}
	}
	p90 := percentile(pauses, 90)

	tauLo := minGap / 3
	tauHi := 3 * p90
	if tauLo <= 0 || tauHi <= tauLo {
		return pauseFit{}
	}

	weights := recencyWeights(len(pairs), halfLifeRuns)
	ratio := math.Log(tauHi / tauLo)

	best := pauseFit{}
	for i := 0; i < tauGridSize; i++ {
		tau := tauLo * math.Exp(ratio*float64(i)/float64(tauGridSize-1))

		xs := make([]float64, len(pauses))
		for j, dt := range pauses {
			xs[j] = 1 - math.Exp(-dt/tau)
		}

		reg := weightedLinearRegression(xs, deltas, weights)
		if !best.OK || reg.R2 > best.R2 {
			best = pauseFit{Tau: tau, A: reg.Slope, B: reg.Intercept, R2: reg.R2, OK: true}
		}
	}
	return best
}

// confidenceScore blends fit quality and pair-sample adequacy, positive-
// delta stability, and a staleness penalty into a 0..1 score. Also returns
// the coefficient of variation of the positive deltas.
func confidenceScore(fit pauseFit, deltas []float64, pairCount int, daysSince float64) (score, cv float64) {
	var positives []float64
	for _, d := range deltas {
		if d > 0 {
			positives = append(positives, d)
		}
	}

	cv = 1
	if m := mean(positives); m > 0 {
		cv = populationStd(positives) / m
	}
	stability := 1 / (1 + cv)

	adequacy := math.Min(1, float64(pairCount)/10)
	penalty := 0.15 * math.Min(daysSince, stalenessCapDays) / stalenessCapDays

	score = 0.55*(0.5*fit.R2+0.5*adequacy) + 0.30*stability - penalty
	return clamp(score, 0, 1), cv
}

// bucketConfidence maps a blended 0..1 score onto the discrete confidence
// classification.
func bucketConfidence(score float64) models.Confidence {
	switch {
	case score <= 0.3:
		return models.ConfidenceLow
	case score <= 0.6:
		return models.ConfidenceMed
	default:
		return models.ConfidenceHigh
	}
}

// clampPause bounds the recommended pause to (0, sessionGap]: pausing
// longer than the idle-gap threshold would end the session.
func clampPause(pause, gap time.Duration) time.Duration {
	if pause > gap {
		return gap
	}
	if pause < 0 {
		return 0
	}
	return pause
}

// formatETA renders a duration-from-now as a rough human-readable ETA.
func formatETA(d time.Duration) string {
	switch {
	case d <= 0:
		return "now"
	case d < time.Hour:
		m := int(math.Round(d.Minutes()))
		if m <= 1 {
			return "in ~1 minute"
		}
		return fmt.Sprintf("in ~%d minutes", m)
	case d < 48*time.Hour:
		h := int(math.Round(d.Hours()))
		if h == 1 {
			return "in ~1 hour"
		}
		return fmt.Sprintf("in ~%d hours", h)
	default:
		days := int(math.Round(d.Hours() / 24))
		return fmt.Sprintf("in ~%d days", days)
	}
}
