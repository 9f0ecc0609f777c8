package analysis

import "github.com/arm8-2/refleks-insights/internal/storage/models"

// ExpectedByIndex computes, for each within-session run index, the mean and
// population standard deviation of the chosen metric across all sessions
// that reach that index. Both returned arrays have length equal to the
// longest session; both are empty when there are no sessions.
func ExpectedByIndex(sessions []models.Session, metric models.Metric) models.ExpectationCurve {
	maxLen := maxSessionLength(sessions)
	if maxLen == 0 {
		return models.ExpectationCurve{}
	}

	curve := models.ExpectationCurve{
		Mean: make([]float64, maxLen),
		Std:  make([]float64, maxLen),
	}

	for j := 0; j < maxLen; j++ {
		var values []float64
		for _, s := range sessions {
			if s.Len() > j {
				values = append(values, metric.ValueOf(s.Runs[j]))
			}
		}
		// The loop bound guarantees at least one session reaches j,
		// but guard the empty collection anyway.
		if len(values) == 0 {
			continue
		}
		curve.Mean[j] = mean(values)
		curve.Std[j] = populationStd(values)
	}

	return curve
}

// ExpectedBestVsLength computes the expected value of "best metric value
// seen within the first L runs of a session" for every L from 1 to the
// longest session. Sessions shorter than L contribute the max over all
// their runs, so this answers: if I commit to L runs this session, what
// score can I expect to walk away with. The curve is non-decreasing in L.
func ExpectedBestVsLength(sessions []models.Session, metric models.Metric) []float64 {
	maxLen := maxSessionLength(sessions)
	if maxLen == 0 {
		return nil
	}

	curve := make([]float64, maxLen)
	for l := 1; l <= maxLen; l++ {
		var maxima []float64
		for _, s := range sessions {
			if s.Len() == 0 {
				continue
			}
			prefix := l
			if s.Len() < prefix {
				prefix = s.Len()
			}
			best := metric.ValueOf(s.Runs[0])
			for _, r := range s.Runs[1:prefix] {
				if v := metric.ValueOf(r); v > best {
					best = v
				}
			}
			maxima = append(maxima, best)
		}
		curve[l-1] = mean(maxima)
	}

	return curve
}

func maxSessionLength(sessions []models.Session) int {
	maxLen := 0
	for _, s := range sessions {
		if s.Len() > maxLen {
			maxLen = s.Len()
		}
	}
	return maxLen
}
