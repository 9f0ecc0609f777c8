package models

// Metric selects which per-run value the curve engines operate on. This is
// a closed two-variant enum, not an open extension point.
type Metric string

const (
	// MetricScore selects the raw scenario score.
	MetricScore Metric = "score"
	// MetricAccuracy selects accuracy as a 0..100 percentage.
	MetricAccuracy Metric = "acc"
)

// Valid reports whether m is one of the known metrics.
func (m Metric) Valid() bool {
	return m == MetricScore || m == MetricAccuracy
}

// ValueOf extracts the metric value from a run record. Accuracy is scaled
// from the stored 0..1 fraction to 0..100.
func (m Metric) ValueOf(r RunRecord) float64 {
	if m == MetricAccuracy {
		return r.Accuracy * 100
	}
	return r.Score
}
