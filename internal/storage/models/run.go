// Package models contains the shared domain types for scenario runs,
// sessions, and analytics results.
package models

import (
	"encoding/json"
	"math"
	"time"
)

// RunRecord is a single completed scenario attempt. Records are produced by
// the ingestion boundary and are immutable once created; no analytics
// component mutates an incoming record.
type RunRecord struct {
	// ScenarioName identifies which scenario this run belongs to.
	ScenarioName string `json:"scenarioName"`

	// Score is the raw performance score in scenario-specific units.
	Score float64 `json:"score"`

	// Accuracy is the hits/shots fraction in 0..1.
	Accuracy float64 `json:"accuracy"`

	// TimeToKill is the average time-to-kill in seconds. NaN when the
	// stats file did not report one.
	TimeToKill float64 `json:"timeToKill"`

	// PlayedAt is the resolved run timestamp. The zero value means the
	// timestamp could not be resolved; such records are excluded from
	// timestamp-sensitive computations.
	PlayedAt time.Time `json:"playedAt"`

	// FileName is the stats file this record was parsed from, used for
	// de-duplication on import.
	FileName string `json:"fileName,omitempty"`
}

// HasTimestamp reports whether the record carries a resolved timestamp.
func (r RunRecord) HasTimestamp() bool { return !r.PlayedAt.IsZero() }

// HasTimeToKill reports whether the record carries a TTK value.
func (r RunRecord) HasTimeToKill() bool { return !math.IsNaN(r.TimeToKill) }

// MarshalJSON renders a missing TTK as null instead of NaN, which the
// JSON encoder rejects.
func (r RunRecord) MarshalJSON() ([]byte, error) {
	type alias RunRecord
	aux := struct {
		alias
		TimeToKill *float64 `json:"timeToKill"`
	}{alias: alias(r)}
	if r.HasTimeToKill() {
		aux.TimeToKill = &r.TimeToKill
	}
	return json.Marshal(aux)
}

// UnmarshalJSON restores a null or absent TTK to NaN.
func (r *RunRecord) UnmarshalJSON(data []byte) error {
	type alias RunRecord
	aux := struct {
		*alias
		TimeToKill *float64 `json:"timeToKill"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.TimeToKill != nil {
		r.TimeToKill = *aux.TimeToKill
	} else {
		r.TimeToKill = math.NaN()
	}
	return nil
}

// Session is a contiguous cluster of runs for one scenario, ordered oldest
// to newest, separated from neighbouring sessions by more than the
// configured idle-gap threshold. Sessions are derived fresh on every call
// and never persisted.
type Session struct {
	// ID is the zero-based session index within one grouping call.
	ID int `json:"id"`

	Runs []RunRecord `json:"runs"`
}

// Len returns the number of runs in the session.
func (s Session) Len() int { return len(s.Runs) }

// Start returns the timestamp of the first run, or the zero time for an
// empty session.
func (s Session) Start() time.Time {
	if len(s.Runs) == 0 {
		return time.Time{}
	}
	return s.Runs[0].PlayedAt
}

// End returns the timestamp of the last run, or the zero time for an empty
// session.
func (s Session) End() time.Time {
	if len(s.Runs) == 0 {
		return time.Time{}
	}
	return s.Runs[len(s.Runs)-1].PlayedAt
}
