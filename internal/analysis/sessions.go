// Package analysis implements the session-length and performance-trend
// analytics engine: session grouping, expectation curves, session-length
// recommendations, and highscore forecasting. Every function is a pure
// transformation over in-memory slices; repeated calls with identical
// inputs produce identical outputs.
package analysis

import (
	"sort"
	"time"

	"github.com/arm8-2/refleks-insights/internal/storage/models"
)

// DefaultSessionGap is the idle-gap threshold used when a caller passes a
// non-positive gap. Matches the application default of 15 minutes.
const DefaultSessionGap = 15 * time.Minute

// GroupIntoSessions partitions one scenario's runs into play sessions.
// Records are sorted oldest to newest; a new session starts whenever the
// gap to the previous run exceeds the threshold. Records without a resolved
// timestamp are excluded because they cannot be ordered meaningfully. Zero
// usable records yield zero sessions, not an error.
//
// Two runs exactly one threshold apart belong to the same session; only a
// strictly larger gap starts a new one.
func GroupIntoSessions(records []models.RunRecord, gap time.Duration) []models.Session {
	if gap <= 0 {
		gap = DefaultSessionGap
	}

	ordered := sortedByTime(records)
	if len(ordered) == 0 {
		return nil
	}

	var sessions []models.Session
	var current models.Session
	var last time.Time

	for i, r := range ordered {
		if i == 0 || r.PlayedAt.Sub(last) > gap {
			if i > 0 {
				sessions = append(sessions, current)
			}
			current = models.Session{ID: len(sessions)}
		}
		current.Runs = append(current.Runs, r)
		last = r.PlayedAt
	}
	sessions = append(sessions, current)

	return sessions
}

// taggedRun is a chronological run annotated with its session ID so
// same-session adjacency can be tested by the forecaster.
type taggedRun struct {
	At      time.Time
	Score   float64
	Session int
}

// tagSessions performs the same gap-threshold walk as GroupIntoSessions but
// returns a flat chronological list of (timestamp, score, sessionID)
// triples.
func tagSessions(records []models.RunRecord, gap time.Duration) []taggedRun {
	if gap <= 0 {
		gap = DefaultSessionGap
	}

	ordered := sortedByTime(records)
	tagged := make([]taggedRun, 0, len(ordered))

	session := -1
	var last time.Time
	for i, r := range ordered {
		if i == 0 || r.PlayedAt.Sub(last) > gap {
			session++
		}
		tagged = append(tagged, taggedRun{At: r.PlayedAt, Score: r.Score, Session: session})
		last = r.PlayedAt
	}

	return tagged
}

// sortedByTime returns the records with a resolved timestamp, sorted oldest
// to newest. The input slice is not modified.
func sortedByTime(records []models.RunRecord) []models.RunRecord {
	ordered := make([]models.RunRecord, 0, len(records))
	for _, r := range records {
		if r.HasTimestamp() {
			ordered = append(ordered, r)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PlayedAt.Before(ordered[j].PlayedAt)
	})
	return ordered
}
