package analysis

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arm8-2/refleks-insights/internal/storage/models"
)

func runAt(ts time.Time, score float64) models.RunRecord {
	return models.RunRecord{ScenarioName: "1wall6targets", Score: score, PlayedAt: ts}
}

func TestGroupIntoSessions(t *testing.T) {
	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	gap := 15 * time.Minute

	tests := []struct {
		name         string
		records      []models.RunRecord
		wantSessions int
		wantLengths  []int
	}{
		{
			name:         "no records",
			records:      nil,
			wantSessions: 0,
		},
		{
			name:         "single run",
			records:      []models.RunRecord{runAt(base, 100)},
			wantSessions: 1,
			wantLengths:  []int{1},
		},
		{
			name: "gap exactly at threshold stays in session",
			records: []models.RunRecord{
				runAt(base, 100),
				runAt(base.Add(gap), 110),
			},
			wantSessions: 1,
			wantLengths:  []int{2},
		},
		{
			name: "gap one millisecond over threshold splits",
			records: []models.RunRecord{
				runAt(base, 100),
				runAt(base.Add(gap+time.Millisecond), 110),
			},
			wantSessions: 2,
			wantLengths:  []int{1, 1},
		},
		{
			name: "unresolved timestamps are excluded",
			records: []models.RunRecord{
				runAt(base, 100),
				{ScenarioName: "1wall6targets", Score: 90},
				runAt(base.Add(2*time.Minute), 105),
			},
			wantSessions: 1,
			wantLengths:  []int{2},
		},
		{
			name: "three sessions",
			records: []models.RunRecord{
				runAt(base, 100),
				runAt(base.Add(2*time.Minute), 101),
				runAt(base.Add(1*time.Hour), 102),
				runAt(base.Add(3*time.Hour), 103),
				runAt(base.Add(3*time.Hour+5*time.Minute), 104),
			},
			wantSessions: 3,
			wantLengths:  []int{2, 1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := GroupIntoSessions(tt.records, gap)
			require.Len(t, sessions, tt.wantSessions)
			for i, s := range sessions {
				assert.Equal(t, i, s.ID)
				assert.Equal(t, tt.wantLengths[i], s.Len())
				for j := 1; j < s.Len(); j++ {
					assert.False(t, s.Runs[j].PlayedAt.Before(s.Runs[j-1].PlayedAt),
						"runs within a session must be ordered oldest to newest")
				}
			}
		})
	}
}

func TestGroupIntoSessionsOrderIndependent(t *testing.T) {
	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

	var records []models.RunRecord
	for i := 0; i < 40; i++ {
		// Four clusters of ten runs, two hours apart.
		ts := base.Add(time.Duration(i/10)*2*time.Hour + time.Duration(i%10)*90*time.Second)
		records = append(records, runAt(ts, float64(100+i)))
	}

	want := GroupIntoSessions(records, 15*time.Minute)
	require.Len(t, want, 4)

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 5; trial++ {
		shuffled := make([]models.RunRecord, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := GroupIntoSessions(shuffled, 15*time.Minute)
		assert.Equal(t, want, got, "session partitioning must not depend on input order")
	}
}

func TestGroupIntoSessionsDefaultGap(t *testing.T) {
	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	records := []models.RunRecord{
		runAt(base, 100),
		runAt(base.Add(14*time.Minute), 110),
		runAt(base.Add(40*time.Minute), 120),
	}

	// A non-positive gap falls back to the 15 minute default.
	sessions := GroupIntoSessions(records, 0)
	require.Len(t, sessions, 2)
	assert.Equal(t, 2, sessions[0].Len())
	assert.Equal(t, 1, sessions[1].Len())
}

func TestTagSessions(t *testing.T) {
	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	records := []models.RunRecord{
		runAt(base.Add(1*time.Hour), 120),
		runAt(base, 100),
		runAt(base.Add(2*time.Minute), 110),
	}

	tagged := tagSessions(records, 15*time.Minute)
	require.Len(t, tagged, 3)
	assert.Equal(t, []int{0, 0, 1}, []int{tagged[0].Session, tagged[1].Session, tagged[2].Session})
	assert.Equal(t, 100.0, tagged[0].Score)
	assert.Equal(t, 120.0, tagged[2].Score)
}
