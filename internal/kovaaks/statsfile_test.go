package kovaaks

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStatsFile = `Kill #,Timestamp,Bot,Weapon,TTK,Shots,Hits,Accuracy
1,13:37:01.120,bot,pistol,0.420s,3,2,0.667
2,13:37:02.900,bot,pistol,0.380s,2,2,1.000

Kills:,2
Score:,860.5
Hit Count:,78
Miss Count:,22
Avg TTK:,0.41
Scenario:,1wall6targets
Date Played:,2026-03-01
Challenge Start:,13:36:58.000
Game Version:,3.2.1
`

func writeSample(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseFile(t *testing.T) {
	path := writeSample(t, "1wall6targets - Challenge - 2026.03.01-13.36.58 Stats.csv", sampleStatsFile)

	raw, err := ParseFile(path)
	require.NoError(t, err)

	assert.Equal(t, "860.5", raw.Stats["Score"])
	assert.Equal(t, "1wall6targets", raw.Stats["Scenario"])
	assert.Equal(t, "13:36:58.000", raw.Stats["Challenge Start"])
	require.Len(t, raw.Events, 3) // header plus two kill rows
	assert.Equal(t, "Kill #", raw.Events[0][0])
}

func TestToRunRecord(t *testing.T) {
	path := writeSample(t, "1wall6targets - Challenge - 2026.03.01-13.36.58 Stats.csv", sampleStatsFile)

	raw, err := ParseFile(path)
	require.NoError(t, err)

	rec, err := raw.ToRunRecord(time.UTC)
	require.NoError(t, err)

	assert.Equal(t, "1wall6targets", rec.ScenarioName)
	assert.InDelta(t, 860.5, rec.Score, 1e-9)
	assert.InDelta(t, 0.78, rec.Accuracy, 1e-9)
	assert.InDelta(t, 0.41, rec.TimeToKill, 1e-9)

	// The precise file-name timestamp wins over the stat fields.
	want := time.Date(2026, 3, 1, 13, 36, 58, 0, time.UTC)
	assert.True(t, rec.PlayedAt.Equal(want), "got %v", rec.PlayedAt)
}

func TestResolveTimestampChain(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		name     string
		fileName string
		stats    map[string]any
		want     time.Time
	}{
		{
			name:     "file name timestamp preferred",
			fileName: "x - Challenge - 2026.03.01-18.22.33 Stats.csv",
			stats:    map[string]any{"Date Played": "2020-01-01", "Challenge Start": "00:00:00"},
			want:     time.Date(2026, 3, 1, 18, 22, 33, 0, loc),
		},
		{
			name:     "date played combined with challenge start",
			fileName: "no timestamp here.csv",
			stats:    map[string]any{"Date Played": "2026-03-01", "Challenge Start": "18:22:33"},
			want:     time.Date(2026, 3, 1, 18, 22, 33, 0, loc),
		},
		{
			name:     "generic date played fallback",
			fileName: "no timestamp here.csv",
			stats:    map[string]any{"Date Played": "2026-03-01 18:22:33"},
			want:     time.Date(2026, 3, 1, 18, 22, 33, 0, loc),
		},
		{
			name:     "date only",
			fileName: "no timestamp here.csv",
			stats:    map[string]any{"Date Played": "2026-03-01"},
			want:     time.Date(2026, 3, 1, 0, 0, 0, 0, loc),
		},
		{
			name:     "nothing resolvable",
			fileName: "no timestamp here.csv",
			stats:    map[string]any{"Date Played": "not a date"},
			want:     time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTimestamp(tt.fileName, tt.stats, loc)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestResolveAccuracy(t *testing.T) {
	// Percentage form normalized to a fraction.
	assert.InDelta(t, 0.78, resolveAccuracy(map[string]any{"Accuracy": "78"}), 1e-9)
	// Fraction form kept as is.
	assert.InDelta(t, 0.78, resolveAccuracy(map[string]any{"Accuracy": "0.78"}), 1e-9)
	// Derived from hit and miss counts.
	assert.InDelta(t, 0.75, resolveAccuracy(map[string]any{"Hit Count": "30", "Miss Count": "10"}), 1e-9)
	// Nothing to go on.
	assert.Equal(t, 0.0, resolveAccuracy(map[string]any{}))
}

func TestToRunRecordMissingScenario(t *testing.T) {
	path := writeSample(t, "weird.csv", "Score:,100\n")
	raw, err := ParseFile(path)
	require.NoError(t, err)

	_, err = raw.ToRunRecord(time.UTC)
	assert.Error(t, err)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	good := "1wall6targets - Challenge - 2026.03.01-13.36.58 Stats.csv"
	require.NoError(t, os.WriteFile(filepath.Join(dir, good), []byte(sampleStatsFile), 0o644))
	// A CSV with no scenario name is skipped, not fatal.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bogus.csv"), []byte("Score:,1\n"), 0o644))
	// Non-CSV files are ignored entirely.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))

	records, skipped, err := LoadDir(dir, 0, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, records, 1)
	assert.Equal(t, "1wall6targets", records[0].ScenarioName)
	assert.Equal(t, good, records[0].FileName)
}
