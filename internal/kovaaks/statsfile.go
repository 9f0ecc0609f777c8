// Package kovaaks parses Kovaak's challenge-result stats files and adapts
// them into typed run records at the ingestion boundary, so the analytics
// core never sees a loose key-value map.
package kovaaks

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arm8-2/refleks-insights/internal/storage/models"
)

// RawScenario is one parsed stats file before adaptation: the loose
// key-value tail section plus the kill-event table rows.
type RawScenario struct {
	FilePath string
	FileName string
	Stats    map[string]any
	Events   [][]string
}

// ParseFile reads one Kovaak's stats CSV. The format is a kill-event table
// followed by "Key:,Value" summary rows; keys keep their original names
// ("Score", "Date Played", "Challenge Start", ...).
func ParseFile(path string) (*RawScenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stats file: %w", err)
	}
	defer f.Close()

	raw := &RawScenario{
		FilePath: path,
		FileName: filepath.Base(path),
		Stats:    make(map[string]any),
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, ",")
		key := fields[0]

		// Summary rows look like "Score:,123.45"; everything else is
		// table data (headers or kill events).
		if strings.HasSuffix(key, ":") && len(fields) >= 2 {
			name := strings.TrimSuffix(key, ":")
			raw.Stats[name] = strings.TrimSpace(strings.Join(fields[1:], ","))
			continue
		}

		raw.Events = append(raw.Events, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stats file: %w", err)
	}

	return raw, nil
}

// ToRunRecord adapts a parsed stats file into a typed run record. The
// scenario name falls back to the file-name prefix when the "Scenario"
// stat is absent. Accuracy is normalized to a 0..1 fraction whether the
// file stored a fraction or a percentage, or is derived from hit and miss
// counts when not reported at all.
func (raw *RawScenario) ToRunRecord(loc *time.Location) (models.RunRecord, error) {
	name := toString(raw.Stats["Scenario"])
	if name == "" {
		name = scenarioFromFileName(raw.FileName)
	}
	if name == "" {
		return models.RunRecord{}, fmt.Errorf("stats file %s has no scenario name", raw.FileName)
	}

	rec := models.RunRecord{
		ScenarioName: name,
		Score:        toFloat(raw.Stats["Score"]),
		Accuracy:     resolveAccuracy(raw.Stats),
		TimeToKill:   resolveTTK(raw.Stats),
		PlayedAt:     ResolveTimestamp(raw.FileName, raw.Stats, loc),
		FileName:     raw.FileName,
	}
	return rec, nil
}

// scenarioFromFileName strips the " - Challenge - <timestamp> Stats.csv"
// suffix from a stats file name.
func scenarioFromFileName(fileName string) string {
	if i := strings.Index(fileName, " - Challenge - "); i > 0 {
		return fileName[:i]
	}
	return ""
}

func resolveAccuracy(stats map[string]any) float64 {
	if v, ok := stats["Accuracy"]; ok {
		acc := toFloat(v)
		// Stored x100 upstream in some exports.
		if acc > 1 {
			acc /= 100
		}
		if acc < 0 {
			acc = 0
		}
		return acc
	}

	hits := toFloat(stats["Hit Count"])
	misses := toFloat(stats["Miss Count"])
	if hits+misses <= 0 {
		return 0
	}
	return hits / (hits + misses)
}

func resolveTTK(stats map[string]any) float64 {
	for _, key := range []string{"Real Avg TTK (s)", "Avg TTK"} {
		if v, ok := stats[key]; ok {
			return toFloat(v)
		}
	}
	return math.NaN()
}

// LoadDir parses every stats CSV in dir (newest first, capped at limit
// when limit > 0) and returns the adapted run records plus the count of
// files that could not be parsed. Unparseable files are skipped, not
// fatal.
func LoadDir(dir string, limit int, loc *time.Location) ([]models.RunRecord, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("read stats directory: %w", err)
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var files []candidate
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, candidate{path: filepath.Join(dir, e.Name()), modTime: info.ModTime()})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].modTime.After(files[j].modTime) })
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	var records []models.RunRecord
	skipped := 0
	for _, f := range files {
		raw, err := ParseFile(f.path)
		if err != nil {
			skipped++
			continue
		}
		rec, err := raw.ToRunRecord(loc)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}
