package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/arm8-2/refleks-insights/internal/storage/models"
)

// RunRepository persists and retrieves scenario run records.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a run repository over an open database.
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db.Conn()}
}

// SaveRun inserts a run record. Records whose file name has already been
// imported are ignored; returns true when a new row was written.
func (r *RunRepository) SaveRun(ctx context.Context, rec models.RunRecord) (bool, error) {
	var ttk sql.NullFloat64
	if rec.HasTimeToKill() {
		ttk = sql.NullFloat64{Float64: rec.TimeToKill, Valid: true}
	}

	playedAtMs := int64(0)
	if rec.HasTimestamp() {
		playedAtMs = rec.PlayedAt.UnixMilli()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO runs (scenario_name, score, accuracy, time_to_kill, played_at_ms, file_name)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ScenarioName, rec.Score, rec.Accuracy, ttk, playedAtMs, rec.FileName,
	)
	if err != nil {
		return false, fmt.Errorf("failed to save run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// SaveRuns inserts a batch of run records, returning how many were new.
func (r *RunRepository) SaveRuns(ctx context.Context, recs []models.RunRecord) (int, error) {
	inserted := 0
	for _, rec := range recs {
		ok, err := r.SaveRun(ctx, rec)
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}

// ListByScenario returns every run for one scenario ordered oldest to
// newest, with unresolved timestamps last.
func (r *RunRepository) ListByScenario(ctx context.Context, scenarioName string) ([]models.RunRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT scenario_name, score, accuracy, time_to_kill, played_at_ms, file_name
		FROM runs
		WHERE scenario_name = ?
		ORDER BY CASE WHEN played_at_ms = 0 THEN 1 ELSE 0 END, played_at_ms, id`,
		scenarioName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []models.RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return records, nil
}

// ListScenarios returns a per-scenario summary of the stored history,
// ordered by most recently played.
func (r *RunRepository) ListScenarios(ctx context.Context) ([]models.ScenarioSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT scenario_name, COUNT(*), MAX(score), MAX(played_at_ms)
		FROM runs
		GROUP BY scenario_name
		ORDER BY MAX(played_at_ms) DESC, scenario_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenarios: %w", err)
	}
	defer rows.Close()

	var summaries []models.ScenarioSummary
	for rows.Next() {
		var s models.ScenarioSummary
		var lastMs int64
		if err := rows.Scan(&s.Name, &s.RunCount, &s.BestScore, &lastMs); err != nil {
			return nil, fmt.Errorf("failed to scan scenario summary: %w", err)
		}
		if lastMs > 0 {
			s.LastPlayed = time.UnixMilli(lastMs).UTC()
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scenarios: %w", err)
	}
	return summaries, nil
}

// CountRuns returns the total number of stored runs.
func (r *RunRepository) CountRuns(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}

func scanRun(rows *sql.Rows) (models.RunRecord, error) {
	var rec models.RunRecord
	var ttk sql.NullFloat64
	var playedAtMs int64

	if err := rows.Scan(&rec.ScenarioName, &rec.Score, &rec.Accuracy, &ttk, &playedAtMs, &rec.FileName); err != nil {
		return models.RunRecord{}, fmt.Errorf("failed to scan run: %w", err)
	}

	if ttk.Valid {
		rec.TimeToKill = ttk.Float64
	} else {
		rec.TimeToKill = math.NaN()
	}
	if playedAtMs > 0 {
		rec.PlayedAt = time.UnixMilli(playedAtMs).UTC()
	}
	return rec, nil
}
