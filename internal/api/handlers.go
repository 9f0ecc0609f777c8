package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arm8-2/refleks-insights/internal/analysis"
	"github.com/arm8-2/refleks-insights/internal/api/response"
	"github.com/arm8-2/refleks-insights/internal/storage/models"
)

// listScenarios returns per-scenario aggregates for all stored runs.
func (s *Server) listScenarios(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.runs.ListScenarios(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, summaries)
}

// listRuns returns all stored runs for one scenario, oldest first.
func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	records, err := s.scenarioRuns(w, r)
	if err != nil {
		return
	}
	response.Success(w, records)
}

// listSessions returns the scenario's runs grouped into sessions.
func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	records, err := s.scenarioRuns(w, r)
	if err != nil {
		return
	}

	gap, err := s.requestGap(r)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	response.Success(w, analysis.GroupIntoSessions(records, gap))
}

// getCurves returns the expectation curve and the expected best-of-length
// curve for one scenario and metric.
func (s *Server) getCurves(w http.ResponseWriter, r *http.Request) {
	records, err := s.scenarioRuns(w, r)
	if err != nil {
		return
	}

	metric, err := requestMetric(r)
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	gap, err := s.requestGap(r)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	sessions := analysis.GroupIntoSessions(records, gap)
	response.Success(w, map[string]interface{}{
		"metric":       metric,
		"byIndex":      analysis.ExpectedByIndex(sessions, metric),
		"bestVsLength": analysis.ExpectedBestVsLength(sessions, metric),
		"sessionCount": len(sessions),
		"gapMinutes":   gap.Minutes(),
	})
}

// getRecommendation returns session-length guidance for one scenario.
func (s *Server) getRecommendation(w http.ResponseWriter, r *http.Request) {
	records, err := s.scenarioRuns(w, r)
	if err != nil {
		return
	}

	metric, err := requestMetric(r)
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	gap, err := s.requestGap(r)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	sessions := analysis.GroupIntoSessions(records, gap)
	byIndex := analysis.ExpectedByIndex(sessions, metric)
	best := analysis.ExpectedBestVsLength(sessions, metric)

	response.Success(w, analysis.RecommendLengths(byIndex, best, nil))
}

// getForecast returns the next-highscore forecast for one scenario.
func (s *Server) getForecast(w http.ResponseWriter, r *http.Request) {
	records, err := s.scenarioRuns(w, r)
	if err != nil {
		return
	}

	gap, err := s.requestGap(r)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	response.Success(w, analysis.PredictNextHighscore(records, gap))
}

// scenarioRuns loads the runs for the scenario named in the URL. On
// failure it writes the error response and returns a non-nil error.
func (s *Server) scenarioRuns(w http.ResponseWriter, r *http.Request) ([]models.RunRecord, error) {
	name := chi.URLParam(r, "name")
	if name == "" {
		err := fmt.Errorf("scenario name is required")
		response.BadRequest(w, err)
		return nil, err
	}

	records, err := s.runs.ListByScenario(r.Context(), name)
	if err != nil {
		response.InternalError(w, err)
		return nil, err
	}
	if len(records) == 0 {
		err := fmt.Errorf("no runs recorded for scenario %q", name)
		response.NotFound(w, err)
		return nil, err
	}

	return records, nil
}

// requestGap resolves the session gap for a request, allowing a
// gap_minutes query override of the server default.
func (s *Server) requestGap(r *http.Request) (time.Duration, error) {
	raw := r.URL.Query().Get("gap_minutes")
	if raw == "" {
		return s.sessionGap, nil
	}

	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes < 1 || minutes > 240 {
		return 0, fmt.Errorf("gap_minutes must be an integer between 1 and 240")
	}
	return time.Duration(minutes) * time.Minute, nil
}

// requestMetric resolves the metric query parameter, defaulting to score.
func requestMetric(r *http.Request) (models.Metric, error) {
	raw := r.URL.Query().Get("metric")
	if raw == "" {
		return models.MetricScore, nil
	}

	metric := models.Metric(raw)
	if !metric.Valid() {
		return "", fmt.Errorf("unknown metric %q", raw)
	}
	return metric, nil
}
