package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arm8-2/refleks-insights/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.healthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/scenarios", s.listScenarios)

		r.Route("/scenarios/{name}", func(r chi.Router) {
			r.Get("/runs", s.listRuns)
			r.Get("/sessions", s.listSessions)
			r.Get("/curves", s.getCurves)
			r.Get("/recommendation", s.getRecommendation)
			r.Get("/forecast", s.getForecast)
		})
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "refleks-insights-api",
	})
}
