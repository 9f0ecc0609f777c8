package kovaaksapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBenchmarkProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/benchmarks/player-progress-rank-benchmark", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("benchmarkId"))
		assert.Equal(t, "76561198000000001", r.URL.Query().Get("steamId"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"benchmark_name": "Voltaic S5",
			"overall_rank": 3,
			"categories": {
				"Clicking": {
					"category_rank": 3,
					"rank_maxes": [500, 600, 700],
					"scenarios": {
						"Pasu Voltaic Easy": {
							"score": 612.4,
							"leaderboard_rank": 1543,
							"scenario_rank": 3,
							"rank_maxes": [500, 600, 700]
						}
					}
				}
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	progress, err := client.GetBenchmarkProgress(context.Background(), 42, "76561198000000001")
	require.NoError(t, err)

	assert.Equal(t, "Voltaic S5", progress.BenchmarkName)
	assert.Equal(t, 3.0, progress.OverallRank)

	clicking, ok := progress.Categories["Clicking"]
	require.True(t, ok)
	scen, ok := clicking.Scenarios["Pasu Voltaic Easy"]
	require.True(t, ok)
	assert.Equal(t, 612.4, scen.Score)
	assert.Equal(t, 1543, scen.LeaderboardRank)
}

func TestGetProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/profile/by-username", r.URL.Path)
		assert.Equal(t, "someplayer", r.URL.Query().Get("username"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"playerId": 99, "username": "someplayer", "steamId": "76561198000000001"}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	profile, err := client.GetProfile(context.Background(), "someplayer")
	require.NoError(t, err)
	assert.Equal(t, 99, profile.PlayerID)
	assert.Equal(t, "76561198000000001", profile.SteamID)
}

func TestNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.GetProfile(context.Background(), "nobody")
	require.Error(t, err)

	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.GetProfile(context.Background(), "someplayer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
