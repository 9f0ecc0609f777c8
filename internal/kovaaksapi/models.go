package kovaaksapi

import "fmt"

// BenchmarkProgress is a player's rank progress across one benchmark's
// categories and scenarios.
type BenchmarkProgress struct {
	BenchmarkName string              `json:"benchmark_name"`
	BenchmarkIcon string              `json:"benchmark_icon"`
	OverallRank   float64             `json:"overall_rank"`
	Categories    map[string]Category `json:"categories"`
}

// Category is one benchmark category (clicking, tracking, switching).
type Category struct {
	CategoryRank float64                     `json:"category_rank"`
	RankMaxes    []float64                   `json:"rank_maxes"`
	Scenarios    map[string]ScenarioProgress `json:"scenarios"`
}

// ScenarioProgress is a player's standing in one benchmark scenario.
type ScenarioProgress struct {
	Score           float64   `json:"score"`
	LeaderboardRank int       `json:"leaderboard_rank"`
	ScenarioRank    float64   `json:"scenario_rank"`
	RankMaxes       []float64 `json:"rank_maxes"`
}

// Profile is a player's webapp profile.
type Profile struct {
	PlayerID      int    `json:"playerId"`
	Username      string `json:"username"`
	SteamID       string `json:"steamId"`
	SteamUsername string `json:"steamAccountName"`
	Country       string `json:"country"`
}

// NotFoundError is returned for HTTP 404 responses.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}
