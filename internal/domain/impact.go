package domain

import "time"

// ImpactStats is a derived, per-user projection over completed returns.
// It is recomputed from transaction history and never mutated directly.
type ImpactStats struct {
	UserNetID        string    `json:"user_net_id"`
	ContainersReused int       `json:"containers_reused"`
	WasteAvertedLbs  float64   `json:"waste_averted_lbs"`
	CarbonSavedKg    float64   `json:"carbon_saved_kg"`
	WaterSavedGal    float64   `json:"water_saved_gal"`
	Streak           int       `json:"streak"`
	LongestStreak    int       `json:"longest_streak"`
	Badges           []string  `json:"badges"`
	LeaderboardRank  int32     `json:"leaderboard_rank"`
	UpdatedOn        time.Time `json:"updated_on"`
}
