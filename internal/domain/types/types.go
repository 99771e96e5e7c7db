// Package types contains common read-side types used across the application
package types

import (
	"time"

	"github.com/okian/baseline/internal/domain/model"
)

// RankingEntry is one row of a surface ranking.
type RankingEntry struct {
	Rank          int       `json:"rank"`
	PlayerID      string    `json:"player_id"`
	Name          string    `json:"name"`
	Country       string    `json:"country,omitempty"`
	Rating        float64   `json:"rating"`
	Peak          float64   `json:"peak_rating"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	MatchesPlayed int       `json:"matches_played"`
	LastMatchDate time.Time `json:"last_match_date"`
}

// PlayerProfile bundles everything the profile page needs: the player,
// their rating on every surface they played, and their recent matches.
// Players below the ranking threshold still get a full profile.
type PlayerProfile struct {
	Player        model.PlayerRef                `json:"player"`
	Ratings       map[string]model.SurfaceRating `json:"ratings"`
	RecentMatches []model.HistoryEntry           `json:"recent_matches"`
}

// Metadata describes the published snapshot for the status endpoint.
type Metadata struct {
	LastUpdate   time.Time `json:"last_update"`
	TotalMatches int       `json:"total_matches"`
	TotalPlayers int       `json:"total_players"`
	Version      uint64    `json:"version"`
}
