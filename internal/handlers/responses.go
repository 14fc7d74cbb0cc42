package handlers

import "github.com/abrezinsky/gridpicks/internal/models"

// LoginResponse is returned after a successful player login
type LoginResponse struct {
	Token  string         `json:"token"`
	Player *models.Player `json:"player"`
}

// MeResponse describes the logged-in player
type MeResponse struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// InviteResponse carries a player's invite link
type InviteResponse struct {
	URL string `json:"url"`
}

// ImportResponse lists the riders imported in finishing order
type ImportResponse struct {
	RaceID     string   `json:"race_id"`
	ResultType string   `json:"result_type"`
	RiderIDs   []string `json:"rider_ids"`
}

// RescoreResponse summarises a rescore
type RescoreResponse struct {
	RaceID string               `json:"race_id"`
	Scores []models.PlayerScore `json:"scores"`
}

// LeaderboardResponse is the season standings
type LeaderboardResponse struct {
	Season    int                       `json:"season"`
	Standings []models.LeaderboardEntry `json:"standings"`
}
