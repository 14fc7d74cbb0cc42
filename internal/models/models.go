package models

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

// Race lifecycle values stored in races.status
const (
	RaceUpcoming   = "upcoming"
	RaceInProgress = "in_progress"
	RaceCompleted  = "completed"
)

// Session types a result can belong to
const (
	ResultSprint = "sprint"
	ResultRace   = "race"
)

// Player is a participant in the prediction game
type Player struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	PassphraseHash string    `db:"passphrase_hash" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Rider is a competitor on the grid
type Rider struct {
	ID     string `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Number int    `db:"number" json:"number"`
	Team   string `db:"team" json:"team"`
	Active bool   `db:"active" json:"active"`
}

// Race is one round of the season calendar. FP1At is the prediction deadline.
type Race struct {
	ID          string    `db:"id" json:"id"`
	SeasonYear  int       `db:"season_year" json:"season_year"`
	RoundNumber int       `db:"round_number" json:"round_number"`
	Name        string    `db:"name" json:"name"`
	Circuit     string    `db:"circuit" json:"circuit"`
	Country     string    `db:"country" json:"country"`
	RaceAt      time.Time `db:"race_at" json:"race_date"`
	SprintAt    null.Time `db:"sprint_at" json:"sprint_date"`
	FP1At       time.Time `db:"fp1_at" json:"fp1_datetime"`
	Status      string    `db:"status" json:"status"`
}

// RaceResult is one official classification entry
type RaceResult struct {
	RaceID     string `db:"race_id" json:"race_id"`
	ResultType string `db:"result_type" json:"result_type"`
	Position   int    `db:"position" json:"position"`
	RiderID    string `db:"rider_id" json:"rider_id"`
}

// RacePrediction holds a player's picks for one race
type RacePrediction struct {
	ID             string    `db:"id" json:"id"`
	PlayerID       string    `db:"player_id" json:"player_id"`
	RaceID         string    `db:"race_id" json:"race_id"`
	SprintWinnerID string    `db:"sprint_winner_id" json:"sprint_winner_id"`
	RaceWinnerID   string    `db:"race_winner_id" json:"race_winner_id"`
	Glorious7ID    string    `db:"glorious_7_id" json:"glorious_7_id"`
	SubmittedAt    time.Time `db:"submitted_at" json:"submitted_at"`
	IsLate         bool      `db:"is_late" json:"is_late"`

	// State is filled in on reads: "submitted" until FP1, then "locked"
	State string `db:"-" json:"state,omitempty"`
}

// ChampionshipPrediction holds a player's predicted season podium
type ChampionshipPrediction struct {
	ID            string    `db:"id" json:"id"`
	PlayerID      string    `db:"player_id" json:"player_id"`
	SeasonYear    int       `db:"season_year" json:"season_year"`
	FirstPlaceID  string    `db:"first_place_id" json:"first_place_id"`
	SecondPlaceID string    `db:"second_place_id" json:"second_place_id"`
	ThirdPlaceID  string    `db:"third_place_id" json:"third_place_id"`
	SubmittedAt   time.Time `db:"submitted_at" json:"submitted_at"`
}

// ChampionshipResult is one entry of the official final podium
type ChampionshipResult struct {
	SeasonYear int    `db:"season_year" json:"season_year"`
	Position   int    `db:"position" json:"position"`
	RiderID    string `db:"rider_id" json:"rider_id"`
}

// PlayerScore is the scored breakdown of one race prediction
type PlayerScore struct {
	PlayerID        string    `db:"player_id" json:"player_id"`
	RaceID          string    `db:"race_id" json:"race_id"`
	SprintPoints    int       `db:"sprint_points" json:"sprint_points"`
	RacePoints      int       `db:"race_points" json:"race_points"`
	Glorious7Points int       `db:"glorious_7_points" json:"glorious_7_points"`
	PenaltyPoints   int       `db:"penalty_points" json:"penalty_points"`
	TotalPoints     int       `db:"total_points" json:"total_points"`
	CalculatedAt    time.Time `db:"calculated_at" json:"calculated_at"`
}

// ChampionshipScore is a player's season podium score
type ChampionshipScore struct {
	PlayerID     string    `db:"player_id" json:"player_id"`
	SeasonYear   int       `db:"season_year" json:"season_year"`
	Points       int       `db:"points" json:"points"`
	CalculatedAt time.Time `db:"calculated_at" json:"calculated_at"`
}

// Penalty is a deduction assessed for a late submission
type Penalty struct {
	ID            string    `db:"id" json:"id"`
	PlayerID      string    `db:"player_id" json:"player_id"`
	RaceID        string    `db:"race_id" json:"race_id"`
	OffenseNumber int       `db:"offense_number" json:"offense_number"`
	PenaltyPoints int       `db:"penalty_points" json:"penalty_points"`
	Reason        string    `db:"reason" json:"reason"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// LeaderboardEntry is one row of the season standings
type LeaderboardEntry struct {
	Rank               int    `db:"-" json:"rank"`
	PlayerID           string `db:"player_id" json:"player_id"`
	Name               string `db:"name" json:"name"`
	RacePoints         int    `db:"race_points" json:"race_points"`
	ChampionshipPoints int    `db:"championship_points" json:"championship_points"`
	TotalPoints        int    `db:"total_points" json:"total_points"`
}

// PickBreakdown describes one pick and how it scored
type PickBreakdown struct {
	RiderID     string   `json:"rider_id"`
	RiderName   string   `json:"rider_name"`
	RiderNumber int      `json:"rider_number"`
	Position    null.Int `json:"position"` // null when the rider was not classified
	Points      int      `json:"points"`
}

// ScoreBreakdown explains a player's score for a race
type ScoreBreakdown struct {
	PlayerID      string        `json:"player_id"`
	PlayerName    string        `json:"player_name"`
	RaceID        string        `json:"race_id"`
	IsLate        bool          `json:"is_late"`
	SprintWinner  PickBreakdown `json:"sprint_winner"`
	RaceWinner    PickBreakdown `json:"race_winner"`
	Glorious7     PickBreakdown `json:"glorious_7"`
	PenaltyPoints int           `json:"penalty_points"`
	TotalPoints   int           `json:"total_points"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
