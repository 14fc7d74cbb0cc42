package handlers

import "time"

// PlayerLoginRequest represents a player login
type PlayerLoginRequest struct {
	Name       string `json:"name"`
	Passphrase string `json:"passphrase"`
}

// AdminLoginRequest represents an admin login
type AdminLoginRequest struct {
	Password string `json:"password"`
}

// RacePredictionRequest represents a player's race picks
type RacePredictionRequest struct {
	RaceID         string `json:"race_id"`
	SprintWinnerID string `json:"sprint_winner_id"`
	RaceWinnerID   string `json:"race_winner_id"`
	Glorious7ID    string `json:"glorious_7_id"`
}

// PodiumRequest represents a predicted or official season podium
type PodiumRequest struct {
	Season int    `json:"season"`
	First  string `json:"first"`
	Second string `json:"second"`
	Third  string `json:"third"`
}

// PlayerCreateRequest represents a request to create a player
type PlayerCreateRequest struct {
	Name       string `json:"name"`
	Passphrase string `json:"passphrase"`
}

// RiderCreateRequest represents a request to create a rider
type RiderCreateRequest struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
	Team   string `json:"team"`
}

// RiderActiveRequest represents a request to toggle a rider
type RiderActiveRequest struct {
	Active bool `json:"active"`
}

// RiderSyncRequest represents a request to sync riders from the timing feed
type RiderSyncRequest struct {
	Season int `json:"season"`
}

// RaceCreateRequest represents a request to schedule a race
type RaceCreateRequest struct {
	Season   int        `json:"season_year"`
	Round    int        `json:"round_number"`
	Name     string     `json:"name"`
	Circuit  string     `json:"circuit"`
	Country  string     `json:"country"`
	RaceAt   time.Time  `json:"race_date"`
	SprintAt *time.Time `json:"sprint_date"`
	FP1At    time.Time  `json:"fp1_datetime"`
}

// RaceStatusRequest represents a request to change a race status
type RaceStatusRequest struct {
	Status string `json:"status"`
}

// ResultsRequest represents an official session classification
type ResultsRequest struct {
	RaceID     string   `json:"race_id"`
	ResultType string   `json:"result_type"`
	RiderIDs   []string `json:"rider_ids"`
}

// ImportRequest represents a request to import a classification
type ImportRequest struct {
	ResultType string `json:"result_type"`
}

// SettingsUpdateRequest represents a request to update settings
type SettingsUpdateRequest struct {
	BaseURL       string  `json:"base_url"`
	TimingFeedURL *string `json:"timing_feed_url"`
	AllowLate     *bool   `json:"allow_late_submissions"`
}

// DatabaseResetRequest represents a request to reset database tables
type DatabaseResetRequest struct {
	Tables []string `json:"tables"`
}
