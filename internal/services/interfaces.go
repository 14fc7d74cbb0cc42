package services

import (
	"context"

	"github.com/abrezinsky/gridpicks/internal/deadline"
	"github.com/abrezinsky/gridpicks/internal/models"
	"github.com/abrezinsky/gridpicks/internal/scoring"
)

// PlayerServicer defines the interface for player operations
type PlayerServicer interface {
	CreatePlayer(ctx context.Context, name, passphrase string) (*models.Player, error)
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
	DeletePlayer(ctx context.Context, id string) error
	Authenticate(ctx context.Context, name, passphrase string) (*models.Player, error)
	InviteURL(ctx context.Context, playerID string) (string, error)
	InviteQR(ctx context.Context, playerID string) ([]byte, error)
}

// CalendarServicer defines the interface for rider and race operations
type CalendarServicer interface {
	CreateRider(ctx context.Context, in RiderInput) (*models.Rider, error)
	ListRiders(ctx context.Context, activeOnly bool) ([]models.Rider, error)
	SetRiderActive(ctx context.Context, id string, active bool) error
	SyncRidersFromFeed(ctx context.Context, season int) (*RiderSyncResult, error)
	CreateRace(ctx context.Context, in RaceInput) (*models.Race, error)
	GetRace(ctx context.Context, id string) (*models.Race, error)
	ListRaces(ctx context.Context, season int) ([]models.Race, error)
	SetRaceStatus(ctx context.Context, id, status string) error
	RaceStatus(ctx context.Context, id string) (*RaceWithDeadline, error)
	NextDeadline(ctx context.Context, season int) (*RaceWithDeadline, error)
	ChampionshipDeadline(ctx context.Context, season int) (deadline.Status, error)
}

// PredictionServicer defines the interface for prediction operations
type PredictionServicer interface {
	SubmitRacePrediction(ctx context.Context, playerID string, in RacePredictionInput) (*RacePredictionResult, error)
	GetRacePrediction(ctx context.Context, playerID, raceID string) (*models.RacePrediction, error)
	SubmitChampionshipPrediction(ctx context.Context, playerID string, season int, podium scoring.Podium) (*models.ChampionshipPrediction, error)
	GetChampionshipPrediction(ctx context.Context, playerID string, season int) (*models.ChampionshipPrediction, error)
}

// ResultsServicer defines the interface for results operations
type ResultsServicer interface {
	RecordRaceResults(ctx context.Context, raceID, resultType string, riderIDs []string) error
	GetRaceResults(ctx context.Context, raceID string) (*RaceResults, error)
	RescoreRace(ctx context.Context, raceID string) ([]models.PlayerScore, error)
	ImportRaceResults(ctx context.Context, raceID, resultType string) ([]string, error)
	RecordChampionshipResults(ctx context.Context, season int, podium scoring.Podium) error
	GetChampionshipResults(ctx context.Context, season int) (*scoring.Podium, error)
	RescoreChampionship(ctx context.Context, season int) ([]models.ChampionshipScore, error)
	SetBroadcaster(b Broadcaster)
}

// LeaderboardServicer defines the interface for standings operations
type LeaderboardServicer interface {
	Standings(ctx context.Context, season int) ([]models.LeaderboardEntry, error)
	RaceScores(ctx context.Context, raceID string) ([]models.PlayerScore, error)
	Breakdown(ctx context.Context, raceID, playerID string) ([]models.ScoreBreakdown, error)
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	LateSubmissionsAllowed(ctx context.Context) (bool, error)
	SetLateSubmissionsAllowed(ctx context.Context, allowed bool) error
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	GetTimingFeedURL(ctx context.Context) (string, error)
	SetTimingFeedURL(ctx context.Context, url string) error
	AllSettings(ctx context.Context) (map[string]interface{}, error)
	UpdateSettings(ctx context.Context, settings Settings) error
	GetStats(ctx context.Context) (map[string]interface{}, error)
	ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error)
}

// Ensure concrete types implement interfaces
var (
	_ PlayerServicer      = (*PlayerService)(nil)
	_ CalendarServicer    = (*CalendarService)(nil)
	_ PredictionServicer  = (*PredictionService)(nil)
	_ ResultsServicer     = (*ResultsService)(nil)
	_ LeaderboardServicer = (*LeaderboardService)(nil)
	_ SettingsServicer    = (*SettingsService)(nil)
)
