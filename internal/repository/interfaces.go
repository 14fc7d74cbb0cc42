package repository

import (
	"context"

	"github.com/abrezinsky/gridpicks/internal/models"
)

// PlayerRepository defines player data operations
type PlayerRepository interface {
	CreatePlayer(ctx context.Context, p *models.Player) error
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	GetPlayerByName(ctx context.Context, name string) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
	DeletePlayer(ctx context.Context, id string) error
}

// CalendarRepository defines rider and race data operations
type CalendarRepository interface {
	CreateRider(ctx context.Context, rider *models.Rider) error
	GetRider(ctx context.Context, id string) (*models.Rider, error)
	GetRiderByNumber(ctx context.Context, number int) (*models.Rider, error)
	ListRiders(ctx context.Context, activeOnly bool) ([]models.Rider, error)
	SetRiderActive(ctx context.Context, id string, active bool) error
	CreateRace(ctx context.Context, race *models.Race) error
	GetRace(ctx context.Context, id string) (*models.Race, error)
	ListRaces(ctx context.Context, season int) ([]models.Race, error)
	FirstRace(ctx context.Context, season int) (*models.Race, error)
	SetRaceStatus(ctx context.Context, id, status string) error
}

// PredictionRepository defines prediction and penalty data operations
type PredictionRepository interface {
	GetRacePrediction(ctx context.Context, playerID, raceID string) (*models.RacePrediction, error)
	UpsertRacePrediction(ctx context.Context, p *models.RacePrediction) error
	InsertLatePrediction(ctx context.Context, p *models.RacePrediction, penaltyFor func(offense int) int) (*models.Penalty, error)
	ListRacePredictions(ctx context.Context, raceID, playerID string) ([]models.RacePrediction, error)
	GetChampionshipPrediction(ctx context.Context, playerID string, season int) (*models.ChampionshipPrediction, error)
	UpsertChampionshipPrediction(ctx context.Context, p *models.ChampionshipPrediction) error
	ListChampionshipPredictions(ctx context.Context, season int) ([]models.ChampionshipPrediction, error)
	ListPenalties(ctx context.Context, raceID string) ([]models.Penalty, error)
}

// ResultRepository defines official result data operations
type ResultRepository interface {
	ReplaceRaceResults(ctx context.Context, raceID, resultType string, riderIDs []string) error
	ListRaceResults(ctx context.Context, raceID string) ([]models.RaceResult, error)
	HasRaceResults(ctx context.Context, raceID string) (bool, error)
	ReplaceChampionshipResults(ctx context.Context, season int, riderIDs []string) error
	ListChampionshipResults(ctx context.Context, season int) ([]models.ChampionshipResult, error)
}

// ScoreRepository defines stored score operations
type ScoreRepository interface {
	ReplaceRaceScores(ctx context.Context, raceID string, scores []models.PlayerScore) error
	ListRaceScores(ctx context.Context, raceID, playerID string) ([]models.PlayerScore, error)
	ReplaceChampionshipScores(ctx context.Context, season int, scores []models.ChampionshipScore) error
	ListChampionshipScores(ctx context.Context, season int) ([]models.ChampionshipScore, error)
	Standings(ctx context.Context, season int) ([]models.LeaderboardEntry, error)
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	GetGameStats(ctx context.Context) (map[string]interface{}, error)
	ClearTable(ctx context.Context, table string) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	PlayerRepository
	CalendarRepository
	PredictionRepository
	ResultRepository
	ScoreRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
