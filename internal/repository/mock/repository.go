package mock

import (
	"context"

	"github.com/abrezinsky/gridpicks/internal/models"
	"github.com/abrezinsky/gridpicks/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.ReplaceRaceScoresError = errors.New("database error")
//	svc := services.NewResultsService(log, mockRepo, clock, feed)
//	err := svc.RescoreRace(ctx, raceID)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Player Errors =====
	CreatePlayerError    error
	GetPlayerError       error
	GetPlayerByNameError error
	ListPlayersError     error

	// ===== Calendar Errors =====
	CreateRiderError      error
	GetRiderError         error
	GetRiderByNumberError error
	ListRidersError       error
	CreateRaceError       error
	GetRaceError          error
	ListRacesError        error
	FirstRaceError        error
	SetRaceStatusError    error

	// ===== Prediction Errors =====
	GetRacePredictionError            error
	UpsertRacePredictionError         error
	InsertLatePredictionError         error
	ListRacePredictionsError          error
	GetChampionshipPredictionError    error
	UpsertChampionshipPredictionError error
	ListChampionshipPredictionsError  error
	ListPenaltiesError                error

	// ===== Result Errors =====
	ReplaceRaceResultsError         error
	ListRaceResultsError            error
	HasRaceResultsError             error
	ReplaceChampionshipResultsError error
	ListChampionshipResultsError    error

	// ===== Score Errors =====
	ReplaceRaceScoresError         error
	ListRaceScoresError            error
	ReplaceChampionshipScoresError error
	StandingsError                 error

	// ===== Settings Errors =====
	GetSettingError   error
	SetSettingError   error
	GetGameStatsError error
	ClearTableError   error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Player Methods =====

func (m *Repository) CreatePlayer(ctx context.Context, p *models.Player) error {
	if m.CreatePlayerError != nil {
		return m.CreatePlayerError
	}
	return m.FullRepository.CreatePlayer(ctx, p)
}

func (m *Repository) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	if m.GetPlayerError != nil {
		return nil, m.GetPlayerError
	}
	return m.FullRepository.GetPlayer(ctx, id)
}

func (m *Repository) GetPlayerByName(ctx context.Context, name string) (*models.Player, error) {
	if m.GetPlayerByNameError != nil {
		return nil, m.GetPlayerByNameError
	}
	return m.FullRepository.GetPlayerByName(ctx, name)
}

func (m *Repository) ListPlayers(ctx context.Context) ([]models.Player, error) {
	if m.ListPlayersError != nil {
		return nil, m.ListPlayersError
	}
	return m.FullRepository.ListPlayers(ctx)
}

// ===== Calendar Methods =====

func (m *Repository) CreateRider(ctx context.Context, rider *models.Rider) error {
	if m.CreateRiderError != nil {
		return m.CreateRiderError
	}
	return m.FullRepository.CreateRider(ctx, rider)
}

func (m *Repository) GetRider(ctx context.Context, id string) (*models.Rider, error) {
	if m.GetRiderError != nil {
		return nil, m.GetRiderError
	}
	return m.FullRepository.GetRider(ctx, id)
}

func (m *Repository) GetRiderByNumber(ctx context.Context, number int) (*models.Rider, error) {
	if m.GetRiderByNumberError != nil {
		return nil, m.GetRiderByNumberError
	}
	return m.FullRepository.GetRiderByNumber(ctx, number)
}

func (m *Repository) ListRiders(ctx context.Context, activeOnly bool) ([]models.Rider, error) {
	if m.ListRidersError != nil {
		return nil, m.ListRidersError
	}
	return m.FullRepository.ListRiders(ctx, activeOnly)
}

func (m *Repository) CreateRace(ctx context.Context, race *models.Race) error {
	if m.CreateRaceError != nil {
		return m.CreateRaceError
	}
	return m.FullRepository.CreateRace(ctx, race)
}

func (m *Repository) GetRace(ctx context.Context, id string) (*models.Race, error) {
	if m.GetRaceError != nil {
		return nil, m.GetRaceError
	}
	return m.FullRepository.GetRace(ctx, id)
}

func (m *Repository) ListRaces(ctx context.Context, season int) ([]models.Race, error) {
	if m.ListRacesError != nil {
		return nil, m.ListRacesError
	}
	return m.FullRepository.ListRaces(ctx, season)
}

func (m *Repository) FirstRace(ctx context.Context, season int) (*models.Race, error) {
	if m.FirstRaceError != nil {
		return nil, m.FirstRaceError
	}
	return m.FullRepository.FirstRace(ctx, season)
}

func (m *Repository) SetRaceStatus(ctx context.Context, id, status string) error {
	if m.SetRaceStatusError != nil {
		return m.SetRaceStatusError
	}
	return m.FullRepository.SetRaceStatus(ctx, id, status)
}

// ===== Prediction Methods =====

func (m *Repository) GetRacePrediction(ctx context.Context, playerID, raceID string) (*models.RacePrediction, error) {
	if m.GetRacePredictionError != nil {
		return nil, m.GetRacePredictionError
	}
	return m.FullRepository.GetRacePrediction(ctx, playerID, raceID)
}

func (m *Repository) UpsertRacePrediction(ctx context.Context, p *models.RacePrediction) error {
	if m.UpsertRacePredictionError != nil {
		return m.UpsertRacePredictionError
	}
	return m.FullRepository.UpsertRacePrediction(ctx, p)
}

func (m *Repository) InsertLatePrediction(ctx context.Context, p *models.RacePrediction, penaltyFor func(int) int) (*models.Penalty, error) {
	if m.InsertLatePredictionError != nil {
		return nil, m.InsertLatePredictionError
	}
	return m.FullRepository.InsertLatePrediction(ctx, p, penaltyFor)
}

func (m *Repository) ListRacePredictions(ctx context.Context, raceID, playerID string) ([]models.RacePrediction, error) {
	if m.ListRacePredictionsError != nil {
		return nil, m.ListRacePredictionsError
	}
	return m.FullRepository.ListRacePredictions(ctx, raceID, playerID)
}

func (m *Repository) GetChampionshipPrediction(ctx context.Context, playerID string, season int) (*models.ChampionshipPrediction, error) {
	if m.GetChampionshipPredictionError != nil {
		return nil, m.GetChampionshipPredictionError
	}
	return m.FullRepository.GetChampionshipPrediction(ctx, playerID, season)
}

func (m *Repository) UpsertChampionshipPrediction(ctx context.Context, p *models.ChampionshipPrediction) error {
	if m.UpsertChampionshipPredictionError != nil {
		return m.UpsertChampionshipPredictionError
	}
	return m.FullRepository.UpsertChampionshipPrediction(ctx, p)
}

func (m *Repository) ListChampionshipPredictions(ctx context.Context, season int) ([]models.ChampionshipPrediction, error) {
	if m.ListChampionshipPredictionsError != nil {
		return nil, m.ListChampionshipPredictionsError
	}
	return m.FullRepository.ListChampionshipPredictions(ctx, season)
}

func (m *Repository) ListPenalties(ctx context.Context, raceID string) ([]models.Penalty, error) {
	if m.ListPenaltiesError != nil {
		return nil, m.ListPenaltiesError
	}
	return m.FullRepository.ListPenalties(ctx, raceID)
}

// ===== Result Methods =====

func (m *Repository) ReplaceRaceResults(ctx context.Context, raceID, resultType string, riderIDs []string) error {
	if m.ReplaceRaceResultsError != nil {
		return m.ReplaceRaceResultsError
	}
	return m.FullRepository.ReplaceRaceResults(ctx, raceID, resultType, riderIDs)
}

func (m *Repository) ListRaceResults(ctx context.Context, raceID string) ([]models.RaceResult, error) {
	if m.ListRaceResultsError != nil {
		return nil, m.ListRaceResultsError
	}
	return m.FullRepository.ListRaceResults(ctx, raceID)
}

func (m *Repository) HasRaceResults(ctx context.Context, raceID string) (bool, error) {
	if m.HasRaceResultsError != nil {
		return false, m.HasRaceResultsError
	}
	return m.FullRepository.HasRaceResults(ctx, raceID)
}

func (m *Repository) ReplaceChampionshipResults(ctx context.Context, season int, riderIDs []string) error {
	if m.ReplaceChampionshipResultsError != nil {
		return m.ReplaceChampionshipResultsError
	}
	return m.FullRepository.ReplaceChampionshipResults(ctx, season, riderIDs)
}

func (m *Repository) ListChampionshipResults(ctx context.Context, season int) ([]models.ChampionshipResult, error) {
	if m.ListChampionshipResultsError != nil {
		return nil, m.ListChampionshipResultsError
	}
	return m.FullRepository.ListChampionshipResults(ctx, season)
}

// ===== Score Methods =====

func (m *Repository) ReplaceRaceScores(ctx context.Context, raceID string, scores []models.PlayerScore) error {
	if m.ReplaceRaceScoresError != nil {
		return m.ReplaceRaceScoresError
	}
	return m.FullRepository.ReplaceRaceScores(ctx, raceID, scores)
}

func (m *Repository) ListRaceScores(ctx context.Context, raceID, playerID string) ([]models.PlayerScore, error) {
	if m.ListRaceScoresError != nil {
		return nil, m.ListRaceScoresError
	}
	return m.FullRepository.ListRaceScores(ctx, raceID, playerID)
}

func (m *Repository) ReplaceChampionshipScores(ctx context.Context, season int, scores []models.ChampionshipScore) error {
	if m.ReplaceChampionshipScoresError != nil {
		return m.ReplaceChampionshipScoresError
	}
	return m.FullRepository.ReplaceChampionshipScores(ctx, season, scores)
}

func (m *Repository) Standings(ctx context.Context, season int) ([]models.LeaderboardEntry, error) {
	if m.StandingsError != nil {
		return nil, m.StandingsError
	}
	return m.FullRepository.Standings(ctx, season)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}

func (m *Repository) GetGameStats(ctx context.Context) (map[string]interface{}, error) {
	if m.GetGameStatsError != nil {
		return nil, m.GetGameStatsError
	}
	return m.FullRepository.GetGameStats(ctx)
}

func (m *Repository) ClearTable(ctx context.Context, table string) error {
	if m.ClearTableError != nil {
		return m.ClearTableError
	}
	return m.FullRepository.ClearTable(ctx, table)
}

var _ repository.FullRepository = (*Repository)(nil)
