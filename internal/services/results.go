package services

import (
	"context"
	"strings"

	"github.com/abrezinsky/gridpicks/internal/errors"
	"github.com/abrezinsky/gridpicks/internal/logger"
	"github.com/abrezinsky/gridpicks/internal/models"
	"github.com/abrezinsky/gridpicks/internal/repository"
	"github.com/abrezinsky/gridpicks/internal/scoring"
	"github.com/abrezinsky/gridpicks/pkg/timing"
)

// Broadcaster defines the interface for pushing score updates to clients
type Broadcaster interface {
	BroadcastScoresUpdated(raceID string)
	BroadcastChampionshipUpdated(season int)
}

// ResultsServiceRepository defines the repository methods needed by ResultsService
type ResultsServiceRepository interface {
	repository.CalendarRepository
	repository.PredictionRepository
	repository.ResultRepository
	repository.ScoreRepository
}

// ResultsService records official classifications and keeps scores current
type ResultsService struct {
	log         logger.Logger
	repo        ResultsServiceRepository
	clock       Clock
	settings    SettingsServicer
	feed        timing.Client
	broadcaster Broadcaster
}

// NewResultsService creates a new ResultsService
func NewResultsService(log logger.Logger, repo ResultsServiceRepository, clock Clock, settings SettingsServicer, feed timing.Client) *ResultsService {
	return &ResultsService{log: log, repo: repo, clock: clock, settings: settings, feed: feed}
}

// SetBroadcaster sets the broadcaster notified after rescoring
func (s *ResultsService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// RaceResults groups a race's classifications by session
type RaceResults struct {
	RaceID string   `json:"race_id"`
	Sprint []string `json:"sprint"`
	Race   []string `json:"race"`
}

// RecordRaceResults replaces a session's classification with riderIDs in
// finishing order, then rescores the race. Recording the main race marks
// the race completed. The classification is committed on its own, so a
// failure after that point leaves stale scores until RescoreRace succeeds.
func (s *ResultsService) RecordRaceResults(ctx context.Context, raceID, resultType string, riderIDs []string) error {
	if resultType != models.ResultSprint && resultType != models.ResultRace {
		return ErrInvalidResultType
	}
	if len(riderIDs) == 0 {
		return errors.Validation("at least one classified rider is required")
	}
	if _, err := s.repo.GetRace(ctx, raceID); err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFound("race not found")
		}
		return err
	}
	if err := s.checkRiders(ctx, riderIDs); err != nil {
		return err
	}

	if err := s.repo.ReplaceRaceResults(ctx, raceID, resultType, riderIDs); err != nil {
		return err
	}
	s.log.Info("Race results recorded", "race_id", raceID, "type", resultType, "classified", len(riderIDs))

	if resultType == models.ResultRace {
		if err := s.repo.SetRaceStatus(ctx, raceID, models.RaceCompleted); err != nil {
			return s.resultsStoredButStale(raceID, err)
		}
	}

	if _, err := s.RescoreRace(ctx, raceID); err != nil {
		return s.resultsStoredButStale(raceID, err)
	}
	return nil
}

func (s *ResultsService) resultsStoredButStale(raceID string, err error) error {
	s.log.Error("Results stored but race not rescored; retry with POST /api/admin/rescore/"+raceID,
		"race_id", raceID, "error", err)
	return errors.Wrap(err, errors.ErrInternal, "results stored, rescore pending")
}

func (s *ResultsService) checkRiders(ctx context.Context, riderIDs []string) error {
	seen := make(map[string]bool, len(riderIDs))
	for _, id := range riderIDs {
		if strings.TrimSpace(id) == "" {
			return errors.Validation("rider id is required")
		}
		if seen[id] {
			return ErrDuplicateRider
		}
		seen[id] = true
		if _, err := s.repo.GetRider(ctx, id); err != nil {
			if err == repository.ErrNotFound {
				return errors.NotFoundf("rider %s not found", id)
			}
			return err
		}
	}
	return nil
}

// GetRaceResults returns both classifications of a race
func (s *ResultsService) GetRaceResults(ctx context.Context, raceID string) (*RaceResults, error) {
	if _, err := s.repo.GetRace(ctx, raceID); err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFound("race not found")
		}
		return nil, err
	}
	rows, err := s.repo.ListRaceResults(ctx, raceID)
	if err != nil {
		return nil, err
	}

	results := &RaceResults{RaceID: raceID, Sprint: []string{}, Race: []string{}}
	for _, r := range rows {
		switch r.ResultType {
		case models.ResultSprint:
			results.Sprint = append(results.Sprint, r.RiderID)
		case models.ResultRace:
			results.Race = append(results.Race, r.RiderID)
		}
	}
	return results, nil
}

// RescoreRace recomputes every prediction's score for a race from the
// stored classifications and penalties, replacing previous scores
func (s *ResultsService) RescoreRace(ctx context.Context, raceID string) ([]models.PlayerScore, error) {
	predictions, err := s.repo.ListRacePredictions(ctx, raceID, "")
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListRaceResults(ctx, raceID)
	if err != nil {
		return nil, err
	}
	penalties, err := s.repo.ListPenalties(ctx, raceID)
	if err != nil {
		return nil, err
	}

	sprint, race := classifications(rows)
	if len(sprint) == 0 && len(race) == 0 {
		predictions = nil
	}

	penaltyByPlayer := make(map[string]int, len(penalties))
	for _, p := range penalties {
		penaltyByPlayer[p.PlayerID] += p.PenaltyPoints
	}

	now := s.clock.Now()
	scores := make([]models.PlayerScore, 0, len(predictions))
	for _, p := range predictions {
		score := scoring.ScoreRace(picksOf(p), sprint, race, penaltyByPlayer[p.PlayerID])
		scores = append(scores, models.PlayerScore{
			PlayerID:        p.PlayerID,
			RaceID:          raceID,
			SprintPoints:    score.Sprint,
			RacePoints:      score.Race,
			Glorious7Points: score.Glorious7,
			PenaltyPoints:   score.Penalty,
			TotalPoints:     score.Total,
			CalculatedAt:    now,
		})
	}

	if err := s.repo.ReplaceRaceScores(ctx, raceID, scores); err != nil {
		return nil, err
	}
	s.log.Info("Race rescored", "race_id", raceID, "scores", len(scores))

	if s.broadcaster != nil {
		s.broadcaster.BroadcastScoresUpdated(raceID)
	}
	return scores, nil
}

func classifications(rows []models.RaceResult) (sprint, race scoring.Classification) {
	sprint = scoring.Classification{}
	race = scoring.Classification{}
	for _, r := range rows {
		switch r.ResultType {
		case models.ResultSprint:
			sprint[r.RiderID] = r.Position
		case models.ResultRace:
			race[r.RiderID] = r.Position
		}
	}
	return sprint, race
}

func picksOf(p models.RacePrediction) scoring.RacePicks {
	return scoring.RacePicks{
		SprintWinner: p.SprintWinnerID,
		RaceWinner:   p.RaceWinnerID,
		Glorious7:    p.Glorious7ID,
	}
}

// ImportRaceResults pulls a session classification from the timing feed
// and records it
func (s *ResultsService) ImportRaceResults(ctx context.Context, raceID, resultType string) ([]string, error) {
	if resultType != models.ResultSprint && resultType != models.ResultRace {
		return nil, ErrInvalidResultType
	}
	feedURL, err := s.settings.GetTimingFeedURL(ctx)
	if err != nil {
		return nil, err
	}
	if feedURL == "" || s.feed == nil {
		return nil, ErrFeedNotConfigured
	}

	race, err := s.repo.GetRace(ctx, raceID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFound("race not found")
		}
		return nil, err
	}

	session := timing.Session{Season: race.SeasonYear, Round: race.RoundNumber, Type: resultType}
	entries, err := s.feed.FetchClassification(ctx, feedURL, session)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to fetch classification from timing feed")
	}
	entries = timing.Classified(entries)
	if len(entries) == 0 {
		return nil, ErrEmptyFeed
	}

	riderIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		rider, err := s.repo.GetRiderByNumber(ctx, int(e.RiderNumber))
		if err != nil {
			if err == repository.ErrNotFound {
				return nil, errors.NotFoundf("rider #%d from timing feed not found", int(e.RiderNumber))
			}
			return nil, err
		}
		riderIDs = append(riderIDs, rider.ID)
	}

	s.log.Info("Classification imported from timing feed", "race_id", raceID, "type", resultType, "entries", len(riderIDs))
	if err := s.RecordRaceResults(ctx, raceID, resultType, riderIDs); err != nil {
		return nil, err
	}
	return riderIDs, nil
}

// RecordChampionshipResults stores the final season podium and rescores
// every championship prediction of the season
func (s *ResultsService) RecordChampionshipResults(ctx context.Context, season int, podium scoring.Podium) error {
	if season <= 0 {
		return errors.Validation("season is required")
	}
	riderIDs := podium.Riders()
	for _, id := range riderIDs {
		if strings.TrimSpace(id) == "" {
			return errors.Validation("first, second and third place are required")
		}
	}
	if err := s.checkRiders(ctx, riderIDs); err != nil {
		return err
	}

	if err := s.repo.ReplaceChampionshipResults(ctx, season, riderIDs); err != nil {
		return err
	}
	s.log.Info("Championship results recorded", "season", season)

	_, err := s.RescoreChampionship(ctx, season)
	return err
}

// GetChampionshipResults returns the recorded final podium for a season
func (s *ResultsService) GetChampionshipResults(ctx context.Context, season int) (*scoring.Podium, error) {
	rows, err := s.repo.ListChampionshipResults(ctx, season)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.NotFound("championship results not recorded")
	}
	podium := podiumOf(rows)
	return &podium, nil
}

func podiumOf(rows []models.ChampionshipResult) scoring.Podium {
	var podium scoring.Podium
	for _, r := range rows {
		switch r.Position {
		case 1:
			podium.First = r.RiderID
		case 2:
			podium.Second = r.RiderID
		case 3:
			podium.Third = r.RiderID
		}
	}
	return podium
}

// RescoreChampionship recomputes every championship score for a season
func (s *ResultsService) RescoreChampionship(ctx context.Context, season int) ([]models.ChampionshipScore, error) {
	predictions, err := s.repo.ListChampionshipPredictions(ctx, season)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListChampionshipResults(ctx, season)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		predictions = nil
	}
	actual := podiumOf(rows)

	now := s.clock.Now()
	scores := make([]models.ChampionshipScore, 0, len(predictions))
	for _, p := range predictions {
		predicted := scoring.Podium{First: p.FirstPlaceID, Second: p.SecondPlaceID, Third: p.ThirdPlaceID}
		scores = append(scores, models.ChampionshipScore{
			PlayerID:     p.PlayerID,
			SeasonYear:   season,
			Points:       scoring.ChampionshipPoints(predicted, actual),
			CalculatedAt: now,
		})
	}

	if err := s.repo.ReplaceChampionshipScores(ctx, season, scores); err != nil {
		return nil, err
	}
	s.log.Info("Championship rescored", "season", season, "scores", len(scores))

	if s.broadcaster != nil {
		s.broadcaster.BroadcastChampionshipUpdated(season)
	}
	return scores, nil
}
