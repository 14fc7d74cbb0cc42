package services

import (
	"context"
	"strings"

	"github.com/abrezinsky/gridpicks/internal/deadline"
	"github.com/abrezinsky/gridpicks/internal/errors"
	"github.com/abrezinsky/gridpicks/internal/logger"
	"github.com/abrezinsky/gridpicks/internal/models"
	"github.com/abrezinsky/gridpicks/internal/repository"
	"github.com/abrezinsky/gridpicks/internal/scoring"
)

// PredictionService handles race and championship predictions
type PredictionService struct {
	log      logger.Logger
	repo     repository.FullRepository
	clock    Clock
	settings SettingsServicer
}

// NewPredictionService creates a new PredictionService
func NewPredictionService(log logger.Logger, repo repository.FullRepository, clock Clock, settings SettingsServicer) *PredictionService {
	return &PredictionService{log: log, repo: repo, clock: clock, settings: settings}
}

// RacePredictionInput is a player's set of race picks
type RacePredictionInput struct {
	RaceID         string `json:"race_id"`
	SprintWinnerID string `json:"sprint_winner_id"`
	RaceWinnerID   string `json:"race_winner_id"`
	Glorious7ID    string `json:"glorious_7_id"`
}

// RacePredictionResult is the stored prediction plus any penalty assessed
type RacePredictionResult struct {
	Prediction *models.RacePrediction `json:"prediction"`
	Penalty    *models.Penalty        `json:"penalty,omitempty"`
}

// SubmitRacePrediction creates or replaces a player's picks for a race.
// Before FP1 the picks may be changed freely. After FP1 a first prediction
// is accepted once with a penalty, provided late entries are enabled and
// the race has no results yet.
func (s *PredictionService) SubmitRacePrediction(ctx context.Context, playerID string, in RacePredictionInput) (*RacePredictionResult, error) {
	in.RaceID = strings.TrimSpace(in.RaceID)
	if in.RaceID == "" {
		return nil, errors.Validation("race_id is required")
	}
	picks := []string{in.SprintWinnerID, in.RaceWinnerID, in.Glorious7ID}
	if err := s.validatePicks(ctx, picks); err != nil {
		return nil, err
	}

	race, err := s.repo.GetRace(ctx, in.RaceID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFound("race not found")
		}
		return nil, err
	}

	now := s.clock.Now()

	existing, err := s.repo.GetRacePrediction(ctx, playerID, race.ID)
	if err != nil && err != repository.ErrNotFound {
		return nil, err
	}
	hasExisting := existing != nil

	lateAllowed := false
	if deadline.IsLate(now, race.FP1At) && !hasExisting {
		if lateAllowed, err = s.lateEntryOpen(ctx, race.ID); err != nil {
			return nil, err
		}
	}

	decision := deadline.Classify(now, race.FP1At, hasExisting, lateAllowed)

	p := &models.RacePrediction{
		PlayerID:       playerID,
		RaceID:         race.ID,
		SprintWinnerID: in.SprintWinnerID,
		RaceWinnerID:   in.RaceWinnerID,
		Glorious7ID:    in.Glorious7ID,
		SubmittedAt:    now,
		IsLate:         decision.Late(),
	}

	switch decision.Outcome {
	case deadline.Accept:
		if err := s.repo.UpsertRacePrediction(ctx, p); err != nil {
			return nil, err
		}
		s.log.Info("Race prediction saved", "player_id", playerID, "race_id", race.ID)
		return &RacePredictionResult{Prediction: p}, nil

	case deadline.AcceptLate:
		penalty, err := s.repo.InsertLatePrediction(ctx, p, scoring.Penalty)
		if err != nil {
			if err == repository.ErrDuplicate {
				return nil, ErrPredictionLocked
			}
			return nil, err
		}
		s.log.Warn("Late race prediction accepted",
			"player_id", playerID,
			"race_id", race.ID,
			"offense", penalty.OffenseNumber,
			"penalty_points", penalty.PenaltyPoints)
		return &RacePredictionResult{Prediction: p, Penalty: penalty}, nil

	default:
		s.log.Debug("Race prediction rejected", "player_id", playerID, "race_id", race.ID, "reason", decision.Reason)
		if hasExisting {
			return nil, ErrPredictionLocked
		}
		return nil, ErrDeadlinePassed
	}
}

// lateEntryOpen reports whether a first prediction may still be entered
// after the deadline
func (s *PredictionService) lateEntryOpen(ctx context.Context, raceID string) (bool, error) {
	allowed, err := s.settings.LateSubmissionsAllowed(ctx)
	if err != nil || !allowed {
		return false, err
	}
	recorded, err := s.repo.HasRaceResults(ctx, raceID)
	if err != nil {
		return false, err
	}
	return !recorded, nil
}

// validatePicks checks picks are present, distinct, existing and active
func (s *PredictionService) validatePicks(ctx context.Context, picks []string) error {
	seen := make(map[string]bool, len(picks))
	for _, id := range picks {
		if strings.TrimSpace(id) == "" {
			return errors.Validation("all picks are required")
		}
		if seen[id] {
			return ErrDuplicateRider
		}
		seen[id] = true
	}

	for _, id := range picks {
		rider, err := s.repo.GetRider(ctx, id)
		if err != nil {
			if err == repository.ErrNotFound {
				return errors.NotFoundf("rider %s not found", id)
			}
			return err
		}
		if !rider.Active {
			return ErrInactiveRider
		}
	}
	return nil
}

// GetRacePrediction returns a player's picks for a race along with whether
// they can still be changed
func (s *PredictionService) GetRacePrediction(ctx context.Context, playerID, raceID string) (*models.RacePrediction, error) {
	p, err := s.repo.GetRacePrediction(ctx, playerID, raceID)
	if err == repository.ErrNotFound {
		return nil, errors.NotFound("prediction not found")
	}
	if err != nil {
		return nil, err
	}
	race, err := s.repo.GetRace(ctx, raceID)
	if err != nil {
		return nil, err
	}
	p.State = deadline.StateAt(s.clock.Now(), race.FP1At, true).String()
	return p, nil
}

// SubmitChampionshipPrediction creates or replaces a player's predicted
// season podium. Locked from FP1 of the first round onward.
func (s *PredictionService) SubmitChampionshipPrediction(ctx context.Context, playerID string, season int, podium scoring.Podium) (*models.ChampionshipPrediction, error) {
	if season <= 0 {
		return nil, errors.Validation("season is required")
	}
	if err := s.validatePodium(ctx, podium); err != nil {
		return nil, err
	}

	first, err := s.repo.FirstRace(ctx, season)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFound("race calendar not found")
		}
		return nil, err
	}

	now := s.clock.Now()
	if deadline.IsLocked(now, first.FP1At) {
		return nil, ErrChampionshipLocked
	}

	p := &models.ChampionshipPrediction{
		PlayerID:      playerID,
		SeasonYear:    season,
		FirstPlaceID:  podium.First,
		SecondPlaceID: podium.Second,
		ThirdPlaceID:  podium.Third,
		SubmittedAt:   now,
	}
	if err := s.repo.UpsertChampionshipPrediction(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("Championship prediction saved", "player_id", playerID, "season", season)
	return p, nil
}

func (s *PredictionService) validatePodium(ctx context.Context, podium scoring.Podium) error {
	seen := make(map[string]bool, 3)
	for _, id := range podium.Riders() {
		if strings.TrimSpace(id) == "" {
			return errors.Validation("first, second and third place are required")
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

// GetChampionshipPrediction returns a player's predicted podium for a season
func (s *PredictionService) GetChampionshipPrediction(ctx context.Context, playerID string, season int) (*models.ChampionshipPrediction, error) {
	p, err := s.repo.GetChampionshipPrediction(ctx, playerID, season)
	if err == repository.ErrNotFound {
		return nil, errors.NotFound("championship prediction not found")
	}
	return p, err
}
