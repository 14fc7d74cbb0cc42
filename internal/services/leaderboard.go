package services

import (
	"context"
	"sort"

	"gopkg.in/guregu/null.v4"

	"github.com/abrezinsky/gridpicks/internal/errors"
	"github.com/abrezinsky/gridpicks/internal/logger"
	"github.com/abrezinsky/gridpicks/internal/models"
	"github.com/abrezinsky/gridpicks/internal/repository"
	"github.com/abrezinsky/gridpicks/internal/scoring"
)

// LeaderboardService builds standings and score explanations
type LeaderboardService struct {
	log  logger.Logger
	repo repository.FullRepository
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(log logger.Logger, repo repository.FullRepository) *LeaderboardService {
	return &LeaderboardService{log: log, repo: repo}
}

// Standings returns every player's season total, best first. Players with
// equal totals share a rank and the next rank is skipped.
func (s *LeaderboardService) Standings(ctx context.Context, season int) ([]models.LeaderboardEntry, error) {
	entries, err := s.repo.Standings(ctx, season)
	if err != nil {
		return nil, err
	}
	Rank(entries)
	return entries, nil
}

// Rank sorts entries by total points then name and assigns competition
// ranks (1, 1, 3)
func Rank(entries []models.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].Name < entries[j].Name
	})
	for i := range entries {
		if i > 0 && entries[i].TotalPoints == entries[i-1].TotalPoints {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}
}

// RaceScores returns the stored scores for a race
func (s *LeaderboardService) RaceScores(ctx context.Context, raceID string) ([]models.PlayerScore, error) {
	return s.repo.ListRaceScores(ctx, raceID, "")
}

// Breakdown explains how each prediction for a race scored, optionally for
// one player only
func (s *LeaderboardService) Breakdown(ctx context.Context, raceID, playerID string) ([]models.ScoreBreakdown, error) {
	if _, err := s.repo.GetRace(ctx, raceID); err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFound("race not found")
		}
		return nil, err
	}

	predictions, err := s.repo.ListRacePredictions(ctx, raceID, playerID)
	if err != nil {
		return nil, err
	}
	if len(predictions) == 0 {
		return nil, errors.NotFound("no predictions found for this race")
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

	penaltyByPlayer := make(map[string]int, len(penalties))
	for _, p := range penalties {
		penaltyByPlayer[p.PlayerID] += p.PenaltyPoints
	}

	riders := map[string]*models.Rider{}
	lookup := func(id string) (*models.Rider, error) {
		if r, ok := riders[id]; ok {
			return r, nil
		}
		r, err := s.repo.GetRider(ctx, id)
		if err != nil {
			return nil, err
		}
		riders[id] = r
		return r, nil
	}

	breakdowns := make([]models.ScoreBreakdown, 0, len(predictions))
	for _, p := range predictions {
		player, err := s.repo.GetPlayer(ctx, p.PlayerID)
		if err != nil {
			return nil, err
		}
		score := scoring.ScoreRace(picksOf(p), sprint, race, penaltyByPlayer[p.PlayerID])

		b := models.ScoreBreakdown{
			PlayerID:      p.PlayerID,
			PlayerName:    player.Name,
			RaceID:        raceID,
			IsLate:        p.IsLate,
			PenaltyPoints: score.Penalty,
			TotalPoints:   score.Total,
		}
		if b.SprintWinner, err = pick(lookup, p.SprintWinnerID, sprint, score.Sprint); err != nil {
			return nil, err
		}
		if b.RaceWinner, err = pick(lookup, p.RaceWinnerID, race, score.Race); err != nil {
			return nil, err
		}
		if b.Glorious7, err = pick(lookup, p.Glorious7ID, race, score.Glorious7); err != nil {
			return nil, err
		}
		breakdowns = append(breakdowns, b)
	}
	return breakdowns, nil
}

func pick(lookup func(string) (*models.Rider, error), riderID string, c scoring.Classification, points int) (models.PickBreakdown, error) {
	rider, err := lookup(riderID)
	if err != nil {
		return models.PickBreakdown{}, err
	}
	b := models.PickBreakdown{
		RiderID:     rider.ID,
		RiderName:   rider.Name,
		RiderNumber: rider.Number,
		Points:      points,
	}
	if pos, ok := c.Position(riderID); ok {
		b.Position = null.IntFrom(int64(pos))
	}
	return b, nil
}
