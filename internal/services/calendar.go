package services

import (
	"context"
	"strings"
	"time"

	"gopkg.in/guregu/null.v4"

	"github.com/abrezinsky/gridpicks/internal/deadline"
	"github.com/abrezinsky/gridpicks/internal/errors"
	"github.com/abrezinsky/gridpicks/internal/logger"
	"github.com/abrezinsky/gridpicks/internal/models"
	"github.com/abrezinsky/gridpicks/internal/repository"
	"github.com/abrezinsky/gridpicks/pkg/timing"
)

// CalendarService manages riders and the race calendar
type CalendarService struct {
	log      logger.Logger
	repo     repository.CalendarRepository
	clock    Clock
	settings SettingsServicer
	feed     timing.Client
}

// NewCalendarService creates a new CalendarService
func NewCalendarService(log logger.Logger, repo repository.CalendarRepository, clock Clock, settings SettingsServicer, feed timing.Client) *CalendarService {
	return &CalendarService{log: log, repo: repo, clock: clock, settings: settings, feed: feed}
}

// RiderInput is the data needed to register a rider
type RiderInput struct {
	Name   string
	Number int
	Team   string
}

// CreateRider registers an active rider
func (s *CalendarService) CreateRider(ctx context.Context, in RiderInput) (*models.Rider, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, errors.Validation("rider name is required")
	}
	if in.Number < 0 || in.Number > 999 {
		return nil, errors.Validation("rider number must be between 0 and 999")
	}

	rider := &models.Rider{Name: in.Name, Number: in.Number, Team: strings.TrimSpace(in.Team), Active: true}
	if err := s.repo.CreateRider(ctx, rider); err != nil {
		if err == repository.ErrDuplicate {
			return nil, errors.Conflict("rider number already in use")
		}
		return nil, err
	}
	s.log.Info("Rider created", "rider_id", rider.ID, "number", rider.Number)
	return rider, nil
}

// ListRiders returns riders, optionally only active ones
func (s *CalendarService) ListRiders(ctx context.Context, activeOnly bool) ([]models.Rider, error) {
	return s.repo.ListRiders(ctx, activeOnly)
}

// SetRiderActive toggles whether a rider can be picked
func (s *CalendarService) SetRiderActive(ctx context.Context, id string, active bool) error {
	if err := s.repo.SetRiderActive(ctx, id, active); err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFound("rider not found")
		}
		return err
	}
	return nil
}

// RiderSyncResult summarises a rider sync from the timing feed
type RiderSyncResult struct {
	Created  int `json:"created"`
	Existing int `json:"existing"`
}

// SyncRidersFromFeed creates riders listed in the feed's entry list that do
// not exist yet, matching by number
func (s *CalendarService) SyncRidersFromFeed(ctx context.Context, season int) (*RiderSyncResult, error) {
	feedURL, err := s.settings.GetTimingFeedURL(ctx)
	if err != nil {
		return nil, err
	}
	if feedURL == "" || s.feed == nil {
		return nil, ErrFeedNotConfigured
	}

	entries, err := s.feed.FetchRiders(ctx, feedURL, season)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to fetch riders from timing feed")
	}

	result := &RiderSyncResult{}
	for _, e := range entries {
		_, err := s.repo.GetRiderByNumber(ctx, int(e.Number))
		if err == nil {
			result.Existing++
			continue
		}
		if err != repository.ErrNotFound {
			return nil, err
		}
		if _, err := s.CreateRider(ctx, RiderInput{Name: e.Name, Number: int(e.Number), Team: e.Team}); err != nil {
			return nil, err
		}
		result.Created++
	}

	s.log.Info("Riders synced from timing feed", "created", result.Created, "existing", result.Existing)
	return result, nil
}

// RaceInput is the data needed to schedule a race
type RaceInput struct {
	Season   int
	Round    int
	Name     string
	Circuit  string
	Country  string
	RaceAt   time.Time
	SprintAt *time.Time
	FP1At    time.Time
}

// CreateRace schedules a race weekend
func (s *CalendarService) CreateRace(ctx context.Context, in RaceInput) (*models.Race, error) {
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Name == "":
		return nil, errors.Validation("race name is required")
	case in.Season <= 0:
		return nil, errors.Validation("season is required")
	case in.Round <= 0:
		return nil, errors.Validation("round number must be positive")
	case in.FP1At.IsZero() || in.RaceAt.IsZero():
		return nil, errors.Validation("fp1 and race times are required")
	case !in.FP1At.Before(in.RaceAt):
		return nil, errors.Validation("fp1 must be before the race")
	}

	race := &models.Race{
		SeasonYear:  in.Season,
		RoundNumber: in.Round,
		Name:        in.Name,
		Circuit:     strings.TrimSpace(in.Circuit),
		Country:     strings.TrimSpace(in.Country),
		RaceAt:      in.RaceAt.UTC(),
		FP1At:       in.FP1At.UTC(),
		Status:      models.RaceUpcoming,
	}
	if in.SprintAt != nil {
		if in.SprintAt.Before(in.FP1At) || in.SprintAt.After(in.RaceAt) {
			return nil, errors.Validation("sprint must be between fp1 and the race")
		}
		race.SprintAt = null.TimeFrom(in.SprintAt.UTC())
	}

	if err := s.repo.CreateRace(ctx, race); err != nil {
		if err == repository.ErrDuplicate {
			return nil, errors.Conflict("round already exists for this season")
		}
		return nil, err
	}
	s.log.Info("Race created", "race_id", race.ID, "season", race.SeasonYear, "round", race.RoundNumber)
	return race, nil
}

// GetRace returns a race by id
func (s *CalendarService) GetRace(ctx context.Context, id string) (*models.Race, error) {
	race, err := s.repo.GetRace(ctx, id)
	if err == repository.ErrNotFound {
		return nil, errors.NotFound("race not found")
	}
	return race, err
}

// ListRaces returns a season's races by round
func (s *CalendarService) ListRaces(ctx context.Context, season int) ([]models.Race, error) {
	return s.repo.ListRaces(ctx, season)
}

// SetRaceStatus moves a race through upcoming, in_progress and completed
func (s *CalendarService) SetRaceStatus(ctx context.Context, id, status string) error {
	switch status {
	case models.RaceUpcoming, models.RaceInProgress, models.RaceCompleted:
	default:
		return errors.Validation("status must be upcoming, in_progress or completed")
	}
	if err := s.repo.SetRaceStatus(ctx, id, status); err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFound("race not found")
		}
		return err
	}
	s.log.Info("Race status updated", "race_id", id, "status", status)
	return nil
}

// RaceWithDeadline pairs a race with its prediction deadline status
type RaceWithDeadline struct {
	models.Race
	Deadline deadline.Status `json:"deadline"`
}

// RaceStatus returns a race with its deadline evaluated now
func (s *CalendarService) RaceStatus(ctx context.Context, id string) (*RaceWithDeadline, error) {
	race, err := s.GetRace(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RaceWithDeadline{Race: *race, Deadline: deadline.StatusAt(race.FP1At, s.clock.Now())}, nil
}

// NextDeadline returns the first race of the season whose predictions are
// still open
func (s *CalendarService) NextDeadline(ctx context.Context, season int) (*RaceWithDeadline, error) {
	races, err := s.repo.ListRaces(ctx, season)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	for _, race := range races {
		if !deadline.IsLate(now, race.FP1At) {
			return &RaceWithDeadline{Race: race, Deadline: deadline.StatusAt(race.FP1At, now)}, nil
		}
	}
	return nil, errors.NotFound("no open prediction deadline")
}

// ChampionshipDeadline returns the season's championship deadline: FP1 of
// the lowest-numbered round
func (s *CalendarService) ChampionshipDeadline(ctx context.Context, season int) (deadline.Status, error) {
	first, err := s.repo.FirstRace(ctx, season)
	if err != nil {
		if err == repository.ErrNotFound {
			return deadline.Status{}, errors.NotFound("race calendar not found")
		}
		return deadline.Status{}, err
	}
	now := s.clock.Now()
	status := deadline.StatusAt(first.FP1At, now)
	status.Passed = deadline.IsLocked(now, first.FP1At)
	return status, nil
}
