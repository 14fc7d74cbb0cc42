package services

import (
	"context"
	"strconv"

	"github.com/abrezinsky/gridpicks/internal/logger"
	"github.com/abrezinsky/gridpicks/internal/repository"
)

// Setting keys
const (
	SettingAllowLate     = "allow_late_submissions"
	SettingBaseURL       = "base_url"
	SettingTimingFeedURL = "timing_feed_url"
)

// SettingsService handles runtime-adjustable settings
type SettingsService struct {
	log  logger.Logger
	repo repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{log: log, repo: repo}
}

// LateSubmissionsAllowed reports whether a first race prediction may be
// entered after FP1 with a penalty
func (s *SettingsService) LateSubmissionsAllowed(ctx context.Context) (bool, error) {
	value, err := s.repo.GetSetting(ctx, SettingAllowLate)
	if err != nil {
		if err == repository.ErrNotFound {
			return true, nil
		}
		return false, err
	}
	allowed, err := strconv.ParseBool(value)
	if err != nil {
		return true, nil
	}
	return allowed, nil
}

// SetLateSubmissionsAllowed toggles late race submissions
func (s *SettingsService) SetLateSubmissionsAllowed(ctx context.Context, allowed bool) error {
	if err := s.repo.SetSetting(ctx, SettingAllowLate, strconv.FormatBool(allowed)); err != nil {
		return err
	}
	s.log.Info("Late submissions updated", "allowed", allowed)
	return nil
}

// GetBaseURL returns the application base URL
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	return s.optional(ctx, SettingBaseURL)
}

// SetBaseURL saves the application base URL
func (s *SettingsService) SetBaseURL(ctx context.Context, url string) error {
	return s.repo.SetSetting(ctx, SettingBaseURL, url)
}

// GetTimingFeedURL returns the results feed URL, empty when unset
func (s *SettingsService) GetTimingFeedURL(ctx context.Context) (string, error) {
	return s.optional(ctx, SettingTimingFeedURL)
}

// SetTimingFeedURL saves the results feed URL
func (s *SettingsService) SetTimingFeedURL(ctx context.Context, url string) error {
	return s.repo.SetSetting(ctx, SettingTimingFeedURL, url)
}

func (s *SettingsService) optional(ctx context.Context, key string) (string, error) {
	value, err := s.repo.GetSetting(ctx, key)
	if err != nil {
		if err == repository.ErrNotFound {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// AllSettings returns the adjustable settings as a map
func (s *SettingsService) AllSettings(ctx context.Context) (map[string]interface{}, error) {
	allowLate, err := s.LateSubmissionsAllowed(ctx)
	if err != nil {
		return nil, err
	}
	baseURL, err := s.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	feedURL, err := s.GetTimingFeedURL(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		SettingAllowLate:     allowLate,
		SettingBaseURL:       baseURL,
		SettingTimingFeedURL: feedURL,
	}, nil
}

// Settings represents application settings for update operations
type Settings struct {
	BaseURL       string
	TimingFeedURL *string
	AllowLate     *bool
}

// UpdateSettings updates multiple settings at once
func (s *SettingsService) UpdateSettings(ctx context.Context, settings Settings) error {
	if settings.BaseURL != "" {
		if err := s.SetBaseURL(ctx, settings.BaseURL); err != nil {
			return err
		}
	}
	if settings.TimingFeedURL != nil {
		if err := s.SetTimingFeedURL(ctx, *settings.TimingFeedURL); err != nil {
			return err
		}
	}
	if settings.AllowLate != nil {
		if err := s.SetLateSubmissionsAllowed(ctx, *settings.AllowLate); err != nil {
			return err
		}
	}
	return nil
}

// GetStats returns overall game counts
func (s *SettingsService) GetStats(ctx context.Context) (map[string]interface{}, error) {
	return s.repo.GetGameStats(ctx)
}

// ResetTablesResult contains the result of a database reset
type ResetTablesResult struct {
	Tables  []string `json:"tables"`
	Message string   `json:"message"`
}

// resetDependents lists score tables derived from each resettable table
var resetDependents = map[string][]string{
	"race_predictions":         {"penalties", "player_scores"},
	"race_results":             {"player_scores"},
	"penalties":                {"player_scores"},
	"championship_predictions": {"championship_scores"},
	"championship_results":     {"championship_scores"},
	"player_scores":            nil,
	"championship_scores":      nil,
}

// ResetTables clears game data, also clearing any scores derived from it
func (s *SettingsService) ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error) {
	if len(tables) == 0 {
		return nil, ErrNoTablesSpecified
	}

	var tablesToReset []string
	for _, table := range tables {
		dependents, ok := resetDependents[table]
		if !ok {
			return nil, &InvalidTableError{Table: table}
		}
		tablesToReset = appendMissing(tablesToReset, table)
		for _, dep := range dependents {
			tablesToReset = appendMissing(tablesToReset, dep)
		}
	}

	for _, table := range tablesToReset {
		if err := s.repo.ClearTable(ctx, table); err != nil {
			return nil, err
		}
	}
	s.log.Warn("Tables reset", "tables", tablesToReset)

	return &ResetTablesResult{
		Tables:  tablesToReset,
		Message: "Successfully deleted data from tables",
	}, nil
}

func appendMissing(slice []string, item string) []string {
	for _, s := range slice {
		if s == item {
			return slice
		}
	}
	return append(slice, item)
}
