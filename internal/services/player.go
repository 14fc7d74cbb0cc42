package services

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"

	"github.com/abrezinsky/gridpicks/internal/errors"
	"github.com/abrezinsky/gridpicks/internal/logger"
	"github.com/abrezinsky/gridpicks/internal/models"
	"github.com/abrezinsky/gridpicks/internal/repository"
)

const (
	maxNameLength       = 32
	minPassphraseLength = 4
)

// PlayerService handles player accounts
type PlayerService struct {
	log      logger.Logger
	repo     repository.PlayerRepository
	settings SettingsServicer
	hashCost int
}

// NewPlayerService creates a new PlayerService
func NewPlayerService(log logger.Logger, repo repository.PlayerRepository, settings SettingsServicer) *PlayerService {
	return &PlayerService{
		log:      log,
		repo:     repo,
		settings: settings,
		hashCost: bcrypt.DefaultCost,
	}
}

// SetHashCost overrides the bcrypt cost (for testing)
func (s *PlayerService) SetHashCost(cost int) {
	s.hashCost = cost
}

// CreatePlayer registers a player with a passphrase
func (s *PlayerService) CreatePlayer(ctx context.Context, name, passphrase string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, errors.Validationf("name must be between 1 and %d characters", maxNameLength)
	}
	if utf8.RuneCountInString(passphrase) < minPassphraseLength {
		return nil, errors.Validationf("passphrase must be at least %d characters", minPassphraseLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), s.hashCost)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrValidation, "passphrase cannot be hashed")
	}

	p := &models.Player{Name: name, PassphraseHash: string(hash)}
	if err := s.repo.CreatePlayer(ctx, p); err != nil {
		if err == repository.ErrDuplicate {
			return nil, errors.Conflict("player name already taken")
		}
		return nil, err
	}

	s.log.Info("Player created", "player_id", p.ID, "name", p.Name)
	return p, nil
}

// GetPlayer returns a player by id
func (s *PlayerService) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	p, err := s.repo.GetPlayer(ctx, id)
	if err == repository.ErrNotFound {
		return nil, errors.NotFound("player not found")
	}
	return p, err
}

// ListPlayers returns all players
func (s *PlayerService) ListPlayers(ctx context.Context) ([]models.Player, error) {
	return s.repo.ListPlayers(ctx)
}

// DeletePlayer removes a player with all their predictions and scores
func (s *PlayerService) DeletePlayer(ctx context.Context, id string) error {
	if err := s.repo.DeletePlayer(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFound("player not found")
		}
		return err
	}
	s.log.Info("Player deleted", "player_id", id)
	return nil
}

// Authenticate verifies a name and passphrase
func (s *PlayerService) Authenticate(ctx context.Context, name, passphrase string) (*models.Player, error) {
	p, err := s.repo.GetPlayerByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.Unauthorized("invalid name or passphrase")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PassphraseHash), []byte(passphrase)); err != nil {
		s.log.Debug("Passphrase mismatch", "player_id", p.ID)
		return nil, errors.Unauthorized("invalid name or passphrase")
	}
	return p, nil
}

// InviteURL returns the login link handed to a player
func (s *PlayerService) InviteURL(ctx context.Context, playerID string) (string, error) {
	p, err := s.GetPlayer(ctx, playerID)
	if err != nil {
		return "", err
	}
	baseURL, err := s.settings.GetBaseURL(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(baseURL, "/") + "/login?name=" + url.QueryEscape(p.Name), nil
}

// InviteQR returns a PNG QR code of the player's invite link
func (s *PlayerService) InviteQR(ctx context.Context, playerID string) ([]byte, error) {
	link, err := s.InviteURL(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(link, qrcode.Medium, 256)
}
