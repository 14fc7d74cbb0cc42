package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/abrezinsky/gridpicks/internal/auth"
	"github.com/abrezinsky/gridpicks/internal/config"
	"github.com/abrezinsky/gridpicks/internal/handlers"
	"github.com/abrezinsky/gridpicks/internal/logger"
	"github.com/abrezinsky/gridpicks/internal/repository"
	"github.com/abrezinsky/gridpicks/internal/services"
	"github.com/abrezinsky/gridpicks/internal/websocket"
	"github.com/abrezinsky/gridpicks/pkg/timing"
)

const (
	countdownInterval = 5 * time.Second
	loginInterval     = 20 * time.Second
	loginBurst        = 5
	shutdownTimeout   = 10 * time.Second
)

// App holds all application dependencies
type App struct {
	cfg             config.Config
	log             logger.Logger
	handlers        *handlers.Handlers
	repo            *repository.Repository
	adminPassword   string
	cancelCountdown context.CancelFunc
}

// New creates and initializes a new application instance
func New(cfg config.Config, log logger.Logger, feed timing.Client) (*App, error) {
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	// Initialize services
	clock := services.SystemClock{}
	settingsService := services.NewSettingsService(log, repo)
	playerService := services.NewPlayerService(log, repo, settingsService)
	calendarService := services.NewCalendarService(log, repo, clock, settingsService, feed)
	predictionService := services.NewPredictionService(log, repo, clock, settingsService)
	resultsService := services.NewResultsService(log, repo, clock, settingsService, feed)
	leaderboardService := services.NewLeaderboardService(log, repo)

	if err := applySettings(context.Background(), cfg, settingsService); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to apply settings: %w", err)
	}

	// Initialize WebSocket hub with DI
	hub := websocket.New(log, calendarService, cfg.Season)
	hub.Start()
	resultsService.SetBroadcaster(hub)

	// Start countdown with context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go hub.StartDeadlineCountdown(ctx, countdownInterval)

	adminPassword := cfg.AdminPassword
	if adminPassword == "" {
		adminPassword = auth.GeneratePassword()
	}
	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
		log.Warn("No JWT secret configured, player sessions will not survive a restart")
	}

	h := handlers.New(
		handlers.Services{
			Players:     playerService,
			Calendar:    calendarService,
			Predictions: predictionService,
			Results:     resultsService,
			Leaderboard: leaderboardService,
			Settings:    settingsService,
		},
		auth.NewAdmin(adminPassword),
		auth.NewPlayerTokens(secret, cfg.PlayerTokenTTL),
		auth.NewThrottle(loginInterval, loginBurst),
		hub,
		log,
		handlers.Options{Season: cfg.Season, CORSOrigins: cfg.CORSOrigins, TrustProxy: cfg.TrustProxy},
	)

	return &App{
		cfg:             cfg,
		log:             log,
		handlers:        h,
		repo:            repo,
		adminPassword:   adminPassword,
		cancelCountdown: cancel,
	}, nil
}

// applySettings writes configured values over the stored game settings.
// Empty URLs leave the stored value alone.
func applySettings(ctx context.Context, cfg config.Config, settings services.SettingsServicer) error {
	allowLate := cfg.AllowLate
	update := services.Settings{BaseURL: cfg.BaseURL, AllowLate: &allowLate}
	if cfg.TimingFeedURL != "" {
		feedURL := cfg.TimingFeedURL
		update.TimingFeedURL = &feedURL
	}
	return settings.UpdateSettings(ctx, update)
}

// AdminPassword returns the admin password, generated when none was configured
func (a *App) AdminPassword() string {
	return a.adminPassword
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close performs graceful shutdown of app resources
func (a *App) Close() {
	if a.cancelCountdown != nil {
		a.cancelCountdown()
	}
	if a.repo != nil {
		a.repo.Close()
	}
}

// Run serves HTTP on the configured port until ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", a.cfg.Port)

	// Set default base URL if not configured, using detected LAN IP
	ip := lanIP(interfaceAddrs)
	baseURL := fmt.Sprintf("http://%s%s", ip, addr)
	a.setDefaultBaseURL(baseURL)

	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	a.log.Info("Server starting", "url", baseURL, "season", a.cfg.Season)
	a.log.Info("Leaderboard URL", "url", baseURL+"/api/leaderboard")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.log.Info("Server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// setDefaultBaseURL stores baseURL unless a usable base URL is already
// configured. Localhost values are replaced since phones cannot reach them.
func (a *App) setDefaultBaseURL(baseURL string) {
	ctx := context.Background()
	existing, _ := a.repo.GetSetting(ctx, services.SettingBaseURL)
	if existing != "" && !strings.Contains(existing, "localhost") {
		return
	}

	if err := a.repo.SetSetting(ctx, services.SettingBaseURL, baseURL); err != nil {
		a.log.Warn("Failed to set default base_url", "error", err)
		return
	}
	a.log.Info("Default base URL set", "url", baseURL)
}
