package handlers

import (
	"github.com/abrezinsky/gridpicks/internal/auth"
	"github.com/abrezinsky/gridpicks/internal/logger"
	"github.com/abrezinsky/gridpicks/internal/services"
	"github.com/abrezinsky/gridpicks/internal/websocket"
)

// Services groups the business services the handlers call
type Services struct {
	Players     services.PlayerServicer
	Calendar    services.CalendarServicer
	Predictions services.PredictionServicer
	Results     services.ResultsServicer
	Leaderboard services.LeaderboardServicer
	Settings    services.SettingsServicer
}

// Options configures the router
type Options struct {
	Season      int
	CORSOrigins []string
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only set it behind a reverse proxy that overwrites those headers.
	TrustProxy  bool
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Services
	Admin       *auth.Admin
	Tokens      *auth.PlayerTokens
	Throttle    *auth.Throttle
	Hub         *websocket.Hub
	Log         logger.Logger
	Season      int
	CORSOrigins []string
	TrustProxy  bool
}

// New creates a new Handlers instance with all dependencies
func New(
	svc Services,
	admin *auth.Admin,
	tokens *auth.PlayerTokens,
	throttle *auth.Throttle,
	hub *websocket.Hub,
	log logger.Logger,
	opts Options,
) *Handlers {
	return &Handlers{
		Services:    svc,
		Admin:       admin,
		Tokens:      tokens,
		Throttle:    throttle,
		Hub:         hub,
		Log:         log,
		Season:      opts.Season,
		CORSOrigins: opts.CORSOrigins,
		TrustProxy:  opts.TrustProxy,
	}
}
