package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// throttled applies the login throttle when one is configured
func (h *Handlers) throttled(next http.HandlerFunc) http.Handler {
	if h.Throttle == nil {
		return next
	}
	return h.Throttle.Middleware(next)
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	if h.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))
	if len(h.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", h.handleHealth)

	// WebSocket
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	// Player auth (public)
	r.Method(http.MethodPost, "/api/auth/login", h.throttled(h.handlePlayerLogin))
	r.Post("/api/auth/logout", h.handlePlayerLogout)

	// Calendar and standings (public)
	r.Get("/api/riders", h.handleListRiders)
	r.Get("/api/races", h.handleListRaces)
	r.Get("/api/races/next", h.handleNextDeadline)
	r.Get("/api/races/{id}", h.handleGetRace)
	r.Get("/api/championship/deadline", h.handleChampionshipDeadline)
	r.Get("/api/leaderboard", h.handleLeaderboard)
	r.Get("/api/scores/breakdown", h.handleBreakdown)

	// Player API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Tokens.RequirePlayer)
		r.Use(h.requireKnownPlayer)

		r.Get("/api/me", h.handleMe)
		r.Get("/api/predictions/{raceID}", h.handleGetPrediction)
		r.Post("/api/predictions", h.handleSubmitPrediction)
		r.Put("/api/predictions", h.handleSubmitPrediction)
		r.Get("/api/championship", h.handleGetChampionshipPrediction)
		r.Post("/api/championship", h.handleSubmitChampionshipPrediction)
		r.Put("/api/championship", h.handleSubmitChampionshipPrediction)
	})

	// Admin auth (public)
	r.Method(http.MethodPost, "/admin/login", h.throttled(h.handleAdminLogin))
	r.Post("/admin/logout", h.handleAdminLogout)

	// Admin API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Admin.RequireAdmin)

		// Players
		r.Get("/api/admin/players", h.handleListPlayers)
		r.Post("/api/admin/players", h.handleCreatePlayer)
		r.Delete("/api/admin/players/{id}", h.handleDeletePlayer)
		r.Get("/api/admin/players/{id}/invite-qr", h.handleInviteQR)

		// Riders
		r.Get("/api/admin/riders", h.handleAdminListRiders)
		r.Post("/api/admin/riders", h.handleCreateRider)
		r.Put("/api/admin/riders/{id}/active", h.handleSetRiderActive)
		r.Post("/api/admin/riders/sync", h.handleSyncRiders)

		// Races
		r.Post("/api/admin/races", h.handleCreateRace)
		r.Put("/api/admin/races/{id}/status", h.handleSetRaceStatus)

		// Results
		r.Post("/api/admin/results", h.handleRecordResults)
		r.Get("/api/admin/results/{raceID}", h.handleGetResults)
		r.Post("/api/admin/results/{raceID}/import", h.handleImportResults)
		r.Post("/api/admin/rescore/{raceID}", h.handleRescore)
		r.Get("/api/admin/championship-results", h.handleGetChampionshipResults)
		r.Post("/api/admin/championship-results", h.handleRecordChampionshipResults)

		// Settings
		r.Get("/api/admin/settings", h.handleGetSettings)
		r.Put("/api/admin/settings", h.handleUpdateSettings)
		r.Post("/api/admin/settings", h.handleUpdateSettings)
		r.Get("/api/admin/stats", h.handleGetStats)

		// Database Management
		r.Post("/api/admin/reset-database", h.handleResetDatabase)
	})

	return r
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]string{"status": "ok"})
}
