package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (h *Handlers) handleListRiders(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"
	riders, err := h.Calendar.ListRiders(r.Context(), activeOnly)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, riders)
}

func (h *Handlers) handleListRaces(w http.ResponseWriter, r *http.Request) {
	season, err := h.parseSeason(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	races, err := h.Calendar.ListRaces(r.Context(), season)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, races)
}

// handleNextDeadline returns the next race still open for predictions
func (h *Handlers) handleNextDeadline(w http.ResponseWriter, r *http.Request) {
	season, err := h.parseSeason(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	next, err := h.Calendar.NextDeadline(r.Context(), season)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, next)
}

func (h *Handlers) handleGetRace(w http.ResponseWriter, r *http.Request) {
	race, err := h.Calendar.RaceStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, race)
}

func (h *Handlers) handleChampionshipDeadline(w http.ResponseWriter, r *http.Request) {
	season, err := h.parseSeason(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	status, err := h.Calendar.ChampionshipDeadline(r.Context(), season)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, status)
}

func (h *Handlers) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	season, err := h.parseSeason(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	standings, err := h.Leaderboard.Standings(r.Context(), season)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, LeaderboardResponse{Season: season, Standings: standings})
}

// handleBreakdown explains how a player's points for one race were earned
func (h *Handlers) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	raceID := strings.TrimSpace(r.URL.Query().Get("race_id"))
	playerID := strings.TrimSpace(r.URL.Query().Get("player_id"))
	if raceID == "" || playerID == "" {
		h.respondError(w, r, BadRequest("race_id and player_id are required"))
		return
	}
	breakdown, err := h.Leaderboard.Breakdown(r.Context(), raceID, playerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, breakdown)
}
