package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/gridpicks/internal/scoring"
	"github.com/abrezinsky/gridpicks/internal/services"
)

// Players

func (h *Handlers) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.Players.ListPlayers(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, players)
}

func (h *Handlers) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req PlayerCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	player, err := h.Players.CreatePlayer(r.Context(), req.Name, req.Passphrase)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.Log.Info("Player created", "player_id", player.ID, "name", player.Name)
	respondCreated(w, player)
}

func (h *Handlers) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	if err := h.Players.DeletePlayer(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondDeleted(w)
}

// handleInviteQR serves a QR code for the player's login link, or the link
// itself as JSON when format=url
func (h *Handlers) handleInviteQR(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if r.URL.Query().Get("format") == "url" {
		link, err := h.Players.InviteURL(r.Context(), id)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		respondOK(w, InviteResponse{URL: link})
		return
	}

	png, err := h.Players.InviteQR(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondPNG(w, png)
}

// Riders

func (h *Handlers) handleAdminListRiders(w http.ResponseWriter, r *http.Request) {
	riders, err := h.Calendar.ListRiders(r.Context(), false)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, riders)
}

func (h *Handlers) handleCreateRider(w http.ResponseWriter, r *http.Request) {
	var req RiderCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	rider, err := h.Calendar.CreateRider(r.Context(), services.RiderInput{
		Name:   req.Name,
		Number: req.Number,
		Team:   req.Team,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, rider)
}

func (h *Handlers) handleSetRiderActive(w http.ResponseWriter, r *http.Request) {
	var req RiderActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.Calendar.SetRiderActive(r.Context(), chi.URLParam(r, "id"), req.Active); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondSuccess(w, "Rider updated")
}

func (h *Handlers) handleSyncRiders(w http.ResponseWriter, r *http.Request) {
	var req RiderSyncRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			h.respondError(w, r, err)
			return
		}
	}
	if req.Season == 0 {
		req.Season = h.Season
	}

	result, err := h.Calendar.SyncRidersFromFeed(r.Context(), req.Season)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, result)
}

// Races

func (h *Handlers) handleCreateRace(w http.ResponseWriter, r *http.Request) {
	var req RaceCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	race, err := h.Calendar.CreateRace(r.Context(), services.RaceInput{
		Season:   req.Season,
		Round:    req.Round,
		Name:     req.Name,
		Circuit:  req.Circuit,
		Country:  req.Country,
		RaceAt:   req.RaceAt,
		SprintAt: req.SprintAt,
		FP1At:    req.FP1At,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, race)
}

func (h *Handlers) handleSetRaceStatus(w http.ResponseWriter, r *http.Request) {
	var req RaceStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.Calendar.SetRaceStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondSuccess(w, "Race status updated")
}

// Results

func (h *Handlers) handleRecordResults(w http.ResponseWriter, r *http.Request) {
	var req ResultsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.Results.RecordRaceResults(r.Context(), req.RaceID, req.ResultType, req.RiderIDs); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.Log.Info("Results recorded", "race_id", req.RaceID, "type", req.ResultType, "riders", len(req.RiderIDs))
	respondSuccess(w, "Results recorded")
}

func (h *Handlers) handleGetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.Results.GetRaceResults(r.Context(), chi.URLParam(r, "raceID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, results)
}

// handleImportResults pulls a session classification from the timing feed
func (h *Handlers) handleImportResults(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	raceID := chi.URLParam(r, "raceID")
	riderIDs, err := h.Results.ImportRaceResults(r.Context(), raceID, req.ResultType)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, ImportResponse{RaceID: raceID, ResultType: req.ResultType, RiderIDs: riderIDs})
}

func (h *Handlers) handleRescore(w http.ResponseWriter, r *http.Request) {
	raceID := chi.URLParam(r, "raceID")
	scores, err := h.Results.RescoreRace(r.Context(), raceID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, RescoreResponse{RaceID: raceID, Scores: scores})
}

func (h *Handlers) handleGetChampionshipResults(w http.ResponseWriter, r *http.Request) {
	season, err := h.parseSeason(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	podium, err := h.Results.GetChampionshipResults(r.Context(), season)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, podium)
}

func (h *Handlers) handleRecordChampionshipResults(w http.ResponseWriter, r *http.Request) {
	var req PodiumRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if req.Season == 0 {
		req.Season = h.Season
	}

	err := h.Results.RecordChampionshipResults(r.Context(), req.Season, scoring.Podium{
		First:  req.First,
		Second: req.Second,
		Third:  req.Third,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondSuccess(w, "Championship results recorded")
}

// Settings

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.AllSettings(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, settings)
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	err := h.Settings.UpdateSettings(r.Context(), services.Settings{
		BaseURL:       req.BaseURL,
		TimingFeedURL: req.TimingFeedURL,
		AllowLate:     req.AllowLate,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondSuccess(w, "Settings updated")
}

func (h *Handlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Settings.GetStats(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, stats)
}

// handleResetDatabase clears the selected tables
func (h *Handlers) handleResetDatabase(w http.ResponseWriter, r *http.Request) {
	var req DatabaseResetRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := h.Settings.ResetTables(r.Context(), req.Tables)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.Log.Warn("Database tables reset", "tables", result.Tables)
	respondOK(w, result)
}
