package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/gridpicks/internal/auth"
	"github.com/abrezinsky/gridpicks/internal/errors"
	"github.com/abrezinsky/gridpicks/internal/scoring"
	"github.com/abrezinsky/gridpicks/internal/services"
)

// currentPlayer returns the claims placed in the context by RequirePlayer
func currentPlayer(r *http.Request) (*auth.Claims, error) {
	claims, ok := auth.PlayerFromContext(r.Context())
	if !ok {
		return nil, Unauthorized("player login required")
	}
	return claims, nil
}

// requireKnownPlayer rejects tokens whose player has since been deleted
func (h *Handlers) requireKnownPlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := currentPlayer(r)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		if _, err := h.Players.GetPlayer(r.Context(), claims.PlayerID()); err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				auth.ClearPlayerCookie(w)
				err = Unauthorized("player no longer exists")
			}
			h.respondError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, err := currentPlayer(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, MeResponse{PlayerID: claims.PlayerID(), Name: claims.Name})
}

func (h *Handlers) handleGetPrediction(w http.ResponseWriter, r *http.Request) {
	claims, err := currentPlayer(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	prediction, err := h.Predictions.GetRacePrediction(r.Context(), claims.PlayerID(), chi.URLParam(r, "raceID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, prediction)
}

// handleSubmitPrediction creates or changes the player's picks for a race.
// Late entries are answered with 201 and carry the penalty applied.
func (h *Handlers) handleSubmitPrediction(w http.ResponseWriter, r *http.Request) {
	claims, err := currentPlayer(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req RacePredictionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := h.Predictions.SubmitRacePrediction(r.Context(), claims.PlayerID(), services.RacePredictionInput{
		RaceID:         req.RaceID,
		SprintWinnerID: req.SprintWinnerID,
		RaceWinnerID:   req.RaceWinnerID,
		Glorious7ID:    req.Glorious7ID,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if result.Penalty != nil {
		respondCreated(w, result)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleGetChampionshipPrediction(w http.ResponseWriter, r *http.Request) {
	claims, err := currentPlayer(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	season, err := h.parseSeason(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	prediction, err := h.Predictions.GetChampionshipPrediction(r.Context(), claims.PlayerID(), season)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, prediction)
}

func (h *Handlers) handleSubmitChampionshipPrediction(w http.ResponseWriter, r *http.Request) {
	claims, err := currentPlayer(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req PodiumRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if req.Season == 0 {
		req.Season = h.Season
	}

	prediction, err := h.Predictions.SubmitChampionshipPrediction(r.Context(), claims.PlayerID(), req.Season, scoring.Podium{
		First:  req.First,
		Second: req.Second,
		Third:  req.Third,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, prediction)
}
