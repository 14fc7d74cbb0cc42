package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/abrezinsky/gridpicks/internal/handlers"
	"github.com/abrezinsky/gridpicks/internal/models"
	"github.com/abrezinsky/gridpicks/internal/services"
	"github.com/abrezinsky/gridpicks/internal/testutil"
)

type predictionResponse struct {
	Prediction models.RacePrediction `json:"prediction"`
	Penalty    *models.Penalty       `json:"penalty"`
}

func (ts *testSetup) picks(round, sprint, race, g7 int) handlers.RacePredictionRequest {
	return handlers.RacePredictionRequest{
		RaceID:         ts.race(round),
		SprintWinnerID: ts.rider(sprint),
		RaceWinnerID:   ts.rider(race),
		Glorious7ID:    ts.rider(g7),
	}
}

func TestSubmitPrediction_BeforeDeadline(t *testing.T) {
	ts := newTestSetup(t)
	cookie, playerID := ts.login(t, "alice")

	w := ts.do(t, http.MethodPost, "/api/predictions", ts.picks(1, 1, 2, 7), cookie)
	expectStatus(t, w, http.StatusOK)

	resp := decode[predictionResponse](t, w)
	if resp.Prediction.PlayerID != playerID || resp.Prediction.IsLate {
		t.Errorf("unexpected prediction: %+v", resp.Prediction)
	}
	if resp.Penalty != nil {
		t.Errorf("expected no penalty, got %+v", resp.Penalty)
	}

	// Changing picks before FP1 is allowed
	w = ts.do(t, http.MethodPut, "/api/predictions", ts.picks(1, 3, 4, 8), cookie)
	expectStatus(t, w, http.StatusOK)

	w = ts.do(t, http.MethodGet, "/api/predictions/"+ts.race(1), nil, cookie)
	expectStatus(t, w, http.StatusOK)
	stored := decode[models.RacePrediction](t, w)
	if stored.State != "submitted" {
		t.Errorf("expected submitted state, got %q", stored.State)
	}
	if stored.SprintWinnerID != ts.rider(3) || stored.Glorious7ID != ts.rider(8) {
		t.Errorf("expected updated picks, got %+v", stored)
	}
}

func TestSubmitPrediction_ChangeAfterDeadline(t *testing.T) {
	ts := newTestSetup(t)
	cookie, _ := ts.login(t, "alice")

	expectStatus(t, ts.do(t, http.MethodPost, "/api/predictions", ts.picks(1, 1, 2, 7), cookie), http.StatusOK)

	ts.clock.Set(testutil.FP1.Add(time.Minute))
	w := ts.do(t, http.MethodPut, "/api/predictions", ts.picks(1, 3, 4, 8), cookie)
	expectErrorCode(t, w, http.StatusBadRequest, services.CodeDeadlinePassed)
}

func TestSubmitPrediction_LateEntryCarriesPenalty(t *testing.T) {
	ts := newTestSetup(t)
	cookie, _ := ts.login(t, "carol")
	ts.clock.Set(testutil.FP1.Add(time.Hour))

	w := ts.do(t, http.MethodPost, "/api/predictions", ts.picks(1, 1, 2, 7), cookie)
	expectStatus(t, w, http.StatusCreated)

	resp := decode[predictionResponse](t, w)
	if !resp.Prediction.IsLate {
		t.Error("expected prediction to be marked late")
	}
	if resp.Penalty == nil || resp.Penalty.PenaltyPoints != 10 || resp.Penalty.OffenseNumber != 1 {
		t.Errorf("expected first-offense penalty of 10, got %+v", resp.Penalty)
	}

	// A late entry cannot be changed
	w = ts.do(t, http.MethodPut, "/api/predictions", ts.picks(1, 2, 3, 7), cookie)
	expectErrorCode(t, w, http.StatusBadRequest, services.CodeDeadlinePassed)
}

func TestSubmitPrediction_Validation(t *testing.T) {
	ts := newTestSetup(t)
	cookie, _ := ts.login(t, "alice")

	tests := []struct {
		name   string
		body   interface{}
		status int
		code   string
	}{
		{"empty body", "", http.StatusBadRequest, "BAD_REQUEST"},
		{"missing race", handlers.RacePredictionRequest{SprintWinnerID: ts.rider(1), RaceWinnerID: ts.rider(2), Glorious7ID: ts.rider(3)}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown race", handlers.RacePredictionRequest{RaceID: "nope", SprintWinnerID: ts.rider(1), RaceWinnerID: ts.rider(2), Glorious7ID: ts.rider(3)}, http.StatusNotFound, "NOT_FOUND"},
		{"unknown rider", handlers.RacePredictionRequest{RaceID: ts.race(1), SprintWinnerID: "ghost", RaceWinnerID: ts.rider(1), Glorious7ID: ts.rider(2)}, http.StatusNotFound, "NOT_FOUND"},
		{"same rider twice", ts.picks(1, 1, 2, 2), http.StatusBadRequest, services.CodeDuplicateRider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/predictions", tt.body, cookie)
			expectErrorCode(t, w, tt.status, tt.code)
		})
	}
}

func TestGetPrediction_NotFound(t *testing.T) {
	ts := newTestSetup(t)
	cookie, _ := ts.login(t, "alice")

	w := ts.do(t, http.MethodGet, "/api/predictions/"+ts.race(2), nil, cookie)
	expectErrorCode(t, w, http.StatusNotFound, "NOT_FOUND")
}

func TestChampionshipPrediction(t *testing.T) {
	ts := newTestSetup(t)
	cookie, playerID := ts.login(t, "alice")

	body := handlers.PodiumRequest{First: ts.rider(1), Second: ts.rider(2), Third: ts.rider(3)}
	w := ts.do(t, http.MethodPost, "/api/championship", body, cookie)
	expectStatus(t, w, http.StatusOK)

	w = ts.do(t, http.MethodGet, "/api/championship", nil, cookie)
	expectStatus(t, w, http.StatusOK)
	stored := decode[models.ChampionshipPrediction](t, w)
	if stored.PlayerID != playerID || stored.SeasonYear != testutil.Season || stored.FirstPlaceID != ts.rider(1) {
		t.Errorf("unexpected championship prediction: %+v", stored)
	}

	// Locked from the first round's FP1
	ts.clock.Set(testutil.FP1)
	w = ts.do(t, http.MethodPut, "/api/championship", body, cookie)
	expectErrorCode(t, w, http.StatusBadRequest, services.CodeChampionshipLocked)
}

func TestChampionshipPrediction_DuplicateRider(t *testing.T) {
	ts := newTestSetup(t)
	cookie, _ := ts.login(t, "alice")

	body := handlers.PodiumRequest{First: ts.rider(1), Second: ts.rider(1), Third: ts.rider(3)}
	w := ts.do(t, http.MethodPost, "/api/championship", body, cookie)
	expectErrorCode(t, w, http.StatusBadRequest, services.CodeDuplicateRider)
}

func TestPlayerRoutes_DeletedPlayerRejected(t *testing.T) {
	ts := newTestSetup(t)
	cookie, playerID := ts.login(t, "alice")

	expectStatus(t, ts.admin(t, http.MethodDelete, "/api/admin/players/"+playerID, nil), http.StatusNoContent)

	w := ts.do(t, http.MethodGet, "/api/me", nil, cookie)
	expectErrorCode(t, w, http.StatusUnauthorized, handlers.ErrCodeUnauthorized)

	w = ts.do(t, http.MethodPost, "/api/predictions", ts.picks(1, 1, 2, 7), cookie)
	expectErrorCode(t, w, http.StatusUnauthorized, handlers.ErrCodeUnauthorized)
}
