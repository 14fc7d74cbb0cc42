package handlers

import (
	"net/http"

	"github.com/abrezinsky/gridpicks/internal/auth"
)

// handlePlayerLogin verifies a player's name and passphrase and issues a
// session token
func (h *Handlers) handlePlayerLogin(w http.ResponseWriter, r *http.Request) {
	var req PlayerLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	player, err := h.Players.Authenticate(r.Context(), req.Name, req.Passphrase)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	token, err := h.Tokens.Issue(player.ID, player.Name)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.Tokens.SetPlayerCookie(w, token)
	respondOK(w, LoginResponse{Token: token, Player: player})
}

// handlePlayerLogout clears the player session cookie
func (h *Handlers) handlePlayerLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearPlayerCookie(w)
	respondSuccess(w, "Logged out")
}

// handleAdminLogin processes the admin password
func (h *Handlers) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	token, ok := h.Admin.Login(req.Password)
	if !ok {
		h.Log.Warn("Admin login failed", "remote", r.RemoteAddr)
		h.respondError(w, r, Unauthorized("Invalid password"))
		return
	}

	auth.SetAdminCookie(w, token)
	respondSuccess(w, "Logged in")
}

// handleAdminLogout invalidates the admin session
func (h *Handlers) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.AdminCookieName); err == nil {
		h.Admin.Logout(cookie.Value)
	}

	auth.ClearAdminCookie(w)
	respondSuccess(w, "Logged out")
}
