package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/linkstash/linkstash/internal/auth"
	"github.com/linkstash/linkstash/internal/domain"
	"github.com/linkstash/linkstash/internal/httpserver/deps"
	"github.com/linkstash/linkstash/internal/logger"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityResponse struct {
	UserID string `json:"user_id"`
}

// Login exchanges credentials for a session cookie pair.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, d.Logger, domain.Validation("invalid request body"))
			return
		}

		bridge := auth.NewCookieBridge(w, r, d.Cookies)
		userID, err := d.Sessions.Login(r.Context(), bridge, req.Email, req.Password)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("login", logger.String("user_id", userID))
		writeJSON(w, http.StatusOK, identityResponse{UserID: userID})
	}
}

// Logout revokes the current session and clears both cookies. Always
// succeeds, even without a session.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bridge := auth.NewCookieBridge(w, r, d.Cookies)
		d.Sessions.Logout(r.Context(), bridge)
		w.WriteHeader(http.StatusNoContent)
	}
}

// Signup registers a new account. It does not log the account in; clients
// follow up with a login call.
func Signup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, d.Logger, domain.Validation("invalid request body"))
			return
		}

		userID, err := d.Sessions.Signup(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("signup", logger.String("user_id", userID))
		writeJSON(w, http.StatusCreated, identityResponse{UserID: userID})
	}
}
