package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linkstash/linkstash/internal/auth"
	"github.com/linkstash/linkstash/internal/domain"
	"github.com/linkstash/linkstash/internal/httpserver/deps"
	"github.com/linkstash/linkstash/internal/logger"
)

// owner re-derives the session identity server-side. Client-supplied
// identity fields are never trusted; the body can say whatever it likes.
func owner(d deps.Deps, w http.ResponseWriter, r *http.Request) (string, bool) {
	bridge := auth.NewCookieBridge(w, r, d.Cookies)
	userID, err := d.Sessions.UserFromRequest(r.Context(), bridge)
	if err != nil {
		writeError(w, d.Logger, domain.ErrUnauthorized)
		return "", false
	}
	return userID, true
}

// ListBookmarks returns the caller's full bookmark set, newest first.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := owner(d, w, r)
		if !ok {
			return
		}

		bookmarks, err := d.Store.ListBookmarks(r.Context(), userID)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, bookmarks)
	}
}

// CreateBookmark inserts a bookmark with the owner forced to the session
// identity and server-assigned defaults (favorite off, zero visits).
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := owner(d, w, r)
		if !ok {
			return
		}

		var in domain.CreateBookmarkInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, d.Logger, domain.Validation("invalid request body"))
			return
		}
		if err := in.Validate(); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		bk, err := d.Store.CreateBookmark(r.Context(), userID, in)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("bookmark created",
			logger.String("id", bk.ID),
			logger.String("user_id", userID))
		writeJSON(w, http.StatusCreated, bk)
	}
}

// UpdateBookmark applies a sparse patch. Only keys present in the body are
// touched; the update is filtered by both id and owner, so a foreign
// bookmark looks exactly like a missing one.
func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := owner(d, w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		var patch domain.BookmarkPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeError(w, d.Logger, domain.Validation("invalid request body"))
			return
		}

		bk, err := d.Store.UpdateBookmark(r.Context(), userID, id, patch)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("bookmark updated",
			logger.String("id", id),
			logger.String("user_id", userID))
		writeJSON(w, http.StatusOK, bk)
	}
}

// DeleteBookmark removes a bookmark, filtered by id and owner.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := owner(d, w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		if err := d.Store.DeleteBookmark(r.Context(), userID, id); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("bookmark deleted",
			logger.String("id", id),
			logger.String("user_id", userID))
		w.WriteHeader(http.StatusNoContent)
	}
}
