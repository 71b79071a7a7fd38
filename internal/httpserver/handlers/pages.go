package handlers

import (
	"net/http"

	"github.com/linkstash/linkstash/internal/httpserver/deps"
	"github.com/linkstash/linkstash/internal/httpserver/mw"
)

// Minimal server-rendered pages for the gated area. The SPA owns the real
// UI; these exist so the session gate has pages to protect and so a bare
// deployment is navigable.

// AppPage renders the protected-area shell.
func AppPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserFromContext(r.Context())
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<!doctype html><title>linkstash</title><body data-user=\"" + userID + "\"><h1>linkstash</h1></body>"))
	}
}

// LoginPage renders the sign-in shell.
func LoginPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<!doctype html><title>linkstash sign in</title><body><h1>Sign in</h1></body>"))
	}
}
