package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/linkstash/linkstash/internal/httpserver/deps"
	"github.com/linkstash/linkstash/internal/httpserver/handlers"
	"github.com/linkstash/linkstash/internal/httpserver/mw"
)

func init() { Register(registerPages) }

// registerPages mounts the gated pages. The session gate wraps only these
// routes; API routes re-derive identity themselves.
func registerPages(r chi.Router, d deps.Deps) {
	gate := mw.SessionGate(d.ProtectedPrefix, d.LoginPath, d.Sessions, d.Cookies, d.Logger)
	r.With(gate).Get(d.ProtectedPrefix, handlers.AppPage(d))
	r.With(gate).Get(d.ProtectedPrefix+"/*", handlers.AppPage(d))
	r.With(gate).Get(d.LoginPath, handlers.LoginPage(d))
}
