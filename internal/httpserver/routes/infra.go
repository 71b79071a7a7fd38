package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/linkstash/linkstash/internal/httpserver/deps"
	"github.com/linkstash/linkstash/internal/httpserver/handlers"
	"github.com/linkstash/linkstash/internal/httpserver/mw"
)

func init() { Register(registerInfra) }

func registerInfra(r chi.Router, d deps.Deps) {
	guard := mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)
	r.With(guard).Get("/api/healthz", handlers.Healthz(d))
	r.With(guard).Get("/api/readyz", handlers.Readyz(d))
	r.With(guard).Get("/api/infra", handlers.Infra(d))
	r.With(guard, mw.EnforceHost(d.AllowedHosts, d.Logger)).Post("/api/reload", handlers.Reload(d))
}
