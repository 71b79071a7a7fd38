package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/linkstash/linkstash/internal/httpserver/deps"
	"github.com/linkstash/linkstash/internal/httpserver/handlers"
	"github.com/linkstash/linkstash/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	r.Route("/api/auth", func(r chi.Router) {
		limit := mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.LoginBurst,
			RefillPerIPPerMin: d.LoginPerMinute,
			TrustProxy:        d.TrustProxy,
		})
		r.With(limit).Post("/login", handlers.Login(d))
		r.With(limit).Post("/signup", handlers.Signup(d))
		r.Post("/logout", handlers.Logout(d))
	})
}
