package mw

import (
	"context"
	"net/http"
	"strings"

	"github.com/linkstash/linkstash/internal/auth"
	"github.com/linkstash/linkstash/internal/logger"
)

// SessionSource derives the current user from session cookies. Cookie
// refreshes happen through the bridge, so both the request and the response
// carry any re-issued tokens.
type SessionSource interface {
	UserFromRequest(ctx context.Context, b *auth.CookieBridge) (string, error)
}

type userKey struct{}

// UserFromContext returns the user id stored by SessionGate, if any.
func UserFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userKey{}).(string)
	return userID, ok
}

// SessionGate intercepts requests to the protected prefix and the login
// path. Unauthenticated requests under the protected prefix are redirected
// to the login path; authenticated requests to exactly the login path are
// redirected to the protected root. Everything else passes through
// untouched, with the user id (when present) stored on the context.
//
// Identity is re-derived on every request; the gate holds no state of its
// own, and any failure to derive a user means "no user" (fail closed).
func SessionGate(protectedPrefix, loginPath string, sessions SessionSource, cookies auth.CookieOptions, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if !gateMatches(path, protectedPrefix, loginPath) {
				next.ServeHTTP(w, r)
				return
			}

			bridge := auth.NewCookieBridge(w, r, cookies)
			userID, err := sessions.UserFromRequest(r.Context(), bridge)
			if err != nil {
				userID = "" // fail closed
			}

			switch {
			case userID == "" && underPrefix(path, protectedPrefix):
				log.Debug("gate: unauthenticated, redirecting to login",
					logger.String("path", path))
				http.Redirect(w, r, loginPath, http.StatusFound)

			case userID != "" && path == loginPath:
				log.Debug("gate: authenticated on login page, redirecting",
					logger.String("user_id", userID))
				http.Redirect(w, r, protectedPrefix, http.StatusFound)

			default:
				if userID != "" {
					r = r.WithContext(context.WithValue(r.Context(), userKey{}, userID))
				}
				next.ServeHTTP(w, r)
			}
		})
	}
}

func gateMatches(path, prefix, loginPath string) bool {
	return path == loginPath || underPrefix(path, prefix)
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
