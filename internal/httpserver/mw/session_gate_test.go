package mw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/linkstash/linkstash/internal/auth"
	"github.com/linkstash/linkstash/internal/domain"
	"github.com/linkstash/linkstash/internal/logger"
)

type fakeSessions struct {
	user string
	err  error
}

func (f *fakeSessions) UserFromRequest(_ context.Context, _ *auth.CookieBridge) (string, error) {
	return f.user, f.err
}

func TestSessionGate(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		user         string
		err          error
		wantStatus   int
		wantLocation string
		wantNext     bool
	}{
		{
			name:         "unauthenticated under prefix redirects to login",
			path:         "/app",
			wantStatus:   http.StatusFound,
			wantLocation: "/login",
		},
		{
			name:         "unauthenticated deep under prefix redirects to login",
			path:         "/app/bookmarks/abc",
			wantStatus:   http.StatusFound,
			wantLocation: "/login",
		},
		{
			name:         "authenticated on login page redirects to app",
			path:         "/login",
			user:         "u1",
			wantStatus:   http.StatusFound,
			wantLocation: "/app",
		},
		{
			name:       "unauthenticated on login page passes through",
			path:       "/login",
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "authenticated under prefix passes through",
			path:       "/app",
			user:       "u1",
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:         "session error fails closed",
			path:         "/app",
			user:         "u1",
			err:          domain.ErrUnauthorized,
			wantStatus:   http.StatusFound,
			wantLocation: "/login",
		},
		{
			name:       "unmatched path bypasses the gate",
			path:       "/api/bookmarks",
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "prefix match respects path boundaries",
			path:       "/application",
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
	}

	log := logger.New("error", false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var ctxUser string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				ctxUser, _ = UserFromContext(r.Context())
			})

			sessions := &fakeSessions{user: tt.user, err: tt.err}
			handler := SessionGate("/app", "/login", sessions, auth.CookieOptions{}, log)(next)

			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" {
				if loc := w.Header().Get("Location"); loc != tt.wantLocation {
					t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
				}
			}
			if nextCalled != tt.wantNext {
				t.Errorf("next called = %v, want %v", nextCalled, tt.wantNext)
			}
			if tt.wantNext && tt.user != "" && tt.err == nil && ctxUser != tt.user {
				t.Errorf("context user = %q, want %q", ctxUser, tt.user)
			}
		})
	}
}

func TestUnderPrefix(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/app", true},
		{"/app/", true},
		{"/app/x", true},
		{"/application", false},
		{"/", false},
		{"/login", false},
	}
	for _, tt := range tests {
		if got := underPrefix(tt.path, "/app"); got != tt.want {
			t.Errorf("underPrefix(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
