package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/linkstash/linkstash/internal/domain"
	"github.com/linkstash/linkstash/internal/feed"
	"github.com/linkstash/linkstash/internal/logger"
	redisstore "github.com/linkstash/linkstash/internal/store/redis"
)

func newTestSessions(t *testing.T) *Sessions {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logger.New("error", false)
	store := redisstore.NewStore(client, feed.New(client, log))
	return NewSessions(store, "0123456789abcdef0123456789abcdef", 15*time.Minute, time.Hour, log)
}

// newTestBridge returns a bridge over a fresh request. Thanks to the
// dual-write contract, cookies set during Login are readable from the same
// request on later calls.
func newTestBridge() (*CookieBridge, *http.Request) {
	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	return NewCookieBridge(httptest.NewRecorder(), r, CookieOptions{}), r
}

func TestLoginIssuesWorkingSession(t *testing.T) {
	s := newTestSessions(t)
	ctx := context.Background()

	userID, err := s.Signup(ctx, "alice@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	b, r := newTestBridge()
	loggedIn, err := s.Login(ctx, b, "alice@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if loggedIn != userID {
		t.Errorf("Login() user = %q, want %q", loggedIn, userID)
	}

	for _, name := range []string{CookieAccess, CookieRefresh} {
		if _, err := r.Cookie(name); err != nil {
			t.Errorf("request missing %s cookie after login", name)
		}
	}

	// The issued cookies identify the user on a subsequent request
	b2 := NewCookieBridge(httptest.NewRecorder(), r, CookieOptions{})
	got, err := s.UserFromRequest(ctx, b2)
	if err != nil {
		t.Fatalf("UserFromRequest() error = %v", err)
	}
	if got != userID {
		t.Errorf("UserFromRequest() = %q, want %q", got, userID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestSessions(t)
	ctx := context.Background()

	if _, err := s.Signup(ctx, "alice@example.com", "supersecret"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "alice@example.com", "wrongwrong"},
		{"unknown email", "nobody@example.com", "supersecret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBridge()
			if _, err := s.Login(ctx, b, tt.email, tt.password); !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("Login() error = %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestSignupValidation(t *testing.T) {
	s := newTestSessions(t)
	ctx := context.Background()

	if _, err := s.Signup(ctx, "", "supersecret"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty email: err = %v, want ErrValidation", err)
	}
	if _, err := s.Signup(ctx, "a@b.com", "short"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("short password: err = %v, want ErrValidation", err)
	}

	if _, err := s.Signup(ctx, "a@b.com", "supersecret"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if _, err := s.Signup(ctx, "A@B.com", "supersecret"); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("duplicate email: err = %v, want ErrConflict", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	s := newTestSessions(t)
	ctx := context.Background()

	if _, err := s.Signup(ctx, "alice@example.com", "supersecret"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	b, r := newTestBridge()
	userID, err := s.Login(ctx, b, "alice@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	oldRefresh, _ := r.Cookie(CookieRefresh)

	// Request carrying only the refresh cookie forces the refresh path
	r2 := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
	r2.AddCookie(&http.Cookie{Name: CookieRefresh, Value: oldRefresh.Value})
	b2 := NewCookieBridge(httptest.NewRecorder(), r2, CookieOptions{})

	got, err := s.UserFromRequest(ctx, b2)
	if err != nil {
		t.Fatalf("refresh: UserFromRequest() error = %v", err)
	}
	if got != userID {
		t.Errorf("refresh: user = %q, want %q", got, userID)
	}

	newRefresh, err := r2.Cookie(CookieRefresh)
	if err != nil {
		t.Fatal("refresh did not re-issue the refresh cookie")
	}
	if newRefresh.Value == oldRefresh.Value {
		t.Error("refresh token was not rotated")
	}

	// The pre-rotation token is dead
	r3 := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
	r3.AddCookie(&http.Cookie{Name: CookieRefresh, Value: oldRefresh.Value})
	b3 := NewCookieBridge(httptest.NewRecorder(), r3, CookieOptions{})
	if _, err := s.UserFromRequest(ctx, b3); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("stale refresh token: err = %v, want ErrUnauthorized", err)
	}
}

func TestLogoutRevokesImmediately(t *testing.T) {
	s := newTestSessions(t)
	ctx := context.Background()

	if _, err := s.Signup(ctx, "alice@example.com", "supersecret"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	b, r := newTestBridge()
	if _, err := s.Login(ctx, b, "alice@example.com", "supersecret"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	access, _ := r.Cookie(CookieAccess)

	s.Logout(ctx, b)

	// The access JWT is still within its lifetime, but validation round-trips
	// to the revoked session record and must fail.
	r2 := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
	r2.AddCookie(&http.Cookie{Name: CookieAccess, Value: access.Value})
	b2 := NewCookieBridge(httptest.NewRecorder(), r2, CookieOptions{})
	if _, err := s.UserFromRequest(ctx, b2); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("revoked session: err = %v, want ErrUnauthorized", err)
	}
}

func TestUserFromRequestRejectsGarbage(t *testing.T) {
	s := newTestSessions(t)
	ctx := context.Background()

	r := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
	r.AddCookie(&http.Cookie{Name: CookieAccess, Value: "not-a-jwt"})
	r.AddCookie(&http.Cookie{Name: CookieRefresh, Value: "not.real"})
	b := NewCookieBridge(httptest.NewRecorder(), r, CookieOptions{})

	if _, err := s.UserFromRequest(ctx, b); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("garbage cookies: err = %v, want ErrUnauthorized", err)
	}
}
