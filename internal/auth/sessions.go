package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"github.com/linkstash/linkstash/internal/domain"
	"github.com/linkstash/linkstash/internal/logger"
	redisstore "github.com/linkstash/linkstash/internal/store/redis"
)

// Sessions issues and validates the access/refresh token pair. Access tokens
// are short-lived HS256 JWTs; refresh tokens are opaque values bound to a
// redis session record. Validation always round-trips to the store, so a
// revoked session dies immediately even if its JWT has not expired.
type Sessions struct {
	store      *redisstore.Store
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     logger.Logger
	now        func() time.Time
}

func NewSessions(store *redisstore.Store, secret string, accessTTL, refreshTTL time.Duration, log logger.Logger) *Sessions {
	return &Sessions{
		store:      store,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     log,
		now:        time.Now,
	}
}

// Signup registers a new account.
func (s *Sessions) Signup(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", domain.Validation("email is required")
	}
	if len(password) < 8 {
		return "", domain.Validation("password must be at least 8 characters")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	acc, err := s.store.CreateAccount(ctx, email, hash)
	if err != nil {
		return "", err
	}
	return acc.ID, nil
}

// Login verifies credentials and writes a fresh cookie pair through the
// bridge. Wrong email and wrong password are indistinguishable to callers.
func (s *Sessions) Login(ctx context.Context, b *CookieBridge, email, password string) (string, error) {
	acc, err := s.store.GetAccountByEmail(ctx, email)
	if err != nil {
		// Burn a hash comparison anyway so missing accounts take as long
		// as wrong passwords.
		CheckPassword("$2a$10$0000000000000000000000uqJq0qqqqqqqqqqqqqqqqqqqqqqqqqq", password)
		return "", domain.ErrUnauthorized
	}
	if !CheckPassword(acc.PasswordHash, password) {
		return "", domain.ErrUnauthorized
	}

	if err := s.issue(ctx, b, acc.ID); err != nil {
		return "", err
	}
	return acc.ID, nil
}

// Logout revokes the current session record and clears both cookies.
func (s *Sessions) Logout(ctx context.Context, b *CookieBridge) {
	if raw, ok := b.Get(CookieRefresh); ok {
		if jti, _, ok := splitRefresh(raw); ok {
			if err := s.store.DeleteSession(ctx, jti); err != nil {
				s.logger.Warn("failed to revoke session", logger.Error(err))
			}
		}
	}
	b.Clear(CookieAccess)
	b.Clear(CookieRefresh)
}

// UserFromRequest derives the current user from the session cookies on the
// bridge. An expired or missing access token falls back to the refresh
// token, which rotates the pair through the bridge (both jars, per the
// bridge contract). Any failure means "no user".
func (s *Sessions) UserFromRequest(ctx context.Context, b *CookieBridge) (string, error) {
	if token, ok := b.Get(CookieAccess); ok {
		if userID, err := s.verifyAccess(ctx, token); err == nil {
			return userID, nil
		}
	}
	return s.refresh(ctx, b)
}

func (s *Sessions) verifyAccess(ctx context.Context, token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", domain.ErrUnauthorized
	}

	// Credential validation is a store round-trip, not a local decode: the
	// session record must still exist and agree on the user.
	sess, err := s.store.GetSession(ctx, claims.ID)
	if err != nil || sess.UserID != claims.Subject {
		return "", domain.ErrUnauthorized
	}
	return claims.Subject, nil
}

// refresh exchanges a valid refresh cookie for a new cookie pair. The
// refresh token is rotated on every use.
func (s *Sessions) refresh(ctx context.Context, b *CookieBridge) (string, error) {
	raw, ok := b.Get(CookieRefresh)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	jti, token, ok := splitRefresh(raw)
	if !ok {
		return "", domain.ErrUnauthorized
	}

	sess, err := s.store.GetSession(ctx, jti)
	if err != nil {
		return "", domain.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(sess.RefreshToken), []byte(token)) != 1 {
		return "", domain.ErrUnauthorized
	}
	if s.now().After(sess.ExpiresAt) {
		return "", domain.ErrUnauthorized
	}

	sess.RefreshToken = ulid.Make().String()
	if err := s.store.SaveSession(ctx, sess); err != nil {
		return "", err
	}

	access, err := s.signAccess(sess.UserID, sess.JTI)
	if err != nil {
		return "", err
	}

	b.Set(CookieAccess, access, s.accessTTL)
	b.Set(CookieRefresh, sess.JTI+"."+sess.RefreshToken, time.Until(sess.ExpiresAt))

	s.logger.Debug("session refreshed", logger.String("jti", sess.JTI))
	return sess.UserID, nil
}

func (s *Sessions) issue(ctx context.Context, b *CookieBridge, userID string) error {
	now := s.now()
	sess := &redisstore.Session{
		JTI:          ulid.Make().String(),
		UserID:       userID,
		RefreshToken: ulid.Make().String(),
		ExpiresAt:    now.Add(s.refreshTTL),
		CreatedAt:    now,
	}

	if err := s.store.SaveSession(ctx, sess); err != nil {
		return err
	}

	access, err := s.signAccess(userID, sess.JTI)
	if err != nil {
		return err
	}

	b.Set(CookieAccess, access, s.accessTTL)
	b.Set(CookieRefresh, sess.JTI+"."+sess.RefreshToken, s.refreshTTL)
	return nil
}

func (s *Sessions) signAccess(userID, jti string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, nil
}

// splitRefresh splits a refresh cookie value of the form "<jti>.<token>".
func splitRefresh(raw string) (jti, token string, ok bool) {
	i := strings.IndexByte(raw, '.')
	if i <= 0 || i == len(raw)-1 {
		return "", "", false
	}
	return raw[:i], raw[i+1:], true
}
