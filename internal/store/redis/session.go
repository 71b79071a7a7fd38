package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linkstash/linkstash/internal/domain"
)

// Session is a server-side session record. The access token is validated
// against it on every request, so revoking the record invalidates the
// session immediately regardless of token expiry.
type Session struct {
	JTI          string    `json:"jti"`
	UserID       string    `json:"user_id"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// SaveSession stores a session record with a TTL matching its expiry and
// tracks its JTI in the all-sessions set. Redis expires the record itself;
// the GC sweep only prunes the set.
func (s *Store) SaveSession(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return domain.Validation("session already expired")
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, SessionKey(sess.JTI), data, ttl)
	pipe.SAdd(ctx, AllSessionsKey(), sess.JTI)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession retrieves a session record by JTI.
func (s *Store) GetSession(ctx context.Context, jti string) (*Session, error) {
	data, err := s.client.Get(ctx, SessionKey(jti)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// DeleteSession revokes a session record.
func (s *Store) DeleteSession(ctx context.Context, jti string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, SessionKey(jti))
	pipe.SRem(ctx, AllSessionsKey(), jti)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PruneSessions removes JTIs whose records have expired from the
// all-sessions set. Returns the number of entries pruned.
func (s *Store) PruneSessions(ctx context.Context) (int, error) {
	jtis, err := s.client.SMembers(ctx, AllSessionsKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	pruned := 0
	for _, jti := range jtis {
		exists, err := s.client.Exists(ctx, SessionKey(jti)).Result()
		if err != nil {
			return pruned, fmt.Errorf("failed to check session %s: %w", jti, err)
		}
		if exists == 0 {
			if err := s.client.SRem(ctx, AllSessionsKey(), jti).Err(); err != nil {
				return pruned, fmt.Errorf("failed to prune session %s: %w", jti, err)
			}
			pruned++
		}
	}
	return pruned, nil
}

// CountSessions returns the number of tracked session JTIs (live plus
// not-yet-pruned).
func (s *Store) CountSessions(ctx context.Context) (int64, error) {
	n, err := s.client.SCard(ctx, AllSessionsKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}
