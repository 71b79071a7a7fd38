package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/linkstash/linkstash/internal/domain"
)

// Account is a registered user. The password hash never leaves the store
// layer except for verification inside the auth package.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateAccount registers a new account. Emails are normalized to lower case
// and must be unique; an existing account yields domain.ErrConflict.
func (s *Store) CreateAccount(ctx context.Context, email, passwordHash string) (*Account, error) {
	acc := &Account{
		ID:           ulid.Make().String(),
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    s.now(),
	}

	data, err := json.Marshal(acc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account: %w", err)
	}

	ok, err := s.client.SetNX(ctx, AccountKey(acc.Email), data, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	if !ok {
		return nil, domain.ErrConflict
	}
	return acc, nil
}

// GetAccountByEmail retrieves an account by email.
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	data, err := s.client.Get(ctx, AccountKey(normalizeEmail(email))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	var acc Account
	if err := json.Unmarshal(data, &acc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	return &acc, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
