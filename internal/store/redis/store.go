package redis

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linkstash/linkstash/internal/feed"
)

// Store handles Redis persistence for bookmarks, folders, accounts and
// sessions. Every successful bookmark or folder write publishes a change
// notification on the owner's feed channel (best effort).
type Store struct {
	client *redis.Client
	feed   *feed.Feed
	now    func() time.Time
}

// NewStore creates a new Redis store. feed may not be nil.
func NewStore(client *redis.Client, f *feed.Feed) *Store {
	return &Store{
		client: client,
		feed:   f,
		now:    time.Now,
	}
}
