package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/linkstash/linkstash/internal/logger"
)

// Event is a change notification. It names the changed row but carries no
// row data; consumers are expected to refetch.
type Event struct {
	Table  string `json:"table"`
	Action string `json:"action"` // "insert" | "update" | "delete"
	ID     string `json:"id"`
}

const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"

	TableBookmarks = "bookmarks"
	TableFolders   = "folders"
)

// Channel returns the pub/sub channel carrying one owner's change events.
func Channel(owner string) string {
	return "stash:feed:" + owner
}

// Feed publishes and subscribes to per-owner change notifications over
// Redis pub/sub.
type Feed struct {
	client *redis.Client
	logger logger.Logger
}

func New(client *redis.Client, log logger.Logger) *Feed {
	return &Feed{
		client: client,
		logger: log,
	}
}

// Publish emits an event on the owner's channel.
func (f *Feed) Publish(ctx context.Context, owner string, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := f.client.Publish(ctx, Channel(owner), data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscription is one open change-feed for a single owner.
type Subscription struct {
	pubsub *redis.PubSub
	events chan Event
}

// Subscribe opens a subscription on the owner's channel. Malformed payloads
// are dropped with a warning; the channel closes when the subscription does.
func (f *Feed) Subscribe(ctx context.Context, owner string) *Subscription {
	pubsub := f.client.Subscribe(ctx, Channel(owner))
	sub := &Subscription{
		pubsub: pubsub,
		events: make(chan Event, 16),
	}

	go func() {
		defer close(sub.events)
		for msg := range pubsub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				f.logger.Warn("dropping malformed feed event",
					logger.String("channel", msg.Channel),
					logger.Error(err))
				continue
			}
			select {
			case sub.events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub
}

// Events returns the notification channel.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close tears down the subscription; Events() closes shortly after.
func (s *Subscription) Close() error {
	return s.pubsub.Close()
}
