package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/linkstash/linkstash/internal/domain"
	"github.com/linkstash/linkstash/internal/feed"
)

// CreateBookmark inserts a new bookmark owned by owner. ID, timestamps,
// favorite flag and visit counter are assigned here; client input can never
// set them.
func (s *Store) CreateBookmark(ctx context.Context, owner string, in domain.CreateBookmarkInput) (*domain.Bookmark, error) {
	now := s.now()
	bk := &domain.Bookmark{
		ID:          ulid.Make().String(),
		Owner:       owner,
		Title:       in.Title,
		URL:         in.URL,
		Description: in.Description,
		Tags:        in.Tags,
		FolderID:    in.FolderID,
		IsFavorite:  false,
		VisitCount:  0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.saveBookmark(ctx, bk); err != nil {
		return nil, err
	}

	s.publish(ctx, owner, feed.Event{Table: feed.TableBookmarks, Action: feed.ActionInsert, ID: bk.ID})
	return bk, nil
}

// GetBookmark retrieves a bookmark by ID, scoped to owner. A missing record
// and a record owned by someone else are indistinguishable to the caller.
func (s *Store) GetBookmark(ctx context.Context, owner, id string) (*domain.Bookmark, error) {
	data, err := s.client.Get(ctx, BookmarkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}

	var bk domain.Bookmark
	if err := json.Unmarshal(data, &bk); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}

	if bk.Owner != owner {
		return nil, domain.ErrNotFound
	}
	return &bk, nil
}

// ListBookmarks returns all of owner's bookmarks ordered by creation time
// descending.
func (s *Store) ListBookmarks(ctx context.Context, owner string) ([]domain.Bookmark, error) {
	ids, err := s.client.SMembers(ctx, UserBookmarksKey(owner)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark IDs: %w", err)
	}

	bookmarks := make([]domain.Bookmark, 0, len(ids))
	for _, id := range ids {
		bk, err := s.GetBookmark(ctx, owner, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Record vanished between SMembers and Get
				continue
			}
			// Anything else (corrupt blob, read failure) must fail the
			// whole list: a 200 with a shrunken set would be adopted as
			// truth by every mirroring client.
			return nil, err
		}
		bookmarks = append(bookmarks, *bk)
	}

	sort.SliceStable(bookmarks, func(i, j int) bool {
		return bookmarks[i].CreatedAt.After(bookmarks[j].CreatedAt)
	})
	return bookmarks, nil
}

// UpdateBookmark applies a sparse patch to the bookmark matching both id and
// owner. No match (wrong owner included) yields domain.ErrNotFound and no
// write. An empty patch returns the record as-is without a write or a feed
// event.
func (s *Store) UpdateBookmark(ctx context.Context, owner, id string, patch domain.BookmarkPatch) (*domain.Bookmark, error) {
	bk, err := s.GetBookmark(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return bk, nil
	}

	patch.Apply(bk, s.now())

	if err := s.saveBookmark(ctx, bk); err != nil {
		return nil, err
	}

	s.publish(ctx, owner, feed.Event{Table: feed.TableBookmarks, Action: feed.ActionUpdate, ID: bk.ID})
	return bk, nil
}

// DeleteBookmark removes the bookmark matching both id and owner. The owner
// filter here is deliberate: deletion is held to the same double filter as
// update.
func (s *Store) DeleteBookmark(ctx context.Context, owner, id string) error {
	if _, err := s.GetBookmark(ctx, owner, id); err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, BookmarkKey(id))
	pipe.SRem(ctx, UserBookmarksKey(owner), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	s.publish(ctx, owner, feed.Event{Table: feed.TableBookmarks, Action: feed.ActionDelete, ID: id})
	return nil
}

// SaveBookmarksMany stores multiple bookmarks in one pipeline (seed import).
// No per-row events are published; callers import before any client is
// connected.
func (s *Store) SaveBookmarksMany(ctx context.Context, bookmarks []*domain.Bookmark) error {
	pipe := s.client.Pipeline()

	for _, bk := range bookmarks {
		data, err := json.Marshal(bk)
		if err != nil {
			return fmt.Errorf("failed to marshal bookmark %s: %w", bk.ID, err)
		}
		pipe.Set(ctx, BookmarkKey(bk.ID), data, 0)
		pipe.SAdd(ctx, UserBookmarksKey(bk.Owner), bk.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save bookmarks: %w", err)
	}
	return nil
}

func (s *Store) saveBookmark(ctx context.Context, bk *domain.Bookmark) error {
	data, err := json.Marshal(bk)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, BookmarkKey(bk.ID), data, 0)
	pipe.SAdd(ctx, UserBookmarksKey(bk.Owner), bk.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}
	return nil
}

// publish is best effort: a dropped notification only delays convergence
// until the next refetch.
func (s *Store) publish(ctx context.Context, owner string, ev feed.Event) {
	_ = s.feed.Publish(ctx, owner, ev)
}
