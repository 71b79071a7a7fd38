package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/linkstash/linkstash/internal/domain"
	"github.com/linkstash/linkstash/internal/feed"
)

// Folders are persisted and owner-scoped like bookmarks, but nothing reads
// them back outside the store API yet; only the seed importer writes them.

// CreateFolder inserts a new folder owned by owner.
func (s *Store) CreateFolder(ctx context.Context, owner, name, color string) (*domain.Folder, error) {
	f := &domain.Folder{
		ID:        ulid.Make().String(),
		Owner:     owner,
		Name:      name,
		Color:     color,
		CreatedAt: s.now(),
	}

	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal folder: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, FolderKey(f.ID), data, 0)
	pipe.SAdd(ctx, UserFoldersKey(owner), f.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to save folder: %w", err)
	}

	s.publish(ctx, owner, feed.Event{Table: feed.TableFolders, Action: feed.ActionInsert, ID: f.ID})
	return f, nil
}

// GetFolder retrieves a folder by ID, scoped to owner.
func (s *Store) GetFolder(ctx context.Context, owner, id string) (*domain.Folder, error) {
	data, err := s.client.Get(ctx, FolderKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get folder: %w", err)
	}

	var f domain.Folder
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal folder: %w", err)
	}

	if f.Owner != owner {
		return nil, domain.ErrNotFound
	}
	return &f, nil
}

// ListFolders returns all of owner's folders (unordered).
func (s *Store) ListFolders(ctx context.Context, owner string) ([]domain.Folder, error) {
	ids, err := s.client.SMembers(ctx, UserFoldersKey(owner)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get folder IDs: %w", err)
	}

	folders := make([]domain.Folder, 0, len(ids))
	for _, id := range ids {
		f, err := s.GetFolder(ctx, owner, id)
		if err != nil {
			continue
		}
		folders = append(folders, *f)
	}
	return folders, nil
}
