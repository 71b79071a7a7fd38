package domain

import (
	"strings"
	"time"
)

// Bookmark is the canonical stored form of a saved link.
//
// Every bookmark is scoped to exactly one owner; the owner is assigned
// server-side at creation and never accepted from request bodies.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is a ULID assigned by the store at creation.
	ID string `json:"id"`

	// Owner is the user the bookmark belongs to. Set server-side only.
	Owner string `json:"user_id"`

	// ─────────────────────────────
	// User-editable content
	// ─────────────────────────────

	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	IsFavorite  bool     `json:"is_favorite"`

	// FolderID references a Folder. Accepted on write, stored, and
	// returned, but no read path acts on it yet.
	FolderID string `json:"folder_id,omitempty"`

	// ─────────────────────────────
	// Usage tracking (reserved)
	// ─────────────────────────────

	// VisitCount and LastVisitedAt are stored and returned but nothing
	// increments or sets them yet.
	VisitCount    int64      `json:"visit_count"`
	LastVisitedAt *time.Time `json:"last_visited_at,omitempty"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Folder groups bookmarks. Folders are persisted and owner-scoped but no
// handler reads them back yet; only the seed importer writes them.
type Folder struct {
	ID        string    `json:"id"`
	Owner     string    `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateBookmarkInput carries the client-settable fields of a new bookmark.
// Owner, id, timestamps, favorite flag and counters are all server-assigned.
type CreateBookmarkInput struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	FolderID    string   `json:"folder_id"`
}

// Validate checks required fields. URL well-formedness is deliberately not
// checked beyond presence.
func (in *CreateBookmarkInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return Validation("title is required")
	}
	if strings.TrimSpace(in.URL) == "" {
		return Validation("url is required")
	}
	return nil
}

// BookmarkPatch is a sparse update: a nil field means "leave unchanged",
// a non-nil field replaces the stored value (including with a zero value,
// so an explicit empty description clears it).
type BookmarkPatch struct {
	Title       *string   `json:"title"`
	URL         *string   `json:"url"`
	Description *string   `json:"description"`
	IsFavorite  *bool     `json:"is_favorite"`
	Tags        *[]string `json:"tags"`
	FolderID    *string   `json:"folder_id"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p *BookmarkPatch) IsEmpty() bool {
	return p.Title == nil && p.URL == nil && p.Description == nil &&
		p.IsFavorite == nil && p.Tags == nil && p.FolderID == nil
}

// Apply copies the present fields onto bk and bumps UpdatedAt.
func (p *BookmarkPatch) Apply(bk *Bookmark, now time.Time) {
	if p.Title != nil {
		bk.Title = *p.Title
	}
	if p.URL != nil {
		bk.URL = *p.URL
	}
	if p.Description != nil {
		bk.Description = *p.Description
	}
	if p.IsFavorite != nil {
		bk.IsFavorite = *p.IsFavorite
	}
	if p.Tags != nil {
		bk.Tags = *p.Tags
	}
	if p.FolderID != nil {
		bk.FolderID = *p.FolderID
	}
	bk.UpdatedAt = now
}
