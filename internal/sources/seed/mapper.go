package seed

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/linkstash/linkstash/internal/domain"
)

// Mapper turns seed entries into domain records.
type Mapper struct {
	now func() time.Time
}

func NewMapper() *Mapper {
	return &Mapper{now: time.Now}
}

// MapBookmarks builds stored bookmark records for one owner. folders maps
// folder name to folder id; bookmarks naming an unknown folder keep an
// empty FolderID rather than failing the import.
func (m *Mapper) MapBookmarks(owner string, folders map[string]string, in []Bookmark) []*domain.Bookmark {
	now := m.now()
	out := make([]*domain.Bookmark, 0, len(in))
	for _, sb := range in {
		out = append(out, &domain.Bookmark{
			ID:          ulid.Make().String(),
			Owner:       owner,
			Title:       sb.Title,
			URL:         sb.URL,
			Description: sb.Description,
			Tags:        sb.Tags,
			FolderID:    folders[sb.Folder],
			IsFavorite:  sb.Favorite,
			VisitCount:  0,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return out
}
