package domain

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering of a derived view.
type SortKey string

const (
	SortCreatedDesc SortKey = "created-desc" // default
	SortCreatedAsc  SortKey = "created-asc"
	SortTitleAsc    SortKey = "title-asc"
	SortTitleDesc   SortKey = "title-desc"
)

// ViewQuery is the full input of a derived view besides the record set.
type ViewQuery struct {
	Search        string
	Sort          SortKey
	FavoritesOnly bool
}

// FilterSort derives the rendered list from the full record set.
//
// Filtering: a non-empty search keeps records whose title, url, description
// or any tag contains the search text case-insensitively; the favorites flag
// then keeps only favorites. Title sorts use locale-aware collation.
// The function is pure: the input slice is never mutated.
func FilterSort(bookmarks []Bookmark, q ViewQuery) []Bookmark {
	out := make([]Bookmark, 0, len(bookmarks))

	search := strings.ToLower(strings.TrimSpace(q.Search))
	for _, bk := range bookmarks {
		if search != "" && !matchesSearch(&bk, search) {
			continue
		}
		if q.FavoritesOnly && !bk.IsFavorite {
			continue
		}
		out = append(out, bk)
	}

	sortBookmarks(out, q.Sort)
	return out
}

func matchesSearch(bk *Bookmark, search string) bool {
	if strings.Contains(strings.ToLower(bk.Title), search) ||
		strings.Contains(strings.ToLower(bk.URL), search) ||
		strings.Contains(strings.ToLower(bk.Description), search) {
		return true
	}
	for _, tag := range bk.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

func sortBookmarks(bookmarks []Bookmark, key SortKey) {
	switch key {
	case SortCreatedAsc:
		sort.SliceStable(bookmarks, func(i, j int) bool {
			return bookmarks[i].CreatedAt.Before(bookmarks[j].CreatedAt)
		})
	case SortTitleAsc, SortTitleDesc:
		// Collators are not safe for concurrent use, so build one per sort.
		c := collate.New(language.Und, collate.IgnoreCase)
		asc := key == SortTitleAsc
		sort.SliceStable(bookmarks, func(i, j int) bool {
			cmp := c.CompareString(bookmarks[i].Title, bookmarks[j].Title)
			if asc {
				return cmp < 0
			}
			return cmp > 0
		})
	default: // SortCreatedDesc and anything unknown
		sort.SliceStable(bookmarks, func(i, j int) bool {
			return bookmarks[i].CreatedAt.After(bookmarks[j].CreatedAt)
		})
	}
}

// View memoizes the last derived list. Recomputation happens only when the
// record-set revision or the query changes; the revision is bumped by
// whoever owns the record set (see client.Hook).
type View struct {
	mu       sync.Mutex
	lastRev  uint64
	lastQ    ViewQuery
	cached   []Bookmark
	hasCache bool
}

// Derive returns the filtered/sorted list for (bookmarks, q), reusing the
// cached result when rev and q match the previous call.
func (v *View) Derive(rev uint64, bookmarks []Bookmark, q ViewQuery) []Bookmark {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.hasCache && v.lastRev == rev && v.lastQ == q {
		return v.cached
	}

	v.cached = FilterSort(bookmarks, q)
	v.lastRev = rev
	v.lastQ = q
	v.hasCache = true
	return v.cached
}
