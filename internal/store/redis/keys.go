package redis

const (
	// KeyPrefixBookmark is the prefix for bookmark record keys
	KeyPrefixBookmark = "stash:bookmark:"
	// KeyPrefixFolder is the prefix for folder record keys
	KeyPrefixFolder = "stash:folder:"
	// KeyPrefixAccount is the prefix for account records, keyed by email
	KeyPrefixAccount = "stash:account:"
	// KeyPrefixSession is the prefix for session records, keyed by JTI
	KeyPrefixSession = "stash:session:"
	// KeyAllSessions is the set of all live session JTIs
	KeyAllSessions = "stash:sessions:all"
)

// BookmarkKey returns the Redis key for a bookmark by ID
func BookmarkKey(id string) string {
	return KeyPrefixBookmark + id
}

// UserBookmarksKey returns the key of the set holding one owner's bookmark IDs
func UserBookmarksKey(owner string) string {
	return "stash:user:" + owner + ":bookmarks"
}

// FolderKey returns the Redis key for a folder by ID
func FolderKey(id string) string {
	return KeyPrefixFolder + id
}

// UserFoldersKey returns the key of the set holding one owner's folder IDs
func UserFoldersKey(owner string) string {
	return "stash:user:" + owner + ":folders"
}

// AccountKey returns the Redis key for an account by normalized email
func AccountKey(email string) string {
	return KeyPrefixAccount + email
}

// SessionKey returns the Redis key for a session record by JTI
func SessionKey(jti string) string {
	return KeyPrefixSession + jti
}

// AllSessionsKey returns the key for the set of all session JTIs
func AllSessionsKey() string {
	return KeyAllSessions
}
