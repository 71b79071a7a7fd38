package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linkstash/linkstash/internal/auth"
	"github.com/linkstash/linkstash/internal/feed"
	"github.com/linkstash/linkstash/internal/logger"
	redisstore "github.com/linkstash/linkstash/internal/store/redis"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	AllowedHosts []string // Host headers allowed to access the server
	AllowedCIDRS []string // IPs allowed to access infra endpoints
	TrustProxy   bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)

	RedisClient *redis.Client    // Redis client connection
	Store       *redisstore.Store
	Sessions    *auth.Sessions
	Feed        *feed.Feed
	Cookies     auth.CookieOptions

	ProtectedPrefix string // path prefix gated by the session gate
	LoginPath       string // sign-in page path

	SeedReloadTrigger chan struct{} // Channel to trigger manual seed re-import (nil if seed disabled)

	LoginBurst     int // rate limit burst for the login endpoint
	LoginPerMinute int // rate limit refill for the login endpoint
}
