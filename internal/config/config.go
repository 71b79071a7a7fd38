package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	ProtectedPrefix string // path prefix gated by session, ex: "/app"
	LoginPath       string // sign-in page path, ex: "/login"

	// Sessions
	SessionSecret string        // HMAC secret for access tokens
	AccessTTL     time.Duration // access token lifetime (default: 15m)
	RefreshTTL    time.Duration // refresh session lifetime (default: 720h)
	CookieDomain  string        // optional, empty = host-only cookies
	CookieSecure  bool          // true => Secure attribute on session cookies
	SessionGCInt  time.Duration // interval between expired-session sweeps

	SeedFile string // optional bootstrap file (users + bookmarks), empty = disabled

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict infra endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	// Login rate limiting
	LoginBurst     int // token bucket burst for /api/auth/login
	LoginPerMinute int // refill rate per IP per minute
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("STASH_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("STASH_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("STASH_LOG_LEVEL", "info"),
		PrettyLog: mustBool("STASH_PRETTY_LOG", true),

		// Session gate paths
		ProtectedPrefix: getenv("STASH_PROTECTED_PREFIX", "/app"),
		LoginPath:       getenv("STASH_LOGIN_PATH", "/login"),

		// Sessions
		SessionSecret: requireEnv("STASH_SESSION_SECRET"),
		AccessTTL:     mustDuration("STASH_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:    mustDuration("STASH_REFRESH_TTL", 30*24*time.Hour),
		CookieDomain:  getenv("STASH_COOKIE_DOMAIN", ""),
		CookieSecure:  mustBool("STASH_COOKIE_SECURE", true),
		SessionGCInt:  mustDuration("STASH_SESSION_GC_INTERVAL", time.Hour),

		// Bootstrap
		SeedFile: getenv("STASH_SEED_FILE", ""), // Optional, empty = no seed import

		// Redis settings
		RedisAddr:             requireEnv("STASH_REDIS_ADDR"),
		RedisUser:             getenv("STASH_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("STASH_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("STASH_REDIS_PASSWORD", ""),
		RedisDB:               requireEnvInt("STASH_REDIS_DB"),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: parseList(getenv("STASH_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseList(getenv("STASH_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("STASH_TRUST_PROXY", true),

		// Login rate limiting
		LoginBurst:     getenvInt("STASH_LOGIN_BURST", 5),
		LoginPerMinute: getenvInt("STASH_LOGIN_PER_MINUTE", 10),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: STASH_REDIS_PASSWORD is required when STASH_REDIS_PASSWORD_REQUIRED=true")
	}

	if len(cfg.SessionSecret) < 32 {
		panic("❌ FATAL: STASH_SESSION_SECRET must be at least 32 bytes")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.SessionSecret = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// parseList splits a comma-separated env value into trimmed, unquoted parts.
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
