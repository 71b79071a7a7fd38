package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/linkstash/linkstash/internal/auth"
	"github.com/linkstash/linkstash/internal/config"
	"github.com/linkstash/linkstash/internal/feed"
	"github.com/linkstash/linkstash/internal/httpserver"
	"github.com/linkstash/linkstash/internal/httpserver/deps"
	"github.com/linkstash/linkstash/internal/logger"
	"github.com/linkstash/linkstash/internal/redis"
	"github.com/linkstash/linkstash/internal/scheduler"
	redisstore "github.com/linkstash/linkstash/internal/store/redis"
	"github.com/linkstash/linkstash/internal/version"
)

type App struct {
	cfg          *config.Config
	logger       logger.Logger
	server       *httpserver.Server
	redisClient  *goredis.Client
	seedImporter *scheduler.SeedImporter
	sessionGC    *scheduler.SessionGC
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	// Change feed and record store share the redis connection; every store
	// write publishes on the owner's feed channel.
	changeFeed := feed.New(redisClient, loggerClient)
	store := redisstore.NewStore(redisClient, changeFeed)

	sessions := auth.NewSessions(store, cfg.SessionSecret, cfg.AccessTTL, cfg.RefreshTTL, loggerClient)
	loggerClient.Debug("session cookie policy",
		logger.Bool("secure", cfg.CookieSecure),
		logger.String("domain", cfg.CookieDomain))

	// Session sweeper
	sessionGC := scheduler.NewSessionGC(store, loggerClient, cfg.SessionGCInt)

	// Seed importer (if a seed file is configured)
	var seedImporter *scheduler.SeedImporter
	var seedReloadTrigger chan struct{}
	if cfg.SeedFile != "" {
		loggerClient.Info("seed file configured, initializing importer",
			logger.String("file", cfg.SeedFile))
		seedReloadTrigger = make(chan struct{}, 1)
		seedImporter = scheduler.NewSeedImporter(cfg.SeedFile, store, loggerClient, seedReloadTrigger)
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		TimeNow:           time.Now,
		AllowedHosts:      cfg.AllowedHosts,
		AllowedCIDRS:      cfg.AllowedCIDRS,
		TrustProxy:        cfg.TrustProxy,
		RedisClient:       redisClient,
		Store:             store,
		Sessions:          sessions,
		Feed:              changeFeed,
		Cookies:           auth.CookieOptions{Domain: cfg.CookieDomain, Secure: cfg.CookieSecure},
		ProtectedPrefix:   cfg.ProtectedPrefix,
		LoginPath:         cfg.LoginPath,
		SeedReloadTrigger: seedReloadTrigger,
		LoginBurst:        cfg.LoginBurst,
		LoginPerMinute:    cfg.LoginPerMinute,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:          cfg,
		logger:       loggerClient,
		server:       server,
		redisClient:  redisClient,
		seedImporter: seedImporter,
		sessionGC:    sessionGC,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting linkstash v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("linkstash %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Provision seed accounts before serving traffic
	if a.seedImporter != nil {
		if err := a.seedImporter.Start(ctx); err != nil {
			return fmt.Errorf("failed to start seed importer: %w", err)
		}
		a.logger.Info("seed importer started")
	}

	// Start session sweeper
	if err := a.sessionGC.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session sweeper: %w", err)
	}
	a.logger.Info("session sweeper started",
		logger.Duration("interval", a.cfg.SessionGCInt))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.seedImporter != nil {
		a.seedImporter.Stop()
	}
	a.sessionGC.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ linkstash stopped cleanly")
	return nil
}
