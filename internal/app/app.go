package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sidelinehq/courtside/internal/cache"
	"github.com/sidelinehq/courtside/internal/config"
	"github.com/sidelinehq/courtside/internal/httpserver"
	"github.com/sidelinehq/courtside/internal/httpserver/deps"
	"github.com/sidelinehq/courtside/internal/logger"
	"github.com/sidelinehq/courtside/internal/remote"
	"github.com/sidelinehq/courtside/internal/remote/pgstore"
	"github.com/sidelinehq/courtside/internal/remote/redisstore"
	"github.com/sidelinehq/courtside/internal/repo"
	"github.com/sidelinehq/courtside/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	repo        *repo.Repository
	saver       *cache.Saver
	redisClient *goredis.Client
	pgPool      *pgstore.Collection
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Bring up the collection backend early - fail fast if unavailable
	var (
		collection  remote.Collection
		redisClient *goredis.Client
		pgPool      *pgstore.Collection
	)
	switch cfg.StoreBackend {
	case config.BackendRedis:
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redisstore.Connect(redisstore.ConnectOptions{
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
		loggerClient.Info("Redis collection initialized successfully")
		redisClient = client
		collection = redisstore.New(client, cfg.BatchChunkSize)

	case config.BackendPostgres:
		loggerClient.Info("Connecting to Postgres")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RemoteTimeout)
		pool, err := pgstore.New(ctx, cfg.PostgresURL, cfg.BatchChunkSize)
		cancel()
		if err != nil {
			loggerClient.Errorf("Failed to connect to Postgres: %v", err)
			os.Exit(1)
		}
		loggerClient.Info("Postgres collection initialized successfully")
		pgPool = pool
		collection = pool
	}

	// Snapshot cache + debounced saver
	store := cache.NewStore(cfg.CacheFile, cfg.CacheTTL, loggerClient)
	saver := cache.NewSaver(store, cfg.CacheSaveWait, loggerClient)

	repository := repo.New(collection, store, saver, loggerClient, repo.Options{
		RemoteTimeout: cfg.RemoteTimeout,
		ChunkSize:     cfg.BatchChunkSize,
	})

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		TimeNow:      time.Now,
		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		CalendarName: cfg.CalendarName,
		StoreBackend: cfg.StoreBackend,
		Repo:         repository,
		Collection:   collection,
		RateBurst:    cfg.RateBurst,
		RateRefill:   cfg.RateRefillPerMin,
		RateMax:      cfg.RateMaxEntries,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		repo:        repository,
		saver:       saver,
		redisClient: redisClient,
		pgPool:      pgPool,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Courtside v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Courtside %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Cold start: a fresh snapshot serves immediately with zero remote
	// reads; otherwise one full fetch. Neither working means there is
	// no calendar to serve at all.
	if err := a.repo.LoadAll(ctx, false); err != nil {
		return fmt.Errorf("failed to load calendar on startup: %w", err)
	}
	stats := a.repo.Stats()
	a.logger.Info("calendar ready",
		logger.Int("items", stats.Items),
		logger.String("source", stats.SyncSource))

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	// Push any pending snapshot to disk before the process goes away.
	a.saver.Stop()

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}
	if a.pgPool != nil {
		a.pgPool.Close()
		a.logger.Info("✅ Postgres pool closed cleanly")
	}

	a.logger.Info("✅ Courtside stopped cleanly")
	return nil
}
