package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xaenox/note-copy/internal/copier"
	"github.com/xaenox/note-copy/internal/metadata"
	"github.com/xaenox/note-copy/internal/notes"
	"github.com/xaenox/note-copy/internal/storage"
	"github.com/xaenox/note-copy/pkg/config"
	"go.uber.org/zap"
)

// app holds the collaborators one command runs against.
type app struct {
	logger   *zap.Logger
	store    storage.Storage
	resolver *metadata.Resolver
	engine   *copier.Engine
	closers  []func() error
}

func newLogger(cfg config.LogConfig, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development || verbose {
		zcfg = zap.NewDevelopmentConfig()
	}
	if !verbose {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zcfg.Level = level
	}
	return zcfg.Build()
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{logger: logger}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		logger.Info("Using PostgreSQL storage", zap.String("host", cfg.Database.Host), zap.String("dbname", cfg.Database.DBName))
		store, err := storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		a.store = store
	default:
		logger.Info("Using in-memory storage")
		a.store = storage.NewMemoryStorage()
	}
	a.closers = append(a.closers, a.store.Close)

	for _, entity := range cfg.Catalog.Entities {
		if err := a.store.RegisterEntityMetadata(ctx, entity); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to register entity %q: %w", entity.LogicalName, err)
		}
	}

	var cache metadata.Cache
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			// Resolution still works against the catalog without a cache.
			logger.Warn("Redis unavailable, metadata cache disabled", zap.Error(err), zap.String("addr", cfg.Cache.Redis.Addr))
			_ = client.Close()
			cache = metadata.NoCache{}
		} else {
			a.closers = append(a.closers, client.Close)
			cache = metadata.NewRedisCache(client, cfg.Cache.TTL)
		}
	case config.CacheNone:
		cache = metadata.NoCache{}
	default:
		cache = metadata.NewMemoryCache()
	}

	a.resolver = metadata.NewResolver(a.store, cache, logger)
	a.engine = copier.NewEngine(a.resolver, notes.NewRepository(a.store, logger), logger)
	return a, nil
}

func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	_ = a.logger.Sync()
	return first
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// loadApp reads the config named by the global flags and builds the app.
func loadApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openApp(ctx, cfg)
}

func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger, err := newLogger(cfg.Log, verbose)
	if err != nil {
		return nil, err
	}

	return newApp(ctx, cfg, logger)
}
