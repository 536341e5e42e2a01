package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/dota-draft-assistant/internal/api"
	"github.com/dom/dota-draft-assistant/internal/catalog"
	"github.com/dom/dota-draft-assistant/internal/config"
	"github.com/dom/dota-draft-assistant/internal/logging"
	"github.com/dom/dota-draft-assistant/internal/oracle"
	"github.com/dom/dota-draft-assistant/internal/prompt"
	"github.com/dom/dota-draft-assistant/internal/repository"
	repoBadger "github.com/dom/dota-draft-assistant/internal/repository/badger"
	repoPostgres "github.com/dom/dota-draft-assistant/internal/repository/postgres"
	repoRedis "github.com/dom/dota-draft-assistant/internal/repository/redis"
	"github.com/dom/dota-draft-assistant/internal/service"
	"github.com/dom/dota-draft-assistant/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.LogFormat()})
	log := logging.With("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize catalog
	store := catalog.NewStore(cfg.Catalog.Dir)
	refresher := catalog.NewRefresher(store, cfg.Catalog.OpenDotaURL, cfg.Catalog.HTTPTimeout)

	// Initialize oracle
	validator, err := oracle.NewValidator(cfg.Oracle.SchemaPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load response schema")
	}
	composer, err := prompt.NewComposer(cfg.Oracle.PromptDir, validator)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load prompt templates")
	}
	client, err := oracle.New(ctx, cfg.Oracle)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize oracle")
	}

	// Initialize build cache
	cache, err := openBuildCache(ctx, cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Cache.Backend).Msg("failed to open build cache")
	}
	defer cache.Close()

	// Initialize services
	services := service.NewServices(service.Dependencies{
		Catalog:    store,
		Oracle:     client,
		Composer:   composer,
		Validator:  validator,
		BuildCache: cache,
	}, cfg)

	router := api.NewRouter(services, cfg)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Oracle.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	tree := supervisor.NewTree(supervisor.DefaultTreeConfig())
	if cfg.Catalog.RefreshInterval > 0 {
		tree.AddBackgroundService(catalog.NewScheduler(refresher, cfg.Catalog.RefreshInterval, cfg.Catalog.RefreshOnStart))
	}
	tree.AddAPIService(supervisor.NewHTTPService(srv, 30*time.Second))

	log.Info().
		Str("port", cfg.Server.Port).
		Str("environment", cfg.Server.Environment).
		Str("oracle", client.Provider()).
		Bool("oracle_enabled", client.Enabled()).
		Str("cache", cfg.Cache.Backend).
		Msg("server starting")

	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("supervisor stopped unexpectedly")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		log.Warn().Int("count", len(report)).Msg("services did not stop within the shutdown timeout")
	}
	log.Info().Msg("server stopped")
}

func openBuildCache(ctx context.Context, cfg config.CacheConfig) (repository.BuildCacheRepository, error) {
	switch cfg.Backend {
	case "postgres":
		// NewConnection also migrates the cache table.
		db, err := repoPostgres.NewConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return repoPostgres.NewBuildCacheRepository(db), nil
	case "redis":
		rdb, err := repoRedis.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return repoRedis.NewBuildCacheRepository(rdb), nil
	default:
		db, err := repoBadger.Open(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		return repoBadger.NewBuildCacheRepository(db), nil
	}
}
