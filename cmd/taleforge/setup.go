package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/sandevgo/taleforge/internal/config"
	"github.com/sandevgo/taleforge/internal/core"
	"github.com/sandevgo/taleforge/internal/providers/cache"
	"github.com/sandevgo/taleforge/internal/providers/llm"
	"github.com/sandevgo/taleforge/internal/service/command"
	"github.com/sandevgo/taleforge/internal/service/prompt"
	"github.com/sandevgo/taleforge/internal/service/session"
	"github.com/sandevgo/taleforge/internal/service/state"
	"github.com/sandevgo/taleforge/internal/service/turn"
	"github.com/sandevgo/taleforge/internal/storage/sqlite"
	"github.com/sandevgo/taleforge/pkg/clock"
	"github.com/sandevgo/taleforge/pkg/log"
	"github.com/sandevgo/taleforge/pkg/otel"
	"github.com/sandevgo/taleforge/pkg/srv"
)

const personaFile = "NARRATOR.md"

// pipeline is the stateless turn machinery shared by every transport.
type pipeline struct {
	appCfg      *config.AppConfig
	providerCfg *config.ProviderConfig
	primary     *llm.DynamicProvider
	turns       *turn.Orchestrator
	cleanup     []srv.Service
}

// games adds persisted sessions and chat commands on top of the pipeline.
type games struct {
	service *session.Service
	router  *command.Router
	cleanup []srv.Service
}

// newPipeline builds the turn orchestrator from the environment. Invalid
// configuration is fatal.
func newPipeline(ctx context.Context) *pipeline {
	logger := log.FromCtx(ctx)

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	appCfg := config.NewAppConfig(ctx)
	providerCfg := config.NewProviderConfig(ctx)
	pipelineCfg := config.NewPipelineConfig(ctx)
	cacheCfg := config.NewCacheConfig(ctx)

	var cleanup []srv.Service

	shutdownTracing, err := otel.Setup(ctx, core.AppName)
	if err != nil {
		logger.Warn().Err(err).Msg("tracing disabled")
	}
	cleanup = append(cleanup, srv.NewCleanup("tracing", func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return shutdownTracing(shutdownCtx)
	}))

	primary, fallbacks, err := llm.NewProviderChain(ctx, providerCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM providers")
	}

	client, err := llm.NewClient(llm.ClientConfig{
		MaxAttempts: providerCfg.MaxRetries,
		RetryDelay:  providerCfg.RetryDelay,
		Options: core.GenerationOptions{
			MaxTokens:   providerCfg.MaxTokens,
			Temperature: providerCfg.Temperature,
			TopP:        providerCfg.TopP,
		},
	}, primary, fallbacks...)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM client")
	}

	responseCache, closeCache, err := newCache(ctx, cacheCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize response cache")
	}
	cleanup = append(cleanup, srv.NewCleanup("cache", closeCache))

	persona, err := prompt.LoadPersona(filepath.Join(appCfg.GetRuntimePath(), personaFile))
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load narrator persona, using default")
	}

	builder := prompt.NewBuilder(prompt.Config{
		HistoryLimit: pipelineCfg.HistoryLimit,
		Nudges:       pipelineCfg.NudgesEnabled,
		Persona:      persona,
	})

	orch, err := turn.New(builder, client, responseCache)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize turn orchestrator")
	}

	logger.Info().
		Str("provider", providerCfg.GetProvider()).
		Str("model", providerCfg.GetModel()).
		Strs("fallbacks", providerCfg.GetFallbackProviders()).
		Str("cache", cacheCfg.Backend).
		Msg("narrator ready")

	return &pipeline{
		appCfg:      appCfg,
		providerCfg: providerCfg,
		primary:     primary,
		turns:       orch,
		cleanup:     cleanup,
	}
}

func newCache(ctx context.Context, cfg *config.CacheConfig) (core.ResponseCache, func() error, error) {
	noop := func() error { return nil }

	if cfg.Backend != config.CacheBackendRedis {
		return cache.NewMemory(cfg.TTL, cfg.Capacity, clock.New()), noop, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, noop, fmt.Errorf("redis at %s: %w", cfg.RedisAddr, err)
	}

	c, err := cache.NewRedis(cache.RedisConfig{Client: client, TTL: cfg.TTL, Prefix: cfg.RedisPrefix})
	if err != nil {
		_ = client.Close()
		return nil, noop, err
	}
	return c, client.Close, nil
}

// newGames opens the session store and builds the chat command set.
func newGames(ctx context.Context, p *pipeline) *games {
	logger := log.FromCtx(ctx)

	db, err := sqlite.NewDB(ctx, p.appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}

	svc := session.NewService(sqlite.NewSessionsRepo(db), p.turns)
	router := command.New(command.NewCommands(svc, p.providerCfg, state.NewGlobalState(p.primary)))

	return &games{
		service: svc,
		router:  router,
		cleanup: []srv.Service{srv.NewCleanup("sqlite", db.Close)},
	}
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
