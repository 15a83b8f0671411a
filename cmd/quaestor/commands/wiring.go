package commands

import (
	"fmt"

	"github.com/quaestorlabs/quaestor/backend/internal/agents"
	"github.com/quaestorlabs/quaestor/backend/internal/analysis"
	"github.com/quaestorlabs/quaestor/backend/internal/batch"
	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
	"github.com/quaestorlabs/quaestor/backend/internal/hybrid"
	"github.com/quaestorlabs/quaestor/backend/internal/llm"
	"github.com/quaestorlabs/quaestor/backend/internal/marketdata"
	"github.com/quaestorlabs/quaestor/backend/internal/metrics"
	"github.com/quaestorlabs/quaestor/backend/internal/personas"
	"github.com/quaestorlabs/quaestor/backend/internal/prefilter"
	"github.com/quaestorlabs/quaestor/backend/internal/scoring"
	"github.com/quaestorlabs/quaestor/backend/pkg/config"
	"github.com/quaestorlabs/quaestor/backend/pkg/database"
	"github.com/quaestorlabs/quaestor/backend/pkg/httputil"
	"github.com/quaestorlabs/quaestor/backend/pkg/logger"
	"github.com/quaestorlabs/quaestor/backend/pkg/redis"
)

// pipeline bundles the wired components every command starts from.
// Database and Redis are optional: without DATABASE_URL runs are not
// persisted, without Redis snapshots are not cached.
type pipeline struct {
	cfg          *config.Config
	log          *logger.Logger
	registry     *personas.Registry
	engine       *scoring.Engine
	provider     *marketdata.Provider
	prefilter    *prefilter.PreFilter
	orchestrator *hybrid.Orchestrator
	runs         *hybrid.Repository
	metrics      *metrics.Registry
}

// loadEnv loads configuration and builds the root logger.
func loadEnv() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logger.New(cfg), nil
}

// buildPipeline wires the full scoring stack. sink and reg may be nil.
// The returned cleanup func closes database and Redis connections.
func buildPipeline(cfg *config.Config, log *logger.Logger, sink hybrid.ProgressSink, reg *metrics.Registry) (*pipeline, func(), error) {
	// Persona registry, with optional YAML overrides.
	var registry *personas.Registry
	var err error
	if cfg.Scoring.PersonaOverrides != "" {
		registry, err = personas.LoadWithOverrides(cfg.Scoring.PersonaOverrides)
	} else {
		registry, err = personas.Builtin()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load personas: %w", err)
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// Optional Redis snapshot cache.
	redisClient, err := redis.New(cfg)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	closers = append(closers, func() { redisClient.Close() })

	var cache *redis.Cache
	if redisClient.Enabled() {
		cache = redis.NewCache(redisClient, "quaestor")
	}

	// Market data provider. With Redis enabled, outbound calls also pass
	// the shared sliding-window limiter so every process of this service
	// stays under the upstream quota together; the local x/time limiter
	// in the client still paces each process on its own.
	httpClient := httputil.New(cfg, log)
	scrapeHTTP := httpClient
	if redisClient.Enabled() {
		limiter := redis.NewRateLimiter(redisClient, "quaestor")
		httpClient = httpClient.WithRateLimiter(limiter, redis.MarketDataRateLimit)
		scrapeHTTP = httputil.New(cfg, log).WithRateLimiter(limiter, redis.ScrapeRateLimit)
	}
	mdClient := marketdata.NewClient(httpClient, cfg.MarketData, log)
	var scraper *marketdata.ProfileScraper
	if cfg.MarketData.ProfileScrapeURL != "" {
		scraper = marketdata.NewProfileScraper(scrapeHTTP, cfg.MarketData.ProfileScrapeURL, log)
	}
	provider := marketdata.NewProvider(mdClient, cache, scraper, cfg.MarketData, reg, log)

	// Deterministic stage.
	engine := scoring.NewEngine(registry, log)
	pf := prefilter.New(provider, engine, log)

	// Model stage.
	factory := llm.NewFactory(cfg.LLM, log)
	builder := analysis.NewBuilder(
		agents.NewFundamentalsAgent(factory, log),
		agents.NewValuationAgent(factory, log),
		reg,
		log,
	)
	scorer := batch.NewScorer(factory, reg, log)

	// Optional run persistence.
	var runs *hybrid.Repository
	var runStore contracts.RunRepository
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		closers = append(closers, db.Close)
		runs = hybrid.NewRepository(db.Pool)
		runStore = runs
	} else {
		log.Info("DATABASE_URL not set, run persistence disabled")
	}

	orch := hybrid.NewOrchestrator(registry, pf, builder, scorer, runStore, sink, reg, log)

	return &pipeline{
		cfg:          cfg,
		log:          log,
		registry:     registry,
		engine:       engine,
		provider:     provider,
		prefilter:    pf,
		orchestrator: orch,
		runs:         runs,
		metrics:      reg,
	}, cleanup, nil
}
