package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/pokegear/internal/cache/redis"
	"github.com/alanyoungcy/pokegear/internal/config"
	"github.com/alanyoungcy/pokegear/internal/domain"
	"github.com/alanyoungcy/pokegear/internal/feed"
	"github.com/alanyoungcy/pokegear/internal/platform/bitget"
	"github.com/alanyoungcy/pokegear/internal/service"
	"github.com/alanyoungcy/pokegear/internal/translator"
)

// Dependencies bundles every component the console needs. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Translator *translator.Translator
	Adapter    *bitget.Adapter
	Feed       *feed.Feed
	Encounters *service.EncounterService
	Roster     *service.RosterService
	Journal    *service.Journal

	// Redis-backed, nil when no redis addr is configured.
	PriceCache  domain.PriceCache
	LockManager domain.LockManager
	SignalBus   domain.SignalBus
}

// Wire constructs all concrete dependencies from the configuration and
// returns them together with a cleanup function for shutdown.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{
		Translator: translator.Default(),
	}

	// --- Redis (optional: mirror, signal bus, submission locks) ---
	if cfg.Redis.Addr != "" {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("app: connect redis: %w", err)
		}
		closers = append(closers, func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.String("error", err.Error()))
			}
		})

		deps.PriceCache = redis.NewPriceCache(redisClient)
		deps.LockManager = redis.NewLockManager(redisClient)
		deps.SignalBus = redis.NewSignalBus(redisClient)
		logger.Info("redis connected", slog.String("addr", cfg.Redis.Addr))
	}

	// --- Exchange adapter ---
	client := bitget.NewClient(
		cfg.Bitget.BaseURL,
		cfg.Bitget.ApiKey,
		cfg.Bitget.ApiSecret,
		cfg.Bitget.Passphrase,
		logger,
	)
	deps.Adapter = bitget.NewAdapter(client,
		int64(cfg.Adapter.MaxInflight),
		cfg.Adapter.CallTimeout.Duration,
		logger,
	)
	meta := bitget.NewMetaCache(deps.Adapter, cfg.Adapter.MetaTTL.Duration)

	// --- Price feed ---
	deps.Feed = feed.New(deps.Adapter, deps.Translator,
		cfg.Feed.Interval.Duration, deps.PriceCache, logger)

	// --- Services ---
	deps.Journal = service.NewJournal(deps.SignalBus, logger)
	guard := service.NewGuardrails(service.GuardrailConfig{
		Cooldown:      cfg.Trading.CooldownDuration(),
		MaxPartySize:  cfg.Trading.MaxPartySize,
		EnergyReserve: cfg.Trading.EnergyReserve,
		EnergyScale:   cfg.Trading.EnergyScale,
	})
	deps.Encounters = service.NewEncounterService(
		deps.Adapter,
		deps.Feed,
		deps.Translator,
		meta,
		guard,
		deps.Journal,
		deps.LockManager,
		cfg.Trading.MarginMode,
		cfg.Trading.DemoMode,
		cfg.Trading.DefaultLeverage,
		logger,
	)
	deps.Roster = service.NewRosterService(deps.Adapter, deps.Translator, logger)

	return deps, cleanup, nil
}
