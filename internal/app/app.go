// Package app provides the top-level lifecycle for the pokegear console
// backend. It wires the translator, exchange adapter, price feed and
// services, starts the background loops, and tears everything down in
// reverse order on shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/pokegear/internal/config"
	"github.com/alanyoungcy/pokegear/internal/domain"
)

// statusInterval paces the periodic guardrail and roster summary log.
const statusInterval = time.Minute

// App is the root application object. It owns the configuration, logger,
// and a list of cleanup functions called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run wires all dependencies, starts the price feed and status loops,
// and blocks until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting console backend",
		slog.Bool("demo_mode", a.cfg.Trading.DemoMode),
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	if !deps.Adapter.HasCredentials() && !a.cfg.Trading.DemoMode {
		a.logger.Warn("no exchange credentials configured, trading is locked")
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return deps.Feed.Run(ctx)
	})

	g.Go(func() error {
		return a.statusLoop(ctx, deps)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// statusLoop periodically logs the guardrail state and party summary so
// operators can follow the console from its logs alone.
func (a *App) statusLoop(ctx context.Context, deps *Dependencies) error {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		status := deps.Encounters.Guardrails(ctx)
		a.logger.Info("guardrail status",
			slog.Bool("trading_locked", status.TradingLocked),
			slog.Bool("demo_mode", status.DemoMode),
			slog.Int("party_size", status.PartySize),
			slog.Int("max_party_size", status.MaxPartySize),
			slog.Float64("available_energy", status.AvailableEnergy),
			slog.Int("cooldowns", len(status.Cooldowns)),
			slog.Int64("dropped_tickers", deps.Feed.DroppedTotal()),
		)

		if status.TradingLocked {
			continue
		}

		slots, err := deps.Roster.Roster(ctx)
		if err != nil {
			if !errors.Is(err, domain.ErrTradingLocked) {
				a.logger.Warn("roster unavailable", slog.String("error", err.Error()))
			}
			continue
		}
		for _, slot := range slots {
			a.logger.Info("party member",
				slog.String("species", slot.Name),
				slog.String("symbol", slot.Symbol),
				slog.Float64("size", slot.Size),
				slog.Float64("notional", slot.Notional()),
				slog.Float64("hp", slot.HP),
				slog.Float64("upnl", slot.UnrealizedPnL),
			)
		}
	}
}

// Close tears down all resources in reverse registration order. It is
// safe to call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down console backend")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
