package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/pokegear/internal/domain"
	"github.com/alanyoungcy/pokegear/internal/translator"
)

// RosterService renders the open party: normalized positions dressed in
// their species profiles, with resting orders bucketed per species.
type RosterService struct {
	exchange   Exchange
	translator *translator.Translator
	logger     *slog.Logger
}

// NewRosterService creates a roster service.
func NewRosterService(exchange Exchange, tr *translator.Translator, logger *slog.Logger) *RosterService {
	return &RosterService{
		exchange:   exchange,
		translator: tr,
		logger:     logger.With(slog.String("component", "roster")),
	}
}

// Roster returns every open position as a party slot. Positions whose
// symbol maps to no species are dropped and logged, never surfaced as
// half-translated rows.
func (r *RosterService) Roster(ctx context.Context) ([]domain.RosterSlot, error) {
	if !r.exchange.HasCredentials() {
		return nil, fmt.Errorf("roster: no API credentials: %w", domain.ErrTradingLocked)
	}

	positions, err := r.exchange.Positions(ctx)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}

	orders, err := r.OpenOrdersBySpecies(ctx)
	if err != nil {
		r.logger.Warn("open orders unavailable for roster", slog.String("error", err.Error()))
		orders = nil
	}

	slots := make([]domain.RosterSlot, 0, len(positions))
	for _, pos := range positions {
		species, err := r.translator.ToInternal(pos.Symbol)
		if err != nil {
			r.logger.Warn("position dropped, symbol not in roster",
				slog.String("symbol", pos.Symbol))
			continue
		}
		profile, err := r.translator.Describe(species)
		if err != nil {
			continue
		}

		pos.Species = species
		slots = append(slots, domain.RosterSlot{
			Position: pos,
			Name:     profile.Name,
			Element:  profile.Element,
			Sprite:   profile.Sprite,
			HP:       hpFromNotional(pos.Notional(), profile.HPScale),
			Orders:   orders[species],
		})
	}
	return slots, nil
}

// OpenOrdersBySpecies buckets resting orders per species. Orders on
// unknown symbols are dropped and logged.
func (r *RosterService) OpenOrdersBySpecies(ctx context.Context) (map[string][]domain.ExchangeOrder, error) {
	if !r.exchange.HasCredentials() {
		return nil, fmt.Errorf("roster: no API credentials: %w", domain.ErrTradingLocked)
	}

	orders, err := r.exchange.OpenOrders(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("roster: open orders: %w", err)
	}

	out := make(map[string][]domain.ExchangeOrder)
	for _, order := range orders {
		species, err := r.translator.ToInternal(order.Symbol)
		if err != nil {
			r.logger.Warn("order dropped, symbol not in roster",
				slog.String("symbol", order.Symbol),
				slog.String("order_id", order.OrderID))
			continue
		}
		order.Species = species
		out[species] = append(out[species], order)
	}
	return out, nil
}

// hpFromNotional maps position notional onto a 0..100 HP bar. A full bar
// means the notional reached the species' HP scale.
func hpFromNotional(notional, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	hp := notional / scale * 100
	if hp > 100 {
		hp = 100
	}
	if hp < 0 {
		hp = 0
	}
	return hp
}
