package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/pokegear/internal/domain"
	"github.com/alanyoungcy/pokegear/internal/platform/bitget"
	"github.com/alanyoungcy/pokegear/internal/translator"
)

// Exchange is the adapter surface the encounter engine submits through.
type Exchange interface {
	HasCredentials() bool
	Ticker(ctx context.Context, symbol string) (domain.PriceQuote, error)
	PlaceOrder(ctx context.Context, req bitget.OrderRequest) (string, error)
	PlacePositionStop(ctx context.Context, req bitget.StopRequest) (string, error)
	CancelAll(ctx context.Context, symbol string) (int, []string, error)
	OpenOrders(ctx context.Context, symbol string) ([]domain.ExchangeOrder, error)
	RecentFills(ctx context.Context, symbol string) ([]domain.Fill, error)
	Positions(ctx context.Context) ([]domain.Position, error)
	Account(ctx context.Context) (domain.Account, error)
	SetLeverage(ctx context.Context, symbol string, leverage int, holdSide string) error
}

// MetaLookup resolves contract metadata for one symbol.
type MetaLookup interface {
	Lookup(ctx context.Context, symbol string) (domain.ContractMeta, error)
}

// PriceSource serves the latest mark price per species.
type PriceSource interface {
	Quote(species string) (domain.PriceQuote, error)
}

// submitLockTTL bounds how long one submission may hold a species lock.
const submitLockTTL = 30 * time.Second

// EncounterService turns themed battle intents into exchange orders and
// reconciles the results. All guardrail state flows through it.
type EncounterService struct {
	exchange   Exchange
	prices     PriceSource
	translator *translator.Translator
	meta       MetaLookup
	guard      *Guardrails
	journal    *Journal
	locks      domain.LockManager // nil when running single-console
	marginMode string
	demoMode   bool
	defaultLev int
	logger     *slog.Logger

	newID func() string
}

// NewEncounterService wires the encounter engine. locks may be nil.
func NewEncounterService(
	exchange Exchange,
	prices PriceSource,
	tr *translator.Translator,
	meta MetaLookup,
	guard *Guardrails,
	journal *Journal,
	locks domain.LockManager,
	marginMode string,
	demoMode bool,
	defaultLeverage int,
	logger *slog.Logger,
) *EncounterService {
	if marginMode == "" {
		marginMode = "crossed"
	}
	return &EncounterService{
		exchange:   exchange,
		prices:     prices,
		translator: tr,
		meta:       meta,
		guard:      guard,
		journal:    journal,
		locks:      locks,
		marginMode: marginMode,
		demoMode:   demoMode,
		defaultLev: defaultLeverage,
		logger:     logger.With(slog.String("component", "encounter-engine")),
		newID:      uuid.NewString,
	}
}

// SubmitIntent validates, resolves, submits and reconciles one intent.
// Cooldown rejections happen before any exchange call. When an order is
// accepted but its protective stop fails, the receipt is returned
// together with the stop error so the caller sees the partial state.
func (s *EncounterService) SubmitIntent(ctx context.Context, intent domain.EncounterIntent) (domain.EncounterReceipt, error) {
	if err := validateIntent(intent); err != nil {
		return domain.EncounterReceipt{}, err
	}

	if intent.Action == domain.ActionCancelAll {
		report, err := s.cancelAll(ctx, intent.Species, s.resolveDemo(intent.Demo))
		return domain.EncounterReceipt{
			Species:     report.Species,
			Status:      domain.StatusCancelled,
			SubmittedAt: time.Now().UTC(),
		}, err
	}

	profile, err := s.translator.Describe(intent.Species)
	if err != nil {
		return domain.EncounterReceipt{}, err
	}

	opening := intent.Action == domain.ActionCatch || intent.Action == domain.ActionRelease

	// Cooldown is local state; a species on cooldown never reaches the
	// exchange.
	if opening {
		if remaining := s.guard.Remaining(profile.Name); remaining > 0 {
			s.journal.Append(ctx, domain.JournalGuardrail, profile.Name,
				fmt.Sprintf("encounter blocked, cooldown %s remaining", remaining.Round(time.Second)))
			return domain.EncounterReceipt{}, fmt.Errorf("encounter: %s on cooldown for %s: %w",
				profile.Name, remaining.Round(time.Second), domain.ErrGuardrailViolation)
		}
	}

	// Demo wins over live credentials: a configured or per-intent demo
	// flag must never place a real order.
	if s.resolveDemo(intent.Demo) {
		return s.simulate(ctx, profile, intent)
	}
	if !s.exchange.HasCredentials() {
		return domain.EncounterReceipt{}, fmt.Errorf("encounter: no API credentials: %w", domain.ErrTradingLocked)
	}

	if s.locks != nil {
		unlock, err := s.locks.Acquire(ctx, "encounter:"+strings.ToLower(profile.Name), submitLockTTL)
		if err != nil {
			return domain.EncounterReceipt{}, fmt.Errorf("encounter: %s: %w", profile.Name, err)
		}
		defer unlock()
	}

	switch intent.Action {
	case domain.ActionCatch, domain.ActionRelease:
		return s.submitOpen(ctx, profile, intent)
	case domain.ActionRun:
		return s.submitClose(ctx, profile)
	default:
		return domain.EncounterReceipt{}, fmt.Errorf("encounter: unsupported action %q", intent.Action)
	}
}

// resolveDemo honors a per-intent override, falling back to the
// configured mode.
func (s *EncounterService) resolveDemo(override *bool) bool {
	if override != nil {
		return *override
	}
	return s.demoMode
}

// markQuote serves the feed snapshot when it has the species, and falls
// back to a live ticker fetch across the symbol variants when it does not.
func (s *EncounterService) markQuote(ctx context.Context, profile *domain.SpeciesProfile, candidates []string) (domain.PriceQuote, error) {
	quote, err := s.prices.Quote(profile.Name)
	if err == nil {
		return quote, nil
	}

	for _, symbol := range candidates {
		quote, tickErr := s.exchange.Ticker(ctx, symbol)
		if tickErr == nil {
			quote.Species = profile.Name
			return quote, nil
		}
	}
	return domain.PriceQuote{}, err
}

// submitOpen handles catch (long) and release (short) intents.
func (s *EncounterService) submitOpen(ctx context.Context, profile *domain.SpeciesProfile, intent domain.EncounterIntent) (domain.EncounterReceipt, error) {
	candidates, err := s.translator.Candidates(profile.Name)
	if err != nil {
		return domain.EncounterReceipt{}, err
	}

	meta, err := s.meta.Lookup(ctx, candidates[0])
	if err != nil {
		// Static profile precision backs the order when the exchange
		// metadata is unavailable.
		meta = domain.ContractMeta{
			Symbol:     candidates[0],
			PriceScale: profile.PricePrecision,
			SizeScale:  profile.SizePrecision,
			MaxLever:   profile.MaxLeverage,
		}
		s.logger.Warn("contract metadata unavailable, using profile precision",
			slog.String("species", profile.Name),
			slog.String("error", err.Error()))
	}

	quote, err := s.markQuote(ctx, profile, candidates)
	if err != nil {
		return domain.EncounterReceipt{}, fmt.Errorf("encounter: %s: %w", profile.Name, err)
	}

	size, err := resolveSize(intent, meta, quote.Mark)
	if err != nil {
		return domain.EncounterReceipt{}, err
	}
	notional := size * quote.Mark

	positions, err := s.exchange.Positions(ctx)
	if err != nil {
		return domain.EncounterReceipt{}, fmt.Errorf("encounter: party lookup: %w", err)
	}
	account, err := s.exchange.Account(ctx)
	if err != nil {
		return domain.EncounterReceipt{}, fmt.Errorf("encounter: energy lookup: %w", err)
	}
	if err := s.guard.CheckEncounter(profile.Name, len(positions), account.Available, notional); err != nil {
		s.journal.Append(ctx, domain.JournalGuardrail, profile.Name, err.Error())
		return domain.EncounterReceipt{}, fmt.Errorf("encounter: %w", err)
	}

	side := domain.SideOpenLong
	holdSide := "long"
	if intent.Action == domain.ActionRelease {
		side = domain.SideOpenShort
		holdSide = "short"
	}

	leverage := clampLeverage(intent.Leverage, s.defaultLev, profile, meta)
	if err := s.exchange.SetLeverage(ctx, candidates[0], leverage, holdSide); err != nil {
		s.logger.Warn("set leverage failed, submitting with account default",
			slog.String("species", profile.Name),
			slog.Int("leverage", leverage),
			slog.String("error", err.Error()))
	}

	req := bitget.OrderRequest{
		Side:       side,
		Style:      intent.Style,
		Size:       formatDecimal(size, meta.SizeScale),
		MarginMode: s.marginMode,
		ClientOID:  s.newID(),
	}
	if intent.Style == domain.StyleLimit {
		req.Price = formatDecimal(roundNearest(intent.Price, meta.PriceScale), meta.PriceScale)
	}

	orderID, symbol, err := s.placeAcrossCandidates(ctx, candidates, req)
	if err != nil {
		s.journal.Append(ctx, domain.JournalError, profile.Name,
			fmt.Sprintf("encounter failed: %v", err))
		return domain.EncounterReceipt{}, err
	}

	s.guard.MarkEncounter(profile.Name)

	receipt := domain.EncounterReceipt{
		OrderID:     orderID,
		Symbol:      symbol,
		Species:     profile.Name,
		Side:        side,
		Size:        size,
		Price:       quote.Mark,
		Status:      s.reconcileStatus(ctx, symbol, orderID),
		SubmittedAt: time.Now().UTC(),
	}

	s.journal.Append(ctx, domain.JournalEncounter, profile.Name,
		fmt.Sprintf("%s %s size %s at ~%s", intent.Action, symbol,
			formatDecimal(size, meta.SizeScale), formatDecimal(quote.Mark, meta.PriceScale)))

	if intent.StopLoss != nil {
		stopID, err := s.attachStop(ctx, symbol, holdSide, size, quote.Mark, meta, intent.StopLoss)
		if err != nil {
			s.journal.Append(ctx, domain.JournalError, profile.Name,
				fmt.Sprintf("protective stop failed: %v", err))
			return receipt, fmt.Errorf("encounter: order %s accepted but stop failed: %w", orderID, err)
		}
		receipt.StopOrderID = stopID
	}

	s.logger.Info("encounter submitted",
		slog.String("species", profile.Name),
		slog.String("symbol", symbol),
		slog.String("order_id", orderID),
		slog.Float64("size", size))
	return receipt, nil
}

// submitClose flattens the species' open position with a reduce-only
// market order.
func (s *EncounterService) submitClose(ctx context.Context, profile *domain.SpeciesProfile) (domain.EncounterReceipt, error) {
	positions, err := s.exchange.Positions(ctx)
	if err != nil {
		return domain.EncounterReceipt{}, fmt.Errorf("encounter: party lookup: %w", err)
	}

	var pos *domain.Position
	for i := range positions {
		species, err := s.translator.ToInternal(positions[i].Symbol)
		if err != nil {
			continue
		}
		if species == profile.Name {
			pos = &positions[i]
			break
		}
	}
	if pos == nil {
		return domain.EncounterReceipt{}, fmt.Errorf("encounter: %s has no open position: %w", profile.Name, domain.ErrNotFound)
	}

	candidates, err := s.translator.Candidates(profile.Name)
	if err != nil {
		return domain.EncounterReceipt{}, err
	}

	meta, err := s.meta.Lookup(ctx, pos.Symbol)
	if err != nil {
		meta = domain.ContractMeta{SizeScale: profile.SizePrecision, PriceScale: profile.PricePrecision}
	}

	side := domain.SideCloseLong
	if !pos.IsLong() {
		side = domain.SideCloseShort
	}
	size := roundDown(absFloat(pos.Size), meta.SizeScale)

	req := bitget.OrderRequest{
		Side:       side,
		Style:      domain.StyleMarket,
		Size:       formatDecimal(size, meta.SizeScale),
		MarginMode: s.marginMode,
		ClientOID:  s.newID(),
		ReduceOnly: true,
	}

	orderID, symbol, err := s.placeAcrossCandidates(ctx, candidates, req)
	if err != nil {
		s.journal.Append(ctx, domain.JournalError, profile.Name,
			fmt.Sprintf("escape failed: %v", err))
		return domain.EncounterReceipt{}, err
	}

	s.journal.Append(ctx, domain.JournalEncounter, profile.Name,
		fmt.Sprintf("run: closing %s size %s", symbol, req.Size))

	return domain.EncounterReceipt{
		OrderID:     orderID,
		Symbol:      symbol,
		Species:     profile.Name,
		Side:        side,
		Size:        size,
		Price:       pos.MarkPrice,
		Status:      domain.StatusNew,
		SubmittedAt: time.Now().UTC(),
	}, nil
}

// placeAcrossCandidates tries each symbol variant in order. A venue
// rejection moves on to the next variant; timeouts and malformed
// responses abort immediately since the order may have landed.
func (s *EncounterService) placeAcrossCandidates(ctx context.Context, candidates []string, req bitget.OrderRequest) (string, string, error) {
	var lastErr error
	for _, candidate := range candidates {
		req.Symbol = candidate
		orderID, err := s.exchange.PlaceOrder(ctx, req)
		if err == nil {
			return orderID, candidate, nil
		}
		if !errors.Is(err, domain.ErrExchangeRejected) {
			return "", "", err
		}
		s.logger.Debug("symbol variant rejected",
			slog.String("symbol", candidate),
			slog.String("error", err.Error()))
		lastErr = err
	}
	return "", "", fmt.Errorf("all %d symbol variants rejected: %w", len(candidates), lastErr)
}

// reconcileStatus re-fetches the affected symbol's live state to find
// the accepted order's current status. A fill that already consumed the
// order shows up in recent fills instead of the resting list. Lookup
// failures fall back to the accepted-but-unconfirmed state.
func (s *EncounterService) reconcileStatus(ctx context.Context, symbol, orderID string) domain.OrderStatus {
	orders, err := s.exchange.OpenOrders(ctx, symbol)
	if err == nil {
		for _, order := range orders {
			if order.OrderID == orderID {
				return order.Status
			}
		}
	} else {
		s.logger.Warn("reconcile: open orders unavailable",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()))
	}

	fills, err := s.exchange.RecentFills(ctx, symbol)
	if err == nil {
		for _, fill := range fills {
			if fill.OrderID == orderID {
				return domain.StatusFilled
			}
		}
	} else {
		s.logger.Warn("reconcile: fills unavailable",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()))
	}

	return domain.StatusNew
}

// attachStop places and confirms the protective stop for a fresh order.
func (s *EncounterService) attachStop(ctx context.Context, symbol, holdSide string, size, mark float64, meta domain.ContractMeta, spec *domain.StopLossSpec) (string, error) {
	trigger, err := stopTriggerPrice(spec, holdSide, mark)
	if err != nil {
		return "", err
	}

	// Triggers round away from the position: down for longs, up for
	// shorts, so rounding never loosens the protection.
	if holdSide == "short" {
		trigger = roundUp(trigger, meta.PriceScale)
	} else {
		trigger = roundDown(trigger, meta.PriceScale)
	}

	stopID, err := s.exchange.PlacePositionStop(ctx, bitget.StopRequest{
		Symbol:       symbol,
		TriggerPrice: formatDecimal(trigger, meta.PriceScale),
		TriggerType:  spec.Trigger,
		HoldSide:     holdSide,
		Size:         formatDecimal(size, meta.SizeScale),
		ClientOID:    s.newID(),
	})
	if err != nil {
		return "", err
	}
	return stopID, nil
}

// simulate produces a demo receipt without touching the exchange.
// Guardrail cooldowns still apply so demo sessions behave like live ones.
func (s *EncounterService) simulate(ctx context.Context, profile *domain.SpeciesProfile, intent domain.EncounterIntent) (domain.EncounterReceipt, error) {
	size := intent.Size
	var mark float64
	if quote, err := s.prices.Quote(profile.Name); err == nil {
		mark = quote.Mark
		if intent.Quote > 0 && mark > 0 {
			size = roundDown(intent.Quote/mark, profile.SizePrecision)
		}
	}

	side := domain.SideOpenLong
	switch intent.Action {
	case domain.ActionRelease:
		side = domain.SideOpenShort
	case domain.ActionRun:
		side = domain.SideCloseLong
	}
	if intent.Action == domain.ActionCatch || intent.Action == domain.ActionRelease {
		s.guard.MarkEncounter(profile.Name)
	}

	receipt := domain.EncounterReceipt{
		OrderID:     "demo-" + s.newID(),
		Symbol:      profile.Symbol,
		Species:     profile.Name,
		Side:        side,
		Size:        size,
		Price:       mark,
		Status:      domain.StatusFilled,
		Demo:        true,
		SubmittedAt: time.Now().UTC(),
	}
	if intent.StopLoss != nil {
		receipt.StopOrderID = "demo-" + s.newID()
	}

	s.journal.Append(ctx, domain.JournalEncounter, profile.Name,
		fmt.Sprintf("demo %s %s", intent.Action, profile.Symbol))
	return receipt, nil
}

// CancelAll sweeps resting orders across every symbol variant of a
// species. Legs fail independently; the report carries each outcome.
func (s *EncounterService) CancelAll(ctx context.Context, species string) (domain.CancelReport, error) {
	return s.cancelAll(ctx, species, s.demoMode)
}

func (s *EncounterService) cancelAll(ctx context.Context, species string, demo bool) (domain.CancelReport, error) {
	profile, err := s.translator.Describe(species)
	if err != nil {
		return domain.CancelReport{}, err
	}
	candidates, err := s.translator.Candidates(profile.Name)
	if err != nil {
		return domain.CancelReport{}, err
	}

	if demo {
		s.journal.Append(ctx, domain.JournalCancel, profile.Name, "demo cancel-all")
		return domain.CancelReport{Species: profile.Name}, nil
	}
	if !s.exchange.HasCredentials() {
		return domain.CancelReport{}, fmt.Errorf("cancel: no API credentials: %w", domain.ErrTradingLocked)
	}

	report := domain.CancelReport{Species: profile.Name}
	failedLegs := 0
	for _, symbol := range candidates {
		n, failed, err := s.exchange.CancelAll(ctx, symbol)
		report.Outcomes = append(report.Outcomes, domain.CancelOutcome{
			Symbol:    symbol,
			Cancelled: n,
			Failed:    failed,
			Err:       err,
		})
		if err != nil {
			failedLegs++
			continue
		}
		report.Cancelled += n
		report.Failed += len(failed)
	}

	s.journal.Append(ctx, domain.JournalCancel, profile.Name,
		fmt.Sprintf("cancel-all: %d cancelled, %d uncancelled across %d variants, %d legs failed",
			report.Cancelled, report.Failed, len(candidates), failedLegs))

	if failedLegs == len(candidates) {
		return report, fmt.Errorf("cancel: every symbol variant failed: %w", report.Outcomes[0].Err)
	}
	return report, nil
}

// Guardrails reports the live guardrail state. Party size and energy
// come from the exchange when credentials allow, otherwise zero values.
func (s *EncounterService) Guardrails(ctx context.Context) domain.GuardrailStatus {
	cfg := s.guard.Config()
	status := domain.GuardrailStatus{
		TradingLocked: !s.exchange.HasCredentials() && !s.demoMode,
		DemoMode:      s.demoMode,
		MaxPartySize:  cfg.MaxPartySize,
		EnergyReserve: cfg.EnergyReserve,
		Cooldowns:     s.guard.Cooldowns(),
	}

	if !s.exchange.HasCredentials() {
		return status
	}
	if positions, err := s.exchange.Positions(ctx); err == nil {
		status.PartySize = len(positions)
	}
	if account, err := s.exchange.Account(ctx); err == nil {
		status.AvailableEnergy = account.Available
		if cfg.EnergyScale > 0 {
			status.EnergyFill = account.Available / cfg.EnergyScale
			if status.EnergyFill > 1 {
				status.EnergyFill = 1
			}
		}
	}
	return status
}

// Journal returns the adventure journal, newest first.
func (s *EncounterService) Journal() []domain.JournalEntry {
	return s.journal.Entries()
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func validateIntent(intent domain.EncounterIntent) error {
	switch intent.Action {
	case domain.ActionCatch, domain.ActionRelease:
		if intent.Size <= 0 && intent.Quote <= 0 {
			return fmt.Errorf("encounter: intent needs a positive size or quote budget")
		}
		if intent.Size > 0 && intent.Quote > 0 {
			return fmt.Errorf("encounter: size and quote budget are mutually exclusive")
		}
		if intent.Style == domain.StyleLimit && intent.Price <= 0 {
			return fmt.Errorf("encounter: limit intent needs a positive price")
		}
		if intent.StopLoss != nil && intent.StopLoss.Value <= 0 {
			return fmt.Errorf("encounter: stop loss value must be positive")
		}
	case domain.ActionRun, domain.ActionCancelAll:
	default:
		return fmt.Errorf("encounter: unknown action %q", intent.Action)
	}
	if intent.Species == "" {
		return fmt.Errorf("encounter: intent needs a species")
	}
	return nil
}

// resolveSize turns the intent's size or quote budget into a contract
// size, rounded down to the venue's size precision.
func resolveSize(intent domain.EncounterIntent, meta domain.ContractMeta, mark float64) (float64, error) {
	size := intent.Size
	if intent.Quote > 0 {
		if mark <= 0 {
			return 0, fmt.Errorf("encounter: no mark price to size a %0.2f USDT budget", intent.Quote)
		}
		size = intent.Quote / mark
	}
	size = roundDown(size, meta.SizeScale)
	if size <= 0 {
		return 0, fmt.Errorf("encounter: size rounds to zero at %d decimals", meta.SizeScale)
	}
	if meta.MinSize > 0 && size < meta.MinSize {
		return 0, fmt.Errorf("encounter: size %s below contract minimum %s",
			formatDecimal(size, meta.SizeScale), formatDecimal(meta.MinSize, meta.SizeScale))
	}
	return size, nil
}

// clampLeverage bounds requested leverage by both the species profile
// and the live contract limit. An unset request falls back to the
// configured default.
func clampLeverage(requested, fallback int, profile *domain.SpeciesProfile, meta domain.ContractMeta) int {
	lev := requested
	if lev <= 0 {
		lev = fallback
	}
	if lev <= 0 {
		lev = 1
	}
	if profile.MaxLeverage > 0 && lev > profile.MaxLeverage {
		lev = profile.MaxLeverage
	}
	if meta.MaxLever > 0 && lev > meta.MaxLever {
		lev = meta.MaxLever
	}
	return lev
}

// stopTriggerPrice computes the protective trigger from the stop spec.
func stopTriggerPrice(spec *domain.StopLossSpec, holdSide string, mark float64) (float64, error) {
	switch spec.Mode {
	case domain.StopAnchor:
		return spec.Value, nil
	case domain.StopDistance:
		if mark <= 0 {
			return 0, fmt.Errorf("stop: no mark price for a distance stop")
		}
		if holdSide == "short" {
			return mark * (1 + spec.Value/100), nil
		}
		return mark * (1 - spec.Value/100), nil
	default:
		return 0, fmt.Errorf("stop: unknown mode %q", spec.Mode)
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
