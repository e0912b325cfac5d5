package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/alanyoungcy/pokegear/internal/domain"
)

// GuardrailConfig holds the hard trading limits. Zero values disable the
// corresponding check.
type GuardrailConfig struct {
	Cooldown      time.Duration // wait between encounters per species
	MaxPartySize  int           // open position cap
	EnergyReserve float64       // USDT that must stay free after an order
	EnergyScale   float64       // available USDT at which the energy bar reads full
}

// Guardrails tracks cooldowns and enforces the trading limits. It is the
// only component that mutates guardrail state; services call through it.
type Guardrails struct {
	cfg GuardrailConfig

	mu            sync.Mutex
	lastEncounter map[string]time.Time
	now           func() time.Time
}

// NewGuardrails creates guardrail state from config.
func NewGuardrails(cfg GuardrailConfig) *Guardrails {
	return &Guardrails{
		cfg:           cfg,
		lastEncounter: make(map[string]time.Time),
		now:           time.Now,
	}
}

// CheckEncounter validates a new opening order against every guardrail.
// partySize is the current open position count, available the free USDT,
// notional the order's quote cost. All failures wrap ErrGuardrailViolation.
func (g *Guardrails) CheckEncounter(species string, partySize int, available, notional float64) error {
	if remaining := g.Remaining(species); remaining > 0 {
		return fmt.Errorf("guardrails: %s on cooldown for %s: %w",
			species, remaining.Round(time.Second), domain.ErrGuardrailViolation)
	}
	if g.cfg.MaxPartySize > 0 && partySize >= g.cfg.MaxPartySize {
		return fmt.Errorf("guardrails: party full (%d/%d): %w",
			partySize, g.cfg.MaxPartySize, domain.ErrGuardrailViolation)
	}
	if g.cfg.EnergyReserve > 0 && available-notional < g.cfg.EnergyReserve {
		return fmt.Errorf("guardrails: order would leave %.2f USDT free, reserve is %.2f: %w",
			available-notional, g.cfg.EnergyReserve, domain.ErrGuardrailViolation)
	}
	return nil
}

// MarkEncounter starts the species' cooldown. Called only after the
// exchange accepts an order; rejected submissions do not burn cooldown.
func (g *Guardrails) MarkEncounter(species string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastEncounter[species] = g.now()
}

// Remaining returns the cooldown left for a species, clamped to zero.
func (g *Guardrails) Remaining(species string) time.Duration {
	if g.cfg.Cooldown <= 0 {
		return 0
	}

	g.mu.Lock()
	last, ok := g.lastEncounter[species]
	g.mu.Unlock()
	if !ok {
		return 0
	}

	remaining := g.cfg.Cooldown - g.now().Sub(last)
	if remaining < 0 {
		return 0
	}
	if remaining > g.cfg.Cooldown {
		remaining = g.cfg.Cooldown
	}
	return remaining
}

// Cooldowns returns every species with cooldown still running.
func (g *Guardrails) Cooldowns() map[string]time.Duration {
	g.mu.Lock()
	species := make([]string, 0, len(g.lastEncounter))
	for name := range g.lastEncounter {
		species = append(species, name)
	}
	g.mu.Unlock()

	out := make(map[string]time.Duration)
	for _, name := range species {
		if remaining := g.Remaining(name); remaining > 0 {
			out[name] = remaining
		}
	}
	return out
}

// Config returns the configured limits.
func (g *Guardrails) Config() GuardrailConfig {
	return g.cfg
}
