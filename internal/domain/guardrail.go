package domain

import "time"

// GuardrailStatus is a read-only report of the current trading guardrails.
type GuardrailStatus struct {
	TradingLocked   bool
	DemoMode        bool
	PartySize       int
	MaxPartySize    int
	EnergyReserve   float64 // minimum USDT that must stay free
	AvailableEnergy float64
	EnergyFill      float64 // available energy over the configured scale, clamped to [0, 1]
	Cooldowns       map[string]time.Duration // species -> remaining wait
}
