package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/pokegear/internal/domain"
)

func TestRemainingClampedToRange(t *testing.T) {
	g := NewGuardrails(GuardrailConfig{Cooldown: time.Minute})

	now := time.Now()
	g.now = func() time.Time { return now }
	g.MarkEncounter("Dragonite")

	require.Equal(t, time.Minute, g.Remaining("Dragonite"))

	g.now = func() time.Time { return now.Add(20 * time.Second) }
	require.Equal(t, 40*time.Second, g.Remaining("Dragonite"))

	g.now = func() time.Time { return now.Add(2 * time.Minute) }
	require.Zero(t, g.Remaining("Dragonite"), "elapsed cooldown never goes negative")

	// Clock skew backwards must not report more than the full cooldown.
	g.now = func() time.Time { return now.Add(-time.Hour) }
	require.Equal(t, time.Minute, g.Remaining("Dragonite"))
}

func TestRemainingUnknownSpecies(t *testing.T) {
	g := NewGuardrails(GuardrailConfig{Cooldown: time.Minute})
	require.Zero(t, g.Remaining("Lapras"))
}

func TestCooldownDisabled(t *testing.T) {
	g := NewGuardrails(GuardrailConfig{})
	g.MarkEncounter("Dragonite")
	require.Zero(t, g.Remaining("Dragonite"))
}

func TestCheckEncounterCapacity(t *testing.T) {
	g := NewGuardrails(GuardrailConfig{MaxPartySize: 2})

	require.NoError(t, g.CheckEncounter("Dragonite", 1, 0, 0))
	err := g.CheckEncounter("Dragonite", 2, 0, 0)
	require.ErrorIs(t, err, domain.ErrGuardrailViolation)
}

func TestCheckEncounterReserve(t *testing.T) {
	g := NewGuardrails(GuardrailConfig{EnergyReserve: 100})

	require.NoError(t, g.CheckEncounter("Dragonite", 0, 500, 400))
	err := g.CheckEncounter("Dragonite", 0, 500, 401)
	require.ErrorIs(t, err, domain.ErrGuardrailViolation)
}

func TestCooldownsListsOnlyActive(t *testing.T) {
	g := NewGuardrails(GuardrailConfig{Cooldown: time.Minute})

	now := time.Now()
	g.now = func() time.Time { return now }
	g.MarkEncounter("Dragonite")
	g.MarkEncounter("Lapras")

	g.now = func() time.Time { return now.Add(90 * time.Second) }
	g.MarkEncounter("Umbreon")

	active := g.Cooldowns()
	require.Contains(t, active, "Umbreon")
	require.NotContains(t, active, "Dragonite")
	require.NotContains(t, active, "Lapras")
}
