package translator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/pokegear/internal/domain"
)

func TestCandidatesOrderAndDedup(t *testing.T) {
	tr := Default()

	got, err := tr.Candidates("Dragonite")
	require.NoError(t, err)
	require.Equal(t, []string{"BTCUSDT", "BTCUSDT_UMCBL"}, got)

	again, err := tr.Candidates("Dragonite")
	require.NoError(t, err)
	require.Equal(t, got, again, "candidate list must be stable across calls")
}

func TestCandidatesDedupWhenSymbolCarriesSuffix(t *testing.T) {
	tr := New([]domain.SpeciesProfile{
		{Name: "Relic", Base: "OLD", Symbol: "OLDUSDT_UMCBL"},
	})

	got, err := tr.Candidates("Relic")
	require.NoError(t, err)
	require.Equal(t, []string{"OLDUSDT_UMCBL", "OLDUSDT"}, got, "configured symbol stays first, duplicates collapse")
}

func TestCandidatesRoundTrip(t *testing.T) {
	tr := Default()

	for _, species := range tr.Species() {
		variants, err := tr.Candidates(species)
		require.NoError(t, err, species)
		require.NotEmpty(t, variants, species)

		for _, symbol := range variants {
			back, err := tr.ToInternal(symbol)
			require.NoError(t, err, symbol)
			require.Equal(t, species, back, "every variant maps back to its species")
		}
	}
}

func TestCandidatesIdempotent(t *testing.T) {
	tr := Default()

	variants, err := tr.Candidates("Dragonite")
	require.NoError(t, err)

	for _, symbol := range variants {
		again, err := tr.Candidates(symbol)
		require.NoError(t, err, symbol)
		require.Equal(t, variants, again, "a candidate fed back in yields the same list, canonical first")
	}
}

func TestCandidatesUnknownSpecies(t *testing.T) {
	tr := Default()

	_, err := tr.Candidates("Missingno")
	require.ErrorIs(t, err, domain.ErrUnknownAsset)
}

func TestToInternalStripsLegacySuffix(t *testing.T) {
	tr := Default()

	for _, symbol := range []string{"ETHUSDT", "ETHUSDT_UMCBL", "ethusdt_umcbl", " ethusdt "} {
		species, err := tr.ToInternal(symbol)
		require.NoError(t, err, symbol)
		require.Equal(t, "Lapras", species)
	}
}

func TestToInternalUnknownSymbol(t *testing.T) {
	tr := Default()

	_, err := tr.ToInternal("SHIBUSDT")
	require.True(t, errors.Is(err, domain.ErrUnknownAsset))
}

func TestResolveLenient(t *testing.T) {
	tr := Default()

	for _, token := range []string{"Umbreon", "umbreon", "DOGE", "doge", "DOGEUSDT", "DOGEUSDT_UMCBL"} {
		p, err := tr.Resolve(token)
		require.NoError(t, err, token)
		require.Equal(t, "Umbreon", p.Name)
	}

	_, err := tr.Resolve("")
	require.ErrorIs(t, err, domain.ErrUnknownAsset)
	_, err = tr.Resolve("Charizard")
	require.ErrorIs(t, err, domain.ErrUnknownAsset)
}

func TestDescribeExactName(t *testing.T) {
	tr := Default()

	p, err := tr.Describe("snorlax")
	require.NoError(t, err)
	require.Equal(t, "BNBUSDT", p.Symbol)
	require.Equal(t, 60.0, p.HPScale)
}
