// Package translator maps themed species names to exchange perpetual
// symbols and back. It is the single place symbol naming is decided;
// everything downstream works in species terms.
package translator

import (
	"fmt"
	"strings"

	"github.com/alanyoungcy/pokegear/internal/domain"
)

// legacySuffix is the product-type suffix older exchange endpoints still
// expect on USDT-margined perpetual symbols.
const legacySuffix = "_UMCBL"

// Translator resolves species to symbols and normalizes symbols back to
// species. It is immutable after construction and safe for concurrent use.
type Translator struct {
	profiles map[string]*domain.SpeciesProfile // lowercase species name
	bySymbol map[string]*domain.SpeciesProfile // canonical symbol
}

// New builds a translator over the given profiles. Later profiles with a
// duplicate name or symbol replace earlier ones.
func New(profiles []domain.SpeciesProfile) *Translator {
	t := &Translator{
		profiles: make(map[string]*domain.SpeciesProfile, len(profiles)),
		bySymbol: make(map[string]*domain.SpeciesProfile, len(profiles)),
	}
	for i := range profiles {
		p := profiles[i]
		t.profiles[strings.ToLower(p.Name)] = &p
		t.bySymbol[strings.ToUpper(p.Symbol)] = &p
	}
	return t
}

// Default returns a translator seeded with the standard Johto roster.
func Default() *Translator {
	return New(defaultRoster())
}

// Describe returns the profile for a species by exact name.
func (t *Translator) Describe(species string) (*domain.SpeciesProfile, error) {
	p, ok := t.profiles[strings.ToLower(species)]
	if !ok {
		return nil, fmt.Errorf("translator: species %q: %w", species, domain.ErrUnknownAsset)
	}
	return p, nil
}

// Resolve is a lenient lookup: it accepts a species name, a base token
// or a market symbol, ignoring case, spaces and dashes.
func (t *Translator) Resolve(token string) (*domain.SpeciesProfile, error) {
	needle := strings.ToLower(strings.TrimSpace(token))
	needle = strings.NewReplacer("-", "", " ", "").Replace(needle)
	if needle == "" {
		return nil, fmt.Errorf("translator: empty lookup token: %w", domain.ErrUnknownAsset)
	}
	if p, ok := t.profiles[needle]; ok {
		return p, nil
	}
	upper := strings.ToUpper(needle)
	for _, p := range t.profiles {
		if strings.ToUpper(p.Base) == upper || strings.ToUpper(p.Symbol) == upper {
			return p, nil
		}
	}
	if p, ok := t.bySymbol[normalizeSymbol(upper)]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("translator: token %q matches no species, base or symbol: %w", token, domain.ErrUnknownAsset)
}

// Candidates returns the ordered symbol variants to try for a species:
// the configured symbol first, then the bare canonical form, then the
// legacy-suffixed form. Duplicates are removed preserving first
// occurrence, so the list is stable across calls. The lookup is lenient:
// a species name, base token or any symbol variant all yield the same
// list, so feeding a candidate back in returns the identical ordering.
func (t *Translator) Candidates(species string) ([]string, error) {
	p, err := t.Resolve(species)
	if err != nil {
		return nil, err
	}
	base := normalizeSymbol(p.Symbol)
	raw := []string{p.Symbol, base, base + legacySuffix}
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, s := range raw {
		s = strings.ToUpper(s)
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

// ToInternal normalizes an exchange symbol, suffixed or not, back to the
// species name it belongs to.
func (t *Translator) ToInternal(symbol string) (string, error) {
	p, ok := t.bySymbol[normalizeSymbol(symbol)]
	if !ok {
		return "", fmt.Errorf("translator: symbol %q: %w", symbol, domain.ErrUnknownAsset)
	}
	return p.Name, nil
}

// Species returns every species name in the roster.
func (t *Translator) Species() []string {
	out := make([]string, 0, len(t.profiles))
	for _, p := range t.profiles {
		out = append(out, p.Name)
	}
	return out
}

func normalizeSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	s = strings.TrimSuffix(s, legacySuffix)
	return s
}
