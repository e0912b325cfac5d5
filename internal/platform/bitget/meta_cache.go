package bitget

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alanyoungcy/pokegear/internal/domain"
)

// metaFetcher is the slice of the adapter the cache needs.
type metaFetcher interface {
	Contracts(ctx context.Context) ([]domain.ContractMeta, error)
}

// MetaCache caches contract metadata for a TTL. All symbols are fetched
// in one call and served from memory until the TTL lapses, so resolving
// several symbol candidates costs at most one exchange round trip.
type MetaCache struct {
	fetcher metaFetcher
	ttl     time.Duration

	mu        sync.Mutex
	bySymbol  map[string]domain.ContractMeta
	fetchedAt time.Time
}

// NewMetaCache creates a contract metadata cache with the given TTL.
func NewMetaCache(fetcher metaFetcher, ttl time.Duration) *MetaCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &MetaCache{
		fetcher: fetcher,
		ttl:     ttl,
	}
}

// Lookup returns metadata for one symbol, refreshing the whole table if
// the cache is stale. Legacy-suffixed symbols match their bare form.
func (m *MetaCache) Lookup(ctx context.Context, symbol string) (domain.ContractMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if time.Since(m.fetchedAt) >= m.ttl || m.bySymbol == nil {
		contracts, err := m.fetcher.Contracts(ctx)
		if err != nil {
			// Serve stale data over failing if we have any.
			if m.bySymbol == nil {
				return domain.ContractMeta{}, fmt.Errorf("meta cache: refresh: %w", err)
			}
		} else {
			table := make(map[string]domain.ContractMeta, len(contracts))
			for _, c := range contracts {
				table[c.Symbol] = c
			}
			m.bySymbol = table
			m.fetchedAt = time.Now()
		}
	}

	key := strings.ToUpper(strings.TrimSpace(symbol))
	if meta, ok := m.bySymbol[key]; ok {
		return meta, nil
	}
	if bare := strings.TrimSuffix(key, "_UMCBL"); bare != key {
		if meta, ok := m.bySymbol[bare]; ok {
			return meta, nil
		}
	}
	return domain.ContractMeta{}, fmt.Errorf("meta cache: symbol %q: %w", symbol, domain.ErrNotFound)
}
