package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/pokegear/internal/domain"
)

// quoteTTL expires mirrored quotes so a dead console's prices do not
// linger for readers.
const quoteTTL = 2 * time.Minute

// PriceCache mirrors poll quotes into Redis hashes. Each species lives
// at "quote:{species}" with mark, last, change and timestamp fields.
type PriceCache struct {
	rdb *redis.Client
}

// NewPriceCache creates a PriceCache backed by the given Client.
func NewPriceCache(c *Client) *PriceCache {
	return &PriceCache{rdb: c.Underlying()}
}

func quoteKey(species string) string {
	return "quote:" + species
}

// SetQuote stores one species' quote and refreshes its TTL.
func (pc *PriceCache) SetQuote(ctx context.Context, q domain.PriceQuote) error {
	key := quoteKey(q.Species)
	fields := map[string]interface{}{
		"symbol": q.Symbol,
		"mark":   strconv.FormatFloat(q.Mark, 'f', -1, 64),
		"last":   strconv.FormatFloat(q.Last, 'f', -1, 64),
		"change": strconv.FormatFloat(q.Change24h, 'f', -1, 64),
		"ts":     strconv.FormatInt(q.FetchedAt.UnixNano(), 10),
	}

	pipe := pc.rdb.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, quoteTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: set quote %s: %w", q.Species, err)
	}
	return nil
}

// GetQuote retrieves one species' mirrored quote. It returns
// domain.ErrNotFound when no quote exists or it has expired.
func (pc *PriceCache) GetQuote(ctx context.Context, species string) (domain.PriceQuote, error) {
	vals, err := pc.rdb.HGetAll(ctx, quoteKey(species)).Result()
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("redis: get quote %s: %w", species, err)
	}
	if len(vals) == 0 {
		return domain.PriceQuote{}, fmt.Errorf("redis: quote %s: %w", species, domain.ErrNotFound)
	}
	return quoteFromFields(species, vals)
}

// GetQuotes retrieves mirrored quotes for several species at once.
// Missing species are simply absent from the result.
func (pc *PriceCache) GetQuotes(ctx context.Context, species []string) (map[string]domain.PriceQuote, error) {
	pipe := pc.rdb.Pipeline()
	cmds := make(map[string]*redis.MapStringStringCmd, len(species))
	for _, name := range species {
		cmds[name] = pipe.HGetAll(ctx, quoteKey(name))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("redis: get quotes: %w", err)
	}

	out := make(map[string]domain.PriceQuote, len(species))
	for name, cmd := range cmds {
		vals, err := cmd.Result()
		if err != nil || len(vals) == 0 {
			continue
		}
		q, err := quoteFromFields(name, vals)
		if err != nil {
			continue
		}
		out[name] = q
	}
	return out, nil
}

func quoteFromFields(species string, vals map[string]string) (domain.PriceQuote, error) {
	mark, err := strconv.ParseFloat(vals["mark"], 64)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("redis: quote %s: bad mark %q: %w", species, vals["mark"], domain.ErrMalformedResponse)
	}
	last, _ := strconv.ParseFloat(vals["last"], 64)
	change, _ := strconv.ParseFloat(vals["change"], 64)
	ns, _ := strconv.ParseInt(vals["ts"], 10, 64)

	return domain.PriceQuote{
		Species:   species,
		Symbol:    vals["symbol"],
		Mark:      mark,
		Last:      last,
		Change24h: change,
		FetchedAt: time.Unix(0, ns).UTC(),
	}, nil
}

// Compile-time interface check.
var _ domain.PriceCache = (*PriceCache)(nil)
