// Package feed polls exchange tickers for the whole roster and publishes
// immutable price snapshots. The newest completed poll always wins;
// readers never see a half-built snapshot.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alanyoungcy/pokegear/internal/domain"
	"github.com/alanyoungcy/pokegear/internal/translator"
)

// tickerSource is the slice of the exchange adapter the feed uses.
type tickerSource interface {
	Ticker(ctx context.Context, symbol string) (domain.PriceQuote, error)
}

// Feed polls mark and last prices for every species on a fixed interval.
type Feed struct {
	source     tickerSource
	translator *translator.Translator
	interval   time.Duration
	logger     *slog.Logger

	// mirror is optional; when set, quotes are copied out best-effort so
	// other consoles can read them without their own poller.
	mirror domain.PriceCache

	snapshot atomic.Pointer[domain.PriceSnapshot]
	dropped  atomic.Int64
}

// New creates a price feed. mirror may be nil.
func New(source tickerSource, tr *translator.Translator, interval time.Duration, mirror domain.PriceCache, logger *slog.Logger) *Feed {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Feed{
		source:     source,
		translator: tr,
		interval:   interval,
		mirror:     mirror,
		logger:     logger.With(slog.String("component", "price-feed")),
	}
}

// Run polls immediately, then on every interval tick until ctx ends.
func (f *Feed) Run(ctx context.Context) error {
	f.Poll(ctx)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			f.Poll(ctx)
		}
	}
}

// Poll fetches every species' ticker once. Species whose ticker fails
// are dropped from this snapshot and counted; if every ticker fails the
// previous snapshot is kept.
func (f *Feed) Poll(ctx context.Context) {
	species := f.translator.Species()
	quotes := make(map[string]domain.PriceQuote, len(species))
	dropped := 0

	for _, name := range species {
		candidates, err := f.translator.Candidates(name)
		if err != nil {
			dropped++
			continue
		}

		quote, err := f.source.Ticker(ctx, candidates[0])
		if err != nil {
			dropped++
			f.logger.Warn("ticker dropped",
				slog.String("species", name),
				slog.String("symbol", candidates[0]),
				slog.String("error", err.Error()))
			continue
		}
		quote.Species = name
		quotes[name] = quote
	}

	f.dropped.Add(int64(dropped))

	if len(quotes) == 0 {
		f.logger.Warn("poll produced no quotes, keeping previous snapshot",
			slog.Int("dropped", dropped))
		return
	}

	snap := &domain.PriceSnapshot{
		Quotes:  quotes,
		Dropped: dropped,
		TakenAt: time.Now().UTC(),
	}
	f.snapshot.Store(snap)
	f.logger.Debug("snapshot published",
		slog.Int("quotes", len(quotes)),
		slog.Int("dropped", dropped))

	if f.mirror != nil {
		f.mirrorOut(ctx, snap)
	}
}

// Snapshot returns the latest completed snapshot.
func (f *Feed) Snapshot() (*domain.PriceSnapshot, error) {
	snap := f.snapshot.Load()
	if snap == nil {
		return nil, fmt.Errorf("feed: %w", domain.ErrNoSnapshot)
	}
	return snap, nil
}

// Quote returns the latest quote for one species.
func (f *Feed) Quote(species string) (domain.PriceQuote, error) {
	snap, err := f.Snapshot()
	if err != nil {
		return domain.PriceQuote{}, err
	}
	q, ok := snap.Quote(species)
	if !ok {
		return domain.PriceQuote{}, fmt.Errorf("feed: species %q absent from snapshot: %w", species, domain.ErrNotFound)
	}
	return q, nil
}

// DroppedTotal reports the running count of dropped tickers.
func (f *Feed) DroppedTotal() int64 {
	return f.dropped.Load()
}

// mirrorOut is best effort per quote: a failed write is logged and the
// remaining quotes are still mirrored.
func (f *Feed) mirrorOut(ctx context.Context, snap *domain.PriceSnapshot) {
	for _, q := range snap.Quotes {
		if err := f.mirror.SetQuote(ctx, q); err != nil {
			f.logger.Warn("mirror write failed",
				slog.String("species", q.Species),
				slog.String("error", err.Error()))
		}
	}
}
