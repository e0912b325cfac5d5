package domain

import (
	"context"
	"time"
)

// PriceCache mirrors the latest poll so other consoles can read prices
// without hitting the exchange. The in-process snapshot stays authoritative.
type PriceCache interface {
	SetQuote(ctx context.Context, q PriceQuote) error
	GetQuote(ctx context.Context, species string) (PriceQuote, error)
	GetQuotes(ctx context.Context, species []string) (map[string]PriceQuote, error)
}

// LockManager provides distributed locking for per-species submission.
type LockManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

// SignalBus fans journal events out to other consoles.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}
