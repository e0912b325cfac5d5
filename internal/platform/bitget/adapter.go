package bitget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/alanyoungcy/pokegear/internal/domain"
)

// restAPI is the surface the adapter guards. *Client satisfies it; tests
// substitute fakes.
type restAPI interface {
	HasCredentials() bool
	Ticker(ctx context.Context, symbol string) (domain.PriceQuote, error)
	Contracts(ctx context.Context) ([]domain.ContractMeta, error)
	PlaceOrder(ctx context.Context, req OrderRequest) (string, error)
	PlacePositionStop(ctx context.Context, req StopRequest) (string, error)
	CancelAll(ctx context.Context, symbol string) (int, []string, error)
	OpenOrders(ctx context.Context, symbol string) ([]domain.ExchangeOrder, error)
	RecentFills(ctx context.Context, symbol string) ([]domain.Fill, error)
	Positions(ctx context.Context) ([]domain.Position, error)
	Account(ctx context.Context) (domain.Account, error)
	SetLeverage(ctx context.Context, symbol string, leverage int, holdSide string) error
}

var _ restAPI = (*Client)(nil)

// Adapter bounds concurrent exchange calls with a semaphore and a
// per-call deadline. Callers never block past the deadline: a saturated
// pool or a slow venue both surface as an adapter timeout, and the
// caller's own goroutine stays free.
type Adapter struct {
	api     restAPI
	sem     *semaphore.Weighted
	timeout time.Duration
	logger  *slog.Logger
}

// NewAdapter wraps api with a pool of maxInflight concurrent calls and a
// per-call timeout.
func NewAdapter(api restAPI, maxInflight int64, timeout time.Duration, logger *slog.Logger) *Adapter {
	if maxInflight <= 0 {
		maxInflight = 4
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Adapter{
		api:     api,
		sem:     semaphore.NewWeighted(maxInflight),
		timeout: timeout,
		logger:  logger.With(slog.String("component", "exchange-adapter")),
	}
}

// HasCredentials reports whether signed endpoints are usable.
func (a *Adapter) HasCredentials() bool { return a.api.HasCredentials() }

// call runs fn under a pool slot and the per-call deadline. Waiting for
// a slot counts against the same deadline.
func (a *Adapter) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	if err := a.sem.Acquire(ctx, 1); err != nil {
		a.logger.Warn("pool saturated",
			slog.String("op", op),
			slog.Duration("waited", time.Since(start)))
		return fmt.Errorf("bitget: %s: pool acquire: %w", op, domain.ErrAdapterTimeout)
	}
	defer a.sem.Release(1)

	err := fn(ctx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		a.logger.Warn("call deadline exceeded",
			slog.String("op", op),
			slog.Duration("elapsed", time.Since(start)))
		return fmt.Errorf("bitget: %s: %w", op, domain.ErrAdapterTimeout)
	}
	return err
}

func (a *Adapter) Ticker(ctx context.Context, symbol string) (domain.PriceQuote, error) {
	var out domain.PriceQuote
	err := a.call(ctx, "ticker", func(ctx context.Context) error {
		var err error
		out, err = a.api.Ticker(ctx, symbol)
		return err
	})
	return out, err
}

func (a *Adapter) Contracts(ctx context.Context) ([]domain.ContractMeta, error) {
	var out []domain.ContractMeta
	err := a.call(ctx, "contracts", func(ctx context.Context) error {
		var err error
		out, err = a.api.Contracts(ctx)
		return err
	})
	return out, err
}

func (a *Adapter) PlaceOrder(ctx context.Context, req OrderRequest) (string, error) {
	var out string
	err := a.call(ctx, "place-order", func(ctx context.Context) error {
		var err error
		out, err = a.api.PlaceOrder(ctx, req)
		return err
	})
	return out, err
}

func (a *Adapter) PlacePositionStop(ctx context.Context, req StopRequest) (string, error) {
	var out string
	err := a.call(ctx, "place-stop", func(ctx context.Context) error {
		var err error
		out, err = a.api.PlacePositionStop(ctx, req)
		return err
	})
	return out, err
}

func (a *Adapter) CancelAll(ctx context.Context, symbol string) (int, []string, error) {
	var (
		out    int
		failed []string
	)
	err := a.call(ctx, "cancel-all", func(ctx context.Context) error {
		var err error
		out, failed, err = a.api.CancelAll(ctx, symbol)
		return err
	})
	return out, failed, err
}

func (a *Adapter) OpenOrders(ctx context.Context, symbol string) ([]domain.ExchangeOrder, error) {
	var out []domain.ExchangeOrder
	err := a.call(ctx, "open-orders", func(ctx context.Context) error {
		var err error
		out, err = a.api.OpenOrders(ctx, symbol)
		return err
	})
	return out, err
}

func (a *Adapter) RecentFills(ctx context.Context, symbol string) ([]domain.Fill, error) {
	var out []domain.Fill
	err := a.call(ctx, "fills", func(ctx context.Context) error {
		var err error
		out, err = a.api.RecentFills(ctx, symbol)
		return err
	})
	return out, err
}

func (a *Adapter) Positions(ctx context.Context) ([]domain.Position, error) {
	var out []domain.Position
	err := a.call(ctx, "positions", func(ctx context.Context) error {
		var err error
		out, err = a.api.Positions(ctx)
		return err
	})
	return out, err
}

func (a *Adapter) Account(ctx context.Context) (domain.Account, error) {
	var out domain.Account
	err := a.call(ctx, "account", func(ctx context.Context) error {
		var err error
		out, err = a.api.Account(ctx)
		return err
	})
	return out, err
}

func (a *Adapter) SetLeverage(ctx context.Context, symbol string, leverage int, holdSide string) error {
	return a.call(ctx, "set-leverage", func(ctx context.Context) error {
		return a.api.SetLeverage(ctx, symbol, leverage, holdSide)
	})
}
