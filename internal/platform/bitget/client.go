// Package bitget implements the REST client for Bitget USDT-margined
// perpetual futures (v2 API), plus the bounded adapter the services
// call through. Raw wire payloads are normalized to domain types at
// this boundary; nothing above this package sees exchange JSON.
package bitget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/alanyoungcy/pokegear/internal/domain"
)

// Client is the REST client for the Bitget v2 mix (futures) API.
type Client struct {
	baseURL    string
	signer     signer
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Bitget REST client. Credentials may be empty, in
// which case only public market-data endpoints work.
func NewClient(baseURL, apiKey, secretKey, passphrase string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		signer: signer{
			apiKey:     apiKey,
			secretKey:  secretKey,
			passphrase: passphrase,
		},
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With(slog.String("component", "bitget-client")),
	}
}

// HasCredentials reports whether signed endpoints are usable.
func (c *Client) HasCredentials() bool {
	return c.signer.configured()
}

// Ticker returns the latest mark and last price for one symbol.
func (c *Client) Ticker(ctx context.Context, symbol string) (domain.PriceQuote, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("productType", productType)

	body, err := c.doRequest(ctx, http.MethodGet, "/api/v2/mix/market/ticker?"+params.Encode(), nil)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("bitget: ticker %s: %w", symbol, err)
	}

	var tickers []bitgetTicker
	if err := decodeData(body, &tickers); err != nil {
		return domain.PriceQuote{}, fmt.Errorf("bitget: decode ticker %s: %w", symbol, err)
	}
	if len(tickers) == 0 {
		return domain.PriceQuote{}, fmt.Errorf("bitget: ticker %s: empty payload: %w", symbol, domain.ErrMalformedResponse)
	}

	return normalizeTicker(tickers[0])
}

// Contracts returns metadata for every live USDT-futures contract.
func (c *Client) Contracts(ctx context.Context) ([]domain.ContractMeta, error) {
	params := url.Values{}
	params.Set("productType", productType)

	body, err := c.doRequest(ctx, http.MethodGet, "/api/v2/mix/market/contracts?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("bitget: contracts: %w", err)
	}

	var raw []bitgetContract
	if err := decodeData(body, &raw); err != nil {
		return nil, fmt.Errorf("bitget: decode contracts: %w", err)
	}

	out := make([]domain.ContractMeta, 0, len(raw))
	for _, rc := range raw {
		meta, err := normalizeContract(rc)
		if err != nil {
			continue
		}
		out = append(out, meta)
	}
	return out, nil
}

// OrderRequest is a fully formatted order submission. Price and Size are
// strings already rounded to the contract's precision.
type OrderRequest struct {
	Symbol     string
	Side       domain.OrderSide
	Style      domain.OrderStyle
	Size       string
	Price      string
	MarginMode string
	ClientOID  string
	ReduceOnly bool
}

// PlaceOrder submits an order. Success requires the envelope code to be
// the acceptance sentinel and a non-empty order ID in the payload.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (string, error) {
	side, tradeSide := wireSide(req.Side)
	payload := placeOrderRequest{
		Symbol:      req.Symbol,
		ProductType: productType,
		MarginMode:  req.MarginMode,
		MarginCoin:  marginCoin,
		Size:        req.Size,
		Side:        side,
		TradeSide:   tradeSide,
		OrderType:   string(req.Style),
		Price:       req.Price,
		ClientOID:   req.ClientOID,
	}
	if req.ReduceOnly {
		payload.ReduceOnly = "YES"
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/api/v2/mix/order/place-order", payload)
	if err != nil {
		return "", fmt.Errorf("bitget: place order %s: %w", req.Symbol, err)
	}

	var result placeOrderResult
	if err := decodeData(body, &result); err != nil {
		return "", fmt.Errorf("bitget: decode place order: %w", err)
	}
	if result.OrderID == "" {
		return "", fmt.Errorf("bitget: place order %s: no order id in accepted response: %w", req.Symbol, domain.ErrMalformedResponse)
	}
	return result.OrderID, nil
}

// StopRequest attaches a position-level stop loss.
type StopRequest struct {
	Symbol       string
	TriggerPrice string
	TriggerType  domain.TriggerSource
	HoldSide     string
	Size         string
	ClientOID    string
}

// PlacePositionStop submits a position TP/SL plan order and returns the
// confirmed stop order ID.
func (c *Client) PlacePositionStop(ctx context.Context, req StopRequest) (string, error) {
	payload := planOrderRequest{
		Symbol:       req.Symbol,
		ProductType:  productType,
		MarginCoin:   marginCoin,
		PlanType:     "pos_loss",
		TriggerPrice: req.TriggerPrice,
		TriggerType:  wireTriggerType(req.TriggerType),
		HoldSide:     req.HoldSide,
		Size:         req.Size,
		ClientOID:    req.ClientOID,
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/api/v2/mix/order/place-pos-tpsl", payload)
	if err != nil {
		return "", fmt.Errorf("bitget: place stop %s: %w", req.Symbol, err)
	}

	var result planOrderResult
	if err := decodeData(body, &result); err != nil {
		return "", fmt.Errorf("bitget: decode place stop: %w", err)
	}
	id := result.OrderID
	if id == "" {
		id = result.TpslID
	}
	if id == "" {
		return "", fmt.Errorf("bitget: place stop %s: no order id in accepted response: %w", req.Symbol, domain.ErrMalformedResponse)
	}
	return id, nil
}

// CancelAll cancels every resting order on one symbol. It returns how
// many orders the exchange reports as cancelled plus one message per
// order the sweep failed to cancel.
func (c *Client) CancelAll(ctx context.Context, symbol string) (int, []string, error) {
	payload := cancelAllRequest{
		Symbol:      symbol,
		ProductType: productType,
		MarginCoin:  marginCoin,
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/api/v2/mix/order/cancel-all-orders", payload)
	if err != nil {
		return 0, nil, fmt.Errorf("bitget: cancel all %s: %w", symbol, err)
	}

	var result cancelAllResult
	if err := decodeData(body, &result); err != nil {
		return 0, nil, fmt.Errorf("bitget: decode cancel all: %w", err)
	}

	var failed []string
	for _, f := range result.FailureList {
		failed = append(failed, fmt.Sprintf("%s: %s", f.OrderID, f.ErrMsg))
	}
	return len(result.SuccessList), failed, nil
}

// OpenOrders lists resting orders, optionally filtered by symbol.
func (c *Client) OpenOrders(ctx context.Context, symbol string) ([]domain.ExchangeOrder, error) {
	params := url.Values{}
	params.Set("productType", productType)
	if symbol != "" {
		params.Set("symbol", symbol)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/api/v2/mix/order/orders-pending?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("bitget: open orders: %w", err)
	}

	var page struct {
		EntrustedList []bitgetOrder `json:"entrustedList"`
	}
	if err := decodeData(body, &page); err != nil {
		return nil, fmt.Errorf("bitget: decode open orders: %w", err)
	}

	// A junk row must not hide the rest of the book.
	out := make([]domain.ExchangeOrder, 0, len(page.EntrustedList))
	for _, ro := range page.EntrustedList {
		order, err := normalizeOrder(ro)
		if err != nil {
			c.logger.Warn("open order dropped",
				slog.String("order_id", ro.OrderID),
				slog.String("symbol", ro.Symbol),
				slog.String("error", err.Error()))
			continue
		}
		out = append(out, order)
	}
	return out, nil
}

// RecentFills lists recent trade executions, optionally filtered by symbol.
func (c *Client) RecentFills(ctx context.Context, symbol string) ([]domain.Fill, error) {
	params := url.Values{}
	params.Set("productType", productType)
	if symbol != "" {
		params.Set("symbol", symbol)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/api/v2/mix/order/fills?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("bitget: fills: %w", err)
	}

	var page struct {
		FillList []bitgetFill `json:"fillList"`
	}
	if err := decodeData(body, &page); err != nil {
		return nil, fmt.Errorf("bitget: decode fills: %w", err)
	}

	out := make([]domain.Fill, 0, len(page.FillList))
	for _, rf := range page.FillList {
		fill, err := normalizeFill(rf)
		if err != nil {
			c.logger.Warn("fill dropped",
				slog.String("trade_id", rf.TradeID),
				slog.String("symbol", rf.Symbol),
				slog.String("error", err.Error()))
			continue
		}
		out = append(out, fill)
	}
	return out, nil
}

// Positions returns every open USDT-futures position.
func (c *Client) Positions(ctx context.Context) ([]domain.Position, error) {
	params := url.Values{}
	params.Set("productType", productType)
	params.Set("marginCoin", marginCoin)

	body, err := c.doRequest(ctx, http.MethodGet, "/api/v2/mix/position/all-position?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("bitget: positions: %w", err)
	}

	var raw []bitgetPosition
	if err := decodeData(body, &raw); err != nil {
		return nil, fmt.Errorf("bitget: decode positions: %w", err)
	}

	out := make([]domain.Position, 0, len(raw))
	for _, rp := range raw {
		pos, err := normalizePosition(rp)
		if err != nil {
			c.logger.Warn("position dropped",
				slog.String("symbol", rp.Symbol),
				slog.String("error", err.Error()))
			continue
		}
		if pos.Size == 0 {
			continue
		}
		out = append(out, pos)
	}
	return out, nil
}

// Account returns the USDT futures account summary.
func (c *Client) Account(ctx context.Context) (domain.Account, error) {
	params := url.Values{}
	params.Set("productType", productType)
	params.Set("marginCoin", marginCoin)

	body, err := c.doRequest(ctx, http.MethodGet, "/api/v2/mix/account/account?"+params.Encode(), nil)
	if err != nil {
		return domain.Account{}, fmt.Errorf("bitget: account: %w", err)
	}

	var raw bitgetAccount
	if err := decodeData(body, &raw); err != nil {
		return domain.Account{}, fmt.Errorf("bitget: decode account: %w", err)
	}
	return normalizeAccount(raw)
}

// SetLeverage configures leverage for one symbol before order placement.
func (c *Client) SetLeverage(ctx context.Context, symbol string, leverage int, holdSide string) error {
	payload := setLeverageRequest{
		Symbol:      symbol,
		ProductType: productType,
		MarginCoin:  marginCoin,
		Leverage:    fmt.Sprintf("%d", leverage),
		HoldSide:    holdSide,
	}

	if _, err := c.doRequest(ctx, http.MethodPost, "/api/v2/mix/account/set-leverage", payload); err != nil {
		return fmt.Errorf("bitget: set leverage %s: %w", symbol, err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// doRequest builds, signs, sends and reads an HTTP request, then checks
// both the HTTP status and the Bitget envelope code.
func (c *Client) doRequest(ctx context.Context, method, pathWithQuery string, reqBody any) ([]byte, error) {
	var (
		bodyBytes  []byte
		bodyReader io.Reader
	)
	if reqBody != nil {
		jsonBody, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyBytes = jsonBody
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+pathWithQuery, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if c.signer.configured() {
		c.signer.sign(req, method, pathWithQuery, bodyBytes)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := c.checkStatus(resp.StatusCode, respBody); err != nil {
		return nil, err
	}
	return respBody, nil
}

// checkStatus validates both the HTTP status and the envelope code. A
// 200 with a non-acceptance code is still a rejection.
func (c *Client) checkStatus(statusCode int, body []byte) error {
	if statusCode < 200 || statusCode >= 300 {
		var env envelope
		_ = json.Unmarshal(body, &env)
		switch statusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("unauthorized: %s (%s): %w", env.Msg, env.Code, domain.ErrExchangeRejected)
		case http.StatusTooManyRequests:
			return fmt.Errorf("rate limited: %s (%s): %w", env.Msg, env.Code, domain.ErrExchangeRejected)
		case http.StatusBadRequest:
			return fmt.Errorf("bad request: %s (%s): %w", env.Msg, env.Code, domain.ErrExchangeRejected)
		default:
			return fmt.Errorf("HTTP %d: %s (%s): %w", statusCode, env.Msg, env.Code, domain.ErrExchangeRejected)
		}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode envelope: %v: %w", err, domain.ErrMalformedResponse)
	}
	if env.Code != codeOK {
		return fmt.Errorf("code %s: %s: %w", env.Code, env.Msg, domain.ErrExchangeRejected)
	}
	return nil
}

// decodeData unmarshals the envelope's data payload into out.
func decodeData(body []byte, out any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode envelope: %v: %w", err, domain.ErrMalformedResponse)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("empty data payload: %w", domain.ErrMalformedResponse)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %v: %w", err, domain.ErrMalformedResponse)
	}
	return nil
}
