package bitget

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/pokegear/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "key", "secret", "pass", slog.Default())
}

func TestPlaceOrderSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/mix/order/place-order", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("ACCESS-SIGN"))
		require.NotEmpty(t, r.Header.Get("ACCESS-TIMESTAMP"))
		w.Write([]byte(`{"code":"00000","msg":"success","data":{"orderId":"123","clientOid":"abc"}}`))
	})

	id, err := c.PlaceOrder(context.Background(), OrderRequest{
		Symbol: "BTCUSDT", Side: domain.SideOpenLong, Style: domain.StyleMarket,
		Size: "0.001", MarginMode: "crossed", ClientOID: "abc",
	})
	require.NoError(t, err)
	require.Equal(t, "123", id)
}

func TestPlaceOrderEnvelopeRejection(t *testing.T) {
	// HTTP 200 with a non-acceptance code is a rejection, not a success.
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"40762","msg":"insufficient margin","data":null}`))
	})

	_, err := c.PlaceOrder(context.Background(), OrderRequest{Symbol: "BTCUSDT"})
	require.ErrorIs(t, err, domain.ErrExchangeRejected)
	require.Contains(t, err.Error(), "insufficient margin")
}

func TestPlaceOrderMissingOrderID(t *testing.T) {
	// An accepted envelope without an order id never counts as success.
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"00000","msg":"success","data":{}}`))
	})

	_, err := c.PlaceOrder(context.Background(), OrderRequest{Symbol: "BTCUSDT"})
	require.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestPlaceOrderHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"40001","msg":"invalid signature"}`))
	})

	_, err := c.PlaceOrder(context.Background(), OrderRequest{Symbol: "BTCUSDT"})
	require.ErrorIs(t, err, domain.ErrExchangeRejected)
}

func TestPlaceOrderGarbageBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway error</html>`))
	})

	_, err := c.PlaceOrder(context.Background(), OrderRequest{Symbol: "BTCUSDT"})
	require.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestTickerNormalizes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"code":"00000","msg":"success","data":[{"symbol":"BTCUSDT","lastPr":"50001.5","markPrice":"50000.0","change24h":"0.021","ts":"1714000000000"}]}`))
	})

	q, err := c.Ticker(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Equal(t, 50000.0, q.Mark)
	require.Equal(t, 50001.5, q.Last)
	require.Equal(t, "BTCUSDT", q.Symbol)
	require.False(t, q.FetchedAt.IsZero())
}

func TestTickerMalformedPrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"00000","msg":"success","data":[{"symbol":"BTCUSDT","lastPr":"n/a","markPrice":"oops"}]}`))
	})

	_, err := c.Ticker(context.Background(), "BTCUSDT")
	require.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestCancelAllCountsSuccessList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/mix/order/cancel-all-orders", r.URL.Path)
		w.Write([]byte(`{"code":"00000","msg":"success","data":{"successList":[{"orderId":"1"},{"orderId":"2"}],"failureList":[]}}`))
	})

	n, failed, err := c.CancelAll(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Empty(t, failed)
}

func TestCancelAllReportsFailureList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"00000","msg":"success","data":{"successList":[{"orderId":"1"}],"failureList":[{"orderId":"2","errorMsg":"order already filled"}]}}`))
	})

	n, failed, err := c.CancelAll(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, []string{"2: order already filled"}, failed)
}

func TestPositionsSignedSizeAndSkipFlat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"00000","msg":"success","data":[
			{"symbol":"BTCUSDT","holdSide":"long","total":"0.5","openPriceAvg":"50000","markPrice":"51000","leverage":"10","unrealizedPL":"500","marginMode":"crossed"},
			{"symbol":"ETHUSDT","holdSide":"short","total":"2","openPriceAvg":"3000","markPrice":"2900","leverage":"5","unrealizedPL":"200","marginMode":"crossed"},
			{"symbol":"SOLUSDT","holdSide":"long","total":"0","openPriceAvg":"100"}
		]}`))
	})

	positions, err := c.Positions(context.Background())
	require.NoError(t, err)
	require.Len(t, positions, 2)
	require.Equal(t, 0.5, positions[0].Size)
	require.Equal(t, -2.0, positions[1].Size)
	require.Equal(t, 25000.0, positions[0].Notional())
}

func TestPositionsDropsMalformedRow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"00000","msg":"success","data":[
			{"symbol":"ETHUSDT","holdSide":"long","total":"not-a-number","openPriceAvg":"3000"},
			{"symbol":"BTCUSDT","holdSide":"long","total":"0.5","openPriceAvg":"50000","markPrice":"51000","leverage":"10","unrealizedPL":"500","marginMode":"crossed"}
		]}`))
	})

	positions, err := c.Positions(context.Background())
	require.NoError(t, err, "one junk row must not hide the rest of the party")
	require.Len(t, positions, 1)
	require.Equal(t, "BTCUSDT", positions[0].Symbol)
}

func TestOpenOrdersDropsMalformedRow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"00000","msg":"success","data":{"entrustedList":[
			{"orderId":"8","symbol":"BTCUSDT","side":"buy","tradeSide":"open","orderType":"limit","price":"49000","size":"oops","baseVolume":"0","status":"live"},
			{"orderId":"9","symbol":"BTCUSDT","side":"buy","tradeSide":"open","orderType":"limit","price":"49000","size":"0.01","baseVolume":"0","status":"live","cTime":"1714000000000"}
		]}}`))
	})

	orders, err := c.OpenOrders(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "9", orders[0].OrderID)
}

func TestRecentFillsDropsMalformedRow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"00000","msg":"success","data":{"fillList":[
			{"tradeId":"t0","orderId":"8","symbol":"BTCUSDT","side":"buy","tradeSide":"open","price":"50000","baseVolume":"garbage"},
			{"tradeId":"t1","orderId":"9","symbol":"BTCUSDT","side":"buy","tradeSide":"open","price":"50000","baseVolume":"0.01","cTime":"1714000000000"}
		]}}`))
	})

	fills, err := c.RecentFills(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, fills, 1)
	require.Equal(t, "t1", fills[0].TradeID)
}

func TestRecentFillsNormalizes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/mix/order/fills", r.URL.Path)
		w.Write([]byte(`{"code":"00000","msg":"success","data":{"fillList":[
			{"tradeId":"t1","orderId":"9","symbol":"btcusdt","side":"buy","tradeSide":"open","price":"50000","baseVolume":"0.01","cTime":"1714000000000","feeDetail":[{"totalFee":"-0.3"},{"totalFee":"-0.1"}]}
		]}}`))
	})

	fills, err := c.RecentFills(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, fills, 1)
	require.Equal(t, "BTCUSDT", fills[0].Symbol)
	require.Equal(t, domain.SideOpenLong, fills[0].Side)
	require.Equal(t, 0.01, fills[0].Size)
	require.InDelta(t, -0.4, fills[0].Fee, 1e-9)
}

func TestOpenOrdersKeepsRawStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"00000","msg":"success","data":{"entrustedList":[
			{"orderId":"9","symbol":"BTCUSDT","side":"buy","tradeSide":"open","orderType":"limit","price":"49000","size":"0.01","baseVolume":"0","status":"live","cTime":"1714000000000"},
			{"orderId":"10","symbol":"BTCUSDT","side":"sell","tradeSide":"close","orderType":"market","price":"0","size":"0.02","baseVolume":"0.02","status":"weird_state"}
		]}}`))
	})

	orders, err := c.OpenOrders(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, domain.StatusNew, orders[0].Status)
	require.Equal(t, domain.SideOpenLong, orders[0].Side)
	require.Equal(t, domain.StatusUnknown, orders[1].Status)
	require.Equal(t, "weird_state", orders[1].RawStatus)
	require.Equal(t, domain.SideCloseLong, orders[1].Side)
}
