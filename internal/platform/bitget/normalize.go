package bitget

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alanyoungcy/pokegear/internal/domain"
)

// normalizeTicker converts a raw ticker to a quote. Species is filled in
// by the caller once the symbol has been translated back.
func normalizeTicker(t bitgetTicker) (domain.PriceQuote, error) {
	mark, err := parseFloat(t.MarkPrice, "markPrice")
	if err != nil {
		return domain.PriceQuote{}, err
	}
	last, err := parseFloat(t.LastPrice, "lastPr")
	if err != nil {
		return domain.PriceQuote{}, err
	}
	change, _ := strconv.ParseFloat(t.Change24h, 64)

	return domain.PriceQuote{
		Symbol:    t.Symbol,
		Mark:      mark,
		Last:      last,
		Change24h: change,
		FetchedAt: parseMillis(t.Timestamp),
	}, nil
}

func normalizeContract(c bitgetContract) (domain.ContractMeta, error) {
	priceScale, err := parseInt(c.PricePlace, "pricePlace")
	if err != nil {
		return domain.ContractMeta{}, err
	}
	sizeScale, err := parseInt(c.VolumePlace, "volumePlace")
	if err != nil {
		return domain.ContractMeta{}, err
	}
	minSize, _ := strconv.ParseFloat(c.MinTradeNum, 64)
	maxLever, _ := strconv.Atoi(c.MaxLever)

	return domain.ContractMeta{
		Symbol:     strings.ToUpper(c.Symbol),
		PriceScale: priceScale,
		SizeScale:  sizeScale,
		PriceTick:  math.Pow(10, -float64(priceScale)),
		SizeTick:   math.Pow(10, -float64(sizeScale)),
		MinSize:    minSize,
		MaxLever:   maxLever,
	}, nil
}

func normalizeOrder(o bitgetOrder) (domain.ExchangeOrder, error) {
	price, _ := strconv.ParseFloat(o.Price, 64)
	size, err := parseFloat(o.Size, "size")
	if err != nil {
		return domain.ExchangeOrder{}, err
	}
	filled, _ := strconv.ParseFloat(o.FilledSize, 64)

	return domain.ExchangeOrder{
		OrderID:    o.OrderID,
		Symbol:     strings.ToUpper(o.Symbol),
		Side:       normalizeSide(o.Side, o.TradeSide),
		Style:      normalizeStyle(o.OrderType),
		Price:      price,
		Size:       size,
		FilledSize: filled,
		Status:     normalizeStatus(o.Status),
		RawStatus:  o.Status,
		CreatedAt:  parseMillis(o.CreatedAt),
	}, nil
}

func normalizeFill(f bitgetFill) (domain.Fill, error) {
	price, err := parseFloat(f.Price, "price")
	if err != nil {
		return domain.Fill{}, err
	}
	size, err := parseFloat(f.Size, "baseVolume")
	if err != nil {
		return domain.Fill{}, err
	}
	var fee float64
	for _, fd := range f.FeeDetail {
		v, _ := strconv.ParseFloat(fd.TotalFee, 64)
		fee += v
	}

	return domain.Fill{
		TradeID:  f.TradeID,
		OrderID:  f.OrderID,
		Symbol:   strings.ToUpper(f.Symbol),
		Side:     normalizeSide(f.Side, f.TradeSide),
		Price:    price,
		Size:     size,
		Fee:      fee,
		FilledAt: parseMillis(f.CreatedAt),
	}, nil
}

func normalizePosition(p bitgetPosition) (domain.Position, error) {
	total, err := parseFloat(p.Total, "total")
	if err != nil {
		return domain.Position{}, err
	}
	entry, err := parseFloat(p.OpenPriceAvg, "openPriceAvg")
	if err != nil {
		return domain.Position{}, err
	}
	mark, _ := strconv.ParseFloat(p.MarkPrice, 64)
	upl, _ := strconv.ParseFloat(p.UnrealizedPL, 64)
	liq, _ := strconv.ParseFloat(p.LiqPrice, 64)
	lev, _ := strconv.Atoi(p.Leverage)

	size := total
	if strings.EqualFold(p.HoldSide, "short") {
		size = -total
	}

	return domain.Position{
		Symbol:        strings.ToUpper(p.Symbol),
		Size:          size,
		EntryPrice:    entry,
		MarkPrice:     mark,
		Leverage:      lev,
		LiqPrice:      liq,
		UnrealizedPnL: upl,
		MarginMode:    p.MarginMode,
	}, nil
}

func normalizeAccount(a bitgetAccount) (domain.Account, error) {
	available, err := parseFloat(a.Available, "available")
	if err != nil {
		return domain.Account{}, err
	}
	equity, _ := strconv.ParseFloat(a.Equity, 64)
	if equity == 0 {
		equity, _ = strconv.ParseFloat(a.USDTEquity, 64)
	}
	locked, _ := strconv.ParseFloat(a.Locked, 64)
	upl, _ := strconv.ParseFloat(a.UnrealizedPL, 64)

	return domain.Account{
		Available:     available,
		Equity:        equity,
		Locked:        locked,
		UnrealizedPnL: upl,
	}, nil
}

// normalizeSide combines the v2 side and tradeSide fields into one
// direction. One-way mode omits tradeSide; buy/sell stand alone then.
func normalizeSide(side, tradeSide string) domain.OrderSide {
	buy := strings.EqualFold(side, "buy")
	switch strings.ToLower(tradeSide) {
	case "open":
		if buy {
			return domain.SideOpenLong
		}
		return domain.SideOpenShort
	case "close":
		if buy {
			return domain.SideCloseShort
		}
		return domain.SideCloseLong
	default:
		if buy {
			return domain.SideOpenLong
		}
		return domain.SideOpenShort
	}
}

func normalizeStyle(orderType string) domain.OrderStyle {
	if strings.EqualFold(orderType, "market") {
		return domain.StyleMarket
	}
	return domain.StyleLimit
}

// normalizeStatus maps the venue's status vocabulary onto the internal
// lifecycle. Unrecognized values become StatusUnknown, never a success.
func normalizeStatus(raw string) domain.OrderStatus {
	switch strings.ToLower(raw) {
	case "live", "new", "init":
		return domain.StatusNew
	case "partially_filled", "partial_fill", "partial-fill":
		return domain.StatusPartiallyFilled
	case "filled", "full_fill", "full-fill":
		return domain.StatusFilled
	case "cancelled", "canceled", "cancel":
		return domain.StatusCancelled
	case "rejected":
		return domain.StatusRejected
	default:
		return domain.StatusUnknown
	}
}

// wireSide translates an internal direction to the v2 side/tradeSide
// pair for hedge-mode accounts.
func wireSide(side domain.OrderSide) (string, string) {
	switch side {
	case domain.SideOpenLong:
		return "buy", "open"
	case domain.SideOpenShort:
		return "sell", "open"
	case domain.SideCloseLong:
		return "sell", "close"
	case domain.SideCloseShort:
		return "buy", "close"
	default:
		return "buy", "open"
	}
}

func wireTriggerType(t domain.TriggerSource) string {
	if t == domain.TriggerLast {
		return "fill_price"
	}
	return "mark_price"
}

func parseFloat(s, field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("field %s=%q: %w", field, s, domain.ErrMalformedResponse)
	}
	return v, nil
}

func parseInt(s, field string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("field %s=%q: %w", field, s, domain.ErrMalformedResponse)
	}
	return v, nil
}

// parseMillis converts a millisecond epoch string to UTC time. Zero time
// on parse failure keeps malformed timestamps from failing whole rows.
func parseMillis(s string) time.Time {
	ms, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
