package bitget

// envelope is the common Bitget v2 response wrapper. Requests succeed
// only when Code equals codeOK; HTTP 200 alone means nothing.
type envelope struct {
	Code    string `json:"code"`
	Msg     string `json:"msg"`
	Data    any    `json:"data"`
	ReqTime int64  `json:"requestTime"`
}

const codeOK = "00000"

// productType identifies USDT-margined perpetual futures on v2 endpoints.
const productType = "USDT-FUTURES"

// marginCoin is the settlement currency for every contract we trade.
const marginCoin = "USDT"

// bitgetTicker is one entry from /api/v2/mix/market/ticker.
type bitgetTicker struct {
	Symbol       string `json:"symbol"`
	LastPrice    string `json:"lastPr"`
	MarkPrice    string `json:"markPrice"`
	IndexPrice   string `json:"indexPrice"`
	Change24h    string `json:"change24h"`
	FundingRate  string `json:"fundingRate"`
	Timestamp    string `json:"ts"`
	QuoteVolume  string `json:"quoteVolume"`
	OpenInterest string `json:"holdingAmount"`
}

// bitgetContract is one entry from /api/v2/mix/market/contracts.
type bitgetContract struct {
	Symbol        string `json:"symbol"`
	BaseCoin      string `json:"baseCoin"`
	QuoteCoin     string `json:"quoteCoin"`
	PricePlace    string `json:"pricePlace"`
	VolumePlace   string `json:"volumePlace"`
	PriceEndStep  string `json:"priceEndStep"`
	SizeMultiple  string `json:"sizeMultiplier"`
	MinTradeNum   string `json:"minTradeNum"`
	MaxLever      string `json:"maxLever"`
	SymbolStatus  string `json:"symbolStatus"`
	DeliveryTime  string `json:"deliveryTime"`
	LaunchTime    string `json:"launchTime"`
	OffTime       string `json:"offTime"`
	LimitOpenTime string `json:"limitOpenTime"`
}

// bitgetOrder is one entry from /api/v2/mix/order/orders-pending.
type bitgetOrder struct {
	OrderID    string `json:"orderId"`
	ClientOID  string `json:"clientOid"`
	Symbol     string `json:"symbol"`
	Side       string `json:"side"`
	TradeSide  string `json:"tradeSide"`
	OrderType  string `json:"orderType"`
	Price      string `json:"price"`
	Size       string `json:"size"`
	FilledSize string `json:"baseVolume"`
	Status     string `json:"status"`
	Leverage   string `json:"leverage"`
	MarginMode string `json:"marginMode"`
	CreatedAt  string `json:"cTime"`
}

// bitgetFill is one entry from /api/v2/mix/order/fills.
type bitgetFill struct {
	TradeID   string `json:"tradeId"`
	OrderID   string `json:"orderId"`
	Symbol    string `json:"symbol"`
	Side      string `json:"side"`
	TradeSide string `json:"tradeSide"`
	Price     string `json:"price"`
	Size      string `json:"baseVolume"`
	CreatedAt string `json:"cTime"`
	FeeDetail []struct {
		TotalFee string `json:"totalFee"`
	} `json:"feeDetail"`
}

// bitgetPosition is one entry from /api/v2/mix/position/all-position.
type bitgetPosition struct {
	Symbol        string `json:"symbol"`
	MarginCoin    string `json:"marginCoin"`
	HoldSide      string `json:"holdSide"`
	Total         string `json:"total"`
	Available     string `json:"available"`
	OpenPriceAvg  string `json:"openPriceAvg"`
	MarkPrice     string `json:"markPrice"`
	Leverage      string `json:"leverage"`
	MarginMode    string `json:"marginMode"`
	UnrealizedPL  string `json:"unrealizedPL"`
	LiqPrice      string `json:"liquidationPrice"`
	MarginSize    string `json:"marginSize"`
	PositionValue string `json:"positionValue"`
}

// bitgetAccount is the payload from /api/v2/mix/account/account.
type bitgetAccount struct {
	MarginCoin       string `json:"marginCoin"`
	Available        string `json:"available"`
	Equity           string `json:"accountEquity"`
	USDTEquity       string `json:"usdtEquity"`
	Locked           string `json:"locked"`
	UnrealizedPL     string `json:"unrealizedPL"`
	CrossedMaxAvail  string `json:"crossedMaxAvailable"`
	IsolatedMaxAvail string `json:"isolatedMaxAvailable"`
}

// placeOrderRequest is the body for /api/v2/mix/order/place-order.
type placeOrderRequest struct {
	Symbol      string `json:"symbol"`
	ProductType string `json:"productType"`
	MarginMode  string `json:"marginMode"`
	MarginCoin  string `json:"marginCoin"`
	Size        string `json:"size"`
	Side        string `json:"side"`
	TradeSide   string `json:"tradeSide,omitempty"`
	OrderType   string `json:"orderType"`
	Price       string `json:"price,omitempty"`
	ClientOID   string `json:"clientOid"`
	ReduceOnly  string `json:"reduceOnly,omitempty"`
}

// placeOrderResult is the data payload from place-order.
type placeOrderResult struct {
	OrderID   string `json:"orderId"`
	ClientOID string `json:"clientOid"`
}

// planOrderRequest is the body for /api/v2/mix/order/place-pos-tpsl.
type planOrderRequest struct {
	Symbol       string `json:"symbol"`
	ProductType  string `json:"productType"`
	MarginCoin   string `json:"marginCoin"`
	PlanType     string `json:"planType"`
	TriggerPrice string `json:"triggerPrice"`
	TriggerType  string `json:"triggerType"`
	HoldSide     string `json:"holdSide,omitempty"`
	Size         string `json:"size,omitempty"`
	ClientOID    string `json:"clientOid"`
}

// planOrderResult is the data payload from place-pos-tpsl.
type planOrderResult struct {
	OrderID string `json:"orderId"`
	TpslID  string `json:"tpslId"`
}

// cancelAllRequest is the body for /api/v2/mix/order/cancel-all-orders.
type cancelAllRequest struct {
	Symbol      string `json:"symbol,omitempty"`
	ProductType string `json:"productType"`
	MarginCoin  string `json:"marginCoin,omitempty"`
}

// cancelAllResult lists the orders a cancel-all sweep touched.
type cancelAllResult struct {
	SuccessList []struct {
		OrderID   string `json:"orderId"`
		ClientOID string `json:"clientOid"`
	} `json:"successList"`
	FailureList []struct {
		OrderID string `json:"orderId"`
		ErrMsg  string `json:"errorMsg"`
	} `json:"failureList"`
}

// setLeverageRequest is the body for /api/v2/mix/account/set-leverage.
type setLeverageRequest struct {
	Symbol      string `json:"symbol"`
	ProductType string `json:"productType"`
	MarginCoin  string `json:"marginCoin"`
	Leverage    string `json:"leverage"`
	HoldSide    string `json:"holdSide,omitempty"`
}
