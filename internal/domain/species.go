package domain

// SpeciesProfile describes how one tradable species maps to an exchange
// perpetual market. Profiles are loaded once by the translator and shared
// read-only; every other component references them by pointer.
type SpeciesProfile struct {
	Name           string // display name, e.g. "Dragonite"
	Base           string // base token, e.g. "BTC"
	Symbol         string // canonical perp symbol, e.g. "BTCUSDT"
	Element        string
	Sprite         string
	PricePrecision int // decimal places for price
	SizePrecision  int // decimal places for size
	MaxLeverage    int
	HPScale        float64 // USDT notional mapped to a full HP bar
}

// ContractMeta carries exchange-reported precision and minimums for one
// contract. It refines the static profile precision when the exchange
// publishes stricter values.
type ContractMeta struct {
	Symbol     string
	PriceScale int
	SizeScale  int
	PriceTick  float64
	SizeTick   float64
	MinSize    float64
	MaxLever   int
}
