package translator

import "github.com/alanyoungcy/pokegear/internal/domain"

// defaultRoster is the standard Johto party shipped with the console.
func defaultRoster() []domain.SpeciesProfile {
	return []domain.SpeciesProfile{
		{Name: "Dragonite", Base: "BTC", Symbol: "BTCUSDT", Element: "Dragon", Sprite: "dragonite", PricePrecision: 1, SizePrecision: 3, MaxLeverage: 50, HPScale: 100.0},
		{Name: "Lapras", Base: "ETH", Symbol: "ETHUSDT", Element: "Water", Sprite: "lapras", PricePrecision: 2, SizePrecision: 3, MaxLeverage: 50, HPScale: 75.0},
		{Name: "Typhlosion", Base: "SOL", Symbol: "SOLUSDT", Element: "Fire", Sprite: "typhlosion", PricePrecision: 2, SizePrecision: 3, MaxLeverage: 50, HPScale: 50.0},
		{Name: "Ampharos", Base: "XRP", Symbol: "XRPUSDT", Element: "Electric", Sprite: "ampharos", PricePrecision: 4, SizePrecision: 2, MaxLeverage: 50, HPScale: 50.0},
		{Name: "Umbreon", Base: "DOGE", Symbol: "DOGEUSDT", Element: "Dark", Sprite: "umbreon", PricePrecision: 5, SizePrecision: 2, MaxLeverage: 50, HPScale: 20.0},
		{Name: "Gengar", Base: "HYPE", Symbol: "HYPEUSDT", Element: "Ghost", Sprite: "gengar", PricePrecision: 3, SizePrecision: 3, MaxLeverage: 50, HPScale: 20.0},
		{Name: "Espeon", Base: "AVAX", Symbol: "AVAXUSDT", Element: "Psychic", Sprite: "espeon", PricePrecision: 2, SizePrecision: 3, MaxLeverage: 50, HPScale: 40.0},
		{Name: "Scizor", Base: "SUI", Symbol: "SUIUSDT", Element: "Steel", Sprite: "scizor", PricePrecision: 4, SizePrecision: 3, MaxLeverage: 50, HPScale: 40.0},
		{Name: "Snorlax", Base: "BNB", Symbol: "BNBUSDT", Element: "Normal", Sprite: "snorlax", PricePrecision: 2, SizePrecision: 3, MaxLeverage: 50, HPScale: 60.0},
		{Name: "Heracross", Base: "WLD", Symbol: "WLDUSDT", Element: "Bug", Sprite: "heracross", PricePrecision: 3, SizePrecision: 2, MaxLeverage: 50, HPScale: 10.0},
	}
}
