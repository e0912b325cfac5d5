package domain

import "math"

// Position is a normalized open perpetual position. Size is signed:
// positive for long, negative for short.
type Position struct {
	Symbol        string
	Species       string
	Size          float64
	EntryPrice    float64
	MarkPrice     float64
	Leverage      int
	LiqPrice      float64
	UnrealizedPnL float64
	MarginMode    string
}

// Notional returns the absolute entry notional of the position.
func (p Position) Notional() float64 {
	return math.Abs(p.Size * p.EntryPrice)
}

// IsLong reports whether the position is net long.
func (p Position) IsLong() bool { return p.Size > 0 }

// RosterSlot is the console view of one party member: a position dressed
// in its species profile plus live HP derived from notional.
type RosterSlot struct {
	Position
	Name    string
	Element string
	Sprite  string
	HP      float64 // 0..100, Notional scaled by the species HP bar
	Orders  []ExchangeOrder
}
