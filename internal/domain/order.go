package domain

import "time"

// BattleAction is a user-facing order request verb.
type BattleAction string

const (
	ActionCatch     BattleAction = "catch"      // open long
	ActionRelease   BattleAction = "release"    // open short
	ActionRun       BattleAction = "run"        // close position
	ActionCancelAll BattleAction = "cancel_all" // cancel every resting order
)

// OrderStyle picks limit vs market execution.
type OrderStyle string

const (
	StyleMarket OrderStyle = "market"
	StyleLimit  OrderStyle = "limit"
)

// StopLossMode selects how a protective stop level is expressed.
type StopLossMode string

const (
	// StopAnchor treats the stop value as an absolute trigger price.
	StopAnchor StopLossMode = "anchor"
	// StopDistance treats the stop value as a percent offset from entry.
	StopDistance StopLossMode = "distance"
)

// TriggerSource selects which price stream arms a stop order.
type TriggerSource string

const (
	TriggerMark TriggerSource = "mark"
	TriggerLast TriggerSource = "last"
)

// StopLossSpec optionally attaches a protective order to an encounter.
type StopLossSpec struct {
	Mode    StopLossMode
	Value   float64
	Trigger TriggerSource
}

// EncounterIntent is a fully specified trade request in internal terms.
// Exactly one of Size or Quote must be positive: Size is contracts of the
// base asset, Quote is USDT notional to be converted at the mark price.
type EncounterIntent struct {
	Species  string
	Action   BattleAction
	Style    OrderStyle
	Size     float64
	Quote    float64
	Price    float64 // limit price, required when Style == StyleLimit
	Leverage int
	StopLoss *StopLossSpec
	Demo     *bool // per-intent override of the configured demo mode
}

// OrderSide is the exchange-level direction after action translation.
type OrderSide string

const (
	SideOpenLong   OrderSide = "open_long"
	SideOpenShort  OrderSide = "open_short"
	SideCloseLong  OrderSide = "close_long"
	SideCloseShort OrderSide = "close_short"
)

// OrderStatus is the normalized lifecycle state of an exchange order.
type OrderStatus string

const (
	StatusNew             OrderStatus = "new"
	StatusPartiallyFilled OrderStatus = "partially_filled"
	StatusFilled          OrderStatus = "filled"
	StatusCancelled       OrderStatus = "cancelled"
	StatusRejected        OrderStatus = "rejected"
	StatusUnknown         OrderStatus = "unknown"
)

// ExchangeOrder is a normalized view of a resting or historical order.
// RawStatus preserves the venue's literal status string for operators.
type ExchangeOrder struct {
	OrderID    string
	Symbol     string
	Species    string
	Side       OrderSide
	Style      OrderStyle
	Price      float64
	Size       float64
	FilledSize float64
	Status     OrderStatus
	RawStatus  string
	CreatedAt  time.Time
}

// EncounterReceipt reports the outcome of one submitted intent.
type EncounterReceipt struct {
	OrderID     string
	Symbol      string
	Species     string
	Side        OrderSide
	Size        float64
	Price       float64
	Status      OrderStatus
	StopOrderID string // set when a protective order was confirmed
	Demo        bool
	SubmittedAt time.Time
}

// Fill is a normalized trade execution.
type Fill struct {
	TradeID  string
	OrderID  string
	Symbol   string
	Species  string
	Side     OrderSide
	Price    float64
	Size     float64
	Fee      float64
	FilledAt time.Time
}

// CancelOutcome records one per-symbol leg of a cancel-all sweep.
// Failed lists the orders inside the leg the venue could not cancel,
// so a leg that half-succeeded is visible as such.
type CancelOutcome struct {
	Symbol    string
	Cancelled int
	Failed    []string // one "orderId: reason" per uncancelled order
	Err       error
}

// CancelReport aggregates a cancel-all sweep across symbol candidates.
// Partial failure is expected: each leg reports independently.
type CancelReport struct {
	Species   string
	Outcomes  []CancelOutcome
	Cancelled int
	Failed    int // orders the venue reported it could not cancel
}
