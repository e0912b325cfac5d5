package domain

// Account is the normalized USDT-margined futures account summary.
// Available is the free energy the guardrails meter against.
type Account struct {
	Available     float64
	Equity        float64
	Locked        float64
	UnrealizedPnL float64
}
