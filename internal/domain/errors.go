package domain

import "errors"

var (
	ErrUnknownAsset       = errors.New("unknown asset")
	ErrGuardrailViolation = errors.New("guardrail violation")
	ErrExchangeRejected   = errors.New("exchange rejected")
	ErrAdapterTimeout     = errors.New("adapter timeout")
	ErrMalformedResponse  = errors.New("malformed response")
	ErrNoSnapshot         = errors.New("no price snapshot yet")
	ErrTradingLocked      = errors.New("trading locked")
	ErrLockHeld           = errors.New("lock already held")
	ErrNotFound           = errors.New("not found")
)
