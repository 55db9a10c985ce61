package core

import (
	"errors"
	"fmt"
)

// Common errors surfaced by the trading engine
var (
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrUnknownSymbol        = errors.New("unknown symbol")
	ErrStorageUnavailable   = errors.New("storage unavailable")
	ErrKeyNotFound          = errors.New("key not found")
)

// TradeError encapsulates an error related to a trade request
type TradeError struct {
	Err      error
	Symbol   string
	Quantity float64
}

// Error implements the error interface
func (t *TradeError) Error() string {
	return fmt.Sprintf("trade error: %v", t.Err)
}

// Unwrap exposes the underlying sentinel for errors.Is checks
func (t *TradeError) Unwrap() error {
	return t.Err
}
