package core

import (
	"fmt"
	"time"
)

// TransactionFilter defines a function type for filtering transactions
type TransactionFilter func(tx Transaction) bool

// SideType represents the direction of a trade (BUY or SELL)
type SideType string

// OriginType records whether a trade was user-initiated or policy-initiated
type OriginType string

// TransactionStatusType represents the status of a transaction
type TransactionStatusType string

// Trade side constants
const (
	SideTypeBuy  SideType = "BUY"
	SideTypeSell SideType = "SELL"
)

// Trade origin constants
const (
	OriginTypeManual OriginType = "MANUAL"
	OriginTypeAuto   OriginType = "AUTO"
)

// Transaction status constants
const (
	TransactionStatusExecuted TransactionStatusType = "EXECUTED"
)

// Transaction is one executed trade in the append-only log.
// Records are never mutated or deleted once appended.
type Transaction struct {
	ID        string                `json:"id"`
	Symbol    string                `json:"symbol"`
	Side      SideType              `json:"side"`
	Quantity  float64               `json:"quantity"`
	Price     float64               `json:"price"`
	Total     float64               `json:"total"`
	CreatedAt time.Time             `json:"created_at"`
	Origin    OriginType            `json:"origin"`
	Status    TransactionStatusType `json:"status"`
}

// IsBuy returns true if the transaction is a buy
func (t Transaction) IsBuy() bool {
	return t.Side == SideTypeBuy
}

// IsSell returns true if the transaction is a sell
func (t Transaction) IsSell() bool {
	return t.Side == SideTypeSell
}

// IsAuto returns true if the transaction was policy-initiated
func (t Transaction) IsAuto() bool {
	return t.Origin == OriginTypeAuto
}

// String returns a human-readable representation of the transaction
func (t Transaction) String() string {
	return fmt.Sprintf("[%s/%s] %s %s | ID: %s, %.0f x $%.2f (~$%.2f)",
		t.Status, t.Origin, t.Side, t.Symbol, t.ID, t.Quantity, t.Price, t.Total)
}

func WithSide(side SideType) TransactionFilter {
	return func(tx Transaction) bool {
		return tx.Side == side
	}
}

func WithOrigin(origin OriginType) TransactionFilter {
	return func(tx Transaction) bool {
		return tx.Origin == origin
	}
}

func WithSymbol(symbol string) TransactionFilter {
	return func(tx Transaction) bool {
		return tx.Symbol == symbol
	}
}

func WithCreatedBeforeOrEqual(at time.Time) TransactionFilter {
	return func(tx Transaction) bool {
		return !tx.CreatedAt.After(at)
	}
}
