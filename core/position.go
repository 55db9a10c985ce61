package core

import "time"

// Position is a held quantity of one instrument with its cost basis.
// A live position always has strictly positive Quantity and AvgCost;
// a sell that empties the position removes it from the ledger entirely.
type Position struct {
	Symbol    string     `json:"symbol"`
	Name      string     `json:"name"`
	Quantity  float64    `json:"quantity"`
	AvgCost   float64    `json:"avg_cost"`
	LastPrice float64    `json:"last_price"`
	Origin    OriginType `json:"origin"`
	OpenedAt  time.Time  `json:"opened_at"`
}

// Value returns the current market value of the position
func (p Position) Value() float64 {
	return p.Quantity * p.LastPrice
}

// CostBasis returns the total amount paid for the position
func (p Position) CostBasis() float64 {
	return p.Quantity * p.AvgCost
}

// PnL returns the unrealized profit or loss at the last marked price
func (p Position) PnL() float64 {
	return (p.LastPrice - p.AvgCost) * p.Quantity
}

// PnLPercent returns the unrealized profit or loss as a percentage of cost
func (p Position) PnLPercent() float64 {
	if p.AvgCost == 0 {
		return 0
	}
	return (p.LastPrice - p.AvgCost) / p.AvgCost * 100
}
