package core

// CashAccount holds the virtual cash available for trading.
// StartBalance is an immutable snapshot taken at account creation.
type CashAccount struct {
	Balance      float64 `json:"balance"`
	StartBalance float64 `json:"start_balance"`
}

// TotalReturnPercent returns the overall gain or loss against the
// starting balance, given the current net worth.
func (a CashAccount) TotalReturnPercent(netWorth float64) float64 {
	if a.StartBalance == 0 {
		return 0
	}
	return (netWorth - a.StartBalance) / a.StartBalance * 100
}

// Valuation is a derived view of the portfolio. It is recomputed on
// every read and never persisted, so stored and derived totals cannot
// drift apart.
type Valuation struct {
	Cash          float64
	InvestedValue float64
	NetWorth      float64
}
