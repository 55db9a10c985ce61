package algotrade

import (
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/iamshubhamw08/AlgoTrade/core"
	"github.com/iamshubhamw08/AlgoTrade/metric"
)

// TradeResult is one realized sale, reconstructed from the journal.
type TradeResult struct {
	Symbol        string
	Quantity      float64
	Price         float64
	AvgCost       float64
	ProfitValue   float64
	ProfitPercent float64
	Origin        core.OriginType
	CreatedAt     time.Time
}

// TradeSummary collects realized trading statistics for one symbol
type TradeSummary struct {
	Symbol      string
	Win         []float64
	WinPercent  []float64
	Lose        []float64
	LosePercent []float64
	Volume      float64
}

// Trades returns the number of realized trades
func (s TradeSummary) Trades() int {
	return len(s.Win) + len(s.Lose)
}

// Profit calculates the total realized profit across all trades
func (s TradeSummary) Profit() float64 {
	return lo.Sum(s.Win) + lo.Sum(s.Lose)
}

// ReturnsPercent returns the percentage result of every realized trade
func (s TradeSummary) ReturnsPercent() []float64 {
	returns := make([]float64, 0, s.Trades())
	returns = append(returns, s.WinPercent...)
	returns = append(returns, s.LosePercent...)
	return returns
}

// WinRate calculates the percentage of winning trades
func (s TradeSummary) WinRate() float64 {
	results := make([]float64, 0, s.Trades())
	results = append(results, s.Win...)
	results = append(results, s.Lose...)
	return metric.WinRate(results)
}

// Payoff calculates the ratio of average win to average loss
func (s TradeSummary) Payoff() float64 {
	if len(s.WinPercent) == 0 || len(s.LosePercent) == 0 {
		return 0
	}

	avgLoss := lo.Sum(s.LosePercent) / float64(len(s.LosePercent))
	if avgLoss == 0 {
		return 0
	}

	avgWin := lo.Sum(s.WinPercent) / float64(len(s.WinPercent))
	return avgWin / math.Abs(avgLoss)
}

// ProfitFactor calculates the ratio of gross profits to gross losses
func (s TradeSummary) ProfitFactor() float64 {
	grossLoss := lo.Sum(s.LosePercent)
	if grossLoss == 0 {
		return 0
	}
	return lo.Sum(s.WinPercent) / math.Abs(grossLoss)
}

// SQN (System Quality Number) calculates the quality of the trading system
// SQN = sqrt(n) * (average profit / standard deviation)
func (s TradeSummary) SQN() float64 {
	trades := append(append([]float64{}, s.Win...), s.Lose...)
	totalTrades := float64(len(trades))
	if totalTrades == 0 {
		return 0
	}

	avgProfit := s.Profit() / totalTrades

	variance := 0.0
	for _, profit := range trades {
		variance += math.Pow(profit-avgProfit, 2)
	}

	stdDev := math.Sqrt(variance / totalTrades)
	if stdDev == 0 {
		return 0
	}

	return math.Sqrt(totalTrades) * (avgProfit / stdDev)
}

// Performance replays the journal and returns every realized sale plus
// per-symbol aggregates.
func (e *Engine) Performance() ([]TradeResult, map[string]*TradeSummary) {
	return replayTransactions(e.journal.All())
}

// replayTransactions walks the journal chronologically with an
// average-cost tracker, mirroring how the ledger prices buys, and
// realizes a result on every sell.
func replayTransactions(records []core.Transaction) ([]TradeResult, map[string]*TradeSummary) {
	type costBasis struct {
		quantity float64
		avgCost  float64
	}

	bases := make(map[string]*costBasis)
	summaries := make(map[string]*TradeSummary)
	results := make([]TradeResult, 0)

	summaryFor := func(symbol string) *TradeSummary {
		summary, ok := summaries[symbol]
		if !ok {
			summary = &TradeSummary{Symbol: symbol}
			summaries[symbol] = summary
		}
		return summary
	}

	for _, tx := range records {
		summary := summaryFor(tx.Symbol)
		summary.Volume += tx.Total

		switch tx.Side {
		case core.SideTypeBuy:
			basis, ok := bases[tx.Symbol]
			if !ok {
				basis = &costBasis{}
				bases[tx.Symbol] = basis
			}
			total := basis.quantity + tx.Quantity
			basis.avgCost = (basis.avgCost*basis.quantity + tx.Price*tx.Quantity) / total
			basis.quantity = total

		case core.SideTypeSell:
			basis, ok := bases[tx.Symbol]
			if !ok || basis.quantity <= 0 || basis.avgCost <= 0 {
				// sell without a recorded basis, e.g. truncated history
				continue
			}

			profitValue := (tx.Price - basis.avgCost) * tx.Quantity
			profitPercent := (tx.Price - basis.avgCost) / basis.avgCost * 100

			results = append(results, TradeResult{
				Symbol:        tx.Symbol,
				Quantity:      tx.Quantity,
				Price:         tx.Price,
				AvgCost:       basis.avgCost,
				ProfitValue:   profitValue,
				ProfitPercent: profitPercent,
				Origin:        tx.Origin,
				CreatedAt:     tx.CreatedAt,
			})

			if profitValue >= 0 {
				summary.Win = append(summary.Win, profitValue)
				summary.WinPercent = append(summary.WinPercent, profitPercent)
			} else {
				summary.Lose = append(summary.Lose, profitValue)
				summary.LosePercent = append(summary.LosePercent, profitPercent)
			}

			basis.quantity -= tx.Quantity
			if basis.quantity <= 0 {
				delete(bases, tx.Symbol)
			}
		}
	}

	return results, summaries
}
