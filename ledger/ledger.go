// Package ledger implements the authoritative ownership record of the
// simulation: the cash balance and the set of open positions.
package ledger

import (
	"sync"
	"time"

	"github.com/iamshubhamw08/AlgoTrade/core"

	"github.com/samber/lo"
)

// Ledger owns the cash account and the open positions, keyed by symbol
// and kept in insertion order. Monetary values are float64; repeated
// average-cost recomputation accumulates sub-cent drift, so callers
// must not assume exact equality after long trade sequences.
//
// Only the trade executor may call ApplyBuy and ApplySell.
type Ledger struct {
	mu        sync.RWMutex
	account   core.CashAccount
	positions []*core.Position
	index     map[string]*core.Position
	log       core.Logger
}

// New creates a ledger with the given starting cash balance
func New(startBalance float64, log core.Logger) *Ledger {
	return &Ledger{
		account: core.CashAccount{
			Balance:      startBalance,
			StartBalance: startBalance,
		},
		positions: make([]*core.Position, 0),
		index:     make(map[string]*core.Position),
		log:       log,
	}
}

// ApplyBuy debits qty*price from the balance and merges the shares into
// the position for symbol, recomputing the weighted average cost. A new
// position is created when the symbol is not yet held. Rejections leave
// the ledger untouched.
func (l *Ledger) ApplyBuy(symbol, name string, qty, price float64, origin core.OriginType, at time.Time) error {
	if err := validateTrade(symbol, qty, price); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	total := qty * price
	if total > l.account.Balance {
		return &core.TradeError{
			Err:      core.ErrInsufficientFunds,
			Symbol:   symbol,
			Quantity: qty,
		}
	}

	l.account.Balance -= total

	if existing, ok := l.index[symbol]; ok {
		existing.AvgCost = weightedAverage(existing.AvgCost, existing.Quantity, price, qty)
		existing.Quantity += qty
		existing.LastPrice = price
		return nil
	}

	position := &core.Position{
		Symbol:    symbol,
		Name:      name,
		Quantity:  qty,
		AvgCost:   price,
		LastPrice: price,
		Origin:    origin,
		OpenedAt:  at,
	}
	l.positions = append(l.positions, position)
	l.index[symbol] = position

	return nil
}

// ApplySell credits qty*price to the balance and decrements the held
// quantity. Selling more than held, or an unheld symbol, is rejected
// and mutates nothing. The position is removed entirely when its
// quantity reaches zero; the average cost is never recomputed on sell.
func (l *Ledger) ApplySell(symbol string, qty, price float64) error {
	if err := validateTrade(symbol, qty, price); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	position, ok := l.index[symbol]
	if !ok || qty > position.Quantity {
		return &core.TradeError{
			Err:      core.ErrInsufficientHoldings,
			Symbol:   symbol,
			Quantity: qty,
		}
	}

	l.account.Balance += qty * price
	position.Quantity -= qty
	position.LastPrice = price

	if position.Quantity == 0 {
		l.remove(symbol)
	}

	return nil
}

// MarkPrice updates the last seen price of a held position. It reports
// whether the symbol was held; marking an unheld symbol is a no-op.
func (l *Ledger) MarkPrice(symbol string, price float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	position, ok := l.index[symbol]
	if !ok {
		return false
	}
	position.LastPrice = price
	return true
}

// Balance returns the free cash balance
func (l *Ledger) Balance() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.account.Balance
}

// Account returns a copy of the cash account
func (l *Ledger) Account() core.CashAccount {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.account
}

// Position returns a copy of the position for symbol, if held
func (l *Ledger) Position(symbol string) (core.Position, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	position, ok := l.index[symbol]
	if !ok {
		return core.Position{}, false
	}
	return *position, true
}

// Positions returns copies of all open positions in insertion order
func (l *Ledger) Positions() []core.Position {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return lo.Map(l.positions, func(p *core.Position, _ int) core.Position {
		return *p
	})
}

// Valuation derives the invested value and net worth from current
// holdings. It is computed on every call and never stored.
func (l *Ledger) Valuation() core.Valuation {
	l.mu.RLock()
	defer l.mu.RUnlock()

	invested := lo.SumBy(l.positions, func(p *core.Position) float64 {
		return p.Value()
	})

	return core.Valuation{
		Cash:          l.account.Balance,
		InvestedValue: invested,
		NetWorth:      l.account.Balance + invested,
	}
}

// Restore replaces the ledger state with a previously persisted
// account and position set. Used once at engine construction.
func (l *Ledger) Restore(account core.CashAccount, positions []core.Position) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.account = account
	l.positions = make([]*core.Position, 0, len(positions))
	l.index = make(map[string]*core.Position, len(positions))

	for i := range positions {
		position := positions[i]
		if position.Symbol == "" || position.Quantity <= 0 || position.AvgCost <= 0 {
			l.log.Warnf("discarding invalid persisted position %s", position.Symbol)
			continue
		}
		l.positions = append(l.positions, &position)
		l.index[position.Symbol] = &position
	}
}

// remove deletes a position from both the index and the ordered set.
// Caller must hold the write lock.
func (l *Ledger) remove(symbol string) {
	delete(l.index, symbol)
	for i, position := range l.positions {
		if position.Symbol == symbol {
			l.positions = append(l.positions[:i], l.positions[i+1:]...)
			return
		}
	}
}

func validateTrade(symbol string, qty, price float64) error {
	if symbol == "" {
		return &core.TradeError{Err: core.ErrUnknownSymbol}
	}
	if qty <= 0 {
		return &core.TradeError{Err: core.ErrInvalidQuantity, Symbol: symbol, Quantity: qty}
	}
	if price <= 0 {
		return &core.TradeError{Err: core.ErrInvalidPrice, Symbol: symbol, Quantity: qty}
	}
	return nil
}

// weightedAverage computes the weighted average of two price-quantity pairs
func weightedAverage(price1, quantity1, price2, quantity2 float64) float64 {
	return (price1*quantity1 + price2*quantity2) / (quantity1 + quantity2)
}
