// Package policy implements the rule-based decision function driving
// automated trading. The policy never mutates state; it only
// classifies the current holdings and proposes at most one action.
package policy

import (
	"math"

	"github.com/iamshubhamw08/AlgoTrade/core"

	"github.com/samber/lo"
)

// Config holds the tunable thresholds of the policy. The defaults are
// configuration, not protocol: callers may override any of them.
type Config struct {
	TakeProfitPct  float64 // Close a position once its unrealized gain reaches this percent
	StopLossPct    float64 // Close a position once its unrealized loss reaches this percent (negative)
	BuyProbability float64 // Chance per tick of attempting an opportunistic buy
	CashFraction   float64 // Fraction of free cash committed to a single entry
	Volatility     float64 // Per-tick price swing used by the simulation step
	SlippagePct    float64 // Maximum fill deviation applied to an entry price
}

// DefaultConfig returns the stock thresholds
func DefaultConfig() Config {
	return Config{
		TakeProfitPct:  3,
		StopLossPct:    -2,
		BuyProbability: 0.3,
		CashFraction:   0.10,
		Volatility:     0.02,
		SlippagePct:    0.005,
	}
}

// Action is a single proposed trade
type Action struct {
	Symbol   string
	Name     string
	Side     core.SideType
	Quantity float64
	Price    float64
}

// Policy decides what, if anything, to trade on a scan tick
type Policy struct {
	cfg      Config
	universe []core.Instrument
	rng      core.Rand
}

// New creates a policy over the given instrument universe. The random
// source is injected so decisions are reproducible in tests.
func New(cfg Config, universe []core.Instrument, rng core.Rand) *Policy {
	return &Policy{
		cfg:      cfg,
		universe: universe,
		rng:      rng,
	}
}

// Config returns the active thresholds
func (p *Policy) Config() Config {
	return p.cfg
}

// PerturbFactor returns the price multiplier for one simulation step:
// uniform in [1-v, 1+v*1.1]. The asymmetric upper bound gives a mild
// upward bias; it is a simplification, not a market model.
func (p *Policy) PerturbFactor() float64 {
	v := p.cfg.Volatility
	return 1 - v + p.rng.Float64()*(v*2.1)
}

// Decide evaluates exit rules first, then entry rules, and proposes at
// most one action per tick.
//
// Exit: positions are scanned in their stored (insertion) order and the
// first one whose unrealized P&L crosses the take-profit or stop-loss
// threshold is sold in full at its last marked price. The ordering is a
// deliberate tie-break: the earliest-opened position is serviced first.
//
// Entry: only when no exit fired. With probability BuyProbability one
// instrument is picked uniformly from the universe; held symbols are
// skipped. CashFraction of the balance is committed, the fill price is
// perturbed by up to ±SlippagePct, and the quantity floored to whole
// shares. Anything below one share yields no action.
func (p *Policy) Decide(positions []core.Position, cashBalance float64) (Action, bool) {
	for _, position := range positions {
		pnl := position.PnLPercent()
		if pnl >= p.cfg.TakeProfitPct || pnl <= p.cfg.StopLossPct {
			return Action{
				Symbol:   position.Symbol,
				Name:     position.Name,
				Side:     core.SideTypeSell,
				Quantity: position.Quantity,
				Price:    position.LastPrice,
			}, true
		}
	}

	if len(p.universe) == 0 || p.rng.Float64() >= p.cfg.BuyProbability {
		return Action{}, false
	}

	pick := p.universe[p.rng.Intn(len(p.universe))]

	held := lo.SomeBy(positions, func(position core.Position) bool {
		return position.Symbol == pick.Symbol
	})
	if held {
		return Action{}, false
	}

	investAmount := cashBalance * p.cfg.CashFraction
	if investAmount <= pick.Price {
		return Action{}, false
	}

	s := p.cfg.SlippagePct
	buyPrice := pick.Price * (1 + (p.rng.Float64()*2*s - s))

	qty := math.Floor(investAmount / buyPrice)
	if qty < 1 {
		return Action{}, false
	}

	return Action{
		Symbol:   pick.Symbol,
		Name:     pick.Name,
		Side:     core.SideTypeBuy,
		Quantity: qty,
		Price:    buyPrice,
	}, true
}
