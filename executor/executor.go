// Package executor validates and applies trade intents against the
// ledger and journal. It is the only legal path to mutate either.
package executor

import (
	"fmt"
	"sync"
	"time"

	"github.com/iamshubhamw08/AlgoTrade/core"
	"github.com/iamshubhamw08/AlgoTrade/journal"
	"github.com/iamshubhamw08/AlgoTrade/ledger"
)

// Intent describes a single buy or sell request
type Intent struct {
	Symbol   string
	Name     string
	Side     core.SideType
	Quantity float64
	Price    float64
	Origin   core.OriginType
}

// Executor applies intents atomically: the ledger mutation and the
// journal append happen under one lock, and a rejected intent appends
// nothing. Rejections are expected, common outcomes the caller must
// branch on, not exceptional conditions.
type Executor struct {
	mu       sync.Mutex
	ledger   *ledger.Ledger
	journal  *journal.Journal
	log      core.Logger
	notifier core.Notifier
	clock    func() time.Time
}

// New creates a trade executor over the given ledger and journal
func New(l *ledger.Ledger, j *journal.Journal, log core.Logger) *Executor {
	return &Executor{
		ledger:  l,
		journal: j,
		log:     log,
		clock:   time.Now,
	}
}

// SetNotifier configures a notifier informed of executed trades
func (e *Executor) SetNotifier(notifier core.Notifier) {
	e.notifier = notifier
}

// SetClock overrides the time source used to stamp transactions
func (e *Executor) SetClock(clock func() time.Time) {
	e.clock = clock
}

// Execute applies the intent. On success it returns the journaled
// transaction; on rejection it returns a *core.TradeError wrapping
// the specific reason and leaves both ledger and journal untouched.
func (e *Executor) Execute(intent Intent) (core.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()

	var err error
	switch intent.Side {
	case core.SideTypeBuy:
		err = e.ledger.ApplyBuy(intent.Symbol, intent.Name, intent.Quantity, intent.Price, intent.Origin, now)
	case core.SideTypeSell:
		err = e.ledger.ApplySell(intent.Symbol, intent.Quantity, intent.Price)
	default:
		err = &core.TradeError{
			Err:      fmt.Errorf("unknown trade side %q", intent.Side),
			Symbol:   intent.Symbol,
			Quantity: intent.Quantity,
		}
	}

	if err != nil {
		e.log.WithField("symbol", intent.Symbol).Debugf("trade rejected: %v", err)
		return core.Transaction{}, err
	}

	tx := e.journal.Append(core.Transaction{
		Symbol:    intent.Symbol,
		Side:      intent.Side,
		Quantity:  intent.Quantity,
		Price:     intent.Price,
		Total:     intent.Quantity * intent.Price,
		CreatedAt: now,
		Origin:    intent.Origin,
		Status:    core.TransactionStatusExecuted,
	})

	e.log.Infof("[TRADE EXECUTED] %s", tx)
	if e.notifier != nil {
		e.notifier.OnTransaction(tx)
	}

	return tx, nil
}

// MarkPrice updates the last seen price of a held position through the
// same lock that serializes trades, so the single-writer discipline
// covers price marking as well.
func (e *Executor) MarkPrice(symbol string, price float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.MarkPrice(symbol, price)
}
