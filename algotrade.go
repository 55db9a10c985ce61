package algotrade

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/StudioSol/set"
	"github.com/jpillora/backoff"

	"github.com/iamshubhamw08/AlgoTrade/core"
	"github.com/iamshubhamw08/AlgoTrade/executor"
	"github.com/iamshubhamw08/AlgoTrade/journal"
	"github.com/iamshubhamw08/AlgoTrade/ledger"
	"github.com/iamshubhamw08/AlgoTrade/notification"
	"github.com/iamshubhamw08/AlgoTrade/policy"
	"github.com/iamshubhamw08/AlgoTrade/scheduler"
	"github.com/iamshubhamw08/AlgoTrade/storage"
)

const (
	defaultDatabaseFile = "algotrade.db"
	defaultStartBalance = 500_000
	defaultScanInterval = 3 * time.Second
)

// DefaultWatchlist seeds the watchlist of a fresh account.
var DefaultWatchlist = []string{"RELIANCE", "TCS", "INFY"}

// Engine is a paper trading simulator. It owns the cash ledger, the
// transaction journal and the scan scheduler, and persists all of them
// through a pluggable key-value backend. All trades, manual and
// automated, flow through a single executor so the ledger and journal
// never diverge.
type Engine struct {
	mu sync.Mutex

	settings *core.Settings
	kv       core.KV
	log      core.Logger
	rng      core.Rand

	ledgerState *ledger.Ledger
	journal     *journal.Journal
	executor    *executor.Executor
	policy      *policy.Policy
	scheduler   *scheduler.Scheduler

	watchlist *set.LinkedHashSetString
	notifier  core.Notifier
	telegram  core.NotifierWithStart

	policyCfg    policy.Config
	schedulerCfg scheduler.Config

	autoEnabled bool
	degraded    bool
	retry       *backoff.Backoff
}

// accountState is the persisted form of the cash account. The
// automation flag shares its lifecycle, so it rides in the same blob.
type accountState struct {
	Account     core.CashAccount `json:"account"`
	AutoTrading bool             `json:"auto_trading"`
}

// NewEngine builds an engine from settings and options, restores any
// previously persisted state and, if automation was left enabled,
// resumes the scan scheduler. A missing or failing storage backend is
// not fatal: the engine degrades to in-memory state and keeps running.
func NewEngine(ctx context.Context, settings *core.Settings, options ...Option) (*Engine, error) {
	if settings == nil {
		settings = &core.Settings{}
	}
	applyDefaults(settings)

	engine := &Engine{
		settings:     settings,
		log:          DefaultLog,
		rng:          core.NewRand(time.Now().UnixNano()),
		policyCfg:    policy.DefaultConfig(),
		schedulerCfg: scheduler.Config{Interval: settings.ScanInterval},
		watchlist:    set.NewLinkedHashSetString(settings.Watchlist...),
		retry: &backoff.Backoff{
			Min:    100 * time.Millisecond,
			Max:    2 * time.Second,
			Factor: 2,
			Jitter: true,
		},
	}

	for _, option := range options {
		option(engine)
	}

	if engine.kv == nil {
		kv, err := storage.NewFromFile(defaultDatabaseFile)
		if err != nil {
			engine.log.WithError(err).Warn("storage unavailable, keeping state in memory")
			kv = storage.NewMemoryKV()
			engine.degraded = true
		}
		engine.kv = kv
	}

	engine.ledgerState = ledger.New(settings.StartBalance, engine.log)
	engine.journal = journal.New()
	engine.executor = executor.New(engine.ledgerState, engine.journal, engine.log)
	engine.policy = policy.New(engine.policyCfg, settings.Universe, engine.rng)
	engine.scheduler = scheduler.New(
		engine.schedulerCfg,
		engine.ledgerState,
		engine.policy,
		engine.executor,
		engine.log,
	)
	engine.scheduler.SetAfterTick(func() {
		engine.persist(context.Background())
	})

	engine.loadState(ctx)

	if engine.notifier != nil {
		engine.executor.SetNotifier(engine.notifier)
	}

	if settings.Telegram.Enabled {
		telegram, err := notification.NewTelegram(engine, settings, engine.log)
		if err != nil {
			return nil, err
		}
		engine.telegram = telegram
		if engine.notifier == nil {
			engine.notifier = telegram
			engine.executor.SetNotifier(telegram)
		}
	}

	if engine.autoEnabled {
		engine.scheduler.Start()
	}

	return engine, nil
}

func applyDefaults(settings *core.Settings) {
	if settings.StartBalance <= 0 {
		settings.StartBalance = defaultStartBalance
	}
	if settings.ScanInterval <= 0 {
		settings.ScanInterval = defaultScanInterval
	}
	if len(settings.Watchlist) == 0 {
		settings.Watchlist = slices.Clone(DefaultWatchlist)
	}
	if len(settings.Universe) == 0 {
		settings.Universe = slices.Clone(core.DefaultUniverse)
	}
}

// Start begins accepting Telegram commands, if configured. The engine
// itself needs no start call; it is usable as soon as NewEngine
// returns.
func (e *Engine) Start() {
	if e.telegram != nil {
		e.telegram.Start()
	}
	e.log.Infof("engine ready, net worth %.2f", e.Valuation().NetWorth)
}

// Close stops the scheduler, flushes state and releases the storage
// backend.
func (e *Engine) Close() error {
	e.scheduler.Stop()
	e.persist(context.Background())
	return e.kv.Close()
}

// Buy executes a manual purchase priced at the snapshot's current
// price and persists the outcome.
func (e *Engine) Buy(ctx context.Context, snapshot core.MarketSnapshot, quantity float64) (core.Transaction, error) {
	tx, err := e.executor.Execute(executor.Intent{
		Symbol:   snapshot.Symbol,
		Name:     snapshot.Name,
		Side:     core.SideTypeBuy,
		Quantity: quantity,
		Price:    snapshot.CurrentPrice,
		Origin:   core.OriginTypeManual,
	})
	if err != nil {
		return core.Transaction{}, err
	}
	e.persist(ctx)
	return tx, nil
}

// Sell executes a manual sale priced at the snapshot's current price
// and persists the outcome.
func (e *Engine) Sell(ctx context.Context, snapshot core.MarketSnapshot, quantity float64) (core.Transaction, error) {
	tx, err := e.executor.Execute(executor.Intent{
		Symbol:   snapshot.Symbol,
		Name:     snapshot.Name,
		Side:     core.SideTypeSell,
		Quantity: quantity,
		Price:    snapshot.CurrentPrice,
		Origin:   core.OriginTypeManual,
	})
	if err != nil {
		return core.Transaction{}, err
	}
	e.persist(ctx)
	return tx, nil
}

// ToggleAutomation flips automated trading on or off and returns the
// new state. Enabling starts the scan scheduler; disabling stops it
// and cancels any pending tick.
func (e *Engine) ToggleAutomation(ctx context.Context) bool {
	e.mu.Lock()
	e.autoEnabled = !e.autoEnabled
	enabled := e.autoEnabled
	e.mu.Unlock()

	if enabled {
		e.scheduler.Start()
	} else {
		e.scheduler.Stop()
	}

	e.persist(ctx)
	e.log.Infof("automated trading %s", map[bool]string{true: "enabled", false: "disabled"}[enabled])
	return enabled
}

// AutomationEnabled reports whether the scan scheduler is active.
func (e *Engine) AutomationEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.autoEnabled
}

// RunScanOnce triggers a single policy scan immediately, regardless of
// the automation flag or the scheduler timer.
func (e *Engine) RunScanOnce(ctx context.Context) {
	_ = ctx
	e.scheduler.RunOnce()
}

// AddWatch puts a symbol on the watchlist. Symbols are normalized to
// upper case; duplicates are ignored.
func (e *Engine) AddWatch(ctx context.Context, symbol string) error {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return core.ErrUnknownSymbol
	}

	e.mu.Lock()
	e.watchlist.Add(symbol)
	e.persistLocked(ctx)
	e.mu.Unlock()
	return nil
}

// RemoveWatch drops a symbol from the watchlist. Removing an absent
// symbol is a no-op.
func (e *Engine) RemoveWatch(ctx context.Context, symbol string) {
	symbol = normalizeSymbol(symbol)

	e.mu.Lock()
	e.watchlist.Remove(symbol)
	e.persistLocked(ctx)
	e.mu.Unlock()
}

// Watchlist returns the watched symbols in insertion order.
func (e *Engine) Watchlist() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.watchlistSlice()
}

// Watching reports whether a symbol is on the watchlist.
func (e *Engine) Watching(symbol string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.watchlist.InArray(normalizeSymbol(symbol))
}

// Account returns the current cash account.
func (e *Engine) Account() core.CashAccount {
	return e.ledgerState.Account()
}

// Valuation returns cash, invested value and net worth at the last
// marked prices.
func (e *Engine) Valuation() core.Valuation {
	return e.ledgerState.Valuation()
}

// Positions returns the open positions in the order they were first
// bought.
func (e *Engine) Positions() []core.Position {
	return e.ledgerState.Positions()
}

// Position returns a single open position by symbol.
func (e *Engine) Position(symbol string) (core.Position, bool) {
	return e.ledgerState.Position(normalizeSymbol(symbol))
}

// Transactions returns journal records matching the filters, newest
// first.
func (e *Engine) Transactions(filters ...core.TransactionFilter) []core.Transaction {
	records := e.journal.Find(filters...)
	slices.Reverse(records)
	return records
}

// Quote builds a market snapshot for a universe instrument, falling
// back to the last marked price of a held position. It is a
// convenience for callers without an external quote source.
func (e *Engine) Quote(symbol string) (core.MarketSnapshot, bool) {
	symbol = normalizeSymbol(symbol)

	for _, instrument := range e.settings.Universe {
		if instrument.Symbol == symbol {
			return core.MarketSnapshot{
				Symbol:       instrument.Symbol,
				Name:         instrument.Name,
				CurrentPrice: instrument.Price,
				LastUpdated:  time.Now(),
			}, true
		}
	}

	if position, ok := e.ledgerState.Position(symbol); ok {
		return core.MarketSnapshot{
			Symbol:       symbol,
			Name:         position.Name,
			CurrentPrice: position.LastPrice,
			LastUpdated:  time.Now(),
		}, true
	}

	return core.MarketSnapshot{}, false
}

// Universe returns the instruments the automated policy may buy.
func (e *Engine) Universe() []core.Instrument {
	return slices.Clone(e.settings.Universe)
}

// Degraded reports whether the engine fell back to in-memory state
// after a storage failure.
func (e *Engine) Degraded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.degraded
}

// loadState restores the four persisted blobs. Each blob is optional;
// anything missing or unreadable leaves the corresponding default in
// place.
func (e *Engine) loadState(ctx context.Context) {
	var account accountState
	if e.loadBlob(ctx, core.KeyAccount, &account) {
		var positions []core.Position
		e.loadBlob(ctx, core.KeyPositions, &positions)
		e.ledgerState.Restore(account.Account, positions)
		e.autoEnabled = account.AutoTrading
	}

	var records []core.Transaction
	if e.loadBlob(ctx, core.KeyTransactions, &records) {
		e.journal.Restore(records)
	}

	var symbols []string
	if e.loadBlob(ctx, core.KeyWatchlist, &symbols) {
		e.watchlist = set.NewLinkedHashSetString(symbols...)
	}
}

func (e *Engine) loadBlob(ctx context.Context, key string, v any) bool {
	data, err := e.kv.Load(ctx, key)
	if errors.Is(err, core.ErrKeyNotFound) {
		return false
	}
	if err != nil {
		e.log.WithError(err).Warnf("failed to load %q, continuing with defaults", key)
		e.mu.Lock()
		e.degraded = true
		e.mu.Unlock()
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		e.log.WithError(err).Warnf("ignoring corrupt %q blob", key)
		return false
	}
	return true
}

func (e *Engine) persist(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.persistLocked(ctx)
}

func (e *Engine) persistLocked(ctx context.Context) {
	account := accountState{Account: e.ledgerState.Account(), AutoTrading: e.autoEnabled}
	e.saveBlob(ctx, core.KeyAccount, account)
	e.saveBlob(ctx, core.KeyPositions, e.ledgerState.Positions())
	e.saveBlob(ctx, core.KeyTransactions, e.journal.All())
	e.saveBlob(ctx, core.KeyWatchlist, e.watchlistSlice())
}

// saveBlob encodes and writes one keyed blob, retrying briefly with
// backoff. A write that still fails after the retries leaves the
// engine running on in-memory state.
func (e *Engine) saveBlob(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		e.log.WithError(err).Errorf("failed to encode %q", key)
		return
	}

	const maxAttempts = 3
	e.retry.Reset()
	for attempt := 1; ; attempt++ {
		err = e.kv.Save(ctx, key, data)
		if err == nil {
			return
		}
		if attempt >= maxAttempts {
			break
		}
		time.Sleep(e.retry.Duration())
	}

	e.log.WithError(err).Warnf("failed to save %q, state kept in memory", key)
	e.degraded = true
}

func (e *Engine) watchlistSlice() []string {
	symbols := make([]string, 0, e.watchlist.Length())
	for symbol := range e.watchlist.Iter() {
		symbols = append(symbols, symbol)
	}
	return symbols
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
