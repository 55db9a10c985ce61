package algotrade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iamshubhamw08/AlgoTrade/core"
	"github.com/iamshubhamw08/AlgoTrade/scheduler"
	"github.com/iamshubhamw08/AlgoTrade/storage"
)

// quietRand never triggers an automated entry.
type quietRand struct{}

func (quietRand) Float64() float64 { return 0.99 }
func (quietRand) Intn(int) int     { return 0 }

// brokenKV fails every operation.
type brokenKV struct{}

func (brokenKV) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk gone")
}
func (brokenKV) Save(context.Context, string, []byte) error { return errors.New("disk gone") }
func (brokenKV) Close() error                               { return nil }

func testSettings() *core.Settings {
	return &core.Settings{
		StartBalance: 500_000,
		Universe: []core.Instrument{
			{Symbol: "RELIANCE", Name: "Reliance Industries", Price: 2_500},
			{Symbol: "TCS", Name: "Tata Consultancy", Price: 3_500},
		},
	}
}

func newTestEngine(t *testing.T, kv core.KV) *Engine {
	t.Helper()
	engine, err := NewEngine(context.Background(), testSettings(),
		WithStorage(kv),
		WithRand(quietRand{}),
		WithSchedulerConfig(scheduler.Config{Interval: time.Hour, FirstTickDelay: time.Hour}),
	)
	require.NoError(t, err)
	return engine
}

func TestEngine_FreshAccountDefaults(t *testing.T) {
	engine := newTestEngine(t, storage.NewMemoryKV())
	defer engine.Close()

	require.InDelta(t, 500_000, engine.Account().Balance, 1e-9)
	require.Equal(t, []string{"RELIANCE", "TCS", "INFY"}, engine.Watchlist())
	require.False(t, engine.AutomationEnabled())
	require.Empty(t, engine.Positions())
	require.Empty(t, engine.Transactions())
}

func TestEngine_BuySellRoundtrip(t *testing.T) {
	engine := newTestEngine(t, storage.NewMemoryKV())
	defer engine.Close()

	ctx := context.Background()

	snapshot, ok := engine.Quote("TCS")
	require.True(t, ok)

	tx, err := engine.Buy(ctx, snapshot, 10)
	require.NoError(t, err)
	require.True(t, tx.IsBuy())
	require.InDelta(t, 35_000, tx.Total, 1e-9)

	position, ok := engine.Position("TCS")
	require.True(t, ok)
	require.InDelta(t, 10, position.Quantity, 1e-9)

	_, err = engine.Sell(ctx, snapshot, 10)
	require.NoError(t, err)
	require.Empty(t, engine.Positions())
	require.InDelta(t, 500_000, engine.Account().Balance, 1e-9)
}

func TestEngine_RejectedTradeSurfacesError(t *testing.T) {
	engine := newTestEngine(t, storage.NewMemoryKV())
	defer engine.Close()

	snapshot, ok := engine.Quote("TCS")
	require.True(t, ok)

	_, err := engine.Sell(context.Background(), snapshot, 1)
	require.ErrorIs(t, err, core.ErrInsufficientHoldings)
	require.Empty(t, engine.Transactions())
}

func TestEngine_StateSurvivesRestart(t *testing.T) {
	kv := storage.NewMemoryKV()
	ctx := context.Background()

	engine := newTestEngine(t, kv)
	snapshot, ok := engine.Quote("RELIANCE")
	require.True(t, ok)
	_, err := engine.Buy(ctx, snapshot, 4)
	require.NoError(t, err)
	require.NoError(t, engine.AddWatch(ctx, "HDFCBANK"))
	engine.ToggleAutomation(ctx)
	require.NoError(t, engine.Close())

	reopened := newTestEngine(t, kv)
	defer reopened.Close()

	require.InDelta(t, 500_000-10_000, reopened.Account().Balance, 1e-9)
	position, ok := reopened.Position("RELIANCE")
	require.True(t, ok)
	require.InDelta(t, 4, position.Quantity, 1e-9)
	require.InDelta(t, 2_500, position.AvgCost, 1e-9)

	require.Len(t, reopened.Transactions(), 1)
	require.Contains(t, reopened.Watchlist(), "HDFCBANK")
	require.True(t, reopened.AutomationEnabled())
}

func TestEngine_ToggleAutomation(t *testing.T) {
	engine := newTestEngine(t, storage.NewMemoryKV())
	defer engine.Close()

	ctx := context.Background()

	require.True(t, engine.ToggleAutomation(ctx))
	require.True(t, engine.AutomationEnabled())

	require.False(t, engine.ToggleAutomation(ctx))
	require.False(t, engine.AutomationEnabled())
}

func TestEngine_TransactionsNewestFirst(t *testing.T) {
	engine := newTestEngine(t, storage.NewMemoryKV())
	defer engine.Close()

	ctx := context.Background()
	first, ok := engine.Quote("RELIANCE")
	require.True(t, ok)
	second, ok := engine.Quote("TCS")
	require.True(t, ok)

	_, err := engine.Buy(ctx, first, 1)
	require.NoError(t, err)
	_, err = engine.Buy(ctx, second, 1)
	require.NoError(t, err)

	records := engine.Transactions()
	require.Len(t, records, 2)
	require.Equal(t, "TCS", records[0].Symbol)
	require.Equal(t, "RELIANCE", records[1].Symbol)

	filtered := engine.Transactions(core.WithSymbol("RELIANCE"))
	require.Len(t, filtered, 1)
}

func TestEngine_Watchlist(t *testing.T) {
	engine := newTestEngine(t, storage.NewMemoryKV())
	defer engine.Close()

	ctx := context.Background()

	require.NoError(t, engine.AddWatch(ctx, "  hdfcbank "))
	require.True(t, engine.Watching("HDFCBANK"))

	// duplicates do not grow the list
	require.NoError(t, engine.AddWatch(ctx, "HDFCBANK"))
	require.Len(t, engine.Watchlist(), 4)

	engine.RemoveWatch(ctx, "HDFCBANK")
	require.False(t, engine.Watching("HDFCBANK"))

	require.ErrorIs(t, engine.AddWatch(ctx, "   "), core.ErrUnknownSymbol)
}

func TestEngine_QuoteFallsBackToHeldPosition(t *testing.T) {
	engine := newTestEngine(t, storage.NewMemoryKV())
	defer engine.Close()

	_, ok := engine.Quote("UNKNOWN")
	require.False(t, ok)

	snapshot, ok := engine.Quote("tcs")
	require.True(t, ok)
	require.Equal(t, "TCS", snapshot.Symbol)
	require.InDelta(t, 3_500, snapshot.CurrentPrice, 1e-9)
}

func TestEngine_DegradedOnBrokenStorage(t *testing.T) {
	engine := newTestEngine(t, brokenKV{})

	ctx := context.Background()

	// loads failed but the engine still runs on defaults
	require.True(t, engine.Degraded())
	require.InDelta(t, 500_000, engine.Account().Balance, 1e-9)

	snapshot, ok := engine.Quote("TCS")
	require.True(t, ok)
	_, err := engine.Buy(ctx, snapshot, 1)
	require.NoError(t, err)

	position, ok := engine.Position("TCS")
	require.True(t, ok)
	require.InDelta(t, 1, position.Quantity, 1e-9)
	require.NoError(t, engine.Close())
}

func TestEngine_RunScanOnceWhileDisabled(t *testing.T) {
	engine := newTestEngine(t, storage.NewMemoryKV())
	defer engine.Close()

	require.False(t, engine.AutomationEnabled())
	engine.RunScanOnce(context.Background())

	// quiet rand, so the scan completes without trading
	require.Empty(t, engine.Transactions())
}
