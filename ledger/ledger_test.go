package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iamshubhamw08/AlgoTrade/core"
	"github.com/iamshubhamw08/AlgoTrade/logger/zerolog"
)

func testLogger(t *testing.T) core.Logger {
	t.Helper()
	log, err := zerolog.New("error", zerolog.DefaultTimeLayout, false, false)
	require.NoError(t, err)
	return log
}

func TestLedger_ApplyBuyAveragesCost(t *testing.T) {
	l := New(10_000, testLogger(t))

	require.NoError(t, l.ApplyBuy("TCS", "Tata Consultancy", 10, 100, core.OriginTypeManual, time.Now()))
	require.NoError(t, l.ApplyBuy("TCS", "Tata Consultancy", 10, 200, core.OriginTypeManual, time.Now()))

	position, ok := l.Position("TCS")
	require.True(t, ok)
	require.InDelta(t, 20, position.Quantity, 1e-9)
	require.InDelta(t, 150, position.AvgCost, 1e-9)
	require.InDelta(t, 200, position.LastPrice, 1e-9)
	require.InDelta(t, 7_000, l.Balance(), 1e-9)
}

func TestLedger_ApplyBuyInsufficientFunds(t *testing.T) {
	l := New(100, testLogger(t))

	err := l.ApplyBuy("TCS", "Tata Consultancy", 10, 100, core.OriginTypeManual, time.Now())
	require.ErrorIs(t, err, core.ErrInsufficientFunds)

	// rejection must leave the ledger untouched
	require.InDelta(t, 100, l.Balance(), 1e-9)
	require.Empty(t, l.Positions())
}

func TestLedger_ApplyBuyRejectsInvalidInput(t *testing.T) {
	l := New(10_000, testLogger(t))

	require.ErrorIs(t, l.ApplyBuy("", "x", 1, 1, core.OriginTypeManual, time.Now()), core.ErrUnknownSymbol)
	require.ErrorIs(t, l.ApplyBuy("TCS", "x", 0, 1, core.OriginTypeManual, time.Now()), core.ErrInvalidQuantity)
	require.ErrorIs(t, l.ApplyBuy("TCS", "x", -5, 1, core.OriginTypeManual, time.Now()), core.ErrInvalidQuantity)
	require.ErrorIs(t, l.ApplyBuy("TCS", "x", 1, 0, core.OriginTypeManual, time.Now()), core.ErrInvalidPrice)
	require.Empty(t, l.Positions())
	require.InDelta(t, 10_000, l.Balance(), 1e-9)
}

func TestLedger_ApplySellPartial(t *testing.T) {
	l := New(10_000, testLogger(t))
	require.NoError(t, l.ApplyBuy("INFY", "Infosys", 10, 100, core.OriginTypeManual, time.Now()))

	require.NoError(t, l.ApplySell("INFY", 4, 120))

	position, ok := l.Position("INFY")
	require.True(t, ok)
	require.InDelta(t, 6, position.Quantity, 1e-9)
	// avg cost is never recomputed on sell
	require.InDelta(t, 100, position.AvgCost, 1e-9)
	require.InDelta(t, 120, position.LastPrice, 1e-9)
	require.InDelta(t, 10_000-1_000+480, l.Balance(), 1e-9)
}

func TestLedger_ApplySellFullExitRemovesPosition(t *testing.T) {
	l := New(10_000, testLogger(t))
	require.NoError(t, l.ApplyBuy("INFY", "Infosys", 10, 100, core.OriginTypeManual, time.Now()))

	require.NoError(t, l.ApplySell("INFY", 10, 110))

	_, ok := l.Position("INFY")
	require.False(t, ok)
	require.Empty(t, l.Positions())

	// the symbol is now unheld, so another sell must be rejected
	err := l.ApplySell("INFY", 1, 110)
	require.ErrorIs(t, err, core.ErrInsufficientHoldings)
}

func TestLedger_ApplySellInsufficientHoldings(t *testing.T) {
	l := New(10_000, testLogger(t))
	require.NoError(t, l.ApplyBuy("INFY", "Infosys", 5, 100, core.OriginTypeManual, time.Now()))

	err := l.ApplySell("INFY", 6, 100)
	require.ErrorIs(t, err, core.ErrInsufficientHoldings)

	var tradeErr *core.TradeError
	require.ErrorAs(t, err, &tradeErr)
	require.Equal(t, "INFY", tradeErr.Symbol)

	position, ok := l.Position("INFY")
	require.True(t, ok)
	require.InDelta(t, 5, position.Quantity, 1e-9)
	require.InDelta(t, 9_500, l.Balance(), 1e-9)
}

func TestLedger_CashConservation(t *testing.T) {
	l := New(100_000, testLogger(t))

	require.NoError(t, l.ApplyBuy("TCS", "Tata Consultancy", 10, 500, core.OriginTypeManual, time.Now()))
	require.NoError(t, l.ApplyBuy("INFY", "Infosys", 20, 250, core.OriginTypeManual, time.Now()))
	require.NoError(t, l.ApplySell("TCS", 10, 500))
	require.NoError(t, l.ApplySell("INFY", 20, 250))

	// every trade at its own cost basis nets out to the start balance
	require.InDelta(t, 100_000, l.Balance(), 1e-6)
	require.Empty(t, l.Positions())
}

func TestLedger_MarkPriceChangesValuationNotBalance(t *testing.T) {
	l := New(100_000, testLogger(t))
	require.NoError(t, l.ApplyBuy("TCS", "Tata Consultancy", 10, 100, core.OriginTypeManual, time.Now()))

	before := l.Valuation()
	require.True(t, l.MarkPrice("TCS", 150))
	after := l.Valuation()

	require.InDelta(t, before.Cash, after.Cash, 1e-9)
	require.InDelta(t, 1_500, after.InvestedValue, 1e-9)
	require.InDelta(t, after.Cash+after.InvestedValue, after.NetWorth, 1e-9)
}

func TestLedger_MarkPriceUnheldSymbol(t *testing.T) {
	l := New(100_000, testLogger(t))
	require.False(t, l.MarkPrice("TCS", 150))
}

func TestLedger_PositionsInsertionOrder(t *testing.T) {
	l := New(100_000, testLogger(t))
	require.NoError(t, l.ApplyBuy("TCS", "Tata Consultancy", 1, 100, core.OriginTypeManual, time.Now()))
	require.NoError(t, l.ApplyBuy("INFY", "Infosys", 1, 100, core.OriginTypeManual, time.Now()))
	require.NoError(t, l.ApplyBuy("RELIANCE", "Reliance Industries", 1, 100, core.OriginTypeManual, time.Now()))

	symbols := make([]string, 0, 3)
	for _, position := range l.Positions() {
		symbols = append(symbols, position.Symbol)
	}
	require.Equal(t, []string{"TCS", "INFY", "RELIANCE"}, symbols)

	// re-buying an existing symbol must not change its slot
	require.NoError(t, l.ApplyBuy("INFY", "Infosys", 1, 100, core.OriginTypeManual, time.Now()))
	require.Equal(t, "INFY", l.Positions()[1].Symbol)
}

func TestLedger_PositionsReturnsCopies(t *testing.T) {
	l := New(100_000, testLogger(t))
	require.NoError(t, l.ApplyBuy("TCS", "Tata Consultancy", 10, 100, core.OriginTypeManual, time.Now()))

	positions := l.Positions()
	positions[0].Quantity = 999

	position, ok := l.Position("TCS")
	require.True(t, ok)
	require.InDelta(t, 10, position.Quantity, 1e-9)
}

func TestLedger_Restore(t *testing.T) {
	l := New(500_000, testLogger(t))

	l.Restore(core.CashAccount{Balance: 420_000, StartBalance: 500_000}, []core.Position{
		{Symbol: "TCS", Name: "Tata Consultancy", Quantity: 10, AvgCost: 100, LastPrice: 110},
		{Symbol: "", Quantity: 5, AvgCost: 50, LastPrice: 50},
		{Symbol: "BAD", Quantity: -1, AvgCost: 50, LastPrice: 50},
	})

	require.InDelta(t, 420_000, l.Balance(), 1e-9)
	require.Len(t, l.Positions(), 1)
	require.Equal(t, "TCS", l.Positions()[0].Symbol)
}
