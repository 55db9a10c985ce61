package executor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iamshubhamw08/AlgoTrade/core"
	"github.com/iamshubhamw08/AlgoTrade/journal"
	"github.com/iamshubhamw08/AlgoTrade/ledger"
	"github.com/iamshubhamw08/AlgoTrade/logger/zerolog"
)

type recordingNotifier struct {
	transactions []core.Transaction
	errors       []error
}

func (n *recordingNotifier) Notify(string)                     {}
func (n *recordingNotifier) OnTransaction(tx core.Transaction) { n.transactions = append(n.transactions, tx) }
func (n *recordingNotifier) OnError(err error)                 { n.errors = append(n.errors, err) }

func newTestExecutor(t *testing.T, balance float64) (*Executor, *ledger.Ledger, *journal.Journal) {
	t.Helper()
	log, err := zerolog.New("error", zerolog.DefaultTimeLayout, false, false)
	require.NoError(t, err)

	l := ledger.New(balance, log)
	j := journal.New()
	return New(l, j, log), l, j
}

func TestExecutor_ExecuteBuy(t *testing.T) {
	exec, l, j := newTestExecutor(t, 10_000)

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	exec.SetClock(func() time.Time { return now })

	tx, err := exec.Execute(Intent{
		Symbol:   "TCS",
		Name:     "Tata Consultancy",
		Side:     core.SideTypeBuy,
		Quantity: 10,
		Price:    100,
		Origin:   core.OriginTypeManual,
	})
	require.NoError(t, err)

	require.NotEmpty(t, tx.ID)
	require.Equal(t, core.TransactionStatusExecuted, tx.Status)
	require.InDelta(t, 1_000, tx.Total, 1e-9)
	require.Equal(t, now, tx.CreatedAt)

	// ledger and journal moved together
	require.InDelta(t, 9_000, l.Balance(), 1e-9)
	require.Equal(t, 1, j.Len())
	require.Equal(t, tx.ID, j.All()[0].ID)
}

func TestExecutor_ExecuteSell(t *testing.T) {
	exec, l, j := newTestExecutor(t, 10_000)

	_, err := exec.Execute(Intent{
		Symbol: "TCS", Name: "Tata Consultancy", Side: core.SideTypeBuy,
		Quantity: 10, Price: 100, Origin: core.OriginTypeManual,
	})
	require.NoError(t, err)

	tx, err := exec.Execute(Intent{
		Symbol: "TCS", Side: core.SideTypeSell,
		Quantity: 10, Price: 120, Origin: core.OriginTypeAuto,
	})
	require.NoError(t, err)
	require.True(t, tx.IsSell())
	require.True(t, tx.IsAuto())

	require.InDelta(t, 10_200, l.Balance(), 1e-9)
	require.Equal(t, 2, j.Len())
	require.Empty(t, l.Positions())
}

func TestExecutor_RejectionJournalsNothing(t *testing.T) {
	exec, l, j := newTestExecutor(t, 100)

	notifier := &recordingNotifier{}
	exec.SetNotifier(notifier)

	_, err := exec.Execute(Intent{
		Symbol: "TCS", Side: core.SideTypeBuy,
		Quantity: 10, Price: 100, Origin: core.OriginTypeManual,
	})
	require.ErrorIs(t, err, core.ErrInsufficientFunds)

	require.Zero(t, j.Len())
	require.InDelta(t, 100, l.Balance(), 1e-9)
	require.Empty(t, notifier.transactions)
}

func TestExecutor_UnknownSideRejected(t *testing.T) {
	exec, _, j := newTestExecutor(t, 10_000)

	_, err := exec.Execute(Intent{
		Symbol: "TCS", Side: core.SideType("SHORT"),
		Quantity: 1, Price: 100, Origin: core.OriginTypeManual,
	})
	require.Error(t, err)

	var tradeErr *core.TradeError
	require.ErrorAs(t, err, &tradeErr)
	require.Zero(t, j.Len())
}

func TestExecutor_NotifierSeesExecutedTrades(t *testing.T) {
	exec, _, _ := newTestExecutor(t, 10_000)

	notifier := &recordingNotifier{}
	exec.SetNotifier(notifier)

	_, err := exec.Execute(Intent{
		Symbol: "TCS", Name: "Tata Consultancy", Side: core.SideTypeBuy,
		Quantity: 5, Price: 100, Origin: core.OriginTypeManual,
	})
	require.NoError(t, err)

	require.Len(t, notifier.transactions, 1)
	require.Equal(t, "TCS", notifier.transactions[0].Symbol)
}

func TestExecutor_MarkPrice(t *testing.T) {
	exec, l, _ := newTestExecutor(t, 10_000)

	_, err := exec.Execute(Intent{
		Symbol: "TCS", Name: "Tata Consultancy", Side: core.SideTypeBuy,
		Quantity: 10, Price: 100, Origin: core.OriginTypeManual,
	})
	require.NoError(t, err)

	require.True(t, exec.MarkPrice("TCS", 130))
	require.False(t, exec.MarkPrice("INFY", 130))

	position, ok := l.Position("TCS")
	require.True(t, ok)
	require.InDelta(t, 130, position.LastPrice, 1e-9)
}
