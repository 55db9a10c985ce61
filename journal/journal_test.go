package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iamshubhamw08/AlgoTrade/core"
)

func record(symbol string, side core.SideType, at time.Time) core.Transaction {
	return core.Transaction{
		Symbol:    symbol,
		Side:      side,
		Quantity:  1,
		Price:     100,
		Total:     100,
		CreatedAt: at,
		Origin:    core.OriginTypeManual,
		Status:    core.TransactionStatusExecuted,
	}
}

func TestJournal_AppendAssignsUniqueIDs(t *testing.T) {
	j := New()
	now := time.Now()

	seen := make(map[string]bool)
	for i := 0; i < 10_000; i++ {
		tx := j.Append(record("TCS", core.SideTypeBuy, now))
		require.NotEmpty(t, tx.ID)
		require.False(t, seen[tx.ID], "duplicate id %s", tx.ID)
		seen[tx.ID] = true
	}
	require.Equal(t, 10_000, j.Len())
}

func TestJournal_IDsSortChronologically(t *testing.T) {
	j := New()
	now := time.Now()

	// same-millisecond appends still produce increasing IDs
	previous := ""
	for i := 0; i < 100; i++ {
		tx := j.Append(record("TCS", core.SideTypeBuy, now))
		require.Greater(t, tx.ID, previous)
		previous = tx.ID
	}
}

func TestJournal_AllKeepsInsertionOrder(t *testing.T) {
	j := New()
	now := time.Now()

	j.Append(record("A", core.SideTypeBuy, now))
	j.Append(record("B", core.SideTypeBuy, now.Add(time.Second)))
	j.Append(record("C", core.SideTypeSell, now.Add(2*time.Second)))

	all := j.All()
	require.Len(t, all, 3)
	require.Equal(t, "A", all[0].Symbol)
	require.Equal(t, "C", all[2].Symbol)

	newest := j.Newest()
	require.Equal(t, "C", newest[0].Symbol)
	require.Equal(t, "A", newest[2].Symbol)
}

func TestJournal_AllReturnsCopy(t *testing.T) {
	j := New()
	j.Append(record("A", core.SideTypeBuy, time.Now()))

	all := j.All()
	all[0].Symbol = "MUTATED"

	require.Equal(t, "A", j.All()[0].Symbol)
}

func TestJournal_Find(t *testing.T) {
	j := New()
	now := time.Now()

	j.Append(record("TCS", core.SideTypeBuy, now))
	j.Append(record("INFY", core.SideTypeBuy, now))
	sell := record("TCS", core.SideTypeSell, now)
	sell.Origin = core.OriginTypeAuto
	j.Append(sell)

	require.Len(t, j.Find(core.WithSymbol("TCS")), 2)
	require.Len(t, j.Find(core.WithSide(core.SideTypeSell)), 1)
	require.Len(t, j.Find(core.WithSymbol("TCS"), core.WithOrigin(core.OriginTypeAuto)), 1)
	require.Empty(t, j.Find(core.WithSymbol("RELIANCE")))
}

func TestJournal_FindCreatedBeforeOrEqual(t *testing.T) {
	j := New()
	now := time.Now()

	j.Append(record("A", core.SideTypeBuy, now))
	j.Append(record("B", core.SideTypeBuy, now.Add(time.Hour)))
	j.Append(record("C", core.SideTypeBuy, now.Add(2*time.Hour)))

	// the cutoff is inclusive
	require.Len(t, j.Find(core.WithCreatedBeforeOrEqual(now.Add(time.Hour))), 2)
	require.Len(t, j.Find(core.WithCreatedBeforeOrEqual(now.Add(-time.Minute))), 0)
	require.Len(t, j.Find(core.WithCreatedBeforeOrEqual(now.Add(3*time.Hour))), 3)
}

func TestJournal_Restore(t *testing.T) {
	j := New()
	j.Restore([]core.Transaction{
		record("A", core.SideTypeBuy, time.Now()),
		record("B", core.SideTypeSell, time.Now()),
	})

	require.Equal(t, 2, j.Len())
	require.Equal(t, "A", j.All()[0].Symbol)

	// appends after a restore keep growing the same log
	j.Append(record("C", core.SideTypeBuy, time.Now()))
	require.Equal(t, 3, j.Len())
}
