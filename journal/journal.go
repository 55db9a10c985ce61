// Package journal keeps the append-only, time-ordered record of every
// executed trade.
package journal

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/iamshubhamw08/AlgoTrade/core"

	"github.com/oklog/ulid/v2"
	"github.com/samber/lo"
)

// Journal stores transactions chronologically. Records are immutable
// once appended; the journal only ever grows.
type Journal struct {
	mu      sync.RWMutex
	records []core.Transaction
	mono    io.Reader
}

// New creates an empty journal.
func New() *Journal {
	// Seed a PRNG from crypto/rand so ULID entropy is unpredictable.
	// Monotonic entropy keeps IDs generated within the same millisecond
	// lexicographically increasing.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Journal{
		records: make([]core.Transaction, 0),
		mono:    ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
	}
}

// Append assigns the transaction a unique time-sortable ID and stores
// it. The stored record is returned.
func (j *Journal) Append(tx core.Transaction) core.Transaction {
	j.mu.Lock()
	defer j.mu.Unlock()

	if tx.ID == "" {
		tx.ID = j.newID(tx.CreatedAt)
	}
	j.records = append(j.records, tx)
	return tx
}

// All returns a chronological copy of the log, oldest first. This is
// the replay order.
func (j *Journal) All() []core.Transaction {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]core.Transaction, len(j.records))
	copy(out, j.records)
	return out
}

// Newest returns a copy of the log with the most recent record first,
// the order used for display.
func (j *Journal) Newest() []core.Transaction {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]core.Transaction, len(j.records))
	for i, tx := range j.records {
		out[len(j.records)-1-i] = tx
	}
	return out
}

// Find returns the chronological records matching all given filters
func (j *Journal) Find(filters ...core.TransactionFilter) []core.Transaction {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return lo.Filter(j.records, func(tx core.Transaction, _ int) bool {
		for _, filter := range filters {
			if !filter(tx) {
				return false
			}
		}
		return true
	})
}

// Len returns the number of records in the log
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.records)
}

// Restore replaces the log with previously persisted records. The
// records are expected in chronological order; used once at engine
// construction.
func (j *Journal) Restore(records []core.Transaction) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.records = make([]core.Transaction, len(records))
	copy(j.records, records)
}

// newID returns a ULID string. Caller must hold the write lock.
func (j *Journal) newID(at time.Time) string {
	if at.IsZero() {
		at = time.Now()
	}

	id, err := ulid.New(ulid.Timestamp(at.UTC()), j.mono)
	if err != nil {
		// Only possible if time goes backwards past the epoch or
		// entropy fails.
		panic(err)
	}
	return id.String()
}
