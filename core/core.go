package core

import "context"

// KV is the persistence port consumed by the engine. State is stored as
// independent keyed blobs, read once at engine construction and written
// after every state change. Load returns ErrKeyNotFound for absent keys.
type KV interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}

// State blob keys used by the engine
const (
	KeyAccount      = "account"
	KeyPositions    = "positions"
	KeyTransactions = "transactions"
	KeyWatchlist    = "watchlist"
)

type Notifier interface {
	Notify(string)
	OnTransaction(tx Transaction)
	OnError(err error)
}

type NotifierWithStart interface {
	Notifier
	Start()
}
