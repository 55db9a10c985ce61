// Package storage provides implementations of the engine's key-value
// persistence port.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/iamshubhamw08/AlgoTrade/core"

	"github.com/tidwall/buntdb"
)

// BuntKV implements the core.KV interface using BuntDB
type BuntKV struct {
	db *buntdb.DB
}

// BuntConfig holds configuration options for BuntDB
type BuntConfig struct {
	// SyncPolicy determines how often data is synchronized to disk
	SyncPolicy buntdb.SyncPolicy
}

// DefaultBuntConfig returns the default configuration for BuntDB
func DefaultBuntConfig() BuntConfig {
	return BuntConfig{
		SyncPolicy: buntdb.EverySecond,
	}
}

// NewFromMemory creates an in-memory store with default configuration
func NewFromMemory() (core.KV, error) {
	return NewBuntKV(":memory:", DefaultBuntConfig())
}

// NewFromFile creates a file-based store with default configuration
func NewFromFile(file string) (core.KV, error) {
	return NewBuntKV(file, DefaultBuntConfig())
}

// NewBuntKV creates a new BuntDB store with the specified configuration
func NewBuntKV(sourceFile string, config BuntConfig) (core.KV, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open buntdb: %v", core.ErrStorageUnavailable, err)
	}

	if err := db.SetConfig(buntdb.Config{
		SyncPolicy: config.SyncPolicy,
	}); err != nil {
		return nil, fmt.Errorf("failed to configure buntdb: %w", err)
	}

	return &BuntKV{db: db}, nil
}

// Load reads the blob stored under key. Absent keys yield
// core.ErrKeyNotFound.
func (b *BuntKV) Load(_ context.Context, key string) ([]byte, error) {
	var value string

	err := b.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(key)
		if err != nil {
			return err
		}
		value = v
		return nil
	})

	if errors.Is(err, buntdb.ErrNotFound) {
		return nil, core.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", key, err)
	}

	return []byte(value), nil
}

// Save writes the blob under key, replacing any previous value
func (b *BuntKV) Save(_ context.Context, key string, value []byte) error {
	err := b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, string(value), nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save %q: %w", key, err)
	}
	return nil
}

// Close closes the database
func (b *BuntKV) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
