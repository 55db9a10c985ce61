package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iamshubhamw08/AlgoTrade/core"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// stateRecord is the GORM model for one keyed state blob
type stateRecord struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}

func (stateRecord) TableName() string { return "engine_state" }

// SQLKV implements the core.KV interface using a SQL database via GORM
type SQLKV struct {
	db *gorm.DB
}

// SQLConfig holds the configuration for SQL database connections
type SQLConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DefaultSQLConfig returns a default configuration for SQL connections
func DefaultSQLConfig() SQLConfig {
	return SQLConfig{
		MaxIdleConns:    5,
		MaxOpenConns:    10,
		ConnMaxLifetime: time.Hour,
	}
}

// NewFromSQLite creates a new SQLite-backed store
func NewFromSQLite(dbPath string, config SQLConfig, opts ...gorm.Option) (core.KV, error) {
	dialect := sqlite.Open(dbPath)
	return newFromSQL(dialect, config, opts...)
}

// newFromSQL creates a new SQL store with the specified configuration
func newFromSQL(dialect gorm.Dialector, config SQLConfig, opts ...gorm.Option) (core.KV, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", core.ErrStorageUnavailable, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err = db.AutoMigrate(&stateRecord{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLKV{db: db}, nil
}

// Load reads the blob stored under key. Absent keys yield
// core.ErrKeyNotFound.
func (s *SQLKV) Load(ctx context.Context, key string) ([]byte, error) {
	var record stateRecord

	result := s.db.WithContext(ctx).First(&record, "key = ?", key)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, core.ErrKeyNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load %q: %w", key, result.Error)
	}

	return record.Value, nil
}

// Save writes the blob under key, replacing any previous value
func (s *SQLKV) Save(ctx context.Context, key string, value []byte) error {
	record := stateRecord{Key: key, Value: value, UpdatedAt: time.Now()}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&record)
	if result.Error != nil {
		return fmt.Errorf("failed to save %q: %w", key, result.Error)
	}

	return nil
}

// Close closes the database connection
func (s *SQLKV) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
