package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/berrythewa/fmclip/internal/config"
)

const (
	prefsBucket   = "prefs"
	historyBucket = "history"
)

// BoltStorage owns the bbolt database that backs preferences and history.
type BoltStorage struct {
	db      *bbolt.DB
	logger  *zap.Logger
	prefs   *Preferences
	history *History
}

// StorageConfig holds configuration for BoltStorage initialization
type StorageConfig struct {
	DBPath       string
	Logger       *zap.Logger
	Defaults     config.Defaults
	KeepItems    int
	StorePayload bool
}

// NewBoltStorage opens (or creates) the database. A second process holding
// the lock makes this fail after one second instead of blocking.
func NewBoltStorage(cfg StorageConfig) (*BoltStorage, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bbolt.Open(cfg.DBPath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database %s: %w", cfg.DBPath, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{prefsBucket, historyBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &BoltStorage{db: db, logger: logger}
	s.prefs = newPreferences(db, cfg.Defaults, logger)
	s.history = newHistory(db, cfg.KeepItems, cfg.StorePayload, logger)

	if err := s.prefs.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("BoltStorage initialized", zap.String("db_path", cfg.DBPath))
	return s, nil
}

// OpenFromConfig opens the database configured in cfg.
func OpenFromConfig(cfg *config.Config, logger *zap.Logger) (*BoltStorage, error) {
	return NewBoltStorage(StorageConfig{
		DBPath:       cfg.DBPath(),
		Logger:       logger,
		Defaults:     cfg.Defaults,
		KeepItems:    cfg.History.KeepItems,
		StorePayload: cfg.History.StorePayload,
	})
}

// Preferences returns the preference store.
func (s *BoltStorage) Preferences() *Preferences {
	return s.prefs
}

// History returns the transfer history.
func (s *BoltStorage) History() *History {
	return s.history
}

// Close closes the database.
func (s *BoltStorage) Close() error {
	return s.db.Close()
}
