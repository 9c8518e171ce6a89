package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/berrythewa/fmclip/internal/types"
	"github.com/berrythewa/fmclip/pkg/compression"
	"github.com/berrythewa/fmclip/pkg/utils"
)

var (
	// ErrNotFound is returned when no history record matches.
	ErrNotFound = errors.New("history record not found")
	// ErrAmbiguous is returned when an ID prefix matches several records.
	ErrAmbiguous = errors.New("history id prefix is ambiguous")
)

// History keeps a bounded log of transfers. Keys sort by time, so cursor
// order is chronological.
type History struct {
	db           *bbolt.DB
	keepItems    int
	storePayload bool
	logger       *zap.Logger
	now          func() time.Time
}

func newHistory(db *bbolt.DB, keepItems int, storePayload bool, logger *zap.Logger) *History {
	return &History{
		db:           db,
		keepItems:    keepItems,
		storePayload: storePayload,
		logger:       logger,
		now:          time.Now,
	}
}

func historyKey(t time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%020d-%s", t.UnixNano(), id))
}

// Record implements transfer.Recorder. It fills ID, time, host and
// fingerprint, keeps a payload snapshot when enabled and trims old entries.
func (h *History) Record(rec *types.TransferRecord, data []byte) error {
	if rec.ID == "" {
		rec.ID = utils.NewID()
	}
	if rec.Time.IsZero() {
		rec.Time = h.now()
	}
	if rec.Host == "" {
		rec.Host = utils.Hostname()
	}
	rec.Size = len(data)

	fp, err := utils.Fingerprint(data)
	if err != nil {
		return err
	}
	rec.Fingerprint = fp

	if h.storePayload && len(data) > 0 {
		if err := compression.AttachPayload(rec, data); err != nil {
			return fmt.Errorf("failed to snapshot payload: %w", err)
		}
	}

	return h.Add(rec)
}

// Add stores rec as is and trims the history to the configured size.
func (h *History) Add(rec *types.TransferRecord) error {
	if rec.ID == "" {
		return errors.New("history record has no id")
	}

	encoded, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal history record: %w", err)
	}

	err = h.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(historyBucket)).Put(historyKey(rec.Time, rec.ID), encoded)
	})
	if err != nil {
		return fmt.Errorf("failed to store history record: %w", err)
	}

	h.logger.Debug("History record added",
		zap.String("id", rec.ID),
		zap.String("direction", string(rec.Direction)),
		zap.String("tag", rec.Tag))

	if h.keepItems > 0 {
		if _, err := h.Trim(h.keepItems); err != nil {
			return err
		}
	}
	return nil
}

// List returns records newest first.
func (h *History) List(filter types.HistoryFilter) ([]*types.TransferRecord, error) {
	var records []*types.TransferRecord

	err := h.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(historyBucket)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var rec types.TransferRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				h.logger.Warn("Skipping unreadable history record", zap.ByteString("key", k), zap.Error(err))
				continue
			}
			if !filter.Match(&rec) {
				continue
			}
			records = append(records, &rec)
			if filter.Limit > 0 && len(records) >= filter.Limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return records, nil
}

// Get finds the record whose ID starts with prefix.
func (h *History) Get(prefix string) (*types.TransferRecord, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, ErrNotFound
	}

	var found *types.TransferRecord
	err := h.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(historyBucket)).ForEach(func(k, v []byte) error {
			// key is <time>-<id>
			id := k[bytes.IndexByte(k, '-')+1:]
			if !bytes.HasPrefix(id, []byte(prefix)) {
				return nil
			}
			if found != nil {
				return fmt.Errorf("%w: %s", ErrAmbiguous, prefix)
			}
			var rec types.TransferRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to read history record %s: %w", id, err)
			}
			found = &rec
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, prefix)
	}
	return found, nil
}

// Count returns the number of records.
func (h *History) Count() (int, error) {
	var n int
	err := h.db.View(func(tx *bbolt.Tx) error {
		n = countKeys(tx.Bucket([]byte(historyBucket)))
		return nil
	})
	return n, err
}

func countKeys(b *bbolt.Bucket) int {
	n := 0
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		n++
	}
	return n
}

// Trim deletes the oldest records so that at most keep remain.
func (h *History) Trim(keep int) (int, error) {
	var deleted int
	err := h.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(historyBucket))
		excess := countKeys(b) - keep
		if excess <= 0 {
			return nil
		}

		var stale [][]byte
		c := b.Cursor()
		for k, _ := c.First(); k != nil && len(stale) < excess; k, _ = c.Next() {
			stale = append(stale, append([]byte(nil), k...))
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		deleted = len(stale)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to trim history: %w", err)
	}
	if deleted > 0 {
		h.logger.Debug("Trimmed history", zap.Int("deleted", deleted), zap.Int("kept", keep))
	}
	return deleted, nil
}

// Clear removes every record.
func (h *History) Clear() error {
	return h.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(historyBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(historyBucket))
		return err
	})
}

// Payload returns the snapshot kept for rec.
func (h *History) Payload(rec *types.TransferRecord) ([]byte, error) {
	return compression.RecordPayload(rec)
}
