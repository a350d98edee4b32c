package badger

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/halcyon/trendwatch/core"
	"github.com/halcyon/trendwatch/storage"
)

// retentionDays bounds the rolling window.
const retentionDays = 30

// RecordRepository implements storage.RecordStore for BadgerDB.
type RecordRepository struct {
	backend *Backend
}

var _ storage.RecordStore = (*RecordRepository)(nil)

// NewRecordStore creates a record store on top of an open backend.
//
// Returns storage.RecordStore interface to enforce abstraction.
func NewRecordStore(backend *Backend) storage.RecordStore {
	return &RecordRepository{backend: backend}
}

// CommitCycle atomically applies one ingestion cycle's batch.
// Admitted records are upserted into the window and archived; archive-only
// records are archived without entering the window. The window is pruned of
// records published more than retentionDays before CycleTime, and the
// last-run checkpoint is saved in the same transaction.
func (r *RecordRepository) CommitCycle(ctx context.Context, batch *storage.CycleBatch) (*storage.CommitStats, error) {
	if batch == nil {
		return nil, storage.ErrEmptyBatch
	}

	stats := &storage.CommitStats{}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range batch.Admitted {
			written, err := r.upsertRecord(tx, record, batch.ForceUpdate)
			if err != nil {
				return err
			}
			if written {
				stats.Upserted++
			}
		}

		for _, record := range batch.Admitted {
			archived, err := r.archiveAppend(tx, record)
			if err != nil {
				return err
			}
			if archived {
				stats.Archived++
			}
		}
		for _, record := range batch.ArchiveOnly {
			archived, err := r.archiveAppend(tx, record)
			if err != nil {
				return err
			}
			if archived {
				stats.Archived++
			}
		}

		cutoff := batch.CycleTime.Add(-retentionDays * 24 * time.Hour)
		pruned, err := r.pruneWindow(tx, cutoff)
		if err != nil {
			return err
		}
		stats.Pruned = pruned

		checkpoint := &core.Checkpoint{
			LastRunAt: batch.CycleTime.UTC(),
			UpdatedAt: time.Now().UTC(),
		}
		if err := tx.Set([]byte(checkpointKey), storage.MarshalCheckpoint(checkpoint)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrTransactionFailed, err)
	}
	return stats, nil
}

// upsertRecord writes a record into the window, idempotent on ID.
// An existing record keeps its historical score, categories and publication
// time; only volatile metadata (title, excerpt, popularity, fetch time) is
// refreshed. ForceUpdate overwrites the stored record wholesale.
func (r *RecordRepository) upsertRecord(tx *badger.Txn, record *core.Record, forceUpdate bool) (bool, error) {
	key := makeWindowKey(record.Id)

	existing, err := r.readRecord(tx, key)
	if err != nil {
		return false, err
	}

	toWrite := record
	if existing != nil && !forceUpdate {
		merged := *existing
		merged.Title = record.Title
		merged.BodyExcerpt = record.BodyExcerpt
		merged.PopularitySignal = record.PopularitySignal
		merged.FetchedAt = record.FetchedAt
		toWrite = &merged
	}

	if err := tx.Set(key, storage.MarshalRecord(toWrite)); err != nil {
		return false, err
	}

	// Keep the date index in step with the stored publication time.
	if existing != nil && !existing.PublishedAt.Equal(toWrite.PublishedAt) {
		if err := tx.Delete(makeWindowDateKey(existing.PublishedAt, existing.Id)); err != nil {
			return false, err
		}
	}
	if existing == nil || !existing.PublishedAt.Equal(toWrite.PublishedAt) {
		dateKey := makeWindowDateKey(toWrite.PublishedAt, toWrite.Id)
		if err := tx.Set(dateKey, storage.MarshalID(toWrite.Id)); err != nil {
			return false, err
		}
	}

	return true, nil
}

// readRecord fetches and decodes a window record, nil if absent.
func (r *RecordRepository) readRecord(tx *badger.Txn, key []byte) (*core.Record, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.Record
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalRecord(val)
		return unmarshalErr
	})
	return record, err
}

// archiveAppend files a record into its monthly bucket. Existing archive
// entries are never overwritten. Returns true when a new entry was appended.
func (r *RecordRepository) archiveAppend(tx *badger.Txn, record *core.Record) (bool, error) {
	key := makeArchiveKey(record.ArchiveMonth(), record.Id)

	_, err := tx.Get(key)
	if err == nil {
		return false, nil
	}
	if err != badger.ErrKeyNotFound {
		return false, err
	}

	if err := tx.Set(key, storage.MarshalRecord(record)); err != nil {
		return false, err
	}
	return true, nil
}

// pruneWindow deletes window records published before the cutoff.
// Pruned records were already archived at ingestion time.
func (r *RecordRepository) pruneWindow(tx *badger.Txn, cutoff time.Time) (int, error) {
	prefix := []byte(windowDatePrefix + ":")
	boundary := makePartialWindowDateKey(cutoff)

	type doomed struct {
		dateKey []byte
		id      core.ID
	}
	var expired []doomed

	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	for iter.Rewind(); iter.Valid(); iter.Next() {
		item := iter.Item()
		key := item.KeyCopy(nil)
		if bytes.Compare(key[:len(boundary)], boundary) >= 0 {
			break
		}
		id := core.ID(binary.BigEndian.Uint64(key[len(prefix)+8:]))
		expired = append(expired, doomed{dateKey: key, id: id})
	}
	iter.Close()

	for _, d := range expired {
		if err := tx.Delete(makeWindowKey(d.id)); err != nil {
			return 0, err
		}
		if err := tx.Delete(d.dateKey); err != nil {
			return 0, err
		}
	}

	return len(expired), nil
}

// Window returns all live records ordered by score descending,
// ties broken by publication time descending.
func (r *RecordRepository) Window(ctx context.Context) ([]*core.Record, error) {
	var records []*core.Record

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(windowPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.Record
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(records, func(a, b *core.Record) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		return b.PublishedAt.Compare(a.PublishedAt)
	})

	return records, nil
}

// GetRecord retrieves a single window record by ID.
func (r *RecordRepository) GetRecord(ctx context.Context, id core.ID) (*core.Record, error) {
	var record *core.Record

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeWindowKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			record, unmarshalErr = storage.UnmarshalRecord(val)
			return unmarshalErr
		})
	}, false)

	return record, err
}

// SeenIDs returns every record ID present in the window or the archive.
func (r *RecordRepository) SeenIDs(ctx context.Context) (map[core.ID]struct{}, error) {
	seen := make(map[core.ID]struct{})

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		opts.Prefix = []byte(windowPrefix + ":")
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			id, err := parseWindowKey(iter.Item().Key())
			if err != nil {
				iter.Close()
				return err
			}
			seen[id] = struct{}{}
		}
		iter.Close()

		opts.Prefix = []byte(archivePrefix + ":")
		iter = tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			id, err := parseArchiveKey(iter.Item().Key())
			if err != nil {
				return err
			}
			seen[id] = struct{}{}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return seen, nil
}

// ArchivedMonth returns the archive bucket for a YYYY-MM key, ordered by
// publication time ascending.
func (r *RecordRepository) ArchivedMonth(ctx context.Context, month string) ([]*core.Record, error) {
	var records []*core.Record

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeArchiveMonthPrefix(month)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.Record
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(records, func(a, b *core.Record) int {
		return a.PublishedAt.Compare(b.PublishedAt)
	})

	return records, nil
}

// LoadCheckpoint retrieves the last-run checkpoint.
// Returns nil, nil if no cycle has committed yet.
func (r *RecordRepository) LoadCheckpoint(ctx context.Context) (*core.Checkpoint, error) {
	var checkpoint *core.Checkpoint

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(checkpointKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			checkpoint, unmarshalErr = storage.UnmarshalCheckpoint(val)
			return unmarshalErr
		})
	}, false)

	return checkpoint, err
}

// Close is a no-op; the backend's lifetime is owned by the caller.
func (r *RecordRepository) Close() error {
	return nil
}
