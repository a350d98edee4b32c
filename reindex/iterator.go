package reindex

import (
	"context"

	"github.com/halcyon/trendwatch/core"
	"github.com/halcyon/trendwatch/storage"
)

// DefaultBatchSize is the default number of entries handed to fn per batch.
const DefaultBatchSize = 100

// entryIterator walks every index entry in fixed-size batches.
type entryIterator struct {
	index     storage.VectorIndex
	batchSize int
}

func newEntryIterator(index storage.VectorIndex, batchSize int) *entryIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &entryIterator{
		index:     index,
		batchSize: batchSize,
	}
}

// ForEach calls fn with successive batches of entries. The entries are
// collected up front so fn may rewrite the index while iterating without
// invalidating the walk.
func (it *entryIterator) ForEach(ctx context.Context, fn func([]*core.EmbeddingEntry) error) error {
	entries := make([]*core.EmbeddingEntry, 0, it.batchSize)
	err := it.index.ForEachEntry(ctx, func(entry *core.EmbeddingEntry) error {
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return err
	}

	for start := 0; start < len(entries); start += it.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+it.batchSize, len(entries))
		if err := fn(entries[start:end]); err != nil {
			return err
		}
	}

	return nil
}
