package reindex

import (
	"context"
	"fmt"
	"time"

	"github.com/halcyon/trendwatch/ai"
	"github.com/halcyon/trendwatch/core"
	"github.com/halcyon/trendwatch/storage"
)

// batchProcessor re-embeds batches of index entries and replaces their
// stored vectors.
type batchProcessor struct {
	index      storage.VectorIndex
	embedder   ai.Embedder
	maxRetries int
	retryDelay time.Duration
}

func newBatchProcessor(index storage.VectorIndex, embedder ai.Embedder, maxRetries int, retryDelay time.Duration) *batchProcessor {
	return &batchProcessor{
		index:      index,
		embedder:   embedder,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// Process re-embeds the batch and swaps each entry's vector in the index.
// Stored entries are never mutated in place, so the swap is a delete
// followed by a reinsert of the entry with its new vector.
func (bp *batchProcessor) Process(ctx context.Context, entries []*core.EmbeddingEntry) error {
	if len(entries) == 0 {
		return nil
	}

	texts := make([]string, len(entries))
	for i, entry := range entries {
		texts[i] = entryText(entry)
	}

	var vectors [][]float32
	err := retryWithBackoff(ctx, func() error {
		var err error
		vectors, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(vectors) != len(entries) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(entries), len(vectors))
	}

	for i, entry := range entries {
		replacement := *entry
		replacement.Vector = vectors[i]

		if err := bp.index.DeleteVector(ctx, entry.RecordId); err != nil {
			return fmt.Errorf("failed to remove stale vector %d: %w", entry.RecordId, err)
		}
		if _, err := bp.index.UpsertVector(ctx, &replacement); err != nil {
			return fmt.Errorf("failed to store replacement vector %d: %w", entry.RecordId, err)
		}
	}

	return nil
}

// entryText rebuilds the text an entry was originally embedded from.
func entryText(entry *core.EmbeddingEntry) string {
	if entry.Excerpt == "" {
		return entry.Title
	}
	return entry.Title + "\n" + entry.Excerpt
}
