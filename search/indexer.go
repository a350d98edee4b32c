package search

import (
	"context"
	"log/slog"

	"github.com/halcyon/trendwatch/ai"
	"github.com/halcyon/trendwatch/core"
	"github.com/halcyon/trendwatch/storage"
)

// Indexer embeds accepted records and stores them in the vector index.
type Indexer struct {
	index    storage.VectorIndex
	embedder ai.Embedder
	logger   *slog.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer) error

// WithIndexerLogger sets a custom logger.
// Default is slog.Default().
func WithIndexerLogger(logger *slog.Logger) IndexerOption {
	return func(i *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
		return nil
	}
}

// NewIndexer creates a new indexer.
func NewIndexer(index storage.VectorIndex, provider ai.Provider, opts ...IndexerOption) (*Indexer, error) {
	if index == nil {
		return nil, ErrVectorIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	i := &Indexer{
		index:    index,
		embedder: provider.Embedder(),
		logger:   slog.Default().With("component", "indexer"),
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}

	return i, nil
}

// Index embeds the given records in one batch and stores an entry per
// record. Records whose id is already indexed are skipped without
// re-embedding their stored entry, so repeating a batch is a safe no-op.
// Returns the number of entries newly written.
func (i *Indexer) Index(ctx context.Context, records []*core.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	texts := make([]string, len(records))
	for n, record := range records {
		texts[n] = embeddingText(record)
	}

	vectors, err := i.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		i.logger.Error("error embedding record batch", "recordCount", len(records), "err", err)
		return 0, err
	}

	written := 0
	for n, record := range records {
		entry := core.NewEmbeddingEntry(record, vectors[n])
		stored, err := i.index.UpsertVector(ctx, entry)
		if err != nil {
			i.logger.Error("error storing embedding entry", "recordID", record.Id, "err", err)
			return written, err
		}
		if stored {
			written++
		} else {
			i.logger.Debug("entry already indexed, skipping", "recordID", record.Id)
		}
	}

	i.logger.Debug("indexed record batch", "recordCount", len(records), "written", written)
	return written, nil
}

// embeddingText builds the text fed to the embedder for a record.
// Title and excerpt together carry the signal; URL and metadata do not.
func embeddingText(record *core.Record) string {
	if record.BodyExcerpt == "" {
		return record.Title
	}
	return record.Title + "\n" + record.BodyExcerpt
}
