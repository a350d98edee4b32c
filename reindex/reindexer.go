// Copyright 2025 Halcyon Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/halcyon/trendwatch/ai"
	"github.com/halcyon/trendwatch/core"
	"github.com/halcyon/trendwatch/storage"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of entries re-embedded per batch
	BatchSize int

	// ReportInterval is how often to report progress (number of entries)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per embedding call
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer re-embeds every entry in the vector index with the current
// embedder. Used after switching embedding models, when stored vectors no
// longer live in the same space as fresh query embeddings.
type Reindexer struct {
	index     storage.VectorIndex
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *batchProcessor
	iterator  *entryIterator
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(index storage.VectorIndex, embedder ai.Embedder, config *Config, progress io.Writer) (*Reindexer, error) {
	if index == nil {
		return nil, ErrVectorIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reindexer{
		index:     index,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: newBatchProcessor(index, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  newEntryIterator(index, config.BatchSize),
	}, nil
}

// Run executes the reindexing operation over the whole index.
// Progress is reported to the configured writer.
func (r *Reindexer) Run(ctx context.Context) error {
	total, err := r.index.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count index entries: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "Index is empty, nothing to reindex\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Reindexing %d entries (batch size: %d)\n", total, r.config.BatchSize)
	tracker := newProgressTracker(r.progress, total, r.config.ReportInterval)

	processed := 0
	err = r.iterator.ForEach(ctx, func(entries []*core.EmbeddingEntry) error {
		if err := r.processor.Process(ctx, entries); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(entries)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()
	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindexing complete. Processed %d entries in %v (%.1f entries/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
