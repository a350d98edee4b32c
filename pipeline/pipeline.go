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


package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/halcyon/trendwatch/core"
	"github.com/halcyon/trendwatch/source"
	"github.com/halcyon/trendwatch/storage"
	"github.com/panjf2000/ants/v2"
)

// Indexer hands admitted records to the retrieval index after a cycle commits.
type Indexer interface {
	// Index embeds and stores the given records, returning how many new
	// entries were written. Records already indexed are skipped.
	Index(ctx context.Context, records []*core.Record) (int, error)
}

// Pipeline orchestrates one ingestion cycle: concurrent source fetch,
// normalization, classification, scoring, filtering, transactional commit,
// and index handoff.
type Pipeline struct {
	adapters   []source.Adapter
	classifier *Classifier
	filter     *Filter
	store      storage.RecordStore
	indexer    Indexer
	fetchPool  *ants.Pool
	coldStart  time.Duration
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent source fetches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if p.fetchPool != nil {
			p.fetchPool.Release()
		}
		p.fetchPool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		p.logger = logger
		return nil
	}
}

// WithColdStart sets the lookback window used when no checkpoint exists.
// Default is 7 days.
func WithColdStart(lookback time.Duration) Option {
	return func(p *Pipeline) error {
		p.coldStart = lookback
		return nil
	}
}

// NewPipeline creates a pipeline over the given sources and stores.
// The indexer may be nil when retrieval indexing is not wanted.
func NewPipeline(store storage.RecordStore, indexer Indexer, adapters []source.Adapter, classifier *Classifier, filter *Filter, opts ...Option) (*Pipeline, error) {
	if len(adapters) == 0 {
		return nil, ErrNoAdapters
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		adapters:   adapters,
		classifier: classifier,
		filter:     filter,
		store:      store,
		indexer:    indexer,
		fetchPool:  pool,
		coldStart:  7 * 24 * time.Hour,
		logger:     slog.Default().With("component", "pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release frees the fetch pool. The pipeline cannot be used afterwards.
func (p *Pipeline) Release() {
	if p.fetchPool != nil {
		p.fetchPool.Release()
	}
}

// RunCycle executes one full ingestion cycle at the current time.
func (p *Pipeline) RunCycle(ctx context.Context) (*core.CycleSummary, error) {
	return p.runCycle(ctx, time.Now().UTC(), false)
}

// RunForcedCycle executes one cycle with the force-update policy: records
// already in the window or archive are refetched, rescored and overwritten
// wholesale instead of being rejected as cross-run duplicates. Operator
// repair path for records ingested with bad metadata.
func (p *Pipeline) RunForcedCycle(ctx context.Context) (*core.CycleSummary, error) {
	return p.runCycle(ctx, time.Now().UTC(), true)
}

func (p *Pipeline) runCycle(ctx context.Context, now time.Time, force bool) (*core.CycleSummary, error) {
	summary := &core.CycleSummary{
		StartedAt:      now,
		SourceFailures: make(map[string]string),
	}

	since, err := p.sinceTime(ctx, now)
	if err != nil {
		return nil, err
	}

	raws := p.fetchAll(ctx, since, summary)
	summary.Fetched = len(raws)

	// A forced run skips cross-run rejection so existing records are
	// refetched and overwritten; dedupe within the batch still applies.
	seen := map[core.ID]struct{}{}
	if !force {
		seen, err = p.store.SeenIDs(ctx)
		if err != nil {
			return nil, err
		}
	}

	normalized := Normalize(raws, seen, now)
	summary.Duplicates = normalized.Duplicates
	summary.Invalid = normalized.Invalid

	var admitted, archiveOnly []*core.Record
	for i, record := range normalized.Records {
		p.classifier.Classify(record, normalized.Hints[i])

		if !p.filter.PassesPreScore(record) {
			summary.Filtered++
			continue
		}

		record.Score = ScoreRecord(record, now)
		if record.IsBreakingChange {
			summary.BreakingCount++
		}

		if p.filter.PassesThreshold(record) {
			admitted = append(admitted, record)
		} else {
			summary.Filtered++
			archiveOnly = append(archiveOnly, record)
		}
	}

	stats, err := p.store.CommitCycle(ctx, &storage.CycleBatch{
		Admitted:    admitted,
		ArchiveOnly: archiveOnly,
		CycleTime:   now,
		ForceUpdate: force,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	summary.Admitted = len(admitted)
	summary.Archived = stats.Archived

	if p.indexer != nil {
		indexed, err := p.indexer.Index(ctx, admitted)
		if err != nil {
			// The cycle is committed; a re-run re-indexes the missing
			// entries because indexing skips existing IDs.
			return summary, fmt.Errorf("index handoff: %w", err)
		}
		summary.Indexed = indexed
	}

	p.logger.Info("cycle complete",
		"fetched", summary.Fetched,
		"duplicates", summary.Duplicates,
		"invalid", summary.Invalid,
		"filtered", summary.Filtered,
		"admitted", summary.Admitted,
		"archived", summary.Archived,
		"indexed", summary.Indexed,
		"breaking", summary.BreakingCount,
		"source_failures", len(summary.SourceFailures),
	)
	return summary, nil
}

// sinceTime resolves the incremental-fetch boundary from the last checkpoint,
// falling back to the cold-start lookback on first run.
func (p *Pipeline) sinceTime(ctx context.Context, now time.Time) (time.Time, error) {
	checkpoint, err := p.store.LoadCheckpoint(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if checkpoint == nil {
		return now.Add(-p.coldStart), nil
	}
	return checkpoint.LastRunAt, nil
}

// fetchAll fans adapters out on the worker pool, one task per adapter, and
// fans results back in after all complete. Partial failures land in the
// summary's SourceFailures map.
func (p *Pipeline) fetchAll(ctx context.Context, since time.Time, summary *core.CycleSummary) []*source.RawRecord {
	results := make([]source.FetchResult, len(p.adapters))
	var wg sync.WaitGroup

	for i, adapter := range p.adapters {
		wg.Add(1)
		i, adapter := i, adapter
		err := p.fetchPool.Submit(func() {
			defer wg.Done()
			results[i] = adapter.Fetch(ctx, since)
		})
		if err != nil {
			wg.Done()
			results[i] = source.FetchResult{Err: err}
		}
	}
	wg.Wait()

	var raws []*source.RawRecord
	for i, result := range results {
		if result.Err != nil {
			name := p.adapters[i].Name()
			p.logger.Warn("source fetch degraded", "source", name, "err", result.Err)
			summary.SourceFailures[name] = result.Err.Error()
		}
		raws = append(raws, result.Records...)
	}
	return raws
}
