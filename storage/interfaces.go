package storage

import (
	"context"
	"time"

	"github.com/halcyon/trendwatch/core"
)

// CycleBatch is the unit of persistence for one ingestion cycle.
// The whole batch commits atomically or not at all; a failed commit leaves
// the previous window, archive and checkpoint untouched so the cycle can be
// retried wholesale.
type CycleBatch struct {
	// Admitted records enter the rolling window and the archive.
	Admitted []*core.Record
	// ArchiveOnly records are archived for completeness but kept out of the
	// window (archive-always policy for sub-threshold records).
	ArchiveOnly []*core.Record
	// CycleTime is the cycle-start timestamp. It prunes the window and is
	// persisted as the last-run checkpoint.
	CycleTime time.Time
	// ForceUpdate overwrites existing window records wholesale instead of
	// preserving their historical score.
	ForceUpdate bool
}

// CommitStats reports what a committed cycle batch changed.
type CommitStats struct {
	Upserted int
	Archived int
	Pruned   int
}

// RecordStore owns the rolling window and the monthly archive.
// Implementations must serialize all writes; one cycle holds the write path.
type RecordStore interface {
	// CommitCycle atomically upserts admitted records into the rolling
	// window, appends all batch records to their monthly archive buckets,
	// prunes window records older than the retention period relative to
	// CycleTime, and saves the last-run checkpoint.
	CommitCycle(ctx context.Context, batch *CycleBatch) (*CommitStats, error)

	// Window returns all live records ordered by score descending.
	Window(ctx context.Context) ([]*core.Record, error)

	// GetRecord retrieves a single window record by ID.
	// Returns ErrNotFound if the record is not in the window.
	GetRecord(ctx context.Context, id core.ID) (*core.Record, error)

	// SeenIDs returns every record ID present in the window or the archive.
	// Used for cross-run deduplication.
	SeenIDs(ctx context.Context) (map[core.ID]struct{}, error)

	// ArchivedMonth returns the append-only archive bucket for a YYYY-MM key.
	ArchivedMonth(ctx context.Context, month string) ([]*core.Record, error)

	// LoadCheckpoint retrieves the last-run checkpoint.
	// Returns nil, nil when no cycle has committed yet (cold start).
	LoadCheckpoint(ctx context.Context) (*core.Checkpoint, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// VectorIndex stores embedding entries and serves nearest-neighbor lookups.
type VectorIndex interface {
	// UpsertVector stores an embedding entry. Returns false when an entry
	// for the same record ID already exists; existing entries are never
	// mutated in place.
	UpsertVector(ctx context.Context, entry *core.EmbeddingEntry) (bool, error)

	// DeleteVector removes the entry for a record ID, if present.
	// Paired with UpsertVector for the rare delete+reinsert content-change path.
	DeleteVector(ctx context.Context, id core.ID) error

	// Nearest returns up to k entries ranked by cosine similarity to the
	// query vector, descending, with ties broken by PublishedAt descending.
	Nearest(ctx context.Context, vector []float32, k int) ([]*core.ContextSnippet, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// ForEachEntry iterates over all stored entries.
	// Iteration stops on the first error returned by fn.
	ForEachEntry(ctx context.Context, fn func(entry *core.EmbeddingEntry) error) error

	// Close closes the index backend.
	Close() error
}
