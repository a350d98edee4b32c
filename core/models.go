package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is derived deterministically from the record's canonical URL.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces identical IDs, which makes re-ingestion
// of the same record idempotent.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// IDFromURL canonicalizes a URL and derives the record ID from the result.
// Two raw URLs that canonicalize to the same form map to the same ID.
func IDFromURL(rawURL string) (ID, error) {
	canonical, err := CanonicalURL(rawURL)
	if err != nil {
		return 0, err
	}
	return IDFromContent(canonical), nil
}

// SourceType identifies the kind of upstream source a record came from.
type SourceType int

const (
	// SourceTypeRelease represents a software release event (e.g. a GitHub release).
	SourceTypeRelease SourceType = iota + 1
	// SourceTypeBlog represents an official blog or RSS feed entry.
	SourceTypeBlog
	// SourceTypeForum represents a community forum thread (e.g. Hacker News).
	SourceTypeForum
	// SourceTypePaper represents an academic paper feed entry.
	SourceTypePaper
)

// String returns the wire name of the source type.
func (s SourceType) String() string {
	switch s {
	case SourceTypeRelease:
		return "release"
	case SourceTypeBlog:
		return "blog"
	case SourceTypeForum:
		return "forum"
	case SourceTypePaper:
		return "paper"
	default:
		return "unknown"
	}
}

// PopularityAbsent marks a record whose source exposes no native popularity metric.
const PopularityAbsent int64 = -1

// Record is one piece of ingested information after normalization.
// The Id is content-addressed from the canonical URL, so the rolling window
// holds at most one live Record per canonical URL at any time.
type Record struct {
	Id               ID
	SourceType       SourceType
	SourceName       string
	Title            string
	BodyExcerpt      string
	URL              string // canonical form
	PublishedAt      time.Time
	PopularitySignal int64 // source-native metric (stars, points); PopularityAbsent if missing
	Categories       []string
	IsBreakingChange bool
	Score            float64 // 0-100, computed once per ingestion cycle
	FetchedAt        time.Time
}

// ArchiveMonth returns the archive bucket key (YYYY-MM) the record files into.
// Bucketing follows the publication time, never the ingestion time, so a
// late-arriving old record lands in the correct historical bucket.
func (r *Record) ArchiveMonth() string {
	return r.PublishedAt.UTC().Format("2006-01")
}

// EmbeddingEntry is the derived retrieval artifact for an accepted record.
// It carries a snapshot of the record metadata taken at indexing time and is
// never updated in place; a content change is handled as delete+reinsert.
type EmbeddingEntry struct {
	RecordId    ID
	Vector      []float32
	Title       string
	URL         string
	SourceName  string
	SourceType  SourceType
	Categories  []string
	PublishedAt time.Time
	Score       float64
	Excerpt     string
}

// NewEmbeddingEntry snapshots record metadata into an index entry.
func NewEmbeddingEntry(record *Record, vector []float32) *EmbeddingEntry {
	return &EmbeddingEntry{
		RecordId:    record.Id,
		Vector:      vector,
		Title:       record.Title,
		URL:         record.URL,
		SourceName:  record.SourceName,
		SourceType:  record.SourceType,
		Categories:  record.Categories,
		PublishedAt: record.PublishedAt,
		Score:       record.Score,
		Excerpt:     record.BodyExcerpt,
	}
}

// Checkpoint records when the last ingestion cycle committed.
// Its absence triggers a cold start.
type Checkpoint struct {
	LastRunAt time.Time
	UpdatedAt time.Time
}

// ContextSnippet is one ranked retrieval result returned by the query engine.
type ContextSnippet struct {
	Entry      *EmbeddingEntry
	Similarity float32
}

// CycleSummary aggregates the outcome of one ingestion cycle.
// A cycle always produces a summary, even when individual sources failed.
type CycleSummary struct {
	StartedAt      time.Time
	Fetched        int
	Duplicates     int
	Invalid        int
	Filtered       int
	Admitted       int
	Archived       int
	Indexed        int
	BreakingCount  int
	SourceFailures map[string]string // adapter name -> failure message
}
