// Package pipeline implements the ingestion cycle: fetch, normalize,
// classify, score, filter, commit, index.
//
// Source adapters fan out on a worker pool, one task per adapter, with no
// shared mutable state; their results fan in once all complete. The
// processing stages then run single-threaded over the merged stream, and
// the whole batch commits in one storage transaction. Admitted records are
// handed to the retrieval index before the cycle returns.
//
// All stages are deterministic for a fixed evaluation time: scores are
// computed against the cycle's start time and never recomputed for stored
// records.
package pipeline
