// Package reindex rebuilds the vector index with the current embedder.
//
// Query embeddings and stored entry embeddings must come from the same
// model; after an embedding model switch the stored vectors are stale.
// The Reindexer walks every index entry in batches, re-embeds the text
// each entry was built from, and swaps the stored vector via delete and
// reinsert. Embedding calls are retried with exponential backoff.
package reindex
