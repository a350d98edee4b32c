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

package badger

import (
	"context"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/halcyon/trendwatch/core"
	"github.com/halcyon/trendwatch/storage"
)

// VectorRepository implements storage.VectorIndex for BadgerDB.
// Queries are brute-force scans; the index is sized for a rolling window,
// not a corpus.
type VectorRepository struct {
	backend *Backend
}

var _ storage.VectorIndex = (*VectorRepository)(nil)

// NewVectorIndex creates a vector index on top of an open backend.
func NewVectorIndex(backend *Backend) storage.VectorIndex {
	return &VectorRepository{backend: backend}
}

// UpsertVector stores an embedding entry keyed by record ID.
// Returns false without writing when the entry already exists, so callers
// can skip re-embedding unchanged records.
func (v *VectorRepository) UpsertVector(ctx context.Context, entry *core.EmbeddingEntry) (bool, error) {
	written := false

	err := v.backend.WithTx(func(tx *badger.Txn) error {
		key := makeVectorKey(entry.RecordId)

		_, err := tx.Get(key)
		if err == nil {
			return nil
		}
		if err != badger.ErrKeyNotFound {
			return err
		}

		if err := tx.Set(key, storage.MarshalEmbeddingEntry(entry)); err != nil {
			return err
		}
		written = true
		return tx.Commit()
	}, true)

	return written, err
}

// DeleteVector removes an embedding entry. Missing entries are not an error.
func (v *VectorRepository) DeleteVector(ctx context.Context, id core.ID) error {
	return v.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeVectorKey(id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Nearest returns the k entries most similar to the query vector by cosine
// similarity, descending. Ties are broken by publication time, newest first.
func (v *VectorRepository) Nearest(ctx context.Context, vector []float32, k int) ([]*core.ContextSnippet, error) {
	if k <= 0 {
		return nil, nil
	}

	var snippets []*core.ContextSnippet

	err := v.ForEachEntry(ctx, func(entry *core.EmbeddingEntry) error {
		sim := cosineSimilarity(vector, entry.Vector)
		snippets = append(snippets, &core.ContextSnippet{
			Entry:      entry,
			Similarity: sim,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(snippets, func(a, b *core.ContextSnippet) int {
		if a.Similarity != b.Similarity {
			if a.Similarity > b.Similarity {
				return -1
			}
			return 1
		}
		return b.Entry.PublishedAt.Compare(a.Entry.PublishedAt)
	})

	if len(snippets) > k {
		snippets = snippets[:k]
	}
	return snippets, nil
}

// Count returns the number of stored embedding entries.
func (v *VectorRepository) Count(ctx context.Context) (int, error) {
	count := 0

	err := v.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(vectorPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)

	return count, err
}

// ForEachEntry visits every stored embedding entry in key order.
func (v *VectorRepository) ForEachEntry(ctx context.Context, fn func(entry *core.EmbeddingEntry) error) error {
	return v.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var entry *core.EmbeddingEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalEmbeddingEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(entry); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// Close is a no-op; the backend's lifetime is owned by the caller.
func (v *VectorRepository) Close() error {
	return nil
}

// cosineSimilarity computes dot(a,b) / (|a| * |b|).
// Returns 0 for mismatched lengths or zero-norm vectors.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
