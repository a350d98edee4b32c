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


// Package storage provides the storage abstraction layer for trendwatch.
//
// This package defines repository interfaces that decouple storage
// implementation from the ingestion pipeline and the retrieval engine.
// It allows for different backends (BadgerDB, in-memory, etc.) to be used
// interchangeably.
//
// # Constructor Return Type Pattern
//
// Public constructors in implementation packages follow a "return interface"
// pattern to enforce abstraction:
//
//	store, err := badger.NewRecordStore(backend)  // returns storage.RecordStore
//
// Internal constructors may return concrete types since they are only used
// within the implementation package.
//
// # Architecture
//
//   - RecordStore: rolling window, monthly archive, last-run checkpoint
//   - VectorIndex: embedding entries and nearest-neighbor lookups
//
// The rolling window holds at most one live record per ID. Archive buckets
// are append-only and partitioned by the record's publication month. A cycle
// batch commits atomically: a persistence failure leaves no partial state and
// the batch is retried wholesale on the next invocation.
//
// # Thread Safety
//
// All repository implementations must be thread-safe. Writes are serialized
// by the backend's transaction layer; one ingestion cycle holds the write
// path at a time.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and timeout
// support.
package storage
