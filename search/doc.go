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


// Package search provides semantic retrieval and question answering over
// tracked signal records.
//
// The Indexer embeds accepted records and stores them in the vector index;
// re-indexing an already-stored record is a no-op. The Engine serves two
// operations on top of that index:
//
//   - Query: embed a question and return the top-k entries by cosine
//     similarity, ties broken by publication recency.
//   - Answer: retrieve the top-k context, assemble a character-budgeted
//     prompt, and ask the generator for an answer grounded in it.
//
// Both stages fail with typed errors (RetrievalError, GenerationError) so
// callers can tell which suspend point broke.
package search
