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


package search

import (
	"errors"
	"fmt"
)

var (
	// ErrVectorIndexRequired is returned when a vector index is not provided.
	ErrVectorIndexRequired = errors.New("vector index required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrIndexEmpty is returned when a query runs against an index with no
	// entries. Callers usually want to run an ingestion cycle first.
	ErrIndexEmpty = errors.New("retrieval index is empty")

	// ErrEmptyQuestion is returned when a query or answer request carries
	// no question text.
	ErrEmptyQuestion = errors.New("question must not be empty")
)

// RetrievalError reports a failure during the retrieval stage of a query:
// embedding the question or searching the index.
type RetrievalError struct {
	Question string
	Err      error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed for %q: %v", e.Question, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// GenerationError reports a failure during the generation stage of an answer.
// The underlying model error is preserved verbatim; no fallback answer is
// ever synthesized in its place.
type GenerationError struct {
	Question string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for %q: %v", e.Question, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
