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


package core

import (
	"fmt"
	"time"
)

// Clock skew tolerance for publication timestamps.
const futureTolerance = time.Hour

// ValidateRecord validates a Record according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - URL must not be empty
//   - SourceType must be a known value
//   - PublishedAt must not be more than one hour in the future
//   - Score must be within [0, 100]
//
// NOT validated (populated by pipeline stages):
//   - Categories (empty until the classifier runs)
//   - Score of 0 (valid before the scorer runs)
func ValidateRecord(record *Record) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyTitle)
	}

	if record.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrInvalidURL)
	}

	if err := ValidateSourceType(record.SourceType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	if !IsValidPublicationTime(record.PublishedAt, time.Now().UTC()) {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrFutureTimestamp)
	}

	if record.Score < 0 || record.Score > 100 {
		return fmt.Errorf("%w: %w: %f", ErrInvalidRecord, ErrScoreOutOfRange, record.Score)
	}

	return nil
}

// ValidateSourceType validates that a SourceType has a known value.
func ValidateSourceType(sourceType SourceType) error {
	switch sourceType {
	case SourceTypeRelease, SourceTypeBlog, SourceTypeForum, SourceTypePaper:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidSourceType, sourceType)
	}
}

// IsValidPublicationTime checks that a publication timestamp is not in the
// future relative to now, allowing one hour of upstream clock skew.
func IsValidPublicationTime(published, now time.Time) bool {
	return !published.After(now.Add(futureTolerance))
}
