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
	"math"
	"time"

	"github.com/halcyon/trendwatch/core"
)

// Score components: source authority (max 30) + category value (max 25) +
// community popularity (max 25) + recency (max 20), plus a flat
// breaking-change bonus, clamped to 100.
const breakingBonus = 15.0

// sourceWeights rank upstream authority.
var sourceWeights = map[core.SourceType]float64{
	core.SourceTypeBlog:    30,
	core.SourceTypeRelease: 25,
	core.SourceTypePaper:   22,
	core.SourceTypeForum:   18,
}

const defaultSourceWeight = 10.0

// categoryWeights rank content value by primary category.
var categoryWeights = map[string]float64{
	"llm":       25,
	"framework": 22,
	"paper":     20,
	"rag":       18,
	"agent":     18,
	"workflow":  15,
}

const defaultCategoryWeight = 8.0

// ScoreRecord computes the composite score for a record at a fixed
// evaluation time. The score is deterministic for a given now and is
// written once; later cycles never rescore a stored record.
func ScoreRecord(record *core.Record, now time.Time) float64 {
	score := sourceWeight(record.SourceType)
	score += categoryWeight(record.Categories)
	if record.IsBreakingChange {
		score += breakingBonus
	}
	score += popularityScore(record)
	score += recencyScore(record.PublishedAt, now)

	score = math.Round(score*10) / 10
	return math.Min(score, 100)
}

func sourceWeight(sourceType core.SourceType) float64 {
	if w, ok := sourceWeights[sourceType]; ok {
		return w
	}
	return defaultSourceWeight
}

func categoryWeight(categories []string) float64 {
	if len(categories) == 0 {
		return defaultCategoryWeight
	}
	if w, ok := categoryWeights[categories[0]]; ok {
		return w
	}
	return defaultCategoryWeight
}

// popularityScore normalizes the community signal to 0-25.
// Sources without a meaningful signal get a flat middle value.
func popularityScore(record *core.Record) float64 {
	signal := float64(record.PopularitySignal)

	switch record.SourceType {
	case core.SourceTypeForum:
		// 500 points = full marks.
		if record.PopularitySignal == core.PopularityAbsent {
			return 0
		}
		return math.Min(signal/500*25, 25)
	case core.SourceTypePaper:
		// 1000 stars = full marks; papers usually carry no signal.
		if record.PopularitySignal == core.PopularityAbsent {
			return 0
		}
		return math.Min(signal/1000*25, 25)
	case core.SourceTypeRelease:
		// 100k stars = full marks.
		if record.PopularitySignal > 0 {
			return math.Min(signal/100000*25, 25)
		}
		return 10
	default:
		return 10
	}
}

// recencyScore rewards fresh publications, 0-20.
func recencyScore(publishedAt, now time.Time) float64 {
	hours := now.Sub(publishedAt).Hours()
	switch {
	case hours <= 24:
		return 20
	case hours <= 48:
		return 15
	case hours <= 7*24:
		return 10
	case hours <= 30*24:
		return 5
	default:
		return 2
	}
}
