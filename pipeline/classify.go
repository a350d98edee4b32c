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
	"slices"
	"strings"

	"github.com/halcyon/trendwatch/core"
)

// CategoryPaper marks academic papers; it is assigned by the source
// adapter and never reclassified.
const CategoryPaper = "paper"

// CategoryOther is the generic tag for records matching no lexicon.
const CategoryOther = "other"

// maxTags caps the number of category tags per record.
const maxTags = 5

// categoryPriority orders lexicon categories; the first matching category
// becomes the record's primary category.
var categoryPriority = []string{"framework", "llm", "rag", "agent", "workflow"}

// breakingKeywords flag deprecation and compatibility-break phrasing.
var breakingKeywords = []string{
	"breaking change",
	"breaking:",
	"breaking -",
	"deprecated",
	"deprecation",
	"removed in",
	"removal of",
	"migration guide",
	"migration required",
	"incompatible",
	"backward incompatible",
	"no longer supported",
}

// Classifier assigns category tags and the breaking-change flag using
// keyword lexicons. It is deterministic and stateless between calls.
type Classifier struct {
	lexicons map[string][]string
}

// NewClassifier builds a classifier from category lexicons.
// Keywords are lowercased once at construction.
func NewClassifier(keywords map[string][]string) *Classifier {
	lexicons := make(map[string][]string, len(keywords))
	for category, words := range keywords {
		lowered := make([]string, len(words))
		for i, word := range words {
			lowered[i] = strings.ToLower(word)
		}
		lexicons[category] = lowered
	}
	return &Classifier{lexicons: lexicons}
}

// Classify sets Categories and IsBreakingChange on the record.
// categoryHint preserves adapter-assigned categories: papers stay papers,
// and a feed's configured category wins over lexicon detection when the
// lexicons find nothing.
func (c *Classifier) Classify(record *core.Record, categoryHint string) {
	text := strings.ToLower(record.Title + " " + record.BodyExcerpt)

	primary := CategoryOther
	if categoryHint == CategoryPaper {
		primary = CategoryPaper
	} else {
		primary = c.detectCategory(text)
		if primary == CategoryOther && categoryHint != "" {
			primary = categoryHint
		}
	}

	record.Categories = c.extractTags(text, primary)
	record.IsBreakingChange = containsAny(text, breakingKeywords)
}

// detectCategory returns the highest-priority category whose lexicon
// matches the text.
func (c *Classifier) detectCategory(text string) string {
	for _, category := range categoryPriority {
		if containsAny(text, c.lexicons[category]) {
			return category
		}
	}
	return CategoryOther
}

// extractTags builds the tag list: primary category first, then at most
// one matched keyword per lexicon group, capped at maxTags.
func (c *Classifier) extractTags(text, primary string) []string {
	tags := []string{primary}

	for _, category := range categoryPriority {
		for _, word := range c.lexicons[category] {
			if strings.Contains(text, word) && !slices.Contains(tags, word) {
				tags = append(tags, word)
				break
			}
		}
	}

	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
