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


package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/halcyon/trendwatch/core"
	"github.com/halcyon/trendwatch/storage"
)

// summaryLimit bounds the excerpt carried into the markdown context.
const summaryLimit = 200

// categoryOrder fixes the section order of the markdown export.
// Breaking changes are pulled out ahead of all sections.
var categoryOrder = []string{
	"framework",
	"llm",
	"rag",
	"agent",
	"workflow",
	"paper",
	"other",
}

// categoryHeadings maps category keys to their section headings.
var categoryHeadings = map[string]string{
	"framework": "Framework Updates",
	"llm":       "LLM News",
	"rag":       "RAG Techniques",
	"agent":     "AI Agents",
	"workflow":  "Workflows",
	"paper":     "Papers with Code",
	"other":     "Other",
}

// Exporter renders the current rolling window for downstream consumers:
// a structured markdown context for AI tools and a stable JSON payload.
type Exporter struct {
	store  storage.RecordStore
	now    func() time.Time
	logger *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter) error

// WithClock sets the time source used for the generated-at stamp.
// Default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) error {
		if now != nil {
			e.now = now
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewExporter creates a new exporter over the given record store.
func NewExporter(store storage.RecordStore, opts ...Option) (*Exporter, error) {
	if store == nil {
		return nil, ErrRecordStoreRequired
	}

	e := &Exporter{
		store:  store,
		now:    time.Now,
		logger: slog.Default().With("component", "exporter"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Markdown renders the current window as a structured markdown document.
// Breaking changes lead the document; the rest is grouped by primary
// category in a fixed section order. Within a section records keep the
// window's score-descending order.
func (e *Exporter) Markdown(ctx context.Context) (string, error) {
	records, err := e.store.Window(ctx)
	if err != nil {
		e.logger.Error("error reading window for export", "err", err)
		return "", err
	}

	var b strings.Builder
	b.WriteString("# AI Ecosystem Signal Context\n")
	fmt.Fprintf(&b, "Generated: %s\n", e.now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Records: %d (filtered and scored)\n", len(records))
	b.WriteString("\n---\n\n")

	breaking := make([]*core.Record, 0)
	rest := make([]*core.Record, 0, len(records))
	for _, record := range records {
		if record.IsBreakingChange {
			breaking = append(breaking, record)
		} else {
			rest = append(rest, record)
		}
	}

	if len(breaking) > 0 {
		b.WriteString("## Breaking Changes (immediate attention)\n\n")
		for n, record := range breaking {
			writeMarkdownEntry(&b, n+1, record)
		}
		b.WriteString("\n")
	}

	for _, category := range categoryOrder {
		section := make([]*core.Record, 0)
		for _, record := range rest {
			if primaryCategory(record) == category {
				section = append(section, record)
			}
		}
		if len(section) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", categoryHeadings[category])
		for n, record := range section {
			writeMarkdownEntry(&b, n+1, record)
		}
		b.WriteString("\n")
	}

	e.logger.Debug("rendered markdown export", "recordCount", len(records), "breaking", len(breaking))
	return b.String(), nil
}

// writeMarkdownEntry renders one record as a numbered list entry.
func writeMarkdownEntry(b *strings.Builder, idx int, record *core.Record) {
	mark := ""
	if record.IsBreakingChange {
		mark = " ⚠️ Breaking Change"
	}
	fmt.Fprintf(b, "%d. **[%s]**%s - %s (score: %.1f)\n", idx, record.Title, mark, record.SourceName, record.Score)
	fmt.Fprintf(b, "   - Link: %s\n", record.URL)
	fmt.Fprintf(b, "   - Published: %s\n", record.PublishedAt.UTC().Format("2006-01-02"))
	fmt.Fprintf(b, "   - Summary: %s\n", summarize(record.BodyExcerpt))
	b.WriteString("\n")
}

// summarize flattens and truncates an excerpt for single-line display.
func summarize(excerpt string) string {
	if excerpt == "" {
		return "(no summary)"
	}
	flat := strings.Join(strings.Fields(excerpt), " ")
	if runes := []rune(flat); len(runes) > summaryLimit {
		flat = string(runes[:summaryLimit])
	}
	return flat
}

// primaryCategory returns the record's leading category, or "other" when
// classification produced none.
func primaryCategory(record *core.Record) string {
	if len(record.Categories) == 0 {
		return "other"
	}
	return record.Categories[0]
}
