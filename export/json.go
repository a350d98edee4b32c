package export

import (
	"context"
	"encoding/json"
	"time"

	"github.com/halcyon/trendwatch/core"
)

// WindowPayload is the stable JSON shape of the current rolling window.
// Field names are part of the contract; downstream consumers parse them.
type WindowPayload struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Total       int           `json:"total"`
	Items       []RecordEntry `json:"items"`
}

// RecordEntry is one window record in the JSON payload.
type RecordEntry struct {
	Id               uint64    `json:"id"`
	Title            string    `json:"title"`
	URL              string    `json:"url"`
	SourceName       string    `json:"source"`
	SourceType       string    `json:"source_type"`
	PublishedAt      time.Time `json:"published_at"`
	PopularitySignal int64     `json:"popularity"`
	Categories       []string  `json:"categories"`
	IsBreakingChange bool      `json:"is_breaking_change"`
	Score            float64   `json:"score"`
	FetchedAt        time.Time `json:"fetched_at"`
}

// JSON renders the current window as an indented JSON payload, records in
// score-descending order.
func (e *Exporter) JSON(ctx context.Context) ([]byte, error) {
	records, err := e.store.Window(ctx)
	if err != nil {
		e.logger.Error("error reading window for export", "err", err)
		return nil, err
	}

	payload := WindowPayload{
		GeneratedAt: e.now().UTC(),
		Total:       len(records),
		Items:       make([]RecordEntry, 0, len(records)),
	}
	for _, record := range records {
		payload.Items = append(payload.Items, toRecordEntry(record))
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}

	e.logger.Debug("rendered JSON export", "recordCount", len(records))
	return data, nil
}

func toRecordEntry(record *core.Record) RecordEntry {
	return RecordEntry{
		Id:               uint64(record.Id),
		Title:            record.Title,
		URL:              record.URL,
		SourceName:       record.SourceName,
		SourceType:       record.SourceType.String(),
		PublishedAt:      record.PublishedAt.UTC(),
		PopularitySignal: record.PopularitySignal,
		Categories:       record.Categories,
		IsBreakingChange: record.IsBreakingChange,
		Score:            record.Score,
		FetchedAt:        record.FetchedAt.UTC(),
	}
}
