package pipeline

import (
	"time"

	"github.com/halcyon/trendwatch/core"
	"github.com/halcyon/trendwatch/source"
)

// NormalizeResult carries the survivors of normalization plus counts of
// what was dropped and why. Hints is aligned with Records and carries each
// record's adapter-assigned category hint through to classification.
type NormalizeResult struct {
	Records    []*core.Record
	Hints      []string
	Duplicates int
	Invalid    int
}

// Normalize converts raw records into identified domain records.
//
// Each raw record gets a canonical URL and a content-derived ID. Records
// whose ID already appeared earlier in the batch (first wins) or is present
// in seen are counted as duplicates. Records failing validation (empty
// title, unparsable URL, publication time beyond one hour in the future)
// are counted as invalid. Both kinds are dropped.
func Normalize(raws []*source.RawRecord, seen map[core.ID]struct{}, now time.Time) *NormalizeResult {
	result := &NormalizeResult{}
	batch := make(map[core.ID]struct{})

	for _, raw := range raws {
		canonical, err := core.CanonicalURL(raw.URL)
		if err != nil {
			result.Invalid++
			continue
		}
		if raw.Title == "" || !core.IsValidPublicationTime(raw.PublishedAt, now) {
			result.Invalid++
			continue
		}

		id := core.IDFromContent(canonical)
		if _, ok := batch[id]; ok {
			result.Duplicates++
			continue
		}
		if _, ok := seen[id]; ok {
			result.Duplicates++
			continue
		}
		batch[id] = struct{}{}

		result.Records = append(result.Records, &core.Record{
			Id:               id,
			SourceType:       raw.SourceType,
			SourceName:       raw.SourceName,
			Title:            raw.Title,
			BodyExcerpt:      raw.BodyExcerpt,
			URL:              canonical,
			PublishedAt:      raw.PublishedAt.UTC(),
			PopularitySignal: raw.PopularitySignal,
			FetchedAt:        now.UTC(),
		})
		result.Hints = append(result.Hints, raw.CategoryHint)
	}

	return result
}
