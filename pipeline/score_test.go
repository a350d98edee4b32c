package pipeline

import (
	"testing"
	"time"

	"github.com/halcyon/trendwatch/core"
	"github.com/stretchr/testify/assert"
)

func scoredRecord(sourceType core.SourceType, category string, popularity int64, age time.Duration, breaking bool) *core.Record {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	return &core.Record{
		SourceType:       sourceType,
		Categories:       []string{category},
		PopularitySignal: popularity,
		PublishedAt:      now.Add(-age),
		IsBreakingChange: breaking,
	}
}

var scoreNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func TestScoreRecord_Components(t *testing.T) {
	// blog 30 + llm 25 + default popularity 10 + fresh 20
	record := scoredRecord(core.SourceTypeBlog, "llm", core.PopularityAbsent, 12*time.Hour, false)
	assert.Equal(t, 85.0, ScoreRecord(record, scoreNow))

	// forum 18 + other 8 + 250/500*25=12.5 + 3d 10
	record = scoredRecord(core.SourceTypeForum, "other", 250, 3*24*time.Hour, false)
	assert.Equal(t, 48.5, ScoreRecord(record, scoreNow))

	// paper 22 + paper 20 + no signal 0 + 40d 2
	record = scoredRecord(core.SourceTypePaper, "paper", core.PopularityAbsent, 40*24*time.Hour, false)
	assert.Equal(t, 44.0, ScoreRecord(record, scoreNow))

	// release 25 + framework 22 + 80k stars 20 + 36h 15
	record = scoredRecord(core.SourceTypeRelease, "framework", 80000, 36*time.Hour, false)
	assert.Equal(t, 82.0, ScoreRecord(record, scoreNow))

	// release without star data gets the flat middle popularity:
	// release 25 + framework 22 + 10 + fresh 20 = 77
	record = scoredRecord(core.SourceTypeRelease, "framework", core.PopularityAbsent, 12*time.Hour, false)
	assert.Equal(t, 77.0, ScoreRecord(record, scoreNow))

	// same release flagged breaking gains the 15 bonus
	record = scoredRecord(core.SourceTypeRelease, "framework", core.PopularityAbsent, 12*time.Hour, true)
	assert.Equal(t, 92.0, ScoreRecord(record, scoreNow))
}

func TestScoreRecord_ClampedAt100(t *testing.T) {
	// forum 18 + llm 25 + maxed popularity 25 + fresh 20 + breaking 15 = 103
	record := scoredRecord(core.SourceTypeForum, "llm", 5000, time.Hour, true)
	assert.Equal(t, 100.0, ScoreRecord(record, scoreNow))
}

func TestScoreRecord_PopularityCaps(t *testing.T) {
	high := scoredRecord(core.SourceTypeForum, "other", 10000, time.Hour, false)
	capped := scoredRecord(core.SourceTypeForum, "other", 500, time.Hour, false)
	assert.Equal(t, ScoreRecord(capped, scoreNow), ScoreRecord(high, scoreNow))
}

func TestScoreRecord_RecencyTiers(t *testing.T) {
	ages := map[time.Duration]float64{
		12 * time.Hour:       20,
		36 * time.Hour:       15,
		5 * 24 * time.Hour:   10,
		20 * 24 * time.Hour:  5,
		100 * 24 * time.Hour: 2,
	}
	for age, want := range ages {
		assert.Equal(t, want, recencyScore(scoreNow.Add(-age), scoreNow), age.String())
	}
}

func TestScoreRecord_DeterministicForFixedNow(t *testing.T) {
	record := scoredRecord(core.SourceTypeBlog, "rag", core.PopularityAbsent, 6*time.Hour, false)
	first := ScoreRecord(record, scoreNow)
	second := ScoreRecord(record, scoreNow)
	assert.Equal(t, first, second)
}

func TestScoreRecord_UnknownSourceAndCategory(t *testing.T) {
	record := scoredRecord(core.SourceType(0), "mystery", core.PopularityAbsent, 12*time.Hour, false)
	// unknown source 10 + unknown category 8 + default popularity 10 + fresh 20
	assert.Equal(t, 48.0, ScoreRecord(record, scoreNow))
}
