package pipeline

import (
	"testing"

	"github.com/halcyon/trendwatch/core"
	"github.com/stretchr/testify/assert"
)

func TestFilter_ForumFloor(t *testing.T) {
	filter := NewFilter(30, 50)

	below := &core.Record{SourceType: core.SourceTypeForum, PopularitySignal: 49}
	at := &core.Record{SourceType: core.SourceTypeForum, PopularitySignal: 50}
	blog := &core.Record{SourceType: core.SourceTypeBlog, PopularitySignal: core.PopularityAbsent}

	assert.False(t, filter.PassesPreScore(below))
	assert.True(t, filter.PassesPreScore(at))

	// The floor only applies to forum posts.
	assert.True(t, filter.PassesPreScore(blog))
}

func TestFilter_ScoreThreshold(t *testing.T) {
	filter := NewFilter(30, 50)

	assert.True(t, filter.PassesThreshold(&core.Record{Score: 30}))
	assert.True(t, filter.PassesThreshold(&core.Record{Score: 77}))
	assert.False(t, filter.PassesThreshold(&core.Record{Score: 29.9}))
}
