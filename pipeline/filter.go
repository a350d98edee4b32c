package pipeline

import "github.com/halcyon/trendwatch/core"

// Filter applies the admission gates around scoring.
//
// The pre-score gate drops forum posts below the community-points floor.
// The post-score gate decides window admission by score threshold;
// sub-threshold records are still archived for completeness.
type Filter struct {
	scoreMin   float64
	forumFloor int64
}

// NewFilter builds a filter with the given thresholds.
func NewFilter(scoreMin float64, forumFloor int) *Filter {
	return &Filter{
		scoreMin:   scoreMin,
		forumFloor: int64(forumFloor),
	}
}

// PassesPreScore reports whether the record survives the gates that apply
// before scoring.
func (f *Filter) PassesPreScore(record *core.Record) bool {
	if record.SourceType == core.SourceTypeForum && record.PopularitySignal < f.forumFloor {
		return false
	}
	return true
}

// PassesThreshold reports whether the record's score admits it into the
// rolling window.
func (f *Filter) PassesThreshold(record *core.Record) bool {
	return record.Score >= f.scoreMin
}
