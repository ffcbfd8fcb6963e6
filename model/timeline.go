package model

// TopicTimeline is the flat topic view consumed by the report renderer:
// parallel, index-aligned arrays with one entry per topic that has resolved
// bounds. Unbounded topics are informational only and never appear here.
type TopicTimeline struct {
	Labels []string  `json:"labels"`
	Start  []float64 `json:"start"`
	End    []float64 `json:"end"`
}

// Empty reports whether the timeline carries no topics.
func (t *TopicTimeline) Empty() bool {
	return len(t.Labels) == 0
}
