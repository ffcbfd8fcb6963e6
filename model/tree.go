package model

// ArgumentNode is one argument with its attached points and its children
// ordered by timestamp. Trees are reconstructed from flat rows on read.
type ArgumentNode struct {
	Argument *Argument          `json:"argument"`
	Points   []*SupportingPoint `json:"supporting_points,omitempty"`
	Children []*ArgumentNode    `json:"children,omitempty"`
}

// ThreadTree is one thread's argument forest as exposed to the renderer.
type ThreadTree struct {
	Thread    *Thread         `json:"thread"`
	TopicName string          `json:"topic_name"`
	Roots     []*ArgumentNode `json:"roots,omitempty"`
}

// DiscussionSummary is the complete read view for one recording.
type DiscussionSummary struct {
	Recording *Recording       `json:"recording"`
	Timeline  TopicTimeline    `json:"timeline"`
	Sentiment SentimentPayload `json:"sentiment"`
	Threads   []*ThreadTree    `json:"threads,omitempty"`
}
