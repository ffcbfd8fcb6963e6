package model

// Topic is a named, optionally time-bounded subject of discussion within a
// recording. Bounds are not guaranteed to be contiguous or non-overlapping;
// the analyzer does not promise a partition of the recording.
type Topic struct {
	ID          int64    `json:"id"`
	RecordingID int64    `json:"recording_id"`
	Name        string   `json:"name"`
	StartTime   *float64 `json:"start_time,omitempty"`
	EndTime     *float64 `json:"end_time,omitempty"`
	Importance  float64  `json:"importance_score"`
}

// Bounded reports whether the topic has both time bounds resolved.
func (t *Topic) Bounded() bool {
	return t.StartTime != nil && t.EndTime != nil
}

// Contains reports whether ts falls within the topic's bounds.
// An unbounded topic never contains a timestamp.
func (t *Topic) Contains(ts float64) bool {
	return t.Bounded() && ts >= *t.StartTime && ts <= *t.EndTime
}
