package model

// Thread groups one connected argument tree under a single topic of a
// recording. InitialArgumentID, when set, references a root argument that
// belongs to this thread; it is backfilled with the earliest root if the
// analyzer did not designate one.
type Thread struct {
	ID                int64   `json:"id"`
	RecordingID       int64   `json:"recording_id"`
	TopicID           int64   `json:"topic_id"`
	InitialArgumentID *int64  `json:"initial_argument_id,omitempty"`
	Summary           *string `json:"summary,omitempty"`
}
