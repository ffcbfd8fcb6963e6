package model

// Segment is one speaker-attributed, timestamped span of transcribed text.
// Segments arrive from the diarization/transcription stage and are validated
// and ordered by the normalizer before anything else runs.
//
// SentimentScore is attached from the analyzer's per-segment annotations; a
// nil score excludes the segment from all sentiment aggregates.
type Segment struct {
	ID          int64    `json:"id"`
	RecordingID int64    `json:"recording_id"`
	SpeakerID   string   `json:"speaker_id"`
	StartTime   float64  `json:"start_time"`
	EndTime     float64  `json:"end_time"`
	Text        string   `json:"text"`
	Confidence  *float64 `json:"confidence,omitempty"`

	SentimentScore *float64 `json:"sentiment_score,omitempty"`

	// SourceIndex is the segment's position in the raw input list. It is the
	// key under which sentiment annotations address segments and the tie
	// breaker for equal start times.
	SourceIndex int `json:"source_index"`
}
