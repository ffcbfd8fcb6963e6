package model

import (
	"time"

	"github.com/google/uuid"
)

// The annotation types mirror the JSON the external analysis model produces.
// The engine validates and links them; it never computes scores or text.

// TopicAnnotation proposes a topic, optionally with time bounds and an
// importance score.
type TopicAnnotation struct {
	Name       string   `json:"topic_name"`
	StartTime  *float64 `json:"start_time,omitempty"`
	EndTime    *float64 `json:"end_time,omitempty"`
	Importance *float64 `json:"importance_score,omitempty"`
}

// ArgumentAnnotation is one extracted argument. Ref is the analyzer's stable
// key for the argument; ParentRef links it to another annotation in the same
// set by that key.
type ArgumentAnnotation struct {
	Ref              string                      `json:"ref"`
	SpeakerID        string                      `json:"speaker_id"`
	Timestamp        float64                     `json:"timestamp"`
	MainClaim        string                      `json:"main_claim"`
	Type             ArgumentType                `json:"argument_type"`
	ParentRef        *string                     `json:"parent_ref,omitempty"`
	Confidence       *float64                    `json:"confidence_score,omitempty"`
	SupportingPoints []SupportingPointAnnotation `json:"supporting_points,omitempty"`
}

// SupportingPointAnnotation attaches evidence text to an argument. When it
// appears nested inside an ArgumentAnnotation, ArgumentRef is empty; when it
// appears standalone it must name its argument by ref.
type SupportingPointAnnotation struct {
	ArgumentRef string   `json:"argument_ref,omitempty"`
	Text        string   `json:"text"`
	Evidence    *string  `json:"evidence,omitempty"`
	Confidence  *float64 `json:"confidence_score,omitempty"`
}

// SentimentAnnotation scores one segment, addressed by its position in the
// raw segment list. Scores are in [-1,1]; a segment without an annotation is
// excluded from aggregates rather than treated as 0.
type SentimentAnnotation struct {
	SegmentIndex int     `json:"segment_index"`
	Score        float64 `json:"sentiment_score"`
}

// AnnotationSet bundles everything the analyzer produced for one recording.
type AnnotationSet struct {
	Topics           []TopicAnnotation           `json:"topics,omitempty"`
	Arguments        []ArgumentAnnotation        `json:"arguments,omitempty"`
	SupportingPoints []SupportingPointAnnotation `json:"supporting_points,omitempty"`
	Sentiments       []SentimentAnnotation       `json:"sentiments,omitempty"`
}

// RecordingInfo identifies and describes the recording being ingested.
type RecordingInfo struct {
	RID        uuid.UUID `json:"rid"`
	SourcePath string    `json:"source_path"`
	Duration   float64   `json:"duration"`
	Format     string    `json:"format"`
	RecordedAt time.Time `json:"recorded_at"`
}

// IngestInput is the complete input for one recording's ingestion pass.
type IngestInput struct {
	Recording   RecordingInfo `json:"recording"`
	Segments    []Segment     `json:"segments"`
	Annotations AnnotationSet `json:"annotations"`
}
