package model

// ArgumentType tags the rhetorical role of an argument.
type ArgumentType string

const (
	ArgumentTypeClaim         ArgumentType = "claim"
	ArgumentTypeRebuttal      ArgumentType = "rebuttal"
	ArgumentTypeQuestion      ArgumentType = "question"
	ArgumentTypeAgreement     ArgumentType = "agreement"
	ArgumentTypeClarification ArgumentType = "clarification"
	ArgumentTypeOther         ArgumentType = "other"
)

// ValidArgumentType reports whether t is part of the fixed vocabulary.
func ValidArgumentType(t ArgumentType) bool {
	switch t {
	case ArgumentTypeClaim, ArgumentTypeRebuttal, ArgumentTypeQuestion,
		ArgumentTypeAgreement, ArgumentTypeClarification, ArgumentTypeOther:
		return true
	}
	return false
}

// Argument is a claim made by a speaker at a point in time. ParentID links it
// into a tree; the parent always belongs to the same recording and carries an
// earlier or equal timestamp, and following parent links always terminates at
// a root.
type Argument struct {
	ID          int64        `json:"id"`
	RecordingID int64        `json:"recording_id"`
	ThreadID    *int64       `json:"thread_id,omitempty"`
	SpeakerID   string       `json:"speaker_id"`
	Timestamp   float64      `json:"timestamp"`
	MainClaim   string       `json:"main_claim"`
	Type        ArgumentType `json:"argument_type"`
	ParentID    *int64       `json:"parent_id,omitempty"`
	Confidence  float64      `json:"confidence_score"`

	// Ref is the analyzer's stable external key for this argument, kept for
	// traceability back to the annotation set.
	Ref string `json:"ref"`
}

// SupportingPoint is evidence or elaboration attached to exactly one
// argument. Points are leaf-only data and are never parented by each other.
type SupportingPoint struct {
	ID         int64   `json:"id"`
	ArgumentID int64   `json:"argument_id"`
	Text       string  `json:"text"`
	Evidence   *string `json:"evidence,omitempty"`
	Confidence float64 `json:"confidence_score"`
}
