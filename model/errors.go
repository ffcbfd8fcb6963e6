package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Structural errors abort the whole recording's ingestion; nothing is
// persisted and the caller retries after upstream correction. Dangling
// references are the exception: they are recovered by pruning and surfaced as
// warnings instead.

// ValidationError reports a malformed segment (bad timing or out-of-range
// values) by its position in the raw input.
type ValidationError struct {
	RecordingRID uuid.UUID
	SegmentIndex int
	Reason       string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("recording %s: segment %d invalid: %s", e.RecordingRID, e.SegmentIndex, e.Reason)
}

// OverlapError reports two segments of the same speaker overlapping in time.
// Indices refer to positions in the raw input list.
type OverlapError struct {
	RecordingRID uuid.UUID
	SpeakerID    string
	FirstIndex   int
	SecondIndex  int
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("recording %s: speaker %s overlaps itself in segments %d and %d",
		e.RecordingRID, e.SpeakerID, e.FirstIndex, e.SecondIndex)
}

// CycleError reports a parent assignment that would make the argument tree
// cyclic, or a parent outside the argument's recording.
type CycleError struct {
	RecordingRID uuid.UUID
	Ref          string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("recording %s: argument %q: parent link would create a cycle", e.RecordingRID, e.Ref)
}

// TemporalOrderError reports a parent argument timestamped strictly later
// than its child.
type TemporalOrderError struct {
	RecordingRID uuid.UUID
	ChildRef     string
	ParentRef    string
	ChildTime    float64
	ParentTime   float64
}

func (e *TemporalOrderError) Error() string {
	return fmt.Sprintf("recording %s: argument %q at %.2fs has parent %q at later time %.2fs",
		e.RecordingRID, e.ChildRef, e.ChildTime, e.ParentRef, e.ParentTime)
}

// DanglingReferenceError reports an annotation referencing an argument key
// that does not exist in the set. It is recovered, not fatal: the offending
// subtree or point is dropped and ingestion continues.
type DanglingReferenceError struct {
	RecordingRID uuid.UUID
	Kind         string // "argument parent" or "supporting point"
	Ref          string // the referencing annotation
	Target       string // the missing key
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("recording %s: %s %q references unknown argument %q",
		e.RecordingRID, e.Kind, e.Ref, e.Target)
}

// ConflictError reports a re-ingestion of an existing recording identity
// without an explicit replace.
type ConflictError struct {
	RecordingRID uuid.UUID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("recording %s already ingested; pass replace to overwrite", e.RecordingRID)
}
