package normalize

import (
	"fmt"
	"sort"

	"github.com/Snaizl101/collab-decision-making/model"
	"github.com/google/uuid"
)

// Segments validates and orders the raw segment list for one recording.
// The result is sorted ascending by start time (stable on ties, so equal
// starts keep their input order) and is always a permutation of the input.
//
// A segment with end <= start, or with times outside [0, duration] when the
// duration is known, fails with a model.ValidationError. Two segments of the
// same speaker overlapping in time fail with a model.OverlapError naming both
// input positions; overlap across speakers is cross-talk and allowed.
//
// The function is pure: the input slice is not modified.
func Segments(rid uuid.UUID, duration float64, segments []model.Segment) ([]model.Segment, error) {
	normalized := make([]model.Segment, len(segments))
	copy(normalized, segments)

	for i := range normalized {
		normalized[i].SourceIndex = i

		if err := validate(rid, duration, i, &normalized[i]); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].StartTime < normalized[j].StartTime
	})

	// After sorting, a same-speaker overlap shows up as a segment starting
	// before the speaker's previous segment ended.
	lastBySpeaker := map[string]*model.Segment{}
	for i := range normalized {
		seg := &normalized[i]
		if last, ok := lastBySpeaker[seg.SpeakerID]; ok && seg.StartTime < last.EndTime {
			return nil, &model.OverlapError{
				RecordingRID: rid,
				SpeakerID:    seg.SpeakerID,
				FirstIndex:   last.SourceIndex,
				SecondIndex:  seg.SourceIndex,
			}
		}
		lastBySpeaker[seg.SpeakerID] = seg
	}

	return normalized, nil
}

func validate(rid uuid.UUID, duration float64, index int, seg *model.Segment) error {
	if seg.EndTime <= seg.StartTime {
		return &model.ValidationError{
			RecordingRID: rid,
			SegmentIndex: index,
			Reason:       fmt.Sprintf("end time %.3f is not after start time %.3f", seg.EndTime, seg.StartTime),
		}
	}
	if seg.StartTime < 0 {
		return &model.ValidationError{
			RecordingRID: rid,
			SegmentIndex: index,
			Reason:       fmt.Sprintf("start time %.3f is negative", seg.StartTime),
		}
	}
	if duration > 0 && seg.EndTime > duration {
		return &model.ValidationError{
			RecordingRID: rid,
			SegmentIndex: index,
			Reason:       fmt.Sprintf("end time %.3f exceeds recording duration %.3f", seg.EndTime, duration),
		}
	}
	if seg.Confidence != nil && (*seg.Confidence < 0 || *seg.Confidence > 1) {
		return &model.ValidationError{
			RecordingRID: rid,
			SegmentIndex: index,
			Reason:       fmt.Sprintf("confidence %.3f outside [0,1]", *seg.Confidence),
		}
	}
	return nil
}
