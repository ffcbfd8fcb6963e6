package topics

import (
	"sort"
	"strings"

	"github.com/Snaizl101/collab-decision-making/model"
)

// Assemble converts topic annotations into Topic records. Topics are
// informational and never rejected: an annotation with missing bounds gets
// them resolved from the segments its name references, and stays unbounded
// when no span resolves. A missing importance score defaults to 0.
//
// The result is ordered by start time ascending; topics without a resolved
// start sort last, keeping their input order among themselves.
func Assemble(annotations []model.TopicAnnotation, segments []model.Segment) []model.Topic {
	assembled := make([]model.Topic, 0, len(annotations))

	for _, ann := range annotations {
		topic := model.Topic{
			Name:      ann.Name,
			StartTime: ann.StartTime,
			EndTime:   ann.EndTime,
		}
		if ann.Importance != nil {
			topic.Importance = *ann.Importance
		}

		if topic.StartTime == nil || topic.EndTime == nil {
			resolveBounds(&topic, segments)
		}

		assembled = append(assembled, topic)
	}

	sort.SliceStable(assembled, func(i, j int) bool {
		a, b := assembled[i].StartTime, assembled[j].StartTime
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})

	return assembled
}

// resolveBounds fills missing bounds with the min start / max end of the
// segments whose text mentions the topic name. Matching is case-insensitive.
func resolveBounds(topic *model.Topic, segments []model.Segment) {
	name := strings.ToLower(topic.Name)
	if name == "" {
		return
	}

	var start, end float64
	found := false
	for i := range segments {
		if !strings.Contains(strings.ToLower(segments[i].Text), name) {
			continue
		}
		if !found || segments[i].StartTime < start {
			start = segments[i].StartTime
		}
		if !found || segments[i].EndTime > end {
			end = segments[i].EndTime
		}
		found = true
	}
	if !found {
		return
	}

	if topic.StartTime == nil {
		s := start
		topic.StartTime = &s
	}
	if topic.EndTime == nil {
		e := end
		topic.EndTime = &e
	}
}

// Timeline flattens bounded topics into the renderer's parallel arrays.
// Unbounded topics are skipped entirely.
func Timeline(assembled []model.Topic) model.TopicTimeline {
	timeline := model.TopicTimeline{
		Labels: []string{},
		Start:  []float64{},
		End:    []float64{},
	}
	for i := range assembled {
		if !assembled[i].Bounded() {
			continue
		}
		timeline.Labels = append(timeline.Labels, assembled[i].Name)
		timeline.Start = append(timeline.Start, *assembled[i].StartTime)
		timeline.End = append(timeline.End, *assembled[i].EndTime)
	}
	return timeline
}
