package sentiment

import (
	"github.com/Snaizl101/collab-decision-making/model"
)

// Aggregate computes the sentiment payload from normalized segments.
// Only segments carrying a score participate; an unscored segment is excluded
// from every aggregate rather than counted as 0. With zero scored segments
// all payload fields stay absent, which the renderer shows as "no data".
//
// The timeline keeps the segments' normalized order (ascending start time,
// input order on ties) and is never resampled or smoothed here; smoothing
// belongs to the rendering layer.
func Aggregate(segments []model.Segment) model.SentimentPayload {
	var (
		samples      []model.SentimentSample
		total        float64
		speakerSums  = map[string]float64{}
		speakerCount = map[string]int{}
	)

	for i := range segments {
		seg := &segments[i]
		if seg.SentimentScore == nil {
			continue
		}
		score := *seg.SentimentScore

		samples = append(samples, model.SentimentSample{
			Timestamp: seg.StartTime,
			Score:     score,
			SpeakerID: seg.SpeakerID,
			Text:      seg.Text,
		})
		total += score
		speakerSums[seg.SpeakerID] += score
		speakerCount[seg.SpeakerID]++
	}

	if len(samples) == 0 {
		return model.SentimentPayload{}
	}

	overall := total / float64(len(samples))

	speakerSentiments := make(map[string]float64, len(speakerSums))
	for speaker, sum := range speakerSums {
		speakerSentiments[speaker] = sum / float64(speakerCount[speaker])
	}

	return model.SentimentPayload{
		Overall:           &overall,
		Timeline:          samples,
		SpeakerSentiments: speakerSentiments,
	}
}
