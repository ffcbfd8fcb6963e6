package model

// SentimentSample is one scored point on the discussion's sentiment timeline.
// Samples are derived per segment (timestamp = segment start) and recomputed
// whenever segments or annotations change, never mutated in place.
type SentimentSample struct {
	Timestamp float64 `json:"timestamp"`
	Score     float64 `json:"sentiment_score"`
	SpeakerID string  `json:"speaker_id"`
	Text      string  `json:"text"`
}

// SentimentPayload is the sentiment view exposed to the report renderer.
// Each sub-field is independently absent when no data exists; the renderer
// treats absence distinctly from a present empty structure, so none of the
// fields is ever filled with a zero placeholder.
type SentimentPayload struct {
	Overall           *float64           `json:"overall_sentiment,omitempty"`
	Timeline          []SentimentSample  `json:"timeline,omitempty"`
	SpeakerSentiments map[string]float64 `json:"speaker_sentiments,omitempty"`
}

// SentimentBand is the interpretation band for a score, computed on read and
// never stored.
type SentimentBand string

const (
	SentimentNegative SentimentBand = "Negative"
	SentimentNeutral  SentimentBand = "Neutral"
	SentimentPositive SentimentBand = "Positive"
)

// ClassifySentiment maps a score in [-1,1] to its band. Boundary values are
// inclusive toward the outer bands: exactly -0.3 is Negative, exactly 0.3 is
// Positive.
func ClassifySentiment(score float64) SentimentBand {
	switch {
	case score <= -0.3:
		return SentimentNegative
	case score >= 0.3:
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}
