package normalize

import (
	"errors"
	"testing"

	"github.com/Snaizl101/collab-decision-making/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seg(speaker string, start, end float64, text string) model.Segment {
	return model.Segment{SpeakerID: speaker, StartTime: start, EndTime: end, Text: text}
}

func TestSegments(t *testing.T) {
	rid := uuid.New()

	t.Run("Sorts unordered segments by start time", func(t *testing.T) {
		input := []model.Segment{
			seg("B", 10, 12, "later"),
			seg("A", 0, 5, "first"),
			seg("A", 6, 9, "middle"),
		}

		normalized, err := Segments(rid, 0, input)
		require.NoError(t, err)
		require.Len(t, normalized, 3)

		assert.Equal(t, "first", normalized[0].Text)
		assert.Equal(t, "middle", normalized[1].Text)
		assert.Equal(t, "later", normalized[2].Text)
		assert.Equal(t, 1, normalized[0].SourceIndex, "Expected source index to track input position")
	})

	t.Run("Stable on equal start times", func(t *testing.T) {
		input := []model.Segment{
			seg("A", 3, 4, "first at 3"),
			seg("B", 3, 5, "second at 3"),
		}

		normalized, err := Segments(rid, 0, input)
		require.NoError(t, err)

		assert.Equal(t, "first at 3", normalized[0].Text)
		assert.Equal(t, "second at 3", normalized[1].Text)
	})

	t.Run("Output is a permutation of the input", func(t *testing.T) {
		input := []model.Segment{
			seg("A", 7, 8, "c"),
			seg("B", 1, 2, "a"),
			seg("A", 4, 5, "b"),
		}

		normalized, err := Segments(rid, 0, input)
		require.NoError(t, err)
		require.Len(t, normalized, len(input))

		seen := map[int]bool{}
		for _, s := range normalized {
			seen[s.SourceIndex] = true
		}
		assert.Len(t, seen, len(input), "Expected every input segment exactly once")
	})

	t.Run("Does not modify the input slice", func(t *testing.T) {
		input := []model.Segment{
			seg("B", 10, 12, "later"),
			seg("A", 0, 5, "first"),
		}

		_, err := Segments(rid, 0, input)
		require.NoError(t, err)

		assert.Equal(t, "later", input[0].Text, "Expected input order untouched")
	})

	t.Run("Rejects end before start", func(t *testing.T) {
		input := []model.Segment{seg("A", 5, 5, "zero length")}

		_, err := Segments(rid, 0, input)

		var validationErr *model.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, 0, validationErr.SegmentIndex)
		assert.Equal(t, rid, validationErr.RecordingRID)
	})

	t.Run("Rejects negative start time", func(t *testing.T) {
		input := []model.Segment{seg("A", -1, 2, "negative")}

		var validationErr *model.ValidationError
		_, err := Segments(rid, 0, input)
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("Rejects end beyond known duration", func(t *testing.T) {
		input := []model.Segment{seg("A", 0, 61, "too long")}

		var validationErr *model.ValidationError
		_, err := Segments(rid, 60, input)
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("Accepts end beyond duration when duration unknown", func(t *testing.T) {
		input := []model.Segment{seg("A", 0, 61, "fine")}

		_, err := Segments(rid, 0, input)
		assert.NoError(t, err)
	})

	t.Run("Rejects confidence outside unit interval", func(t *testing.T) {
		confidence := 1.2
		input := []model.Segment{{SpeakerID: "A", StartTime: 0, EndTime: 1, Confidence: &confidence}}

		var validationErr *model.ValidationError
		_, err := Segments(rid, 0, input)
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("Same-speaker overlap fails with both indices", func(t *testing.T) {
		input := []model.Segment{
			seg("A", 0, 5, "x"),
			seg("B", 2, 3, "cross talk is fine"),
			seg("A", 4, 9, "y"),
		}

		_, err := Segments(rid, 0, input)

		var overlapErr *model.OverlapError
		require.ErrorAs(t, err, &overlapErr)
		assert.Equal(t, "A", overlapErr.SpeakerID)
		assert.Equal(t, 0, overlapErr.FirstIndex)
		assert.Equal(t, 2, overlapErr.SecondIndex)
	})

	t.Run("Cross-speaker overlap is allowed", func(t *testing.T) {
		input := []model.Segment{
			seg("A", 0, 5, "x"),
			seg("B", 4, 9, "y"),
		}

		_, err := Segments(rid, 0, input)
		assert.NoError(t, err)
	})

	t.Run("Touching same-speaker segments are not an overlap", func(t *testing.T) {
		input := []model.Segment{
			seg("A", 0, 5, "x"),
			seg("A", 5, 9, "y"),
		}

		_, err := Segments(rid, 0, input)
		assert.NoError(t, err)

		var overlapErr *model.OverlapError
		assert.False(t, errors.As(err, &overlapErr))
	})
}
