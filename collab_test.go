package collab

import (
	"context"
	"errors"
	"log"
	"testing"

	"github.com/Snaizl101/collab-decision-making/helper"
	"github.com/Snaizl101/collab-decision-making/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

var dbPort string

func TestMain(m *testing.M) {
	var teardown func(ctx context.Context, opts ...testcontainers.TerminateOption) error
	var err error
	teardown, dbPort, err = helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("error starting postgres container: %v", err)
	}

	m.Run()

	if teardown != nil && teardown(context.Background()) != nil {
		log.Fatalf("error tearing down postgres container: %v", err)
	}
}

func initEngine(t *testing.T) *Engine {
	helper.SetTestDatabaseConfigEnvs(t, dbPort)
	dbConfig, err := helper.NewDatabaseConfiguration()
	require.NoError(t, err, "failed to create database configuration")

	engine, err := NewEngine(dbConfig)
	require.NoError(t, err, "failed to create engine")

	return engine
}

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func sampleInput(rid uuid.UUID) *model.IngestInput {
	return &model.IngestInput{
		Recording: model.RecordingInfo{
			RID:        rid,
			SourcePath: "meetings/sample.wav",
			Duration:   120,
			Format:     "wav",
		},
		Segments: []model.Segment{
			{SpeakerID: "alice", StartTime: 0, EndTime: 10, Text: "We should ship on Friday."},
			{SpeakerID: "bob", StartTime: 11, EndTime: 20, Text: "QA has not signed off."},
		},
		Annotations: model.AnnotationSet{
			Topics: []model.TopicAnnotation{
				{Name: "release", StartTime: floatPtr(0), EndTime: floatPtr(60), Importance: floatPtr(0.9)},
			},
			Arguments: []model.ArgumentAnnotation{
				{Ref: "a1", SpeakerID: "alice", Timestamp: 5, MainClaim: "Ship on Friday", Type: model.ArgumentTypeClaim},
				{Ref: "a2", SpeakerID: "bob", Timestamp: 15, MainClaim: "QA has not signed off", Type: model.ArgumentTypeRebuttal, ParentRef: strPtr("a1")},
			},
			Sentiments: []model.SentimentAnnotation{
				{SegmentIndex: 0, Score: 0.8},
				{SegmentIndex: 1, Score: -0.6},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	t.Run("Build links segments, topics, sentiment and arguments", func(t *testing.T) {
		rid := uuid.New()
		built, err := Build(sampleInput(rid))
		require.NoError(t, err)

		assert.Len(t, built.Segments, 2)
		require.Len(t, built.Topics, 1)
		assert.Equal(t, "release", built.Topics[0].Name)
		assert.Equal(t, []string{"release"}, built.Timeline.Labels)

		require.NotNil(t, built.Sentiment.Overall)
		assert.InDelta(t, 0.1, *built.Sentiment.Overall, 1e-9, "Expected overall to be the mean of scored segments")
		assert.InDelta(t, 0.8, built.Sentiment.SpeakerSentiments["alice"], 1e-9)
		assert.InDelta(t, -0.6, built.Sentiment.SpeakerSentiments["bob"], 1e-9)

		require.Len(t, built.Forest.Threads, 1)
		thread := built.Forest.Threads[0]
		require.Len(t, thread.Roots, 1, "Expected a single root")
		root := built.Forest.Nodes[thread.Roots[0]]
		assert.Equal(t, "a1", root.Ann.Ref)
		assert.Equal(t, thread.Roots[0], thread.Initial, "Expected initial backfilled with the earliest root")
		require.Len(t, root.Children, 1)
		assert.Equal(t, "a2", built.Forest.Nodes[root.Children[0]].Ann.Ref)
		assert.Empty(t, built.Warnings)
	})

	t.Run("Build attaches sentiment by original segment index", func(t *testing.T) {
		rid := uuid.New()
		input := sampleInput(rid)
		// Reverse the raw order; annotations still address segments by their
		// position in the raw list.
		input.Segments = []model.Segment{
			{SpeakerID: "bob", StartTime: 11, EndTime: 20, Text: "QA has not signed off."},
			{SpeakerID: "alice", StartTime: 0, EndTime: 10, Text: "We should ship on Friday."},
		}
		input.Annotations.Sentiments = []model.SentimentAnnotation{
			{SegmentIndex: 1, Score: 0.8},
		}

		built, err := Build(input)
		require.NoError(t, err)

		require.NotNil(t, built.Segments[0].SentimentScore, "Expected the score on alice's segment, sorted first")
		assert.Equal(t, 0.8, *built.Segments[0].SentimentScore)
		assert.Nil(t, built.Segments[1].SentimentScore)
	})

	t.Run("Build rejects sentiment for unknown segment", func(t *testing.T) {
		rid := uuid.New()
		input := sampleInput(rid)
		input.Annotations.Sentiments = []model.SentimentAnnotation{{SegmentIndex: 99, Score: 0.5}}

		_, err := Build(input)
		var validationErr *model.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, 99, validationErr.SegmentIndex)
	})

	t.Run("Build rejects out-of-range sentiment score", func(t *testing.T) {
		rid := uuid.New()
		input := sampleInput(rid)
		input.Annotations.Sentiments = []model.SentimentAnnotation{{SegmentIndex: 0, Score: 1.5}}

		_, err := Build(input)
		var validationErr *model.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("Build propagates segment validation errors", func(t *testing.T) {
		rid := uuid.New()
		input := sampleInput(rid)
		input.Segments[0].EndTime = input.Segments[0].StartTime

		_, err := Build(input)
		var validationErr *model.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("Build propagates temporal order errors", func(t *testing.T) {
		rid := uuid.New()
		input := sampleInput(rid)
		input.Annotations.Arguments[0].ParentRef = strPtr("a2")
		input.Annotations.Arguments[1].ParentRef = nil

		_, err := Build(input)
		var temporalErr *model.TemporalOrderError
		assert.ErrorAs(t, err, &temporalErr)
	})

	t.Run("Build collects warnings for dangling references", func(t *testing.T) {
		rid := uuid.New()
		input := sampleInput(rid)
		input.Annotations.SupportingPoints = []model.SupportingPointAnnotation{
			{ArgumentRef: "missing", Text: "orphaned point"},
		}

		built, err := Build(input)
		require.NoError(t, err, "Expected a dangling point to be recovered, not fatal")
		require.Len(t, built.Warnings, 1)

		var danglingErr *model.DanglingReferenceError
		assert.ErrorAs(t, built.Warnings[0], &danglingErr)
	})
}

func TestEngineIngestRecording(t *testing.T) {
	engine := initEngine(t)
	defer engine.Close()
	ctx := context.Background()

	t.Run("Ingest and read back the full structure", func(t *testing.T) {
		rid := uuid.New()
		result, err := engine.IngestRecording(ctx, sampleInput(rid), false)
		require.NoError(t, err, "Expected ingestion to succeed")
		defer engine.DeleteRecording(rid)

		assert.NotZero(t, result.Recording.ID)
		assert.Empty(t, result.Warnings)

		timeline, err := engine.TopicTimeline(rid)
		require.NoError(t, err)
		assert.Equal(t, []string{"release"}, timeline.Labels)

		payload, err := engine.Sentiment(rid)
		require.NoError(t, err)
		require.NotNil(t, payload.Overall)
		assert.InDelta(t, 0.1, *payload.Overall, 1e-9)
		assert.Len(t, payload.Timeline, 2)

		trees, err := engine.ArgumentTrees(rid)
		require.NoError(t, err)
		require.Len(t, trees, 1)
		assert.Equal(t, "release", trees[0].TopicName)
		require.Len(t, trees[0].Roots, 1)

		root := trees[0].Roots[0]
		assert.Equal(t, "Ship on Friday", root.Argument.MainClaim)
		require.NotNil(t, trees[0].Thread.InitialArgumentID)
		assert.Equal(t, root.Argument.ID, *trees[0].Thread.InitialArgumentID)
		require.Len(t, root.Children, 1)
		assert.Equal(t, "QA has not signed off", root.Children[0].Argument.MainClaim)
	})

	t.Run("Re-ingestion without replace conflicts", func(t *testing.T) {
		rid := uuid.New()
		_, err := engine.IngestRecording(ctx, sampleInput(rid), false)
		require.NoError(t, err)
		defer engine.DeleteRecording(rid)

		_, err = engine.IngestRecording(ctx, sampleInput(rid), false)
		var conflictErr *model.ConflictError
		require.True(t, errors.As(err, &conflictErr), "Expected a ConflictError")
		assert.Equal(t, rid, conflictErr.RecordingRID)
	})

	t.Run("Re-ingestion with replace swaps the structure", func(t *testing.T) {
		rid := uuid.New()
		_, err := engine.IngestRecording(ctx, sampleInput(rid), false)
		require.NoError(t, err)
		defer engine.DeleteRecording(rid)

		replacement := sampleInput(rid)
		replacement.Annotations.Topics[0].Name = "reworked release"
		_, err = engine.IngestRecording(ctx, replacement, true)
		require.NoError(t, err)

		timeline, err := engine.TopicTimeline(rid)
		require.NoError(t, err)
		assert.Equal(t, []string{"reworked release"}, timeline.Labels)
	})

	t.Run("Failed build persists nothing", func(t *testing.T) {
		rid := uuid.New()
		input := sampleInput(rid)
		input.Segments[0].EndTime = input.Segments[0].StartTime

		_, err := engine.IngestRecording(ctx, input, false)
		require.Error(t, err)

		exists, err := engine.Recordings.RecordingExists(rid)
		require.NoError(t, err)
		assert.False(t, exists, "Expected nothing persisted on build failure")
	})

	t.Run("Dangling subtree is pruned but the rest persists", func(t *testing.T) {
		rid := uuid.New()
		input := sampleInput(rid)
		input.Annotations.Arguments = append(input.Annotations.Arguments, model.ArgumentAnnotation{
			Ref:       "a3",
			SpeakerID: "carol",
			Timestamp: 30,
			MainClaim: "Attached to nothing",
			Type:      model.ArgumentTypeClaim,
			ParentRef: strPtr("missing"),
		})

		result, err := engine.IngestRecording(ctx, input, false)
		require.NoError(t, err, "Expected dangling parent to be recovered")
		defer engine.DeleteRecording(rid)
		require.Len(t, result.Warnings, 1)

		args, err := engine.Arguments.SelectArgumentsByRecording(result.Recording.ID)
		require.NoError(t, err)
		assert.Len(t, args, 2, "Expected the dangling argument to be dropped")
	})

	t.Run("Recording listing pages newest first", func(t *testing.T) {
		first := uuid.New()
		second := uuid.New()
		_, err := engine.IngestRecording(ctx, sampleInput(first), false)
		require.NoError(t, err)
		defer engine.DeleteRecording(first)
		_, err = engine.IngestRecording(ctx, sampleInput(second), false)
		require.NoError(t, err)
		defer engine.DeleteRecording(second)

		recordings, err := engine.ListRecordings(nil, 10)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(recordings), 2)
	})
}

func TestEngineDiscussionSummary(t *testing.T) {
	engine := initEngine(t)
	defer engine.Close()
	ctx := context.Background()

	rid := uuid.New()
	_, err := engine.IngestRecording(ctx, sampleInput(rid), false)
	require.NoError(t, err)
	defer engine.DeleteRecording(rid)

	summary, err := engine.DiscussionSummary(rid)
	require.NoError(t, err)

	assert.Equal(t, rid, summary.Recording.RID)
	assert.Equal(t, []string{"release"}, summary.Timeline.Labels)
	require.NotNil(t, summary.Sentiment.Overall)
	assert.InDelta(t, 0.1, *summary.Sentiment.Overall, 1e-9)
	require.Len(t, summary.Threads, 1)
	assert.Equal(t, "release", summary.Threads[0].TopicName)
}
