package collab

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/Snaizl101/collab-decision-making/core/argue"
	"github.com/Snaizl101/collab-decision-making/core/normalize"
	"github.com/Snaizl101/collab-decision-making/core/sentiment"
	"github.com/Snaizl101/collab-decision-making/core/topics"
	"github.com/Snaizl101/collab-decision-making/database"
	"github.com/Snaizl101/collab-decision-making/helper"
	"github.com/Snaizl101/collab-decision-making/model"
	loadSql "github.com/Snaizl101/collab-decision-making/sql"
	"github.com/google/uuid"
)

// Engine provides a unified interface over the discussion store: it ingests
// one recording's transcript plus annotations into topic, argument and
// sentiment structures, and serves the read views the renderer consumes.
type Engine struct {
	DB         *helper.Database
	Recordings *database.RecordingsDBHandler
	Segments   *database.SegmentsDBHandler
	Topics     *database.TopicsDBHandler
	Threads    *database.ThreadsDBHandler
	Arguments  *database.ArgumentsDBHandler
	// Logging
	log *slog.Logger
}

// NewEngine creates a new Engine instance with all handlers initialized
func NewEngine(config *helper.DatabaseConfiguration) (*Engine, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("discussions", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Create all handlers in dependency order (recordings first, arguments
	// last). force=false to not reload if functions already exist.
	recordings, err := database.NewRecordingsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create recordings handler", err)
	}

	segments, err := database.NewSegmentsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create segments handler", err)
	}

	topicsHandler, err := database.NewTopicsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create topics handler", err)
	}

	threads, err := database.NewThreadsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create threads handler", err)
	}

	arguments, err := database.NewArgumentsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create arguments handler", err)
	}

	return &Engine{
		DB:         db,
		Recordings: recordings,
		Segments:   segments,
		Topics:     topicsHandler,
		Threads:    threads,
		Arguments:  arguments,
		log:        logger,
	}, nil
}

// Close closes the database connection
func (e *Engine) Close() error {
	if e.DB != nil && e.DB.Instance != nil {
		return e.DB.Instance.Close()
	}
	return nil
}

// BuildResult is the fully linked in-memory structure for one recording,
// before anything is persisted.
type BuildResult struct {
	Segments  []model.Segment
	Topics    []model.Topic
	Timeline  model.TopicTimeline
	Sentiment model.SentimentPayload
	Forest    *argue.Forest
	// Warnings collect the recovered failures (dangling references,
	// duplicate refs); the build succeeded despite them.
	Warnings []error
}

// Build transforms one recording's raw input into linked structures without
// touching the database. Segments are validated and ordered first; sentiment
// scores are attached to their segments; then topics, the sentiment payload
// and the argument forest are derived. Structural failures (bad segments,
// cycles, temporal order violations) abort with a typed error and nothing is
// returned.
func Build(input *model.IngestInput) (*BuildResult, error) {
	rid := input.Recording.RID

	normalized, err := normalize.Segments(rid, input.Recording.Duration, input.Segments)
	if err != nil {
		return nil, err
	}

	err = attachSentimentScores(rid, normalized, input.Annotations.Sentiments)
	if err != nil {
		return nil, err
	}

	result := &BuildResult{Segments: normalized}

	// Topic assembly and sentiment aggregation are independent reads of the
	// normalized segments.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		result.Topics = topics.Assemble(input.Annotations.Topics, normalized)
		result.Timeline = topics.Timeline(result.Topics)
	}()
	go func() {
		defer wg.Done()
		result.Sentiment = sentiment.Aggregate(normalized)
	}()
	wg.Wait()

	forest, err := argue.Build(rid, input.Annotations, result.Topics)
	if err != nil {
		return nil, err
	}
	result.Forest = forest
	result.Warnings = forest.Warnings

	return result, nil
}

// attachSentimentScores writes per-segment scores onto the normalized
// segments. Annotations address segments by their position in the raw input
// list, which normalization preserved as SourceIndex.
func attachSentimentScores(rid uuid.UUID, segments []model.Segment, annotations []model.SentimentAnnotation) error {
	bySourceIndex := make(map[int]*model.Segment, len(segments))
	for i := range segments {
		bySourceIndex[segments[i].SourceIndex] = &segments[i]
	}

	for _, ann := range annotations {
		seg, ok := bySourceIndex[ann.SegmentIndex]
		if !ok {
			return &model.ValidationError{
				RecordingRID: rid,
				SegmentIndex: ann.SegmentIndex,
				Reason:       "sentiment annotation references unknown segment",
			}
		}
		if ann.Score < -1 || ann.Score > 1 {
			return &model.ValidationError{
				RecordingRID: rid,
				SegmentIndex: ann.SegmentIndex,
				Reason:       fmt.Sprintf("sentiment score %.3f outside [-1,1]", ann.Score),
			}
		}

		score := ann.Score
		seg.SentimentScore = &score
	}

	return nil
}

// IngestResult reports what one ingestion persisted.
type IngestResult struct {
	Recording *model.Recording
	Warnings  []error
}

// IngestRecording builds the recording's structures and persists them in one
// transaction. Re-ingesting an existing recording identity fails with a
// model.ConflictError unless replace is set, in which case the previous rows
// are replaced atomically: readers see either the old structure or the new
// one, never a mix.
func (e *Engine) IngestRecording(ctx context.Context, input *model.IngestInput, replace bool) (*IngestResult, error) {
	built, err := Build(input)
	if err != nil {
		return nil, err
	}

	rec := &model.Recording{
		RID:        input.Recording.RID,
		SourcePath: input.Recording.SourcePath,
		Duration:   input.Recording.Duration,
		Format:     input.Recording.Format,
		RecordedAt: input.Recording.RecordedAt,
	}

	ingest, err := database.BeginIngest(ctx, e.DB, rec, replace)
	if err != nil {
		return nil, err
	}
	defer ingest.Rollback()

	for i := range built.Segments {
		err = ingest.InsertSegment(ctx, &built.Segments[i])
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("insert segment %d", built.Segments[i].SourceIndex), err)
		}
	}

	for i := range built.Topics {
		err = ingest.InsertTopic(ctx, &built.Topics[i])
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("insert topic %q", built.Topics[i].Name), err)
		}
	}

	threadRows, err := e.persistForest(ctx, ingest, built)
	if err != nil {
		return nil, err
	}

	err = ingest.Commit()
	if err != nil {
		return nil, err
	}

	e.log.Info("Ingested recording",
		slog.String("rid", rec.RID.String()),
		slog.Int("segments", len(built.Segments)),
		slog.Int("topics", len(built.Topics)),
		slog.Int("threads", len(threadRows)),
		slog.Int("warnings", len(built.Warnings)))

	return &IngestResult{Recording: rec, Warnings: built.Warnings}, nil
}

// persistForest writes threads, arguments and supporting points. Arguments
// are inserted without parents first so references inside the set resolve
// regardless of annotation order; parents and thread initial arguments are
// wired in a second pass.
func (e *Engine) persistForest(ctx context.Context, ingest *database.IngestTx, built *BuildResult) (map[int]*model.Thread, error) {
	forest := built.Forest

	threadRows := map[int]*model.Thread{}
	for i := range forest.Nodes {
		node := &forest.Nodes[i]
		if node.Dropped || node.Thread == -1 {
			continue
		}
		if _, ok := threadRows[node.Thread]; ok {
			continue
		}

		topic := &built.Topics[forest.Threads[node.Thread].TopicIndex]
		thread := &model.Thread{TopicID: topic.ID}
		err := ingest.InsertThread(ctx, thread)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("insert thread for topic %q", topic.Name), err)
		}
		threadRows[node.Thread] = thread
	}

	keptOrder := make([]int, 0, len(forest.Nodes))
	for i := range forest.Nodes {
		if !forest.Nodes[i].Dropped {
			keptOrder = append(keptOrder, i)
		}
	}
	sort.SliceStable(keptOrder, func(a, b int) bool {
		return forest.Nodes[keptOrder[a]].Ann.Timestamp < forest.Nodes[keptOrder[b]].Ann.Timestamp
	})

	argumentRows := map[int]*model.Argument{}
	for _, i := range keptOrder {
		node := &forest.Nodes[i]

		arg := &model.Argument{
			SpeakerID:  node.Ann.SpeakerID,
			Timestamp:  node.Ann.Timestamp,
			MainClaim:  node.Ann.MainClaim,
			Type:       node.Ann.Type,
			Confidence: node.Confidence,
			Ref:        node.Ann.Ref,
		}
		if thread, ok := threadRows[node.Thread]; ok {
			arg.ThreadID = &thread.ID
		}

		err := ingest.InsertArgument(ctx, arg)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("insert argument %q", node.Ann.Ref), err)
		}
		argumentRows[i] = arg

		for _, point := range node.Points {
			err = ingest.InsertSupportingPoint(ctx, &model.SupportingPoint{
				ArgumentID: arg.ID,
				Text:       point.Text,
				Evidence:   point.Evidence,
				Confidence: argue.ClampConfidence(point.Confidence),
			})
			if err != nil {
				return nil, helper.NewError(fmt.Sprintf("insert supporting point for %q", node.Ann.Ref), err)
			}
		}
	}

	// Second pass: parents exist now, wire the links.
	for _, i := range keptOrder {
		node := &forest.Nodes[i]
		if node.Parent == -1 {
			continue
		}

		err := ingest.SetArgumentParent(ctx, argumentRows[i], argumentRows[node.Parent].ID)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("wire parent of %q", node.Ann.Ref), err)
		}
	}

	for threadIdx, thread := range threadRows {
		initial := forest.Threads[threadIdx].Initial
		if initial == -1 {
			continue
		}

		err := ingest.SetThreadInitialArgument(ctx, thread, argumentRows[initial].ID)
		if err != nil {
			return nil, helper.NewError("set thread initial argument", err)
		}
	}

	return threadRows, nil
}

// GetRecording returns the recording row for an identity
func (e *Engine) GetRecording(rid uuid.UUID) (*model.Recording, error) {
	return e.Recordings.SelectRecording(rid)
}

// ListRecordings pages through ingested recordings, newest first
func (e *Engine) ListRecordings(lastCreatedAt *time.Time, limit int) ([]*model.Recording, error) {
	return e.Recordings.SelectAllRecordings(lastCreatedAt, limit)
}

// DeleteRecording removes a recording and everything derived from it
func (e *Engine) DeleteRecording(rid uuid.UUID) error {
	return e.Recordings.DeleteRecording(rid)
}

// TopicTimeline returns the renderer's topic timeline for a recording:
// parallel label/start/end arrays over the bounded topics.
func (e *Engine) TopicTimeline(rid uuid.UUID) (model.TopicTimeline, error) {
	rec, err := e.Recordings.SelectRecording(rid)
	if err != nil {
		return model.TopicTimeline{}, helper.NewError("select recording", err)
	}

	topicRows, err := e.Topics.SelectTopicsByRecording(rec.ID)
	if err != nil {
		return model.TopicTimeline{}, helper.NewError("select topics", err)
	}

	assembled := make([]model.Topic, len(topicRows))
	for i, t := range topicRows {
		assembled[i] = *t
	}
	return topics.Timeline(assembled), nil
}

// Sentiment recomputes the sentiment payload from the stored segments.
// Fields stay absent when no segment carries a score.
func (e *Engine) Sentiment(rid uuid.UUID) (model.SentimentPayload, error) {
	rec, err := e.Recordings.SelectRecording(rid)
	if err != nil {
		return model.SentimentPayload{}, helper.NewError("select recording", err)
	}

	segmentRows, err := e.Segments.SelectSegmentsByRecording(rec.ID)
	if err != nil {
		return model.SentimentPayload{}, helper.NewError("select segments", err)
	}

	segments := make([]model.Segment, len(segmentRows))
	for i, s := range segmentRows {
		segments[i] = *s
	}
	return sentiment.Aggregate(segments), nil
}

// ArgumentTrees reconstructs the per-thread argument trees for a recording
func (e *Engine) ArgumentTrees(rid uuid.UUID) ([]*model.ThreadTree, error) {
	rec, err := e.Recordings.SelectRecording(rid)
	if err != nil {
		return nil, helper.NewError("select recording", err)
	}
	return e.argumentTrees(rec)
}

func (e *Engine) argumentTrees(rec *model.Recording) ([]*model.ThreadTree, error) {
	threadRows, err := e.Threads.SelectThreadsByRecording(rec.ID)
	if err != nil {
		return nil, helper.NewError("select threads", err)
	}

	argumentRows, err := e.Arguments.SelectArgumentsByRecording(rec.ID)
	if err != nil {
		return nil, helper.NewError("select arguments", err)
	}

	pointRows, err := e.Arguments.SelectSupportingPointsByRecording(rec.ID)
	if err != nil {
		return nil, helper.NewError("select supporting points", err)
	}

	topicRows, err := e.Topics.SelectTopicsByRecording(rec.ID)
	if err != nil {
		return nil, helper.NewError("select topics", err)
	}
	topicNames := make(map[int64]string, len(topicRows))
	for _, t := range topicRows {
		topicNames[t.ID] = t.Name
	}

	roots := argue.TreesFromRows(argumentRows, pointRows)

	trees := make([]*model.ThreadTree, 0, len(threadRows))
	for _, thread := range threadRows {
		trees = append(trees, &model.ThreadTree{
			Thread:    thread,
			TopicName: topicNames[thread.TopicID],
			Roots:     roots[thread.ID],
		})
	}
	return trees, nil
}

// DiscussionSummary assembles the complete read view for one recording:
// metadata, topic timeline, sentiment payload and argument trees.
func (e *Engine) DiscussionSummary(rid uuid.UUID) (*model.DiscussionSummary, error) {
	rec, err := e.Recordings.SelectRecording(rid)
	if err != nil {
		return nil, helper.NewError("select recording", err)
	}

	timeline, err := e.TopicTimeline(rid)
	if err != nil {
		return nil, err
	}

	payload, err := e.Sentiment(rid)
	if err != nil {
		return nil, err
	}

	trees, err := e.argumentTrees(rec)
	if err != nil {
		return nil, err
	}

	return &model.DiscussionSummary{
		Recording: rec,
		Timeline:  timeline,
		Sentiment: payload,
		Threads:   trees,
	}, nil
}
