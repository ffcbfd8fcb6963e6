package database

import (
	"context"
	dbsql "database/sql"
	"errors"
	"log/slog"

	"github.com/Snaizl101/collab-decision-making/helper"
	"github.com/Snaizl101/collab-decision-making/model"
	"github.com/lib/pq"
)

// IngestTx is the unit of work for persisting one recording's structures.
// All writes of an ingestion run inside a single transaction so a recording
// is either fully present or not present at all; a replace deletes the old
// rows inside the same transaction that writes the new ones.
type IngestTx struct {
	tx        *dbsql.Tx
	logger    *slog.Logger
	recording *model.Recording
	done      bool
}

// BeginIngest opens the ingestion transaction and inserts the recording row.
// If the recording identity already exists, it returns a ConflictError unless
// replace is set, in which case the existing rows are deleted first.
func BeginIngest(ctx context.Context, db *helper.Database, rec *model.Recording, replace bool) (*IngestTx, error) {
	tx, err := db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return nil, helper.NewError("begin transaction", err)
	}

	ingest := &IngestTx{
		tx:        tx,
		logger:    db.Logger,
		recording: rec,
	}

	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT recording_exists($1)`, rec.RID).Scan(&exists)
	if err != nil {
		return nil, ingest.fail(helper.NewError("check recording exists", err))
	}

	if exists {
		if !replace {
			return nil, ingest.fail(&model.ConflictError{RecordingRID: rec.RID})
		}

		_, err = tx.ExecContext(ctx, `SELECT delete_recording($1)`, rec.RID)
		if err != nil {
			return nil, ingest.fail(helper.NewError("delete recording", err))
		}

		db.Logger.Info("Replacing existing recording", slog.String("rid", rec.RID.String()))
	}

	row := tx.QueryRowContext(ctx,
		`SELECT * FROM insert_recording($1, $2, $3, $4, $5)`,
		rec.RID,
		rec.SourcePath,
		rec.Duration,
		rec.Format,
		nullTime(rec.RecordedAt),
	)
	err = scanRecordingTx(row, rec)
	if err != nil {
		// Concurrent ingestion of the same identity loses the race on the
		// unique rid index.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ingest.fail(&model.ConflictError{RecordingRID: rec.RID})
		}
		return nil, ingest.fail(helper.NewError("insert recording", err))
	}

	return ingest, nil
}

// Recording returns the recording row as persisted, with its assigned ID.
func (i *IngestTx) Recording() *model.Recording {
	return i.recording
}

// InsertSegment inserts a segment under the transaction's recording
func (i *IngestTx) InsertSegment(ctx context.Context, seg *model.Segment) error {
	seg.RecordingID = i.recording.ID
	row := i.tx.QueryRowContext(ctx,
		`SELECT * FROM insert_segment($1, $2, $3, $4, $5, $6, $7, $8)`,
		seg.RecordingID,
		seg.SpeakerID,
		seg.StartTime,
		seg.EndTime,
		seg.Text,
		seg.Confidence,
		seg.SentimentScore,
		seg.SourceIndex,
	)
	return scanSegment(row, seg)
}

// InsertTopic inserts a topic under the transaction's recording
func (i *IngestTx) InsertTopic(ctx context.Context, topic *model.Topic) error {
	topic.RecordingID = i.recording.ID
	row := i.tx.QueryRowContext(ctx,
		`SELECT * FROM insert_topic($1, $2, $3, $4, $5)`,
		topic.RecordingID,
		topic.Name,
		topic.StartTime,
		topic.EndTime,
		topic.Importance,
	)
	return scanTopic(row, topic)
}

// InsertThread inserts a thread under the transaction's recording
func (i *IngestTx) InsertThread(ctx context.Context, thread *model.Thread) error {
	thread.RecordingID = i.recording.ID
	row := i.tx.QueryRowContext(ctx,
		`SELECT * FROM insert_thread($1, $2, $3)`,
		thread.RecordingID,
		thread.TopicID,
		thread.Summary,
	)
	return scanThread(row, thread)
}

// SetThreadInitialArgument backfills the thread's initial argument once the
// argument rows exist
func (i *IngestTx) SetThreadInitialArgument(ctx context.Context, thread *model.Thread, argumentID int64) error {
	row := i.tx.QueryRowContext(ctx,
		`SELECT * FROM update_thread_initial_argument($1, $2)`,
		thread.ID,
		argumentID,
	)
	return scanThread(row, thread)
}

// InsertArgument inserts an argument under the transaction's recording.
// Parent links are wired afterwards via SetArgumentParent so that forward
// references inside one annotation set resolve.
func (i *IngestTx) InsertArgument(ctx context.Context, arg *model.Argument) error {
	arg.RecordingID = i.recording.ID
	row := i.tx.QueryRowContext(ctx,
		`SELECT * FROM insert_argument($1, $2, $3, $4, $5, $6, $7, $8)`,
		arg.RecordingID,
		arg.ThreadID,
		arg.SpeakerID,
		arg.Timestamp,
		arg.MainClaim,
		string(arg.Type),
		arg.Confidence,
		arg.Ref,
	)
	return scanArgument(row, arg)
}

// SetArgumentParent wires the argument's parent link
func (i *IngestTx) SetArgumentParent(ctx context.Context, arg *model.Argument, parentID int64) error {
	row := i.tx.QueryRowContext(ctx,
		`SELECT * FROM update_argument_parent($1, $2)`,
		arg.ID,
		parentID,
	)
	return scanArgument(row, arg)
}

// InsertSupportingPoint inserts a supporting point for an already inserted
// argument
func (i *IngestTx) InsertSupportingPoint(ctx context.Context, point *model.SupportingPoint) error {
	row := i.tx.QueryRowContext(ctx,
		`SELECT * FROM insert_supporting_point($1, $2, $3, $4)`,
		point.ArgumentID,
		point.Text,
		point.Evidence,
		point.Confidence,
	)
	return scanSupportingPoint(row, point)
}

// Commit finishes the ingestion
func (i *IngestTx) Commit() error {
	if i.done {
		return nil
	}
	i.done = true

	err := i.tx.Commit()
	if err != nil {
		return helper.NewError("commit ingestion", err)
	}

	i.logger.Info("Committed ingestion", slog.String("rid", i.recording.RID.String()))
	return nil
}

// Rollback aborts the ingestion. Calling it after Commit is a no-op, so it
// is safe to defer.
func (i *IngestTx) Rollback() error {
	if i.done {
		return nil
	}
	i.done = true

	err := i.tx.Rollback()
	if err != nil {
		return helper.NewError("rollback ingestion", err)
	}
	return nil
}

func (i *IngestTx) fail(err error) error {
	i.done = true
	if rbErr := i.tx.Rollback(); rbErr != nil {
		i.logger.Error("Rollback failed", slog.String("error", rbErr.Error()))
	}
	return err
}

// scanRecordingTx unwraps helper.NewError so the caller can inspect the
// driver error for a unique violation.
func scanRecordingTx(row rowScanner, rec *model.Recording) error {
	var recordedAt dbsql.NullTime
	err := row.Scan(
		&rec.ID,
		&rec.RID,
		&rec.SourcePath,
		&rec.Duration,
		&rec.Format,
		&recordedAt,
		&rec.CreatedAt,
	)
	if err != nil {
		return err
	}

	rec.RecordedAt = recordedAt.Time
	return nil
}
