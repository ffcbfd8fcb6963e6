package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Snaizl101/collab-decision-making/helper"
	"github.com/Snaizl101/collab-decision-making/model"
	"github.com/Snaizl101/collab-decision-making/sql"
)

// SegmentsDBHandlerFunctions defines the interface for Segments database operations.
type SegmentsDBHandlerFunctions interface {
	InsertSegment(seg *model.Segment) error
	SelectSegmentsByRecording(recordingID int64) ([]*model.Segment, error)
}

// SegmentsDBHandler handles segment-related database operations
type SegmentsDBHandler struct {
	db *helper.Database
}

// NewSegmentsDBHandler creates a new segments database handler.
// It initializes the database connection and loads segment-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewSegmentsDBHandler(db *helper.Database, force bool) (*SegmentsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	segmentsDbHandler := &SegmentsDBHandler{
		db: db,
	}

	err := sql.LoadSegmentsSql(segmentsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load segments sql", err)
	}

	err = segmentsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized SegmentsDBHandler")

	return segmentsDbHandler, nil
}

// CreateTable creates the 'segments' table in the database.
// If the table already exists, it does not create it again.
func (h *SegmentsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_segments();`)
	if err != nil {
		log.Panicf("error initializing segments table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table segments")

	return nil
}

// InsertSegment inserts a new segment
func (h *SegmentsDBHandler) InsertSegment(seg *model.Segment) error {
	row := h.db.Instance.QueryRow(
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

// SelectSegmentsByRecording retrieves all segments of a recording ordered by
// start time
func (h *SegmentsDBHandler) SelectSegmentsByRecording(recordingID int64) ([]*model.Segment, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_segments_by_recording($1)`,
		recordingID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var segments []*model.Segment
	for rows.Next() {
		seg := &model.Segment{}
		err := scanSegment(rows, seg)
		if err != nil {
			return nil, err
		}

		segments = append(segments, seg)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return segments, nil
}

func scanSegment(row rowScanner, seg *model.Segment) error {
	err := row.Scan(
		&seg.ID,
		&seg.RecordingID,
		&seg.SpeakerID,
		&seg.StartTime,
		&seg.EndTime,
		&seg.Text,
		&seg.Confidence,
		&seg.SentimentScore,
		&seg.SourceIndex,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}
	return nil
}
