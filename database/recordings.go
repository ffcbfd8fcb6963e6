package database

import (
	"context"
	dbsql "database/sql"
	"fmt"
	"log"
	"time"

	"github.com/Snaizl101/collab-decision-making/helper"
	"github.com/Snaizl101/collab-decision-making/model"
	"github.com/Snaizl101/collab-decision-making/sql"
	"github.com/google/uuid"
)

// RecordingsDBHandlerFunctions defines the interface for Recordings database operations.
type RecordingsDBHandlerFunctions interface {
	InsertRecording(rec *model.Recording) error
	SelectRecording(rid uuid.UUID) (*model.Recording, error)
	SelectAllRecordings(lastCreatedAt *time.Time, limit int) ([]*model.Recording, error)
	RecordingExists(rid uuid.UUID) (bool, error)
	DeleteRecording(rid uuid.UUID) error
}

// RecordingsDBHandler handles recording-related database operations
type RecordingsDBHandler struct {
	db *helper.Database
}

// NewRecordingsDBHandler creates a new recordings database handler.
// It initializes the database connection and loads recording-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewRecordingsDBHandler(db *helper.Database, force bool) (*RecordingsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	recordingsDbHandler := &RecordingsDBHandler{
		db: db,
	}

	err := sql.LoadRecordingsSql(recordingsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load recordings sql", err)
	}

	err = recordingsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized RecordingsDBHandler")

	return recordingsDbHandler, nil
}

// CreateTable creates the 'recordings' table in the database.
// If the table already exists, it does not create it again.
func (h *RecordingsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_recordings();`)
	if err != nil {
		log.Panicf("error initializing recordings table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table recordings")

	return nil
}

// InsertRecording inserts a new recording
func (h *RecordingsDBHandler) InsertRecording(rec *model.Recording) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_recording($1, $2, $3, $4, $5)`,
		rec.RID,
		rec.SourcePath,
		rec.Duration,
		rec.Format,
		nullTime(rec.RecordedAt),
	)
	return scanRecording(row, rec)
}

// SelectRecording retrieves a recording by RID
func (h *RecordingsDBHandler) SelectRecording(rid uuid.UUID) (*model.Recording, error) {
	rec := &model.Recording{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_recording($1)`,
		rid,
	)

	err := scanRecording(row, rec)
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// SelectAllRecordings retrieves all recordings with pagination
func (h *RecordingsDBHandler) SelectAllRecordings(lastCreatedAt *time.Time, limit int) ([]*model.Recording, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_recordings($1, $2)`,
		lastCreatedAt,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var recordings []*model.Recording
	for rows.Next() {
		rec := &model.Recording{}
		err := scanRecording(rows, rec)
		if err != nil {
			return nil, err
		}

		recordings = append(recordings, rec)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return recordings, nil
}

// RecordingExists reports whether a recording with the given RID exists
func (h *RecordingsDBHandler) RecordingExists(rid uuid.UUID) (bool, error) {
	var exists bool
	err := h.db.Instance.QueryRow(
		`SELECT recording_exists($1)`,
		rid,
	).Scan(&exists)
	if err != nil {
		return false, helper.NewError("scan", err)
	}
	return exists, nil
}

// DeleteRecording deletes a recording by RID, cascading through all
// dependent rows
func (h *RecordingsDBHandler) DeleteRecording(rid uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_recording($1)`,
		rid,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecording(row rowScanner, rec *model.Recording) error {
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
		return helper.NewError("scan", err)
	}

	rec.RecordedAt = recordedAt.Time
	return nil
}

func nullTime(t time.Time) dbsql.NullTime {
	return dbsql.NullTime{Time: t, Valid: !t.IsZero()}
}
