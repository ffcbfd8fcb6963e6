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

// ThreadsDBHandlerFunctions defines the interface for Threads database operations.
type ThreadsDBHandlerFunctions interface {
	InsertThread(thread *model.Thread) error
	UpdateThreadInitialArgument(thread *model.Thread, argumentID int64) error
	SelectThreadsByRecording(recordingID int64) ([]*model.Thread, error)
}

// ThreadsDBHandler handles thread-related database operations
type ThreadsDBHandler struct {
	db *helper.Database
}

// NewThreadsDBHandler creates a new threads database handler.
// It initializes the database connection and loads thread-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewThreadsDBHandler(db *helper.Database, force bool) (*ThreadsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	threadsDbHandler := &ThreadsDBHandler{
		db: db,
	}

	err := sql.LoadThreadsSql(threadsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load threads sql", err)
	}

	err = threadsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ThreadsDBHandler")

	return threadsDbHandler, nil
}

// CreateTable creates the 'threads' table in the database.
// If the table already exists, it does not create it again.
func (h *ThreadsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_threads();`)
	if err != nil {
		log.Panicf("error initializing threads table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table threads")

	return nil
}

// InsertThread inserts a new thread. The initial argument reference is set
// separately once the arguments exist.
func (h *ThreadsDBHandler) InsertThread(thread *model.Thread) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_thread($1, $2, $3)`,
		thread.RecordingID,
		thread.TopicID,
		thread.Summary,
	)
	return scanThread(row, thread)
}

// UpdateThreadInitialArgument sets the thread's initial argument
func (h *ThreadsDBHandler) UpdateThreadInitialArgument(thread *model.Thread, argumentID int64) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM update_thread_initial_argument($1, $2)`,
		thread.ID,
		argumentID,
	)
	return scanThread(row, thread)
}

// SelectThreadsByRecording retrieves all threads of a recording
func (h *ThreadsDBHandler) SelectThreadsByRecording(recordingID int64) ([]*model.Thread, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_threads_by_recording($1)`,
		recordingID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var threads []*model.Thread
	for rows.Next() {
		thread := &model.Thread{}
		err := scanThread(rows, thread)
		if err != nil {
			return nil, err
		}

		threads = append(threads, thread)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return threads, nil
}

func scanThread(row rowScanner, thread *model.Thread) error {
	err := row.Scan(
		&thread.ID,
		&thread.RecordingID,
		&thread.TopicID,
		&thread.InitialArgumentID,
		&thread.Summary,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}
	return nil
}
