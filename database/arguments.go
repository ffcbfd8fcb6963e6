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

// ArgumentsDBHandlerFunctions defines the interface for Arguments database operations.
type ArgumentsDBHandlerFunctions interface {
	InsertArgument(arg *model.Argument) error
	UpdateArgumentParent(arg *model.Argument, parentID int64) error
	SelectArgumentsByRecording(recordingID int64) ([]*model.Argument, error)
	SelectArgumentsByThread(threadID int64) ([]*model.Argument, error)
	InsertSupportingPoint(point *model.SupportingPoint) error
	SelectSupportingPointsByRecording(recordingID int64) ([]*model.SupportingPoint, error)
}

// ArgumentsDBHandler handles argument-related database operations
type ArgumentsDBHandler struct {
	db *helper.Database
}

// NewArgumentsDBHandler creates a new arguments database handler.
// It initializes the database connection and loads argument-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewArgumentsDBHandler(db *helper.Database, force bool) (*ArgumentsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	argumentsDbHandler := &ArgumentsDBHandler{
		db: db,
	}

	err := sql.LoadArgumentsSql(argumentsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load arguments sql", err)
	}

	err = argumentsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ArgumentsDBHandler")

	return argumentsDbHandler, nil
}

// CreateTable creates the 'arguments' and 'supporting_points' tables in the
// database. If the tables already exist, it does not create them again.
func (h *ArgumentsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_arguments();`)
	if err != nil {
		log.Panicf("error initializing arguments tables: %#v", err)
	}

	h.db.Logger.Info("Checked/created tables arguments, supporting_points")

	return nil
}

// InsertArgument inserts a new argument. The parent reference is wired in a
// second pass via UpdateArgumentParent.
func (h *ArgumentsDBHandler) InsertArgument(arg *model.Argument) error {
	row := h.db.Instance.QueryRow(
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

// UpdateArgumentParent sets the argument's parent
func (h *ArgumentsDBHandler) UpdateArgumentParent(arg *model.Argument, parentID int64) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM update_argument_parent($1, $2)`,
		arg.ID,
		parentID,
	)
	return scanArgument(row, arg)
}

// SelectArgumentsByRecording retrieves all arguments of a recording ordered by
// timestamp
func (h *ArgumentsDBHandler) SelectArgumentsByRecording(recordingID int64) ([]*model.Argument, error) {
	return h.selectArguments(`SELECT * FROM select_arguments_by_recording($1)`, recordingID)
}

// SelectArgumentsByThread retrieves all arguments of a thread ordered by
// timestamp
func (h *ArgumentsDBHandler) SelectArgumentsByThread(threadID int64) ([]*model.Argument, error) {
	return h.selectArguments(`SELECT * FROM select_arguments_by_thread($1)`, threadID)
}

func (h *ArgumentsDBHandler) selectArguments(query string, id int64) ([]*model.Argument, error) {
	rows, err := h.db.Instance.Query(query, id)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var arguments []*model.Argument
	for rows.Next() {
		arg := &model.Argument{}
		err := scanArgument(rows, arg)
		if err != nil {
			return nil, err
		}

		arguments = append(arguments, arg)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return arguments, nil
}

// InsertSupportingPoint inserts a new supporting point
func (h *ArgumentsDBHandler) InsertSupportingPoint(point *model.SupportingPoint) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_supporting_point($1, $2, $3, $4)`,
		point.ArgumentID,
		point.Text,
		point.Evidence,
		point.Confidence,
	)
	return scanSupportingPoint(row, point)
}

// SelectSupportingPointsByRecording retrieves all supporting points attached
// to arguments of a recording
func (h *ArgumentsDBHandler) SelectSupportingPointsByRecording(recordingID int64) ([]*model.SupportingPoint, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_supporting_points_by_recording($1)`,
		recordingID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var points []*model.SupportingPoint
	for rows.Next() {
		point := &model.SupportingPoint{}
		err := scanSupportingPoint(rows, point)
		if err != nil {
			return nil, err
		}

		points = append(points, point)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return points, nil
}

func scanArgument(row rowScanner, arg *model.Argument) error {
	err := row.Scan(
		&arg.ID,
		&arg.RecordingID,
		&arg.ThreadID,
		&arg.SpeakerID,
		&arg.Timestamp,
		&arg.MainClaim,
		&arg.Type,
		&arg.ParentID,
		&arg.Confidence,
		&arg.Ref,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}
	return nil
}

func scanSupportingPoint(row rowScanner, point *model.SupportingPoint) error {
	err := row.Scan(
		&point.ID,
		&point.ArgumentID,
		&point.Text,
		&point.Evidence,
		&point.Confidence,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}
	return nil
}
