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

// TopicsDBHandlerFunctions defines the interface for Topics database operations.
type TopicsDBHandlerFunctions interface {
	InsertTopic(topic *model.Topic) error
	SelectTopicsByRecording(recordingID int64) ([]*model.Topic, error)
}

// TopicsDBHandler handles topic-related database operations
type TopicsDBHandler struct {
	db *helper.Database
}

// NewTopicsDBHandler creates a new topics database handler.
// It initializes the database connection and loads topic-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewTopicsDBHandler(db *helper.Database, force bool) (*TopicsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	topicsDbHandler := &TopicsDBHandler{
		db: db,
	}

	err := sql.LoadTopicsSql(topicsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load topics sql", err)
	}

	err = topicsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized TopicsDBHandler")

	return topicsDbHandler, nil
}

// CreateTable creates the 'topics' table in the database.
// If the table already exists, it does not create it again.
func (h *TopicsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_topics();`)
	if err != nil {
		log.Panicf("error initializing topics table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table topics")

	return nil
}

// InsertTopic inserts a new topic
func (h *TopicsDBHandler) InsertTopic(topic *model.Topic) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_topic($1, $2, $3, $4, $5)`,
		topic.RecordingID,
		topic.Name,
		topic.StartTime,
		topic.EndTime,
		topic.Importance,
	)
	return scanTopic(row, topic)
}

// SelectTopicsByRecording retrieves all topics of a recording, bounded topics
// first in start order, unbounded last
func (h *TopicsDBHandler) SelectTopicsByRecording(recordingID int64) ([]*model.Topic, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_topics_by_recording($1)`,
		recordingID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var topics []*model.Topic
	for rows.Next() {
		topic := &model.Topic{}
		err := scanTopic(rows, topic)
		if err != nil {
			return nil, err
		}

		topics = append(topics, topic)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return topics, nil
}

func scanTopic(row rowScanner, topic *model.Topic) error {
	err := row.Scan(
		&topic.ID,
		&topic.RecordingID,
		&topic.Name,
		&topic.StartTime,
		&topic.EndTime,
		&topic.Importance,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}
	return nil
}
