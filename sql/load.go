package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed recordings.sql
var recordingsSQL string

//go:embed segments.sql
var segmentsSQL string

//go:embed topics.sql
var topicsSQL string

//go:embed threads.sql
var threadsSQL string

//go:embed arguments.sql
var argumentsSQL string

// Function lists for verification
var RecordingsFunctions = []string{
	"init_recordings",
	"insert_recording",
	"select_recording",
	"select_all_recordings",
	"recording_exists",
	"delete_recording",
}

var SegmentsFunctions = []string{
	"init_segments",
	"insert_segment",
	"select_segments_by_recording",
}

var TopicsFunctions = []string{
	"init_topics",
	"insert_topic",
	"select_topics_by_recording",
}

var ThreadsFunctions = []string{
	"init_threads",
	"insert_thread",
	"update_thread_initial_argument",
	"select_threads_by_recording",
}

var ArgumentsFunctions = []string{
	"init_arguments",
	"insert_argument",
	"update_argument_parent",
	"select_arguments_by_recording",
	"select_arguments_by_thread",
	"insert_supporting_point",
	"select_supporting_points_by_recording",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadRecordingsSql loads recording-related SQL functions
func LoadRecordingsSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, RecordingsFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing recordings functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(recordingsSQL)
	if err != nil {
		return fmt.Errorf("error executing recordings SQL: %w", err)
	}

	exist, err := checkFunctions(db, RecordingsFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL recordings functions loaded successfully")
	return nil
}

// LoadSegmentsSql loads segment-related SQL functions
func LoadSegmentsSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, SegmentsFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing segments functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(segmentsSQL)
	if err != nil {
		return fmt.Errorf("error executing segments SQL: %w", err)
	}

	exist, err := checkFunctions(db, SegmentsFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL segments functions loaded successfully")
	return nil
}

// LoadTopicsSql loads topic-related SQL functions
func LoadTopicsSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, TopicsFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing topics functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(topicsSQL)
	if err != nil {
		return fmt.Errorf("error executing topics SQL: %w", err)
	}

	exist, err := checkFunctions(db, TopicsFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL topics functions loaded successfully")
	return nil
}

// LoadThreadsSql loads thread-related SQL functions
func LoadThreadsSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, ThreadsFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing threads functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(threadsSQL)
	if err != nil {
		return fmt.Errorf("error executing threads SQL: %w", err)
	}

	exist, err := checkFunctions(db, ThreadsFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL threads functions loaded successfully")
	return nil
}

// LoadArgumentsSql loads argument-related SQL functions. Threads must be
// loaded first because init_arguments adds the initial argument constraint
// to the threads table.
func LoadArgumentsSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, ArgumentsFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing arguments functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(argumentsSQL)
	if err != nil {
		return fmt.Errorf("error executing arguments SQL: %w", err)
	}

	exist, err := checkFunctions(db, ArgumentsFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL arguments functions loaded successfully")
	return nil
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadRecordingsSql(db, force); err != nil {
		return err
	}

	if err := LoadSegmentsSql(db, force); err != nil {
		return err
	}

	if err := LoadTopicsSql(db, force); err != nil {
		return err
	}

	if err := LoadThreadsSql(db, force); err != nil {
		return err
	}

	if err := LoadArgumentsSql(db, force); err != nil {
		return err
	}

	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
