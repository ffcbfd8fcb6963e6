package database

import (
	"testing"
	"time"

	"github.com/Snaizl101/collab-decision-making/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingsNewRecordingsDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewRecordingsDBHandler", func(t *testing.T) {
		recordingsDbHandler, err := NewRecordingsDBHandler(database, true)
		assert.NoError(t, err, "Expected NewRecordingsDBHandler to not return an error")
		require.NotNil(t, recordingsDbHandler, "Expected NewRecordingsDBHandler to return a non-nil instance")
		require.NotNil(t, recordingsDbHandler.db, "Expected NewRecordingsDBHandler to have a non-nil database instance")
		require.NotNil(t, recordingsDbHandler.db.Instance, "Expected NewRecordingsDBHandler to have a non-nil database connection instance")
	})

	t.Run("Invalid call NewRecordingsDBHandler with nil database", func(t *testing.T) {
		_, err := NewRecordingsDBHandler(nil, false)
		assert.Error(t, err, "Expected error when creating RecordingsDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})
}

func TestRecordingsInsert(t *testing.T) {
	database := initDB(t)

	recordingsDbHandler, err := NewRecordingsDBHandler(database, true)
	require.NoError(t, err, "Expected NewRecordingsDBHandler to not return an error")

	t.Run("Insert recording", func(t *testing.T) {
		rec := &model.Recording{
			RID:        uuid.New(),
			SourcePath: "meetings/standup.wav",
			Duration:   1800,
			Format:     "wav",
			RecordedAt: time.Now().Add(-time.Hour).UTC().Truncate(time.Second),
		}

		err := recordingsDbHandler.InsertRecording(rec)
		assert.NoError(t, err, "Expected Insert to not return an error")
		assert.NotZero(t, rec.ID, "Expected inserted recording to have an ID")
		assert.WithinDuration(t, rec.CreatedAt, time.Now(), 2*time.Second, "Expected CreatedAt to be set")
		assert.Equal(t, "meetings/standup.wav", rec.SourcePath, "Expected source path to match")

		// Cleanup
		recordingsDbHandler.DeleteRecording(rec.RID)
	})

	t.Run("Insert recording without recorded_at", func(t *testing.T) {
		rec := &model.Recording{
			RID:        uuid.New(),
			SourcePath: "meetings/undated.wav",
			Format:     "wav",
		}

		err := recordingsDbHandler.InsertRecording(rec)
		assert.NoError(t, err, "Expected Insert to not return an error")
		assert.True(t, rec.RecordedAt.IsZero(), "Expected recorded_at to stay zero when unknown")

		// Cleanup
		recordingsDbHandler.DeleteRecording(rec.RID)
	})
}

func TestRecordingsGet(t *testing.T) {
	database := initDB(t)

	recordingsDbHandler, err := NewRecordingsDBHandler(database, true)
	require.NoError(t, err)

	rec := &model.Recording{
		RID:        uuid.New(),
		SourcePath: "meetings/retro.mp3",
		Duration:   2700,
		Format:     "mp3",
	}
	err = recordingsDbHandler.InsertRecording(rec)
	require.NoError(t, err)

	retrieved, err := recordingsDbHandler.SelectRecording(rec.RID)
	assert.NoError(t, err, "Expected Get to not return an error")
	assert.NotNil(t, retrieved, "Expected Get to return a non-nil recording")
	assert.Equal(t, rec.RID, retrieved.RID, "Expected recording RIDs to match")
	assert.Equal(t, rec.SourcePath, retrieved.SourcePath, "Expected source paths to match")
	assert.Equal(t, rec.Duration, retrieved.Duration, "Expected durations to match")

	// Cleanup
	recordingsDbHandler.DeleteRecording(rec.RID)
}

func TestRecordingsGetAll(t *testing.T) {
	database := initDB(t)

	recordingsDbHandler, err := NewRecordingsDBHandler(database, true)
	require.NoError(t, err)

	recCount := 5
	recs := make([]*model.Recording, recCount)
	for i := 0; i < recCount; i++ {
		recs[i] = &model.Recording{
			RID:        uuid.New(),
			SourcePath: "meetings/session_" + string(rune('A'+i)) + ".wav",
			Format:     "wav",
		}
		err = recordingsDbHandler.InsertRecording(recs[i])
		require.NoError(t, err)
	}

	retrieved, err := recordingsDbHandler.SelectAllRecordings(nil, 10)
	assert.NoError(t, err, "Expected SelectAllRecordings to not return an error")
	assert.GreaterOrEqual(t, len(retrieved), recCount, "Expected to retrieve at least the inserted recordings")

	// Test pagination
	pageLength := 3
	paginated, err := recordingsDbHandler.SelectAllRecordings(nil, pageLength)
	assert.NoError(t, err, "Expected SelectAllRecordings to not return an error")
	assert.LessOrEqual(t, len(paginated), pageLength, "Expected at most pageLength recordings")

	// Cleanup
	for _, rec := range recs {
		recordingsDbHandler.DeleteRecording(rec.RID)
	}
}

func TestRecordingsExists(t *testing.T) {
	database := initDB(t)

	recordingsDbHandler, err := NewRecordingsDBHandler(database, true)
	require.NoError(t, err)

	rec := &model.Recording{
		RID:        uuid.New(),
		SourcePath: "meetings/check.wav",
		Format:     "wav",
	}
	err = recordingsDbHandler.InsertRecording(rec)
	require.NoError(t, err)

	exists, err := recordingsDbHandler.RecordingExists(rec.RID)
	assert.NoError(t, err, "Expected RecordingExists to not return an error")
	assert.True(t, exists, "Expected recording to exist")

	exists, err = recordingsDbHandler.RecordingExists(uuid.New())
	assert.NoError(t, err, "Expected RecordingExists to not return an error")
	assert.False(t, exists, "Expected unknown RID to not exist")

	// Cleanup
	recordingsDbHandler.DeleteRecording(rec.RID)
}

func TestRecordingsDelete(t *testing.T) {
	database := initDB(t)

	recordingsDbHandler, err := NewRecordingsDBHandler(database, true)
	require.NoError(t, err)

	rec := &model.Recording{
		RID:        uuid.New(),
		SourcePath: "meetings/gone.wav",
		Format:     "wav",
	}
	err = recordingsDbHandler.InsertRecording(rec)
	require.NoError(t, err)

	err = recordingsDbHandler.DeleteRecording(rec.RID)
	assert.NoError(t, err, "Expected Delete to not return an error")

	_, err = recordingsDbHandler.SelectRecording(rec.RID)
	assert.Error(t, err, "Expected Get to return an error for deleted recording")
}
