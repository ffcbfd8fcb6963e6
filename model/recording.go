package model

import (
	"time"

	"github.com/google/uuid"
)

// Recording represents one ingested audio file. It is created once per
// ingestion and immutable thereafter; all other entities hang off it.
type Recording struct {
	ID         int64     `json:"id"`
	RID        uuid.UUID `json:"rid"`
	SourcePath string    `json:"source_path"`
	Duration   float64   `json:"duration"` // seconds, 0 if unknown
	Format     string    `json:"format"`
	RecordedAt time.Time `json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
}
