package db

import (
	"time"

	"gorm.io/datatypes"
)

// IngestionRun is one attempt to load a dataset, successful or not.
type IngestionRun struct {
	ID uint `gorm:"primaryKey"`

	CreatedAt time.Time `gorm:"index"`

	// ExpiresAt is when the retention worker may delete this row.
	ExpiresAt *time.Time `gorm:"index"`

	// SnapshotID is the snapshot installed by this run, or the one kept
	// serving when the run was rejected.
	SnapshotID string `gorm:"size:36;index"`

	Source      string `gorm:"size:16;index;not null"`
	Name        string `gorm:"size:512"`
	Outcome     string `gorm:"size:16;index;not null"`
	Compression string `gorm:"size:8"`

	Records     int
	LookupFails int
	DurationMs  int64
	Error       string `gorm:"type:text"`

	// Categories holds the request_category breakdown of the installed
	// snapshot, e.g. {"Job Request": 120, "Other": 880}.
	Categories datatypes.JSONMap `gorm:"type:json"`
}

// RunBucket stores per-day ingestion counts per (source, outcome). Filled
// by the aggregation worker.
type RunBucket struct {
	ID uint `gorm:"primaryKey"`

	Day     time.Time `gorm:"uniqueIndex:idx_run_bucket_unique,priority:1;not null"` // UTC midnight
	Source  string    `gorm:"uniqueIndex:idx_run_bucket_unique,priority:2;size:16;not null"`
	Outcome string    `gorm:"uniqueIndex:idx_run_bucket_unique,priority:3;size:16;not null"`

	Runs        int64 `gorm:"not null"`
	Records     int64 `gorm:"not null"` // records installed by these runs
	LookupFails int64 `gorm:"not null"`
}
