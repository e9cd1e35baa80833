package db

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"loginsight/internal/dataset"
)

// Recorder writes ingestion runs to the history table.
type Recorder struct {
	db            *gorm.DB
	retentionDays int
}

// NewRecorder returns a Recorder keeping rows for retentionDays.
func NewRecorder(db *gorm.DB, retentionDays int) *Recorder {
	return &Recorder{db: db, retentionDays: retentionDays}
}

// RecordRun implements dataset.RunRecorder.
func (r *Recorder) RecordRun(ctx context.Context, run dataset.Run) error {
	row := newIngestionRun(run, r.retentionDays)
	return r.db.WithContext(ctx).Create(&row).Error
}

func newIngestionRun(run dataset.Run, retentionDays int) IngestionRun {
	createdAt := run.At
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var expiresAt *time.Time
	if retentionDays > 0 {
		t := createdAt.Add(time.Duration(retentionDays) * 24 * time.Hour)
		expiresAt = &t
	}

	cats := datatypes.JSONMap{}
	for k, v := range run.Categories {
		cats[k] = v
	}

	return IngestionRun{
		CreatedAt:   createdAt,
		ExpiresAt:   expiresAt,
		SnapshotID:  run.SnapshotID.String(),
		Source:      run.Source,
		Name:        run.Name,
		Outcome:     run.Outcome,
		Compression: string(run.Compression),
		Records:     run.Records,
		LookupFails: run.LookupFails,
		DurationMs:  run.Duration.Milliseconds(),
		Error:       run.Err,
		Categories:  cats,
	}
}

// RecentRuns returns the newest runs first.
func RecentRuns(ctx context.Context, db *gorm.DB, limit int) ([]IngestionRun, error) {
	var runs []IngestionRun
	err := db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
