package db

import (
	"context"
	"time"

	"gorm.io/gorm"

	"loginsight/internal/logging"
)

// runRetentionOnce deletes ingestion runs whose ExpiresAt is in the past.
func runRetentionOnce(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at <= ?", now).Delete(&IngestionRun{})
	return res.RowsAffected, res.Error
}

// StartRetentionWorker runs the cleanup once at startup and then daily until
// ctx is cancelled.
func StartRetentionWorker(ctx context.Context, db *gorm.DB) {
	go func() {
		sweep := func() {
			n, err := runRetentionOnce(ctx, db, time.Now())
			if err != nil {
				logging.Error().Err(err).Msg("retention cleanup failed")
				return
			}
			if n > 0 {
				logging.Info().Int64("deleted", n).Msg("retention cleanup")
			}
		}
		sweep()

		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()
}
