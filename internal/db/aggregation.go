package db

import (
	"cmp"
	"context"
	"slices"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"loginsight/internal/logging"
)

// bucketRuns groups the runs of one UTC day by (source, outcome).
func bucketRuns(day time.Time, runs []IngestionRun) []RunBucket {
	type key struct {
		Source  string
		Outcome string
	}
	groups := make(map[key]*RunBucket)
	for _, r := range runs {
		k := key{Source: r.Source, Outcome: r.Outcome}
		b, ok := groups[k]
		if !ok {
			b = &RunBucket{Day: day, Source: r.Source, Outcome: r.Outcome}
			groups[k] = b
		}
		b.Runs++
		b.Records += int64(r.Records)
		b.LookupFails += int64(r.LookupFails)
	}

	out := make([]RunBucket, 0, len(groups))
	for _, b := range groups {
		out = append(out, *b)
	}
	slices.SortFunc(out, func(a, b RunBucket) int {
		return cmp.Or(cmp.Compare(a.Source, b.Source), cmp.Compare(a.Outcome, b.Outcome))
	})
	return out
}

// runAggregationOnce rebuilds the buckets for the UTC day starting at day.
func runAggregationOnce(ctx context.Context, db *gorm.DB, day time.Time) error {
	var runs []IngestionRun
	if err := db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", day, day.AddDate(0, 0, 1)).
		Select("source", "outcome", "records", "lookup_fails").
		Find(&runs).Error; err != nil {
		return err
	}

	buckets := bucketRuns(day, runs)
	if len(buckets) == 0 {
		return nil
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "day"}, {Name: "source"}, {Name: "outcome"}},
		DoUpdates: clause.AssignmentColumns([]string{"runs", "records", "lookup_fails"}),
	}).Create(&buckets).Error
}

func utcDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// StartAggregationWorker fills RunBucket for the last week at startup, then
// refreshes yesterday and today every hour until ctx is cancelled.
func StartAggregationWorker(ctx context.Context, db *gorm.DB) {
	go func() {
		today := utcDay(time.Now())
		for i := 7; i >= 0; i-- {
			day := today.AddDate(0, 0, -i)
			if err := runAggregationOnce(ctx, db, day); err != nil {
				logging.Error().Err(err).Time("day", day).Msg("run aggregation failed (startup)")
			}
		}

		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				today := utcDay(t)
				for _, day := range []time.Time{today.AddDate(0, 0, -1), today} {
					if err := runAggregationOnce(ctx, db, day); err != nil {
						logging.Error().Err(err).Time("day", day).Msg("run aggregation failed")
					}
				}
			}
		}
	}()
}

// DailyBuckets returns buckets from since onwards, oldest first.
func DailyBuckets(ctx context.Context, db *gorm.DB, since time.Time) ([]RunBucket, error) {
	var out []RunBucket
	err := db.WithContext(ctx).
		Where("day >= ?", utcDay(since)).
		Order("day ASC, source ASC, outcome ASC").
		Find(&out).Error
	return out, err
}
