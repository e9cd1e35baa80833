package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loginsight/internal/config"
	"loginsight/internal/dataset"
)

func TestConnect_Disabled(t *testing.T) {
	db, err := Connect(&config.Config{})
	assert.NoError(t, err)
	assert.Nil(t, db)
}

func TestConnect_RejectsNonPostgres(t *testing.T) {
	_, err := Connect(&config.Config{DatabaseURL: "mysql://localhost/x"})
	assert.Error(t, err)
}

func TestNewIngestionRun(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	id := uuid.New()
	row := newIngestionRun(dataset.Run{
		SnapshotID:  id,
		Source:      dataset.SourceUpload,
		Name:        "logs.csv.zst",
		Outcome:     dataset.OutcomeLoaded,
		Compression: dataset.Zstd,
		Records:     300,
		LookupFails: 2,
		Duration:    1500 * time.Millisecond,
		Categories:  map[string]int{"Job Request": 100, "Other": 200},
		At:          at,
	}, 30)

	assert.Equal(t, at, row.CreatedAt)
	require.NotNil(t, row.ExpiresAt)
	assert.Equal(t, at.AddDate(0, 0, 30), *row.ExpiresAt)
	assert.Equal(t, id.String(), row.SnapshotID)
	assert.Equal(t, "zstd", row.Compression)
	assert.Equal(t, int64(1500), row.DurationMs)
	assert.Equal(t, 100, row.Categories["Job Request"])
	assert.Len(t, row.Categories, 2)
}

func TestNewIngestionRun_NoRetention(t *testing.T) {
	row := newIngestionRun(dataset.Run{Source: dataset.SourceStartup, Outcome: dataset.OutcomeFallback, Err: "no data path configured"}, 0)
	assert.Nil(t, row.ExpiresAt)
	assert.False(t, row.CreatedAt.IsZero())
	assert.Equal(t, "no data path configured", row.Error)
	assert.NotNil(t, row.Categories)
}

func TestBucketRuns(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	runs := []IngestionRun{
		{Source: "upload", Outcome: "loaded", Records: 100, LookupFails: 1},
		{Source: "startup", Outcome: "fallback", Records: 1000},
		{Source: "upload", Outcome: "loaded", Records: 50, LookupFails: 3},
		{Source: "upload", Outcome: "rejected"},
	}

	got := bucketRuns(day, runs)
	assert.Equal(t, []RunBucket{
		{Day: day, Source: "startup", Outcome: "fallback", Runs: 1, Records: 1000},
		{Day: day, Source: "upload", Outcome: "loaded", Runs: 2, Records: 150, LookupFails: 4},
		{Day: day, Source: "upload", Outcome: "rejected", Runs: 1},
	}, got)

	assert.Empty(t, bucketRuns(day, nil))
}

func TestUTCDay(t *testing.T) {
	tz := time.FixedZone("UTC-8", -8*60*60)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), utcDay(time.Date(2026, 3, 1, 20, 0, 0, 0, tz)))
}
