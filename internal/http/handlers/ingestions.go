package handlers

import (
	"time"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "loginsight/internal/db"
)

type ingestionsResponse struct {
	Enabled bool                 `json:"enabled"`
	Runs    []dbpkg.IngestionRun `json:"runs"`
	Daily   []dbpkg.RunBucket    `json:"daily"`
}

// Ingestions lists recent ingestion runs and per-day counts. Without a
// database it reports enabled=false.
func Ingestions(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if db == nil {
			jsonResponse(ctx, fasthttp.StatusOK, ingestionsResponse{
				Runs:  []dbpkg.IngestionRun{},
				Daily: []dbpkg.RunBucket{},
			})
			return
		}

		limit := 50
		if n, err := ctx.QueryArgs().GetUint("limit"); err == nil && n > 0 && n <= 500 {
			limit = n
		}
		days := 7
		if n, err := ctx.QueryArgs().GetUint("days"); err == nil && n > 0 && n <= 366 {
			days = n
		}

		runs, err := dbpkg.RecentRuns(ctx, db, limit)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error", nil)
			return
		}
		daily, err := dbpkg.DailyBuckets(ctx, db, time.Now().AddDate(0, 0, -days))
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "database error", nil)
			return
		}
		jsonResponse(ctx, fasthttp.StatusOK, ingestionsResponse{Enabled: true, Runs: runs, Daily: daily})
	}
}
