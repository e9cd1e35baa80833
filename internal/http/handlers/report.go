package handlers

import (
	"time"

	"github.com/valyala/fasthttp"

	"loginsight/internal/analytics"
	"loginsight/internal/dataset"
	"loginsight/internal/metrics"
)

type reportResponse struct {
	Snapshot SnapshotInfo      `json:"snapshot"`
	Filters  filterQuery       `json:"filters"`
	Report   *analytics.Report `json:"report"`
}

// Report serves the seven aggregate tables of the filtered view.
//
//	GET /v1/report?continent=Europe&category=Job%20Request&start=2026-03-01&end=2026-03-15
func Report(store *dataset.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		c, ok := parseCriteria(ctx)
		if !ok {
			return
		}
		snap, ok := mustSnapshot(ctx, store)
		if !ok {
			return
		}

		start := time.Now()
		rep := analytics.Aggregate(analytics.Filter(snap.Table, c))
		metrics.ObserveReport("report", start)

		jsonResponse(ctx, fasthttp.StatusOK, reportResponse{
			Snapshot: snapshotInfo(snap),
			Filters:  readFilterQuery(ctx),
			Report:   rep,
		})
	}
}

type optionsResponse struct {
	Snapshot SnapshotInfo `json:"snapshot"`
	analytics.FilterOptions
}

// Options lists the values the filter controls can offer. A continent query
// narrows the country list.
func Options(store *dataset.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		snap, ok := mustSnapshot(ctx, store)
		if !ok {
			return
		}
		continent := string(ctx.QueryArgs().Peek("continent"))
		jsonResponse(ctx, fasthttp.StatusOK, optionsResponse{
			Snapshot:      snapshotInfo(snap),
			FilterOptions: analytics.Options(snap.Table, continent),
		})
	}
}

type recordsResponse struct {
	Snapshot SnapshotInfo          `json:"snapshot"`
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	PerPage  int                   `json:"per_page"`
	Records  []analytics.LogRecord `json:"records"`
}

// Records pages through the filtered view in load order.
func Records(store *dataset.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		c, ok := parseCriteria(ctx)
		if !ok {
			return
		}
		page, ok := parsePage(ctx)
		if !ok {
			return
		}
		snap, ok := mustSnapshot(ctx, store)
		if !ok {
			return
		}

		start := time.Now()
		all := analytics.Filter(snap.Table, c).Records()
		metrics.ObserveReport("records", start)

		lo := min((page.Page-1)*page.PerPage, len(all))
		hi := min(lo+page.PerPage, len(all))
		jsonResponse(ctx, fasthttp.StatusOK, recordsResponse{
			Snapshot: snapshotInfo(snap),
			Total:    len(all),
			Page:     page.Page,
			PerPage:  page.PerPage,
			Records:  all[lo:hi],
		})
	}
}
