package handlers

import (
	"bytes"
	"time"

	"github.com/valyala/fasthttp"

	"loginsight/internal/analytics"
	"loginsight/internal/dataset"
	"loginsight/internal/metrics"
)

// ExportGeo downloads the geographic rollup of the filtered view as CSV.
func ExportGeo(store *dataset.Store) fasthttp.RequestHandler {
	return exportCSV(store, "geo", "geographic_analysis.csv", func(buf *bytes.Buffer, rep *analytics.Report) error {
		return analytics.WriteGeoCSV(buf, rep.GeoRollup)
	})
}

// ExportTemporal downloads the temporal rollup of the filtered view as CSV.
func ExportTemporal(store *dataset.Store) fasthttp.RequestHandler {
	return exportCSV(store, "temporal", "temporal_analysis.csv", func(buf *bytes.Buffer, rep *analytics.Report) error {
		return analytics.WriteTemporalCSV(buf, rep.TemporalRollup)
	})
}

func exportCSV(store *dataset.Store, view, filename string, write func(*bytes.Buffer, *analytics.Report) error) fasthttp.RequestHandler {
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
		metrics.ObserveReport(view+"_export", start)

		var buf bytes.Buffer
		if err := write(&buf, rep); err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to encode csv", nil)
			return
		}
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetContentType("text/csv; charset=utf-8")
		ctx.Response.Header.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		ctx.SetBody(buf.Bytes())
	}
}
