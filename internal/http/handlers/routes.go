package handlers

import (
	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"loginsight/internal/dataset"
	appmw "loginsight/internal/http/middleware"
)

// Deps are the collaborators the HTTP surface needs. DB may be nil.
type Deps struct {
	Store    *dataset.Store
	DB       *gorm.DB
	Gatherer prometheus.Gatherer
}

// NewHandler registers every route and wraps the router in the global
// middleware chain: request id, request logger, reporting, then recovery.
func NewHandler(d Deps) fasthttp.RequestHandler {
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	r := router.New()
	r.SaveMatchedRoutePath = true

	r.GET("/healthz", Healthz(d.Store))
	r.GET("/metrics", Metrics(d.Gatherer))

	r.GET("/v1/options", Options(d.Store))
	r.GET("/v1/report", Report(d.Store))
	r.GET("/v1/records", Records(d.Store))
	r.GET("/v1/export/geo.csv", ExportGeo(d.Store))
	r.GET("/v1/export/temporal.csv", ExportTemporal(d.Store))
	r.POST("/v1/upload", Upload(d.Store))
	r.GET("/v1/ingestions", Ingestions(d.DB))

	return appmw.Chain(r.Handler,
		appmw.RequestID,
		appmw.RequestLogger,
		appmw.Reporting,
		appmw.Recover,
	)
}

// Healthz answers ok once a snapshot is serving.
func Healthz(store *dataset.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if store.Current() == nil {
			ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
			ctx.SetBodyString("loading")
			return
		}
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	}
}
