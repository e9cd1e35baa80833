package middleware

import (
	"time"

	"github.com/valyala/fasthttp"

	httpctx "loginsight/internal/http/ctx"
	"loginsight/internal/metrics"
)

// Reporting records request counts and latency for this instance, keyed by
// route pattern. Scrapes and health checks are not counted.
func Reporting(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)

		route := httpctx.RouteFromCtx(ctx)
		if route == "/metrics" || route == "/healthz" {
			return
		}
		metrics.ObserveHTTP(string(ctx.Method()), route, ctx.Response.StatusCode(), time.Since(start))
	}
}
