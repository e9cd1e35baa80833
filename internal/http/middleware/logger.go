package middleware

import (
	"time"

	"github.com/valyala/fasthttp"

	httpctx "loginsight/internal/http/ctx"
	"loginsight/internal/logging"
)

// RequestLogger logs method, path, status, duration and request id.
func RequestLogger(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)

		status := ctx.Response.StatusCode()
		ev := logging.Info()
		if status >= fasthttp.StatusInternalServerError {
			ev = logging.Error()
		}
		id, _ := httpctx.RequestIDFromCtx(ctx)
		ev.Bytes("method", ctx.Method()).
			Bytes("path", ctx.Path()).
			Int("status", status).
			Dur("took", time.Since(start)).
			Str("ip", ctx.RemoteIP().String()).
			Str("request_id", id).
			Msg("request")
	}
}
