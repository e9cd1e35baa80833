package middleware

import (
	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	httpctx "loginsight/internal/http/ctx"
	"loginsight/internal/logging"
)

// Recover turns a panicking handler into a 500 response.
func Recover(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			id, _ := httpctx.RequestIDFromCtx(ctx)
			logging.Error().
				Interface("panic", v).
				Str("request_id", id).
				Bytes("method", ctx.Method()).
				Bytes("path", ctx.Path()).
				Msg("handler panic")

			body, _ := json.Marshal(map[string]string{"error": "internal server error", "request_id": id})
			ctx.Response.Reset()
			ctx.Response.Header.Set(RequestIDHeader, id)
			ctx.SetStatusCode(fasthttp.StatusInternalServerError)
			ctx.SetContentType("application/json")
			ctx.SetBody(body)
		}()
		next(ctx)
	}
}
