package middleware

import (
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	httpctx "loginsight/internal/http/ctx"
)

const RequestIDHeader = "X-Request-ID"

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id := string(ctx.Request.Header.Peek(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.New().String()
		}
		ctx.Response.Header.Set(RequestIDHeader, id)
		httpctx.SetRequestID(ctx, id)
		next(ctx)
	}
}
