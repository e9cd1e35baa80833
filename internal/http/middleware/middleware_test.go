package middleware

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	httpctx "loginsight/internal/http/ctx"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(func(ctx *fasthttp.RequestCtx) {
		seen, _ = httpctx.RequestIDFromCtx(ctx)
	})

	var ctx fasthttp.RequestCtx
	h(&ctx)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, string(ctx.Response.Header.Peek(RequestIDHeader)))

	var given fasthttp.RequestCtx
	given.Request.Header.Set(RequestIDHeader, "trace-1")
	h(&given)
	assert.Equal(t, "trace-1", seen)
}

func TestRecover(t *testing.T) {
	h := Chain(func(*fasthttp.RequestCtx) { panic("boom") }, RequestID, Recover)

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/v1/report")
	require.NotPanics(t, func() { h(&ctx) })

	assert.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
	var body map[string]string
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.Equal(t, "internal server error", body["error"])
	assert.NotEmpty(t, body["request_id"])
	assert.Equal(t, body["request_id"], string(ctx.Response.Header.Peek(RequestIDHeader)))
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
			return func(ctx *fasthttp.RequestCtx) {
				order = append(order, name)
				next(ctx)
			}
		}
	}
	h := Chain(func(*fasthttp.RequestCtx) { order = append(order, "handler") }, mw("a"), mw("b"))

	var ctx fasthttp.RequestCtx
	h(&ctx)
	assert.Equal(t, []string{"a", "b", "handler"}, order)
}
