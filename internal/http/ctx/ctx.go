package ctx

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

const RequestIDKey = "requestID"

func SetRequestID(ctx *fasthttp.RequestCtx, id string) {
	ctx.SetUserValue(RequestIDKey, id)
}

func RequestIDFromCtx(ctx *fasthttp.RequestCtx) (string, bool) {
	v := ctx.UserValue(RequestIDKey)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// RouteFromCtx returns the matched route pattern, e.g. "/v1/report", or
// "unmatched". The router must have SaveMatchedRoutePath enabled.
func RouteFromCtx(ctx *fasthttp.RequestCtx) string {
	if s, ok := ctx.UserValue(router.MatchedRoutePathParam).(string); ok && s != "" {
		return s
	}
	return "unmatched"
}
