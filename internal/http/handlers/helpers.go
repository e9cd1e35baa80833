package handlers

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"loginsight/internal/dataset"
	httpctx "loginsight/internal/http/ctx"
)

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
	Details   any    `json:"details,omitempty"`
}

func jsonResponse(ctx *fasthttp.RequestCtx, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		errResponse(ctx, fasthttp.StatusInternalServerError, "failed to encode response", nil)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

func errResponse(ctx *fasthttp.RequestCtx, status int, msg string, details any) {
	id, _ := httpctx.RequestIDFromCtx(ctx)
	body, _ := json.Marshal(ErrorResponse{Error: msg, RequestID: id, Details: details})
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

// mustSnapshot returns the serving snapshot, or sends 503 and returns (nil, false).
func mustSnapshot(ctx *fasthttp.RequestCtx, store *dataset.Store) (*dataset.Snapshot, bool) {
	snap := store.Current()
	if snap == nil {
		errResponse(ctx, fasthttp.StatusServiceUnavailable, "dataset not loaded yet", nil)
		return nil, false
	}
	return snap, true
}

// SnapshotInfo describes the snapshot a response was computed from.
type SnapshotInfo struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Name     string `json:"name,omitempty"`
	Fallback bool   `json:"fallback"`
	LoadedAt string `json:"loaded_at"`
	Records  int    `json:"records"`
}

func snapshotInfo(s *dataset.Snapshot) SnapshotInfo {
	return SnapshotInfo{
		ID:       s.ID.String(),
		Source:   s.Source,
		Name:     s.Name,
		Fallback: s.Fallback,
		LoadedAt: s.LoadedAt.UTC().Format(time.RFC3339),
		Records:  s.Table.Len(),
	}
}
