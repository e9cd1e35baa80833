package handlers

import (
	"bytes"
	"errors"
	"io"

	"github.com/valyala/fasthttp"

	"loginsight/internal/analytics"
	"loginsight/internal/dataset"
)

type uploadResponse struct {
	Accepted bool         `json:"accepted"`
	Records  int          `json:"records"`
	Snapshot SnapshotInfo `json:"snapshot"`
	Error    string       `json:"error,omitempty"`
	Missing  []string     `json:"missing_columns,omitempty"`
	Row      int          `json:"row,omitempty"`
}

// Upload replaces the dataset with a CSV log sent either as multipart field
// "file" or as the raw request body (optionally gzip or zstd compressed).
// A rejected upload still answers 200: the previous snapshot keeps serving
// and the body says why.
func Upload(store *dataset.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		name, body, err := uploadBody(ctx)
		if err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, err.Error(), nil)
			return
		}
		defer body.Close()

		res := store.Upload(ctx, name, body)
		resp := uploadResponse{
			Accepted: res.Accepted,
			Records:  res.Records,
			Snapshot: snapshotInfo(res.Snapshot),
		}
		if res.Err != nil {
			resp.Error = res.Err.Error()
			var se *analytics.SchemaError
			if errors.As(res.Err, &se) {
				resp.Missing = se.Missing
			}
			var pe *analytics.ParseError
			if errors.As(res.Err, &pe) {
				resp.Row = pe.Row
			}
		}
		jsonResponse(ctx, fasthttp.StatusOK, resp)
	}
}

func uploadBody(ctx *fasthttp.RequestCtx) (string, io.ReadCloser, error) {
	if bytes.HasPrefix(ctx.Request.Header.ContentType(), []byte("multipart/form-data")) {
		fh, err := ctx.FormFile("file")
		if err != nil {
			return "", nil, errors.New(`multipart upload needs a "file" field`)
		}
		f, err := fh.Open()
		if err != nil {
			return "", nil, err
		}
		return fh.Filename, f, nil
	}

	if len(ctx.PostBody()) == 0 {
		return "", nil, errors.New("empty upload")
	}
	name := string(ctx.QueryArgs().Peek("name"))
	if name == "" {
		name = "upload.csv"
	}
	return name, io.NopCloser(bytes.NewReader(ctx.PostBody())), nil
}
