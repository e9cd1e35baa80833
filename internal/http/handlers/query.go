package handlers

import (
	"errors"
	"time"

	"github.com/valyala/fasthttp"

	"loginsight/internal/analytics"
	"loginsight/internal/validation"
)

// filterQuery is the common set of view filters. Empty or "All" means no
// constraint; dates are inclusive UTC days.
type filterQuery struct {
	Continent string `query:"continent" json:"continent,omitempty" validate:"max=64"`
	Country   string `query:"country" json:"country,omitempty" validate:"max=64"`
	Category  string `query:"category" json:"category,omitempty" validate:"max=64"`
	Start     string `query:"start" json:"start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	End       string `query:"end" json:"end,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type pageQuery struct {
	Page    int `query:"page" validate:"min=1"`
	PerPage int `query:"per_page" validate:"min=1,max=500"`
}

const defaultPerPage = 50

func readFilterQuery(ctx *fasthttp.RequestCtx) filterQuery {
	args := ctx.QueryArgs()
	return filterQuery{
		Continent: string(args.Peek("continent")),
		Country:   string(args.Peek("country")),
		Category:  string(args.Peek("category")),
		Start:     string(args.Peek("start")),
		End:       string(args.Peek("end")),
	}
}

// parseCriteria reads and validates the filter query. On failure it writes
// a 400 and returns false.
func parseCriteria(ctx *fasthttp.RequestCtx) (analytics.Criteria, bool) {
	q := readFilterQuery(ctx)
	if err := validation.Struct(&q); err != nil {
		badRequest(ctx, err)
		return analytics.Criteria{}, false
	}

	c := analytics.Criteria{
		Continent: q.Continent,
		Country:   q.Country,
		Category:  q.Category,
	}
	// Already validated against the layout.
	if q.Start != "" {
		c.StartDate, _ = time.Parse(analytics.DayLayout, q.Start)
	}
	if q.End != "" {
		c.EndDate, _ = time.Parse(analytics.DayLayout, q.End)
	}
	return c, true
}

func parsePage(ctx *fasthttp.RequestCtx) (pageQuery, bool) {
	q := pageQuery{Page: 1, PerPage: defaultPerPage}
	args := ctx.QueryArgs()
	if args.Has("page") {
		q.Page = intArg(args, "page")
	}
	if args.Has("per_page") {
		q.PerPage = intArg(args, "per_page")
	}
	if err := validation.Struct(&q); err != nil {
		badRequest(ctx, err)
		return q, false
	}
	return q, true
}

// intArg returns 0 for a missing or malformed value, which the min rules reject.
func intArg(args *fasthttp.Args, key string) int {
	n, err := args.GetUint(key)
	if err != nil {
		return 0
	}
	return n
}

func badRequest(ctx *fasthttp.RequestCtx, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		errResponse(ctx, fasthttp.StatusBadRequest, verr.Error(), verr.Fields)
		return
	}
	errResponse(ctx, fasthttp.StatusBadRequest, err.Error(), nil)
}
