package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleQuery struct {
	Start   string `query:"start" validate:"omitempty,datetime=2006-01-02"`
	PerPage int    `query:"per_page" validate:"min=1,max=500"`
	Format  string `query:"format" validate:"omitempty,oneof=json csv"`
}

func TestStruct_OK(t *testing.T) {
	assert.NoError(t, Struct(&sampleQuery{Start: "2026-03-01", PerPage: 10}))
	assert.NoError(t, Struct(&sampleQuery{PerPage: 500, Format: "csv"}))
}

func TestStruct_FieldErrors(t *testing.T) {
	err := Struct(&sampleQuery{Start: "03/01/2026", PerPage: 0, Format: "xml"})

	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 3)

	assert.Equal(t, "start", verr.Fields[0].Field)
	assert.Equal(t, "datetime", verr.Fields[0].Tag)
	assert.Equal(t, "start must be a date in 2006-01-02 format", verr.Fields[0].Message)

	assert.Equal(t, "per_page", verr.Fields[1].Field)
	assert.Equal(t, "per_page must be at least 1", verr.Fields[1].Message)

	assert.Equal(t, "format must be one of: json csv", verr.Fields[2].Message)
	assert.Contains(t, err.Error(), "; ")
}

func TestTagName(t *testing.T) {
	assert.Equal(t, "start", tagName("start,omitempty", "Start"))
	assert.Equal(t, "Start", tagName("", "Start"))
	assert.Equal(t, "", tagName("-", "Start"))
}
