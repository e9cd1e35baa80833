package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordIngestion(t *testing.T) {
	before := testutil.ToFloat64(IngestionsTotal.WithLabelValues("upload", "loaded"))

	RecordIngestion("upload", "loaded", 42, false)
	assert.Equal(t, before+1, testutil.ToFloat64(IngestionsTotal.WithLabelValues("upload", "loaded")))
	assert.Equal(t, 42.0, testutil.ToFloat64(DatasetRecords))
	assert.Equal(t, 0.0, testutil.ToFloat64(DatasetFallback))

	RecordIngestion("startup", "fallback", 1000, true)
	assert.Equal(t, 1000.0, testutil.ToFloat64(DatasetRecords))
	assert.Equal(t, 1.0, testutil.ToFloat64(DatasetFallback))

	// A rejected upload leaves the gauges describing the retained snapshot.
	RecordIngestion("upload", "rejected", 0, false)
	assert.Equal(t, 1000.0, testutil.ToFloat64(DatasetRecords))
	assert.Equal(t, 1.0, testutil.ToFloat64(DatasetFallback))
}

func TestObserveHTTP(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/v1/report", "200"))
	ObserveHTTP("GET", "/v1/report", 200, 3*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/v1/report", "200")))
}
