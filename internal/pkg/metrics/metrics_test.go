package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCatalogLoad(t *testing.T) {
	before := testutil.ToFloat64(catalogLoads.WithLabelValues("degraded"))
	RecordCatalogLoad(true)
	assert.Equal(t, before+1, testutil.ToFloat64(catalogLoads.WithLabelValues("degraded")))
}

func TestRecordCommit(t *testing.T) {
	before := testutil.ToFloat64(orderCommits.WithLabelValues("failed"))
	RecordCommit(false)
	assert.Equal(t, before+1, testutil.ToFloat64(orderCommits.WithLabelValues("failed")))
}

func TestObserveHTTP_UsesStatusClass(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("/inventory/api/shelves", http.MethodGet, "4xx"))
	ObserveHTTP("/inventory/api/shelves", http.MethodGet, http.StatusBadRequest, 5*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("/inventory/api/shelves", http.MethodGet, "4xx")))

	assert.Equal(t, "other", statusClass(0))
	assert.Equal(t, "5xx", statusClass(502))
}
