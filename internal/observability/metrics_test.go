package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/simple-notes/internal/observability/metrics"
)

func TestNewMetricsConcurrency(t *testing.T) {
	t.Parallel()

	const numGoroutines = 20

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for range numGoroutines {
		go func() {
			defer wg.Done()
			m, err := NewMetrics()
			if err != nil {
				t.Errorf("NewMetrics failed: %v", err)
				return
			}
			if m.HTTP == nil || m.Datastore == nil || m.Registry() == nil {
				t.Error("NewMetrics returned incomplete metrics")
			}
		}()
	}
	wg.Wait()
}

func TestHandlerExposesRecordedMetrics(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)

	m.HTTP.RecordHTTPRequest(http.MethodGet, "/api/notes", http.StatusOK, 0.004)
	m.Datastore.RecordDbOperation(metrics.OpNoteCreate, "mongo", metrics.StatusSuccess)
	m.Datastore.SetUp("mongo", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)

	assert.Contains(t, text, `http_requests_total{method="GET",path="/api/notes",status_code="200"} 1`)
	assert.Contains(t, text, `datastore_db_operations_total{backend="mongo",operation="note_create",status="success"} 1`)
	assert.Contains(t, text, `datastore_up{backend="mongo"} 1`)
	assert.True(t, strings.Contains(text, "go_goroutines"), "runtime collector should be registered")
}

func TestDatastoreMetricsCounters(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)

	m.Datastore.RecordDbOperationError(metrics.OpNoteGet, "sqlite", "database")
	m.Datastore.RecordDbOperationError(metrics.OpNoteGet, "sqlite", "database")
	m.Datastore.UpdateNoteCount("sqlite", 3)
	m.Datastore.SetUp("sqlite", false)

	expected := `
# HELP datastore_db_operation_errors_total Total number of database operation errors
# TYPE datastore_db_operation_errors_total counter
datastore_db_operation_errors_total{backend="sqlite",error_type="database",operation="note_get"} 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "datastore_db_operation_errors_total"))

	expectedGauges := `
# HELP datastore_notes_count Number of notes seen by the last full listing
# TYPE datastore_notes_count gauge
datastore_notes_count{backend="sqlite"} 3
# HELP datastore_up Whether the last store ping succeeded (1) or failed (0)
# TYPE datastore_up gauge
datastore_up{backend="sqlite"} 0
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expectedGauges), "datastore_notes_count", "datastore_up"))
}

func TestHTTPInFlightGauge(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)

	m.HTTP.RequestStarted()
	m.HTTP.RequestStarted()
	assert.InDelta(t, 2.0, m.HTTP.GetInFlightRequests(), 0.001)

	m.HTTP.RequestFinished()
	assert.InDelta(t, 1.0, m.HTTP.GetInFlightRequests(), 0.001)

	m.HTTP.RecordRateLimited()
	m.HTTP.RecordValidationRejection("Invalid note ID format")
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTP, "http_rate_limited_total"))
}
