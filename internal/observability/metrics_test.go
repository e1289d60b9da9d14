package observability_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/rankhist/internal/observability"
)

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	t.Parallel()

	// Two runs in one process must not collide on registration.
	first := observability.NewMetrics()
	second := observability.NewMetrics()

	first.FilesScanned.Add(10)
	second.FilesScanned.Add(3)
}

func TestMetrics_HandlerExposesCounters(t *testing.T) {
	t.Parallel()

	metrics := observability.NewMetrics()
	metrics.FilesScanned.Add(42)
	metrics.BatchesFailed.Inc()
	metrics.OracleDuration.Observe(0.5)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/metrics", nil)

	metrics.Handler().ServeHTTP(recorder, request)

	require.Equal(t, 200, recorder.Code)

	body := recorder.Body.String()
	assert.Contains(t, body, "rankhist_files_scanned_total 42")
	assert.Contains(t, body, "rankhist_batches_failed_total 1")
	assert.Contains(t, body, "rankhist_oracle_call_duration_seconds_count 1")
}
