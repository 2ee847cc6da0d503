package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthChecker_NoRunsIsHealthy(t *testing.T) {
	h := NewHealthChecker()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Zero(t, status.TotalRuns)
}

func TestHealthChecker_TracksRuns(t *testing.T) {
	h := NewHealthChecker()
	h.RecordRun(true, 1.25)
	h.RecordRun(false, 4.0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, 1, status.TotalFailed)
	assert.InDelta(t, 4.0, status.LastRunMAE, 1e-9)
}

func TestHealthChecker_RecoversAfterGoodRun(t *testing.T) {
	h := NewHealthChecker()
	h.RecordRun(false, 9.0)
	h.RecordRun(true, 1.0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
