package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker tracks the outcome of the most recent validation run and
// serves it as a JSON health endpoint next to the metrics handler.
type HealthChecker struct {
	mu          sync.RWMutex
	lastRun     time.Time
	lastRunMAE  float64
	lastRunOK   bool
	totalRuns   int
	totalFailed int
}

// HealthStatus is the JSON body of the health endpoint.
type HealthStatus struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	LastRun     time.Time `json:"last_run,omitempty"`
	LastRunMAE  float64   `json:"last_run_mae,omitempty"`
	TotalRuns   int       `json:"total_runs"`
	TotalFailed int       `json:"total_failed"`
	Uptime      string    `json:"uptime"`
}

// NewHealthChecker creates a health checker with no recorded runs.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{}
}

// RecordRun notes the completion of a validation run.
func (h *HealthChecker) RecordRun(ok bool, mae float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastRun = time.Now()
	h.lastRunOK = ok
	h.lastRunMAE = mae
	h.totalRuns++
	if !ok {
		h.totalFailed++
	}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if h.totalRuns > 0 && !h.lastRunOK {
		status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	health := HealthStatus{
		Status:      status,
		Timestamp:   time.Now(),
		LastRun:     h.lastRun,
		LastRunMAE:  h.lastRunMAE,
		TotalRuns:   h.totalRuns,
		TotalFailed: h.totalFailed,
		Uptime:      time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
