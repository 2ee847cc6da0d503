package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Run metrics
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecastval_runs_total",
			Help: "Total number of walk-forward validation runs",
		},
		[]string{"ticker", "outcome"},
	)

	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forecastval_run_duration_seconds",
			Help:    "Duration of walk-forward validation runs",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"ticker"},
	)

	// Window metrics
	windowsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecastval_windows_processed_total",
			Help: "Total number of evaluated walk-forward windows",
		},
		[]string{"ticker"},
	)

	windowsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecastval_windows_failed_total",
			Help: "Total number of windows dropped after forecast failures",
		},
		[]string{"ticker"},
	)

	regimeWindows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecastval_regime_windows_total",
			Help: "Windows evaluated per volatility regime",
		},
		[]string{"ticker", "regime"},
	)

	lastRunMAE = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "forecastval_last_run_mae",
			Help: "Mean MAE of the most recent run",
		},
		[]string{"ticker"},
	)
)

func init() {
	prometheus.MustRegister(runsTotal)
	prometheus.MustRegister(runDuration)
	prometheus.MustRegister(windowsProcessed)
	prometheus.MustRegister(windowsFailed)
	prometheus.MustRegister(regimeWindows)
	prometheus.MustRegister(lastRunMAE)
}

// RecordRun records the outcome and duration of a run.
func RecordRun(ticker, outcome string, seconds float64) {
	runsTotal.WithLabelValues(ticker, outcome).Inc()
	runDuration.WithLabelValues(ticker).Observe(seconds)
}

// RecordWindow counts a successfully evaluated window and its regime.
func RecordWindow(ticker, regimeLabel string) {
	windowsProcessed.WithLabelValues(ticker).Inc()
	regimeWindows.WithLabelValues(ticker, regimeLabel).Inc()
}

// RecordWindowFailure counts a window dropped after a forecast error.
func RecordWindowFailure(ticker string) {
	windowsFailed.WithLabelValues(ticker).Inc()
}

// RecordRunMAE publishes the mean MAE of the latest run.
func RecordRunMAE(ticker string, mae float64) {
	lastRunMAE.WithLabelValues(ticker).Set(mae)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// defaultHealth backs the /healthz endpoint exposed by Serve.
var defaultHealth = NewHealthChecker()

// RecordRunHealth feeds the health endpoint after a run completes.
func RecordRunHealth(ok bool, mae float64) {
	defaultHealth.RecordRun(ok, mae)
}

// Serve exposes /metrics and /healthz on the given address. Blocks;
// intended to run in its own goroutine from a cmd.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.Handle("/healthz", defaultHealth)
	return http.ListenAndServe(addr, mux)
}
