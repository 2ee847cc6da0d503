package walkforward

import (
	"time"

	"github.com/minhtran-quant/forecastval/internal/regime"
)

// WindowType selects how the training slice grows between windows.
type WindowType string

const (
	WindowExpanding WindowType = "expanding"
	WindowRolling   WindowType = "rolling"
)

// WindowMetrics holds the evaluation of a single completed walk-forward
// window. Created once per successful window, immutable afterwards.
type WindowMetrics struct {
	WindowIndex int `json:"window_index"`
	NWindows    int `json:"n_windows"` // total planned for the run
	TrainSize   int `json:"train_size"`
	TestStart   int `json:"test_start"`
	TestEnd     int `json:"test_end"`

	Regime regime.Signal `json:"regime"`

	MAE                 float64 `json:"mae"`
	RMSE                float64 `json:"rmse"`
	MAPE                float64 `json:"mape"`
	ME                  float64 `json:"me"`
	MaxError            float64 `json:"max_error"`
	DirectionalAccuracy float64 `json:"directional_accuracy"`

	// AvgActualPrice is the window-local mean actual close, used for the
	// MAE-as-percent-of-price aggregate so windows in different price
	// regimes are not distorted by a global average.
	AvgActualPrice float64 `json:"avg_actual_price"`

	// Enhanced metrics, populated when the engine is configured for them.
	Enhanced    bool    `json:"enhanced"`
	RSquared    float64 `json:"r_squared,omitempty"`
	Sharpe      float64 `json:"sharpe,omitempty"`
	Sortino     float64 `json:"sortino,omitempty"`
	MaxDrawdown float64 `json:"max_drawdown,omitempty"`
}

// MetricStats is a mean/std pair for one metric across windows.
type MetricStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// PerformanceTargets is the configurable table of one-sided pass/fail
// thresholds evaluated against the aggregated run metrics. A zero-valued
// threshold paired with its Check flag disabled is simply not evaluated.
type PerformanceTargets struct {
	MaxMAE   float64 `json:"max_mae"`
	CheckMAE bool    `json:"check_mae"`

	MaxMAPE   float64 `json:"max_mape"`
	CheckMAPE bool    `json:"check_mape"`

	MinDirectionalAccuracy   float64 `json:"min_directional_accuracy"`
	CheckDirectionalAccuracy bool    `json:"check_directional_accuracy"`

	MinRSquared   float64 `json:"min_r_squared"`
	CheckRSquared bool    `json:"check_r_squared"`

	MinSharpe   float64 `json:"min_sharpe"`
	CheckSharpe bool    `json:"check_sharpe"`

	// Drawdowns are negative; the run passes while the mean drawdown stays
	// above (less severe than) the floor.
	MinMaxDrawdown   float64 `json:"min_max_drawdown"`
	CheckMaxDrawdown bool    `json:"check_max_drawdown"`
}

// DefaultPerformanceTargets returns a modest target table: 5% MAPE, 55%
// directional accuracy, drawdown no worse than -25%.
func DefaultPerformanceTargets() PerformanceTargets {
	return PerformanceTargets{
		MaxMAPE:                  5.0,
		CheckMAPE:                true,
		MinDirectionalAccuracy:   55.0,
		CheckDirectionalAccuracy: true,
		MinMaxDrawdown:           -0.25,
		CheckMaxDrawdown:         true,
	}
}

// ValidationSummary is the aggregate of all successful windows in a run.
// Created once at the end of a run, immutable, and handed to an external
// reporting collaborator.
type ValidationSummary struct {
	RunID       string    `json:"run_id"`
	Ticker      string    `json:"ticker"`
	GeneratedAt time.Time `json:"generated_at"`

	PlannedWindows int `json:"planned_windows"`
	TotalWindows   int `json:"total_windows"`
	FailedWindows  int `json:"failed_windows"`

	Metrics            map[string]MetricStats `json:"metrics"`
	RegimeDistribution map[string]int         `json:"regime_distribution"`
	TargetResults      map[string]bool        `json:"target_results"`

	// MAEPctOfPrice averages each window's MAE over that window's own
	// average actual price, in percent.
	MAEPctOfPrice float64 `json:"mae_pct_of_price"`

	BestWindow  *WindowMetrics  `json:"best_window"`  // lowest MAE
	WorstWindow *WindowMetrics  `json:"worst_window"` // highest MAE
	Windows     []WindowMetrics `json:"windows"`
}

// Passed reports whether every evaluated target held.
func (s *ValidationSummary) Passed() bool {
	for _, ok := range s.TargetResults {
		if !ok {
			return false
		}
	}
	return true
}
