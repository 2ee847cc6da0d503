package walkforward

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	valerrors "github.com/minhtran-quant/forecastval/internal/errors"
	"github.com/minhtran-quant/forecastval/internal/logger"
	"github.com/minhtran-quant/forecastval/internal/monitoring"
	"github.com/minhtran-quant/forecastval/internal/regime"
	"github.com/minhtran-quant/forecastval/pkg/forecast"
	"github.com/minhtran-quant/forecastval/pkg/types"
)

// EngineConfig configures a walk-forward run.
type EngineConfig struct {
	InitialTrainSize int
	TestSize         int
	StepSize         int
	WindowType       WindowType

	// EnhancedMetrics adds R², Sharpe, Sortino and drawdown per window.
	EnhancedMetrics bool

	// Workers > 1 evaluates windows concurrently; results are reassembled
	// deterministically by window index before aggregation. Zero or one
	// keeps the sequential reference behavior.
	Workers int

	// Ticker labels logs and Prometheus metrics.
	Ticker string
}

// WalkForwardEngine drives repeated train/test cycles over a frozen bar
// series, delegating prediction to an injected Forecaster and classifying
// the volatility regime of every training slice.
type WalkForwardEngine struct {
	cfg        EngineConfig
	forecaster forecast.Forecaster
	log        zerolog.Logger
}

// NewWalkForwardEngine validates the configuration and returns an engine.
func NewWalkForwardEngine(cfg EngineConfig, forecaster forecast.Forecaster) (*WalkForwardEngine, error) {
	if cfg.InitialTrainSize <= 0 || cfg.TestSize <= 0 || cfg.StepSize <= 0 {
		return nil, valerrors.NewConfigError("walkforward", "new",
			fmt.Sprintf("window sizes must be positive: initial_train=%d test=%d step=%d",
				cfg.InitialTrainSize, cfg.TestSize, cfg.StepSize))
	}
	if cfg.WindowType != WindowExpanding && cfg.WindowType != WindowRolling {
		return nil, valerrors.NewConfigError("walkforward", "new",
			fmt.Sprintf("unknown window type %q", cfg.WindowType))
	}
	if forecaster == nil {
		return nil, valerrors.NewConfigError("walkforward", "new", "forecaster is required")
	}
	return &WalkForwardEngine{
		cfg:        cfg,
		forecaster: forecaster,
		log:        logger.New("walkforward"),
	}, nil
}

// PlannedWindows returns the number of windows a series of n bars yields.
func (e *WalkForwardEngine) PlannedWindows(n int) int {
	usable := n - e.cfg.InitialTrainSize - e.cfg.TestSize
	if usable < 0 {
		return 0
	}
	return usable/e.cfg.StepSize + 1
}

// Run evaluates every window and returns the successful WindowMetrics in
// window order. A window whose forecast fails is logged and dropped; the
// run fails only when no window succeeds. Cancelling the context stops
// scheduling new windows without corrupting already-collected results.
func (e *WalkForwardEngine) Run(ctx context.Context, bars []types.Bar) ([]WindowMetrics, error) {
	start := time.Now()
	planned := e.PlannedWindows(len(bars))
	if planned == 0 {
		monitoring.RecordRun(e.cfg.Ticker, "failed", time.Since(start).Seconds())
		return nil, valerrors.NewInsufficientDataError("walkforward", "run",
			fmt.Sprintf("%d bars cannot fit initial_train=%d + test=%d",
				len(bars), e.cfg.InitialTrainSize, e.cfg.TestSize))
	}

	e.log.Info().
		Str("ticker", e.cfg.Ticker).
		Int("bars", len(bars)).
		Int("planned_windows", planned).
		Str("window_type", string(e.cfg.WindowType)).
		Msg("starting walk-forward run")

	var results []WindowMetrics
	var failed int
	if e.cfg.Workers > 1 {
		results, failed = e.runParallel(ctx, bars, planned)
	} else {
		results, failed = e.runSequential(ctx, bars, planned)
	}

	elapsed := time.Since(start)
	if len(results) == 0 {
		monitoring.RecordRun(e.cfg.Ticker, "failed", elapsed.Seconds())
		return nil, valerrors.NewRunFailedError("walkforward",
			fmt.Sprintf("all %d windows failed", planned))
	}

	monitoring.RecordRun(e.cfg.Ticker, "ok", elapsed.Seconds())
	e.log.Info().
		Str("ticker", e.cfg.Ticker).
		Int("windows", len(results)).
		Int("failed", failed).
		Dur("elapsed", elapsed).
		Msg("walk-forward run complete")
	return results, nil
}

func (e *WalkForwardEngine) runSequential(ctx context.Context, bars []types.Bar, planned int) ([]WindowMetrics, int) {
	results := make([]WindowMetrics, 0, planned)
	failed := 0
	for i := 0; i < planned; i++ {
		if ctx.Err() != nil {
			e.log.Warn().Int("window", i).Msg("run cancelled, keeping collected windows")
			break
		}
		wm, err := e.evaluateWindow(bars, i, planned)
		if err != nil {
			failed++
			e.recordFailure(i, err)
			continue
		}
		monitoring.RecordWindow(e.cfg.Ticker, wm.Regime.Regime.String())
		results = append(results, wm)
	}
	return results, failed
}

// evaluateWindow runs the per-window pipeline: slice, classify, forecast,
// score. Windows are pure functions of (train, test, forecaster), which is
// what makes the parallel path safe.
func (e *WalkForwardEngine) evaluateWindow(bars []types.Bar, window, planned int) (WindowMetrics, error) {
	trainEnd := e.cfg.InitialTrainSize + window*e.cfg.StepSize
	testStart := trainEnd
	testEnd := testStart + e.cfg.TestSize

	trainStart := 0
	if e.cfg.WindowType == WindowRolling {
		trainStart = trainEnd - e.cfg.InitialTrainSize
	}
	train := bars[trainStart:trainEnd]
	test := bars[testStart:testEnd]

	sig := regime.Classify(types.Returns(train))

	preds, err := e.forecastWindow(train, sig)
	if err != nil {
		return WindowMetrics{}, valerrors.WrapForecastError(err, e.forecaster.Name(), window)
	}
	if len(preds) != e.cfg.TestSize {
		return WindowMetrics{}, valerrors.WrapForecastError(
			fmt.Errorf("got %d predictions, want %d", len(preds), e.cfg.TestSize),
			e.forecaster.Name(), window)
	}

	wm := computeWindowMetrics(types.Closes(test), preds, e.cfg.EnhancedMetrics)
	wm.WindowIndex = window
	wm.NWindows = planned
	wm.TrainSize = len(train)
	wm.TestStart = testStart
	wm.TestEnd = testEnd
	wm.Regime = sig
	return wm, nil
}

// forecastWindow prefers the regime-aware path so ensembles can blend with
// the weight vector of the training slice's regime.
func (e *WalkForwardEngine) forecastWindow(train []types.Bar, sig regime.Signal) ([]float64, error) {
	if ra, ok := e.forecaster.(forecast.RegimeAware); ok {
		return ra.ForecastRegime(train, e.cfg.TestSize, sig.Regime)
	}
	return e.forecaster.Forecast(train, e.cfg.TestSize)
}

func (e *WalkForwardEngine) recordFailure(window int, err error) {
	monitoring.RecordWindowFailure(e.cfg.Ticker)
	e.log.Warn().
		Int("window", window).
		Err(err).
		Msg("window forecast failed, dropping from aggregation")
}
