package walkforward

import "time"

// Aggregate reduces a completed window list into a ValidationSummary.
// It is pure: no I/O, no mutation of its inputs, order-independent over
// the window list.
func Aggregate(runID, ticker string, planned int, windows []WindowMetrics, targets PerformanceTargets) *ValidationSummary {
	summary := &ValidationSummary{
		RunID:              runID,
		Ticker:             ticker,
		GeneratedAt:        time.Now().UTC(),
		PlannedWindows:     planned,
		TotalWindows:       len(windows),
		FailedWindows:      planned - len(windows),
		Metrics:            map[string]MetricStats{},
		RegimeDistribution: map[string]int{},
		TargetResults:      map[string]bool{},
		Windows:            windows,
	}
	if len(windows) == 0 {
		return summary
	}

	summary.Metrics["mae"] = statsOf(windows, func(w WindowMetrics) float64 { return w.MAE })
	summary.Metrics["rmse"] = statsOf(windows, func(w WindowMetrics) float64 { return w.RMSE })
	summary.Metrics["mape"] = statsOf(windows, func(w WindowMetrics) float64 { return w.MAPE })
	summary.Metrics["me"] = statsOf(windows, func(w WindowMetrics) float64 { return w.ME })
	summary.Metrics["max_error"] = statsOf(windows, func(w WindowMetrics) float64 { return w.MaxError })
	summary.Metrics["directional_accuracy"] = statsOf(windows, func(w WindowMetrics) float64 { return w.DirectionalAccuracy })

	enhanced := windows[0].Enhanced
	if enhanced {
		summary.Metrics["r_squared"] = statsOf(windows, func(w WindowMetrics) float64 { return w.RSquared })
		summary.Metrics["sharpe"] = statsOf(windows, func(w WindowMetrics) float64 { return w.Sharpe })
		summary.Metrics["sortino"] = statsOf(windows, func(w WindowMetrics) float64 { return w.Sortino })
		summary.Metrics["max_drawdown"] = statsOf(windows, func(w WindowMetrics) float64 { return w.MaxDrawdown })
	}

	// MAE relative to each window's own average price, so windows in
	// different price regimes contribute comparably.
	pctSum := 0.0
	pctCount := 0
	for _, w := range windows {
		if w.AvgActualPrice != 0 {
			pctSum += w.MAE / w.AvgActualPrice * 100
			pctCount++
		}
	}
	if pctCount > 0 {
		summary.MAEPctOfPrice = pctSum / float64(pctCount)
	}

	best := &windows[0]
	worst := &windows[0]
	for i := range windows {
		w := &windows[i]
		summary.RegimeDistribution[w.Regime.Regime.String()]++
		if w.MAE < best.MAE {
			best = w
		}
		if w.MAE > worst.MAE {
			worst = w
		}
	}
	summary.BestWindow = best
	summary.WorstWindow = worst

	evaluateTargets(summary, targets, enhanced)
	return summary
}

// evaluateTargets fills the pass/fail map from the configured one-sided
// thresholds. Only enabled checks appear in the map.
func evaluateTargets(summary *ValidationSummary, targets PerformanceTargets, enhanced bool) {
	if targets.CheckMAE {
		summary.TargetResults["mae"] = summary.Metrics["mae"].Mean <= targets.MaxMAE
	}
	if targets.CheckMAPE {
		summary.TargetResults["mape"] = summary.Metrics["mape"].Mean <= targets.MaxMAPE
	}
	if targets.CheckDirectionalAccuracy {
		summary.TargetResults["directional_accuracy"] = summary.Metrics["directional_accuracy"].Mean >= targets.MinDirectionalAccuracy
	}
	if !enhanced {
		return
	}
	if targets.CheckRSquared {
		summary.TargetResults["r_squared"] = summary.Metrics["r_squared"].Mean >= targets.MinRSquared
	}
	if targets.CheckSharpe {
		summary.TargetResults["sharpe"] = summary.Metrics["sharpe"].Mean >= targets.MinSharpe
	}
	if targets.CheckMaxDrawdown {
		summary.TargetResults["max_drawdown"] = summary.Metrics["max_drawdown"].Mean >= targets.MinMaxDrawdown
	}
}

func statsOf(windows []WindowMetrics, pick func(WindowMetrics) float64) MetricStats {
	values := make([]float64, len(windows))
	for i, w := range windows {
		values[i] = pick(w)
	}
	mean, std := meanStd(values)
	return MetricStats{Mean: mean, Std: std}
}
