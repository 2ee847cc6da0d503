package walkforward

import "math"

// tradingDaysPerYear annualizes per-bar return ratios.
const tradingDaysPerYear = 252

// computeWindowMetrics evaluates one window's predictions against the
// actual closes. Enhanced metrics (R², Sharpe, Sortino, drawdown) are
// computed only on request.
func computeWindowMetrics(actual, predicted []float64, enhanced bool) WindowMetrics {
	m := WindowMetrics{Enhanced: enhanced}
	n := len(actual)
	if n == 0 || len(predicted) != n {
		return m
	}

	var sumAbs, sumSq, sumPct, sumErr, sumActual float64
	maxAbs := 0.0
	for i := 0; i < n; i++ {
		err := actual[i] - predicted[i]
		abs := math.Abs(err)
		sumAbs += abs
		sumSq += err * err
		sumErr += err
		sumActual += actual[i]
		if actual[i] != 0 {
			sumPct += math.Abs(err / actual[i])
		}
		if abs > maxAbs {
			maxAbs = abs
		}
	}

	fn := float64(n)
	m.MAE = sumAbs / fn
	m.RMSE = math.Sqrt(sumSq / fn)
	m.MAPE = sumPct / fn * 100
	m.ME = sumErr / fn
	m.MaxError = maxAbs
	m.AvgActualPrice = sumActual / fn
	m.DirectionalAccuracy = directionalAccuracy(actual, predicted)

	if enhanced {
		m.RSquared = rSquared(actual, predicted)
		returns := simpleReturns(actual)
		m.Sharpe = annualizedSharpe(returns)
		m.Sortino = annualizedSortino(returns)
		m.MaxDrawdown = maxDrawdown(returns)
	}
	return m
}

// directionalAccuracy is the share of steps where predicted and actual
// moves agree in sign, in percent.
func directionalAccuracy(actual, predicted []float64) float64 {
	if len(actual) < 2 {
		return 0
	}
	hits := 0
	total := len(actual) - 1
	for i := 1; i < len(actual); i++ {
		actualDir := signOf(actual[i] - actual[i-1])
		predictedDir := signOf(predicted[i] - predicted[i-1])
		if actualDir == predictedDir {
			hits++
		}
	}
	return float64(hits) / float64(total) * 100
}

// rSquared is 1 - SS_res/SS_tot; 0 when the actual series has no
// variance.
func rSquared(actual, predicted []float64) float64 {
	mean := 0.0
	for _, a := range actual {
		mean += a
	}
	mean /= float64(len(actual))

	var ssRes, ssTot float64
	for i := range actual {
		res := actual[i] - predicted[i]
		tot := actual[i] - mean
		ssRes += res * res
		ssTot += tot * tot
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

func simpleReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			continue
		}
		out = append(out, (values[i]-values[i-1])/values[i-1])
	}
	return out
}

func annualizedSharpe(returns []float64) float64 {
	mean, std := meanStd(returns)
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(tradingDaysPerYear)
}

// annualizedSortino uses only negative returns in the deviation term.
func annualizedSortino(returns []float64) float64 {
	mean, _ := meanStd(returns)

	var downsideSq float64
	downs := 0
	for _, r := range returns {
		if r < 0 {
			downsideSq += r * r
			downs++
		}
	}
	if downs == 0 || downsideSq == 0 {
		return 0
	}
	downsideStd := math.Sqrt(downsideSq / float64(downs))
	return mean / downsideStd * math.Sqrt(tradingDaysPerYear)
}

// maxDrawdown is the most negative deviation of the cumulative return
// curve from its running maximum. The result is <= 0.
func maxDrawdown(returns []float64) float64 {
	cum := 1.0
	peak := 1.0
	worst := 0.0
	for _, r := range returns {
		cum *= 1 + r
		if cum > peak {
			peak = cum
		}
		if dd := (cum - peak) / peak; dd < worst {
			worst = dd
		}
	}
	return worst
}

func meanStd(values []float64) (float64, float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= n

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return mean, math.Sqrt(variance / n)
}

func signOf(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
