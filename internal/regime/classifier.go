package regime

import "math"

// VolatilityRegime is a coarse classification of recent return dispersion
// relative to the full training history.
type VolatilityRegime int

const (
	RegimeLow VolatilityRegime = iota
	RegimeMedium
	RegimeHigh
)

func (r VolatilityRegime) String() string {
	switch r {
	case RegimeLow:
		return "LOW"
	case RegimeMedium:
		return "MEDIUM"
	case RegimeHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

const (
	// recentWindow is the number of trailing returns compared against the
	// full history.
	recentWindow = 20

	highVolThreshold   = 1.8
	mediumVolThreshold = 1.2
)

// Signal is the output of a classification: the regime plus the volatility
// ratio that produced it. Derived per window, never persisted on its own.
type Signal struct {
	Regime VolatilityRegime `json:"regime"`
	Ratio  float64          `json:"ratio"`
}

// Classify derives the volatility regime from a return series: the ratio
// of the trailing-window standard deviation to the full-history standard
// deviation. Fewer than recentWindow observations default to a neutral
// LOW signal rather than an error.
func Classify(returns []float64) Signal {
	if len(returns) < recentWindow {
		return Signal{Regime: RegimeLow, Ratio: 1.0}
	}

	recent := stdDev(returns[len(returns)-recentWindow:])
	full := stdDev(returns)
	if full == 0 {
		return Signal{Regime: RegimeLow, Ratio: 1.0}
	}

	return FromRatio(recent / full)
}

// FromRatio maps a volatility ratio onto a regime.
func FromRatio(ratio float64) Signal {
	sig := Signal{Ratio: ratio}
	switch {
	case ratio > highVolThreshold:
		sig.Regime = RegimeHigh
	case ratio > mediumVolThreshold:
		sig.Regime = RegimeMedium
	default:
		sig.Regime = RegimeLow
	}
	return sig
}

// stdDev is the population standard deviation.
func stdDev(values []float64) float64 {
	n := float64(len(values))
	if n == 0 {
		return 0
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
	return math.Sqrt(variance / n)
}
