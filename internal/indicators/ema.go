package indicators

import "math"

// EMASeries applies exponential smoothing with the standard 2/(span+1)
// alpha over the whole series, seeding with the first value. The result is
// aligned with the input.
func EMASeries(values []float64, span int) []float64 {
	if len(values) == 0 {
		return nil
	}
	alpha := 2.0 / float64(span+1)

	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = out[i-1] + alpha*(values[i]-out[i-1])
	}
	return out
}

// EMALast runs EMASeries and returns only the final value, 0 for an empty
// input.
func EMALast(values []float64, span int) float64 {
	series := EMASeries(values, span)
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

// AbsDiffs returns |v[i] - v[i-1]| for i >= 1, aligned to len(values)-1.
func AbsDiffs(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = math.Abs(values[i] - values[i-1])
	}
	return out
}
