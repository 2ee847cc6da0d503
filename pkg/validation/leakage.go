package validation

import "math"

// DefaultMaxLeakageCorrelation is the default threshold for the leakage
// self-test: a correctly embargoed split on independent data should stay
// well below it.
const DefaultMaxLeakageCorrelation = 0.1

// ValidatePurgedSplits runs the splitter over y and measures, per fold, the
// absolute Pearson correlation between the train and test label slices
// (truncated to equal length). It reports pass/fail against the threshold
// plus diagnostics. This is a diagnostic, not an error: the caller decides
// whether to log, abort, or proceed with a recorded risk flag.
func ValidatePurgedSplits(y []float64, splitter Splitter, maxCorrelation float64) (bool, *LeakageReport) {
	if maxCorrelation <= 0 {
		maxCorrelation = DefaultMaxLeakageCorrelation
	}

	folds := splitter.Split(len(y))
	report := &LeakageReport{
		FoldCorrelations: make([]float64, 0, len(folds)),
		NSplits:          len(folds),
	}
	if len(folds) == 0 {
		return false, report
	}

	var trainTotal, testTotal int
	maxCorr := 0.0
	sumCorr := 0.0
	for _, fold := range folds {
		trainTotal += len(fold.TrainIndices)
		testTotal += len(fold.TestIndices)

		corr := math.Abs(foldCorrelation(y, fold))
		report.FoldCorrelations = append(report.FoldCorrelations, corr)
		sumCorr += corr
		if corr > maxCorr {
			maxCorr = corr
		}
	}

	report.MaxCorrelation = maxCorr
	report.AvgCorrelation = sumCorr / float64(len(folds))
	report.AvgTrainSize = float64(trainTotal) / float64(len(folds))
	report.AvgTestSize = float64(testTotal) / float64(len(folds))

	return maxCorr < maxCorrelation, report
}

// foldCorrelation computes the Pearson correlation between y[train] and
// y[test], truncated to the shorter of the two.
func foldCorrelation(y []float64, fold Fold) float64 {
	n := len(fold.TrainIndices)
	if len(fold.TestIndices) < n {
		n = len(fold.TestIndices)
	}
	if n < 2 {
		return 0
	}

	a := make([]float64, n)
	b := make([]float64, n)
	for i := 0; i < n; i++ {
		a[i] = y[fold.TrainIndices[i]]
		b[i] = y[fold.TestIndices[i]]
	}
	return pearson(a, b)
}

// pearson returns the sample Pearson correlation of two equal-length
// series, or 0 when either series has zero variance.
func pearson(a, b []float64) float64 {
	n := float64(len(a))
	if n < 2 {
		return 0
	}

	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= n
	meanB /= n

	var cov, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}
