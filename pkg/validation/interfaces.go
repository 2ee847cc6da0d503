// Package validation provides leakage-safe train/test splitting for
// autocorrelated financial series.
package validation

// Fold is a single train/test partition over an index range. Both index
// slices are ordered ascending and disjoint; every train index keeps at
// least the splitter's embargo distance from the nearest test boundary.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// Splitter produces a deterministic sequence of folds over n samples.
// Identical inputs always yield an identical fold sequence; a splitter may
// yield fewer folds than configured when the data cannot support them.
type Splitter interface {
	Split(nSamples int) []Fold
}

// LeakageReport holds the diagnostics produced by ValidatePurgedSplits.
// It is informational: callers decide whether to log, abort, or proceed
// with a recorded risk flag.
type LeakageReport struct {
	MaxCorrelation   float64   `json:"max_correlation"`
	AvgCorrelation   float64   `json:"avg_correlation"`
	FoldCorrelations []float64 `json:"per_fold_correlations"`
	AvgTrainSize     float64   `json:"avg_train_size"`
	AvgTestSize      float64   `json:"avg_test_size"`
	NSplits          int       `json:"n_splits"`
}
