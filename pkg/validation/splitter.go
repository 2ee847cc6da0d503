package validation

import (
	"fmt"

	"github.com/rs/zerolog"

	valerrors "github.com/minhtran-quant/forecastval/internal/errors"
	"github.com/minhtran-quant/forecastval/internal/logger"
)

// minTrainSamples is the smallest train set worth keeping; folds below it
// are skipped rather than raised.
const minTrainSamples = 10

// PurgedTimeSeriesSplitter generates walk-forward folds where train samples
// within the embargo distance of a test boundary are purged. This prevents
// label leakage between autocorrelated train and test regions.
type PurgedTimeSeriesSplitter struct {
	nSplits    int
	embargoPct float64
	testSize   float64
	log        zerolog.Logger
}

// NewPurgedTimeSeriesSplitter validates the configuration and returns a
// splitter. Invalid parameters are a fatal configuration error; they are
// never retried.
func NewPurgedTimeSeriesSplitter(nSplits int, embargoPct, testSize float64) (*PurgedTimeSeriesSplitter, error) {
	if nSplits < 2 {
		return nil, valerrors.NewConfigError("splitter", "new", fmt.Sprintf("n_splits must be >= 2, got %d", nSplits))
	}
	if embargoPct <= 0 || embargoPct >= 1 {
		return nil, valerrors.NewConfigError("splitter", "new", fmt.Sprintf("embargo_pct must be in (0, 1), got %v", embargoPct))
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, valerrors.NewConfigError("splitter", "new", fmt.Sprintf("test_size must be in (0, 1), got %v", testSize))
	}
	return &PurgedTimeSeriesSplitter{
		nSplits:    nSplits,
		embargoPct: embargoPct,
		testSize:   testSize,
		log:        logger.New("splitter"),
	}, nil
}

// NSplits returns the configured number of splits. The actual fold count
// can be lower when the data is too short.
func (s *PurgedTimeSeriesSplitter) NSplits() int { return s.nSplits }

// EmbargoSamples returns the embargo width in samples for a series length.
func (s *PurgedTimeSeriesSplitter) EmbargoSamples(nSamples int) int {
	return int(float64(nSamples) * s.embargoPct)
}

// Split produces the fold sequence for nSamples observations. The result
// is deterministic: there is no hidden randomness and repeated calls with
// the same input return identical folds.
func (s *PurgedTimeSeriesSplitter) Split(nSamples int) []Fold {
	if nSamples <= 0 {
		return nil
	}

	testSamples := int(float64(nSamples) * s.testSize)
	embargo := s.EmbargoSamples(nSamples)
	step := (nSamples - testSamples) / (s.nSplits - 1)

	folds := make([]Fold, 0, s.nSplits)
	for i := 0; i < s.nSplits; i++ {
		testStart := i * step
		if testStart >= nSamples {
			break
		}
		testEnd := testStart + testSamples
		if testEnd > nSamples {
			testEnd = nSamples
		}

		train := indexUnion(
			indexRange(0, testStart-embargo),
			indexRange(testEnd+embargo, nSamples),
		)
		if len(train) < minTrainSamples {
			s.log.Warn().
				Int("fold", i).
				Int("train_size", len(train)).
				Msg("skipping fold with insufficient train samples")
			continue
		}

		folds = append(folds, Fold{
			TrainIndices: train,
			TestIndices:  indexRange(testStart, testEnd),
		})
	}
	return folds
}

// CombinatorialPurgedSplitter lays out non-overlapping test windows across
// the series, each separated by the embargo distance, and trains each fold
// on everything outside its own embargo-expanded test span. Compared to
// PurgedTimeSeriesSplitter this yields fewer but larger folds with
// systematic, non-overlapping test coverage.
type CombinatorialPurgedSplitter struct {
	nSplits    int
	embargoPct float64
	testSize   float64
	log        zerolog.Logger
}

// NewCombinatorialPurgedSplitter validates the configuration and returns a
// combinatorial splitter. The parameter contract matches
// NewPurgedTimeSeriesSplitter.
func NewCombinatorialPurgedSplitter(nSplits int, embargoPct, testSize float64) (*CombinatorialPurgedSplitter, error) {
	if nSplits < 2 {
		return nil, valerrors.NewConfigError("cpcv_splitter", "new", fmt.Sprintf("n_splits must be >= 2, got %d", nSplits))
	}
	if embargoPct <= 0 || embargoPct >= 1 {
		return nil, valerrors.NewConfigError("cpcv_splitter", "new", fmt.Sprintf("embargo_pct must be in (0, 1), got %v", embargoPct))
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, valerrors.NewConfigError("cpcv_splitter", "new", fmt.Sprintf("test_size must be in (0, 1), got %v", testSize))
	}
	return &CombinatorialPurgedSplitter{
		nSplits:    nSplits,
		embargoPct: embargoPct,
		testSize:   testSize,
		log:        logger.New("cpcv_splitter"),
	}, nil
}

// Split produces up to nSplits folds over non-overlapping test windows.
// Windows that no longer fit in the series are dropped, so short series
// legitimately yield fewer folds than requested.
func (s *CombinatorialPurgedSplitter) Split(nSamples int) []Fold {
	if nSamples <= 0 {
		return nil
	}

	testSamples := int(float64(nSamples) * s.testSize)
	embargo := int(float64(nSamples) * s.embargoPct)
	if testSamples < 1 {
		return nil
	}

	// Sequential non-overlapping windows, each followed by an embargo gap.
	stride := testSamples + embargo
	folds := make([]Fold, 0, s.nSplits)
	for i := 0; i < s.nSplits; i++ {
		testStart := i * stride
		testEnd := testStart + testSamples
		if testEnd > nSamples {
			break
		}

		train := indexUnion(
			indexRange(0, testStart-embargo),
			indexRange(testEnd+embargo, nSamples),
		)
		if len(train) < minTrainSamples {
			s.log.Warn().
				Int("fold", i).
				Int("train_size", len(train)).
				Msg("skipping fold with insufficient train samples")
			continue
		}

		folds = append(folds, Fold{
			TrainIndices: train,
			TestIndices:  indexRange(testStart, testEnd),
		})
	}
	return folds
}

// indexRange returns [start, end) as a slice, empty when start >= end.
// Negative starts clamp to zero.
func indexRange(start, end int) []int {
	if start < 0 {
		start = 0
	}
	if start >= end {
		return nil
	}
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}

// indexUnion concatenates ordered, non-overlapping index ranges.
func indexUnion(parts ...[]int) []int {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]int, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
