package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	valerrors "github.com/minhtran-quant/forecastval/internal/errors"
	"github.com/minhtran-quant/forecastval/internal/logger"
	"github.com/minhtran-quant/forecastval/pkg/types"
)

// CSVProvider implements PriceHistoryProvider for CSV files.
type CSVProvider struct {
	format CSVColumnMapping
	log    zerolog.Logger
}

// NewCSVProvider creates a CSV provider with the default column layout.
func NewCSVProvider() *CSVProvider {
	return NewCSVProviderWithFormat(DefaultCSVFormat)
}

// NewCSVProviderWithFormat creates a CSV provider with a custom layout.
func NewCSVProviderWithFormat(format CSVColumnMapping) *CSVProvider {
	return &CSVProvider{format: format, log: logger.New("csv_provider")}
}

// GetName returns the name of the data provider.
func (p *CSVProvider) GetName() string { return "CSV Provider" }

// LoadBars reads, parses, and validates the bar series. Rows that fail to
// parse are skipped with a warning; bars that break the OHLC invariants
// abort the load since downstream code relies on them.
func (p *CSVProvider) LoadBars(source string) ([]types.Bar, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, valerrors.WrapDataError(err, "csv_provider", "open")
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, valerrors.WrapDataError(err, "csv_provider", "header")
	}

	var bars []types.Bar
	lineNum := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, valerrors.WrapDataError(fmt.Errorf("line %d: %w", lineNum, err), "csv_provider", "read")
		}
		lineNum++

		if len(record) < p.format.MinColumns {
			p.log.Warn().Int("line", lineNum).Int("columns", len(record)).Msg("skipping row with too few columns")
			continue
		}

		bar, err := p.parseRow(record)
		if err != nil {
			p.log.Warn().Int("line", lineNum).Err(err).Msg("skipping unparseable row")
			continue
		}
		bars = append(bars, bar)
	}

	if err := ValidateBars(bars); err != nil {
		return nil, err
	}
	return bars, nil
}

func (p *CSVProvider) parseRow(record []string) (types.Bar, error) {
	ts, err := time.Parse(p.format.DateFormat, record[p.format.TimestampCol])
	if err != nil {
		return types.Bar{}, fmt.Errorf("timestamp %q: %w", record[p.format.TimestampCol], err)
	}
	open, err := strconv.ParseFloat(record[p.format.OpenCol], 64)
	if err != nil {
		return types.Bar{}, fmt.Errorf("open %q: %w", record[p.format.OpenCol], err)
	}
	high, err := strconv.ParseFloat(record[p.format.HighCol], 64)
	if err != nil {
		return types.Bar{}, fmt.Errorf("high %q: %w", record[p.format.HighCol], err)
	}
	low, err := strconv.ParseFloat(record[p.format.LowCol], 64)
	if err != nil {
		return types.Bar{}, fmt.Errorf("low %q: %w", record[p.format.LowCol], err)
	}
	closePrice, err := strconv.ParseFloat(record[p.format.CloseCol], 64)
	if err != nil {
		return types.Bar{}, fmt.Errorf("close %q: %w", record[p.format.CloseCol], err)
	}
	volume, err := strconv.ParseFloat(record[p.format.VolumeCol], 64)
	if err != nil {
		return types.Bar{}, fmt.Errorf("volume %q: %w", record[p.format.VolumeCol], err)
	}
	return types.Bar{
		Timestamp: ts,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePrice,
		Volume:    volume,
	}, nil
}

// ValidateBars enforces the bar invariants: positive finite prices,
// high >= max(open, close), low <= min(open, close), strictly increasing
// timestamps.
func ValidateBars(bars []types.Bar) error {
	for i, b := range bars {
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			return valerrors.WrapDataError(fmt.Errorf("bar %d has non-positive price", i), "csv_provider", "validate")
		}
		for _, v := range []float64{b.Open, b.High, b.Low, b.Close} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return valerrors.WrapDataError(fmt.Errorf("bar %d has non-finite price", i), "csv_provider", "validate")
			}
		}
		if b.High < b.Open || b.High < b.Close {
			return valerrors.WrapDataError(fmt.Errorf("bar %d high below open/close", i), "csv_provider", "validate")
		}
		if b.Low > b.Open || b.Low > b.Close {
			return valerrors.WrapDataError(fmt.Errorf("bar %d low above open/close", i), "csv_provider", "validate")
		}
		if i > 0 && !bars[i-1].Timestamp.Before(b.Timestamp) {
			return valerrors.WrapDataError(fmt.Errorf("bar %d timestamp not strictly increasing", i), "csv_provider", "validate")
		}
	}
	return nil
}
