package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/minhtran-quant/forecastval/internal/walkforward"
)

// WriteWindowsCSV writes one row per evaluated window.
func (r *DefaultFileReporter) WriteWindowsCSV(summary *walkforward.ValidationSummary, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{
		"window_index", "train_size", "test_start", "test_end", "regime", "vol_ratio",
		"mae", "rmse", "mape", "me", "max_error", "directional_accuracy",
	}
	enhanced := len(summary.Windows) > 0 && summary.Windows[0].Enhanced
	if enhanced {
		header = append(header, "r_squared", "sharpe", "sortino", "max_drawdown")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, win := range summary.Windows {
		row := []string{
			strconv.Itoa(win.WindowIndex),
			strconv.Itoa(win.TrainSize),
			strconv.Itoa(win.TestStart),
			strconv.Itoa(win.TestEnd),
			win.Regime.Regime.String(),
			formatFloat(win.Regime.Ratio),
			formatFloat(win.MAE),
			formatFloat(win.RMSE),
			formatFloat(win.MAPE),
			formatFloat(win.ME),
			formatFloat(win.MaxError),
			formatFloat(win.DirectionalAccuracy),
		}
		if enhanced {
			row = append(row,
				formatFloat(win.RSquared),
				formatFloat(win.Sharpe),
				formatFloat(win.Sortino),
				formatFloat(win.MaxDrawdown),
			)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
