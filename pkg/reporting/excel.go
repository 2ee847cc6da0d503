package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/minhtran-quant/forecastval/internal/walkforward"
)

const (
	summarySheet = "Summary"
	windowsSheet = "Windows"
	targetsSheet = "Targets"
)

// WriteSummaryXLSX writes a workbook with Summary, Windows, and Targets
// sheets.
func (r *DefaultFileReporter) WriteSummaryXLSX(summary *walkforward.ValidationSummary, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	fx := excelize.NewFile()
	defer fx.Close()

	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	if _, err := fx.NewSheet(windowsSheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(targetsSheet); err != nil {
		return err
	}

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, summary, headerStyle); err != nil {
		return err
	}
	if err := r.writeWindowsSheet(fx, summary, headerStyle); err != nil {
		return err
	}
	if err := r.writeTargetsSheet(fx, summary, headerStyle); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *DefaultFileReporter) writeSummarySheet(fx *excelize.File, summary *walkforward.ValidationSummary, headerStyle int) error {
	rows := [][]interface{}{
		{"Run ID", summary.RunID},
		{"Ticker", summary.Ticker},
		{"Generated", summary.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Planned windows", summary.PlannedWindows},
		{"Successful windows", summary.TotalWindows},
		{"Failed windows", summary.FailedWindows},
		{"MAE % of price", summary.MAEPctOfPrice},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := fx.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}

	headerRowIdx := len(rows) + 2
	cell, _ := excelize.CoordinatesToCellName(1, headerRowIdx)
	header := []interface{}{"Metric", "Mean", "Std"}
	if err := fx.SetSheetRow(summarySheet, cell, &header); err != nil {
		return err
	}
	end, _ := excelize.CoordinatesToCellName(len(header), headerRowIdx)
	if err := fx.SetCellStyle(summarySheet, cell, end, headerStyle); err != nil {
		return err
	}

	rowIdx := headerRowIdx + 1
	for _, name := range sortedMetricNames(summary) {
		stats := summary.Metrics[name]
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
		row := []interface{}{name, stats.Mean, stats.Std}
		if err := fx.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
		rowIdx++
	}
	return nil
}

func (r *DefaultFileReporter) writeWindowsSheet(fx *excelize.File, summary *walkforward.ValidationSummary, headerStyle int) error {
	header := []interface{}{
		"Window", "Train Size", "Test Start", "Test End", "Regime", "Vol Ratio",
		"MAE", "RMSE", "MAPE", "ME", "Max Error", "Dir Acc %",
	}
	enhanced := len(summary.Windows) > 0 && summary.Windows[0].Enhanced
	if enhanced {
		header = append(header, "R²", "Sharpe", "Sortino", "Max DD")
	}
	if err := fx.SetSheetRow(windowsSheet, "A1", &header); err != nil {
		return err
	}
	end, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := fx.SetCellStyle(windowsSheet, "A1", end, headerStyle); err != nil {
		return err
	}

	for i, win := range summary.Windows {
		row := []interface{}{
			win.WindowIndex, win.TrainSize, win.TestStart, win.TestEnd,
			win.Regime.Regime.String(), win.Regime.Ratio,
			win.MAE, win.RMSE, win.MAPE, win.ME, win.MaxError, win.DirectionalAccuracy,
		}
		if enhanced {
			row = append(row, win.RSquared, win.Sharpe, win.Sortino, win.MaxDrawdown)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := fx.SetSheetRow(windowsSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (r *DefaultFileReporter) writeTargetsSheet(fx *excelize.File, summary *walkforward.ValidationSummary, headerStyle int) error {
	header := []interface{}{"Target", "Result"}
	if err := fx.SetSheetRow(targetsSheet, "A1", &header); err != nil {
		return err
	}
	if err := fx.SetCellStyle(targetsSheet, "A1", "B1", headerStyle); err != nil {
		return err
	}

	rowIdx := 2
	for name, passed := range summary.TargetResults {
		result := "FAIL"
		if passed {
			result = "PASS"
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
		row := []interface{}{name, result}
		if err := fx.SetSheetRow(targetsSheet, cell, &row); err != nil {
			return err
		}
		rowIdx++
	}

	if summary.BestWindow != nil {
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+1)
		row := []interface{}{"Best window", fmt.Sprintf("#%d (MAE %.4f)", summary.BestWindow.WindowIndex, summary.BestWindow.MAE)}
		if err := fx.SetSheetRow(targetsSheet, cell, &row); err != nil {
			return err
		}
	}
	if summary.WorstWindow != nil {
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		row := []interface{}{"Worst window", fmt.Sprintf("#%d (MAE %.4f)", summary.WorstWindow.WindowIndex, summary.WorstWindow.MAE)}
		if err := fx.SetSheetRow(targetsSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
