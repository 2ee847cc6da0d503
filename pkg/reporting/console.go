package reporting

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/minhtran-quant/forecastval/internal/walkforward"
)

// DefaultConsoleReporter renders summaries with go-pretty tables.
type DefaultConsoleReporter struct{}

// NewDefaultConsoleReporter creates a console reporter.
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{}
}

// PrintSummary renders the run header, per-metric means, regime
// distribution, target outcomes, and the best/worst windows.
func (r *DefaultConsoleReporter) PrintSummary(summary *walkforward.ValidationSummary) {
	fmt.Printf("\nValidation run %s (%s): %d/%d windows succeeded\n",
		summary.RunID, summary.Ticker, summary.TotalWindows, summary.PlannedWindows)

	metrics := table.NewWriter()
	metrics.SetOutputMirror(os.Stdout)
	metrics.SetTitle("Metrics")
	metrics.AppendHeader(table.Row{"Metric", "Mean", "Std"})
	for _, name := range sortedMetricNames(summary) {
		stats := summary.Metrics[name]
		metrics.AppendRow(table.Row{name, fmt.Sprintf("%.4f", stats.Mean), fmt.Sprintf("%.4f", stats.Std)})
	}
	metrics.AppendFooter(table.Row{"mae % of price", fmt.Sprintf("%.3f%%", summary.MAEPctOfPrice), ""})
	metrics.Render()

	regimes := table.NewWriter()
	regimes.SetOutputMirror(os.Stdout)
	regimes.SetTitle("Regimes")
	regimes.AppendHeader(table.Row{"Regime", "Windows"})
	for _, reg := range []string{"LOW", "MEDIUM", "HIGH"} {
		if count, ok := summary.RegimeDistribution[reg]; ok {
			regimes.AppendRow(table.Row{reg, count})
		}
	}
	regimes.Render()

	if len(summary.TargetResults) > 0 {
		targets := table.NewWriter()
		targets.SetOutputMirror(os.Stdout)
		targets.SetTitle("Targets")
		targets.AppendHeader(table.Row{"Target", "Result"})
		names := make([]string, 0, len(summary.TargetResults))
		for name := range summary.TargetResults {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			result := text.FgRed.Sprint("FAIL")
			if summary.TargetResults[name] {
				result = text.FgGreen.Sprint("PASS")
			}
			targets.AppendRow(table.Row{name, result})
		}
		targets.Render()
	}

	if summary.BestWindow != nil && summary.WorstWindow != nil {
		fmt.Printf("Best window:  #%d (MAE %.4f, regime %s)\n",
			summary.BestWindow.WindowIndex, summary.BestWindow.MAE, summary.BestWindow.Regime.Regime)
		fmt.Printf("Worst window: #%d (MAE %.4f, regime %s)\n",
			summary.WorstWindow.WindowIndex, summary.WorstWindow.MAE, summary.WorstWindow.Regime.Regime)
	}
}

func sortedMetricNames(summary *walkforward.ValidationSummary) []string {
	names := make([]string, 0, len(summary.Metrics))
	for name := range summary.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
