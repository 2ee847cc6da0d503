package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/minhtran-quant/forecastval/internal/indicators"
	"github.com/minhtran-quant/forecastval/internal/logger"
	"github.com/minhtran-quant/forecastval/internal/monitoring"
	"github.com/minhtran-quant/forecastval/internal/walkforward"
	"github.com/minhtran-quant/forecastval/pkg/config"
	"github.com/minhtran-quant/forecastval/pkg/data"
	"github.com/minhtran-quant/forecastval/pkg/forecast"
	"github.com/minhtran-quant/forecastval/pkg/reporting"
	"github.com/minhtran-quant/forecastval/pkg/types"
	"github.com/minhtran-quant/forecastval/pkg/validation"
)

const (
	appName    = "Forecast Validate"
	appVersion = "1.0.0"
)

func main() {
	var (
		configFile   = flag.String("config", "", "JSON configuration file")
		dataFile     = flag.String("data", "", "CSV file with OHLCV bars")
		ticker       = flag.String("ticker", "", "instrument identifier for reports")
		envFile      = flag.String("env", ".env", "environment file")
		outputDir    = flag.String("output", "", "directory for JSON/CSV/XLSX reports (omit to skip)")
		checkLeakage = flag.Bool("check-leakage", false, "run the purged-split leakage self-test before validating")
		showTrend    = flag.Bool("indicator", false, "also compute the adaptive trend indicator")
		metricsAddr  = flag.String("metrics-addr", "", "address to expose Prometheus metrics on (omit to disable)")
		showVersion  = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", appName, appVersion)
		return
	}

	log := logger.NewConsole("forecast-validate")

	if err := godotenv.Load(*envFile); err == nil {
		log.Debug().Str("file", *envFile).Msg("loaded environment file")
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}
	if *dataFile != "" {
		cfg.DataFile = *dataFile
	}
	if *ticker != "" {
		cfg.Ticker = *ticker
	}
	if cfg.DataFile == "" {
		log.Fatal().Msg("no data file: pass -data or set data_file in the config")
	}

	if *metricsAddr != "" {
		go func() {
			if err := monitoring.Serve(*metricsAddr); err != nil {
				log.Error().Err(err).Msg("metrics endpoint stopped")
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bars, err := data.NewCSVProvider().LoadBars(cfg.DataFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.DataFile).Msg("failed to load bars")
	}
	log.Info().Int("bars", len(bars)).Str("ticker", cfg.Ticker).Msg("loaded bar series")

	if *checkLeakage {
		runLeakageCheck(log, cfg, bars)
	}

	weights, err := cfg.EnsembleWeights()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid regime weights")
	}
	ensemble, err := forecast.NewEnsembleForecaster([]forecast.Forecaster{
		forecast.SMAForecaster{Window: 20},
		forecast.DriftForecaster{},
	}, weights)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build ensemble")
	}

	engine, err := walkforward.NewWalkForwardEngine(cfg.EngineSettings(), ensemble)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build engine")
	}

	windows, err := engine.Run(ctx, bars)
	if err != nil {
		log.Fatal().Err(err).Msg("validation run failed")
	}

	runID := fmt.Sprintf("%s_%s", cfg.Ticker, time.Now().UTC().Format("20060102T150405Z"))
	summary := walkforward.Aggregate(runID, cfg.Ticker, engine.PlannedWindows(len(bars)), windows, cfg.Targets)
	monitoring.RecordRunMAE(cfg.Ticker, summary.Metrics["mae"].Mean)
	monitoring.RecordRunHealth(summary.Passed(), summary.Metrics["mae"].Mean)

	reporting.NewDefaultConsoleReporter().PrintSummary(summary)

	if *showTrend {
		runIndicator(log, cfg, bars)
	}

	if *outputDir != "" {
		writeReports(log, summary, *outputDir, runID)
	}

	if !summary.Passed() {
		os.Exit(1)
	}
}

// runLeakageCheck builds the configured splitter and reports the Pearson
// correlation diagnostics on the close series. Failure is logged as a
// risk flag, not an abort.
func runLeakageCheck(log zerolog.Logger, cfg *config.Config, bars []types.Bar) {
	splitter, err := validation.NewPurgedTimeSeriesSplitter(
		cfg.Splitter.NSplits, cfg.Splitter.EmbargoPct, cfg.Splitter.TestSize)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid splitter configuration")
	}

	passed, report := validation.ValidatePurgedSplits(
		types.Closes(bars), splitter, cfg.Splitter.MaxLeakageCorrelation)
	event := log.Info()
	if !passed {
		event = log.Warn()
	}
	event.
		Bool("passed", passed).
		Float64("max_correlation", report.MaxCorrelation).
		Float64("avg_correlation", report.AvgCorrelation).
		Float64("avg_train_size", report.AvgTrainSize).
		Float64("avg_test_size", report.AvgTestSize).
		Int("folds", report.NSplits).
		Msg("purged-split leakage check")
}

// runIndicator computes the adaptive trend indicator over the full series
// and prints the selection metadata.
func runIndicator(log zerolog.Logger, cfg *config.Config, bars []types.Bar) {
	settings, err := cfg.IndicatorSettings()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid indicator configuration")
	}
	indicator, err := indicators.NewSuperTrendAI(settings)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid indicator configuration")
	}

	result := indicator.Compute(bars)
	if !result.Available {
		log.Warn().Int("bars", len(bars)).Msg("history too short for the trend indicator")
		return
	}

	last := len(result.SuperTrend) - 1
	log.Info().
		Float64("target_factor", result.TargetFactor).
		Float64("performance_index", result.Meta.PerformanceIndex).
		Int("trend", result.Trend[last]).
		Float64("supertrend", result.SuperTrend[last]).
		Float64("perf_ama", result.PerfAMA[last]).
		Msg("adaptive trend indicator")
	for cluster, factors := range result.Meta.ClusterFactors {
		log.Info().
			Str("cluster", cluster.String()).
			Floats64("factors", factors).
			Float64("mean_performance", result.Meta.ClusterPerformance[cluster]).
			Msg("factor cluster")
	}
}

// writeReports persists the summary in every file format.
func writeReports(log zerolog.Logger, summary *walkforward.ValidationSummary, dir, runID string) {
	reporter := reporting.NewDefaultFileReporter()
	jsonPath := filepath.Join(dir, runID+".json")
	csvPath := filepath.Join(dir, runID+"_windows.csv")
	xlsxPath := filepath.Join(dir, runID+".xlsx")

	if err := reporter.WriteSummaryJSON(summary, jsonPath); err != nil {
		log.Error().Err(err).Str("path", jsonPath).Msg("failed to write JSON report")
	}
	if err := reporter.WriteWindowsCSV(summary, csvPath); err != nil {
		log.Error().Err(err).Str("path", csvPath).Msg("failed to write CSV report")
	}
	if err := reporter.WriteSummaryXLSX(summary, xlsxPath); err != nil {
		log.Error().Err(err).Str("path", xlsxPath).Msg("failed to write Excel report")
	}
	log.Info().Str("dir", dir).Msg("reports written")
}
