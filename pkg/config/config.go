package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/minhtran-quant/forecastval/internal/errors"
	"github.com/minhtran-quant/forecastval/internal/indicators"
	"github.com/minhtran-quant/forecastval/internal/regime"
	"github.com/minhtran-quant/forecastval/internal/walkforward"
)

// SplitterConfig configures purged cross-validation.
type SplitterConfig struct {
	NSplits               int     `json:"n_splits"`
	EmbargoPct            float64 `json:"embargo_pct"`
	TestSize              float64 `json:"test_size"`
	MaxLeakageCorrelation float64 `json:"max_leakage_correlation"`
}

// EngineConfig configures the walk-forward run.
type EngineConfig struct {
	InitialTrainSize int    `json:"initial_train_size"`
	TestSize         int    `json:"test_size"`
	StepSize         int    `json:"step_size"`
	WindowType       string `json:"window_type"`
	EnhancedMetrics  bool   `json:"enhanced_metrics"`
	Workers          int    `json:"workers"`
}

// IndicatorConfig configures the adaptive trend indicator.
type IndicatorConfig struct {
	ATRLength   int     `json:"atr_length"`
	MinMult     float64 `json:"min_mult"`
	MaxMult     float64 `json:"max_mult"`
	FactorStep  float64 `json:"factor_step"`
	PerfAlpha   int     `json:"perf_alpha"`
	FromCluster string  `json:"from_cluster"`
	MaxData     int     `json:"max_data"`
}

// Config is the explicit configuration object for a validation run.
// Thresholds and weight tables live here rather than as package globals.
type Config struct {
	Ticker   string `json:"ticker"`
	DataFile string `json:"data_file"`

	Splitter  SplitterConfig                 `json:"splitter"`
	Engine    EngineConfig                   `json:"engine"`
	Indicator IndicatorConfig                `json:"indicator"`
	Targets   walkforward.PerformanceTargets `json:"targets"`

	// RegimeWeights maps LOW/MEDIUM/HIGH onto component weight vectors.
	RegimeWeights map[string][]float64 `json:"regime_weights"`
}

// Default returns the standard configuration.
func Default() *Config {
	weights := regime.DefaultEnsembleWeights()
	return &Config{
		Splitter: SplitterConfig{
			NSplits:               5,
			EmbargoPct:            0.01,
			TestSize:              0.2,
			MaxLeakageCorrelation: 0.1,
		},
		Engine: EngineConfig{
			InitialTrainSize: 200,
			TestSize:         15,
			StepSize:         5,
			WindowType:       string(walkforward.WindowExpanding),
			EnhancedMetrics:  true,
		},
		Indicator: IndicatorConfig{
			ATRLength:   indicators.DefaultATRLength,
			MinMult:     indicators.DefaultMinMult,
			MaxMult:     indicators.DefaultMaxMult,
			FactorStep:  indicators.DefaultFactorStep,
			PerfAlpha:   indicators.DefaultPerfAlpha,
			FromCluster: "Best",
		},
		Targets: walkforward.DefaultPerformanceTargets(),
		RegimeWeights: map[string][]float64{
			regime.RegimeLow.String():    weights[regime.RegimeLow],
			regime.RegimeMedium.String(): weights[regime.RegimeMedium],
			regime.RegimeHigh.String():   weights[regime.RegimeHigh],
		},
	}
}

// Load reads a JSON config file over the defaults and validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the cross-cutting constraints the constructors would
// reject anyway, so a bad file fails before any work starts.
func (c *Config) Validate() error {
	if c.Splitter.NSplits < 2 {
		return errors.NewConfigError("config", "validate", "splitter.n_splits must be >= 2")
	}
	if c.Splitter.EmbargoPct <= 0 || c.Splitter.EmbargoPct >= 1 {
		return errors.NewConfigError("config", "validate", "splitter.embargo_pct must be in (0, 1)")
	}
	if c.Splitter.TestSize <= 0 || c.Splitter.TestSize >= 1 {
		return errors.NewConfigError("config", "validate", "splitter.test_size must be in (0, 1)")
	}
	if c.Engine.InitialTrainSize <= 0 || c.Engine.TestSize <= 0 || c.Engine.StepSize <= 0 {
		return errors.NewConfigError("config", "validate", "engine window sizes must be positive")
	}
	wt := walkforward.WindowType(c.Engine.WindowType)
	if wt != walkforward.WindowExpanding && wt != walkforward.WindowRolling {
		return errors.NewConfigError("config", "validate",
			fmt.Sprintf("engine.window_type must be expanding or rolling, got %q", c.Engine.WindowType))
	}
	if c.Indicator.MinMult > c.Indicator.MaxMult {
		return errors.NewConfigError("config", "validate", "indicator.min_mult exceeds indicator.max_mult")
	}
	if _, err := c.ParseCluster(); err != nil {
		return err
	}
	if _, err := c.EnsembleWeights(); err != nil {
		return err
	}
	return nil
}

// EnsembleWeights converts the JSON weight table into the typed form and
// validates the sum-to-one invariant.
func (c *Config) EnsembleWeights() (regime.EnsembleWeights, error) {
	if len(c.RegimeWeights) == 0 {
		return regime.DefaultEnsembleWeights(), nil
	}
	out := regime.EnsembleWeights{}
	for name, vec := range c.RegimeWeights {
		switch strings.ToUpper(name) {
		case regime.RegimeLow.String():
			out[regime.RegimeLow] = vec
		case regime.RegimeMedium.String():
			out[regime.RegimeMedium] = vec
		case regime.RegimeHigh.String():
			out[regime.RegimeHigh] = vec
		default:
			return nil, errors.NewConfigError("config", "weights",
				fmt.Sprintf("unknown regime %q in regime_weights", name))
		}
	}
	if err := out.Validate(0); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseCluster maps the configured cluster name onto the indicator enum.
func (c *Config) ParseCluster() (indicators.Cluster, error) {
	switch strings.ToLower(c.Indicator.FromCluster) {
	case "", "best":
		return indicators.ClusterBest, nil
	case "average":
		return indicators.ClusterAverage, nil
	case "worst":
		return indicators.ClusterWorst, nil
	default:
		return indicators.ClusterBest, errors.NewConfigError("config", "cluster",
			fmt.Sprintf("unknown cluster %q, want Worst, Average or Best", c.Indicator.FromCluster))
	}
}

// IndicatorSettings converts the JSON block into the indicator config.
func (c *Config) IndicatorSettings() (indicators.SuperTrendAIConfig, error) {
	cluster, err := c.ParseCluster()
	if err != nil {
		return indicators.SuperTrendAIConfig{}, err
	}
	return indicators.SuperTrendAIConfig{
		ATRLength:   c.Indicator.ATRLength,
		MinMult:     c.Indicator.MinMult,
		MaxMult:     c.Indicator.MaxMult,
		FactorStep:  c.Indicator.FactorStep,
		PerfAlpha:   c.Indicator.PerfAlpha,
		FromCluster: cluster,
		MaxData:     c.Indicator.MaxData,
	}, nil
}

// EngineSettings converts the JSON block into the engine config.
func (c *Config) EngineSettings() walkforward.EngineConfig {
	return walkforward.EngineConfig{
		InitialTrainSize: c.Engine.InitialTrainSize,
		TestSize:         c.Engine.TestSize,
		StepSize:         c.Engine.StepSize,
		WindowType:       walkforward.WindowType(c.Engine.WindowType),
		EnhancedMetrics:  c.Engine.EnhancedMetrics,
		Workers:          c.Engine.Workers,
		Ticker:           c.Ticker,
	}
}
