// Package config loads the yaml run configuration and applies defaults for
// every tunable the simulation exposes.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Strategy names accepted by Config.Strategy.
const (
	StrategyTrilateration = "trilateration"
	StrategyGrid          = "grid"
)

// NetworkConfig parameterizes network generation.
type NetworkConfig struct {
	Nodes     int         `yaml:"nodes"`
	CommRange float64     `yaml:"comm_range"`
	AreaSize  float64     `yaml:"area_size"`
	Anchors   int         `yaml:"anchors"`
	Seed      int64       `yaml:"seed"` // 0 means time-based
	Noise     NoiseConfig `yaml:"noise"`
}

// NoiseConfig selects the measurement noise model applied per edge.
type NoiseConfig struct {
	Kind  string  `yaml:"kind"` // none, gaussian, uniform, percentage
	Param float64 `yaml:"param"`
}

// TrilaterationConfig holds the iterative trilateration tunables.
type TrilaterationConfig struct {
	Tolerance float64 `yaml:"tolerance"`
}

// GridConfig holds the grid belief solver tunables.
type GridConfig struct {
	Resolution float64 `yaml:"resolution"`
	NoiseStd   float64 `yaml:"noise_std"`
	Workers    int     `yaml:"workers"` // 0 means one per CPU
}

// EvaluationConfig holds the accuracy scoring tunables.
type EvaluationConfig struct {
	Threshold float64 `yaml:"threshold"`
}

// VisualizationConfig controls the optional topology viewer.
type VisualizationConfig struct {
	Enabled bool `yaml:"enabled"`
	Width   int  `yaml:"width"`
	Height  int  `yaml:"height"`
}

// Config is the full run configuration.
type Config struct {
	Network       NetworkConfig       `yaml:"network"`
	Strategy      string              `yaml:"strategy"`
	Trilateration TrilaterationConfig `yaml:"trilateration"`
	Grid          GridConfig          `yaml:"grid"`
	Evaluation    EvaluationConfig    `yaml:"evaluation"`
	Visualization VisualizationConfig `yaml:"visualization"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Network: NetworkConfig{
			Nodes:     10,
			CommRange: 70,
			AreaSize:  100,
			Anchors:   3,
			Noise:     NoiseConfig{Kind: "none"},
		},
		Strategy:      StrategyTrilateration,
		Trilateration: TrilaterationConfig{Tolerance: 0.01},
		Grid: GridConfig{
			Resolution: 1,
			NoiseStd:   0.5,
		},
		Evaluation:    EvaluationConfig{Threshold: 2},
		Visualization: VisualizationConfig{Width: 800, Height: 800},
	}
}

// Load reads a yaml config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the cross-field constraints a yaml schema cannot express.
func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyTrilateration, StrategyGrid:
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	switch c.Network.Noise.Kind {
	case "", "none", "gaussian", "uniform", "percentage":
	default:
		return fmt.Errorf("unknown noise kind %q", c.Network.Noise.Kind)
	}
	if c.Network.Anchors > c.Network.Nodes {
		return fmt.Errorf("anchors (%d) cannot exceed nodes (%d)", c.Network.Anchors, c.Network.Nodes)
	}
	return nil
}
