// Package scenario defines the run configuration: symbols, fee
// schedule, latency model, fundamental drift, and the agent plan. Config
// is loaded from a YAML file with MARKETSIM_*-prefixed environment
// overrides, or built from one of the named presets.
package scenario

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/AtharvaBeesen/MarketSim/internal/agent"
)

// Config is the top-level run configuration. Maps directly onto the
// YAML file structure.
type Config struct {
	Name      string   `mapstructure:"name"`
	Seed      int64    `mapstructure:"seed"`
	Symbols   []string `mapstructure:"symbols"`
	NumSteps  int      `mapstructure:"num_steps"`
	DT        float64  `mapstructure:"dt"`

	Fees       FeeConfig       `mapstructure:"fees"`
	Latency    LatencyConfig   `mapstructure:"latency"`
	Fundamental FundamentalConfig `mapstructure:"fundamental"`
	Seeding    SeedingConfig   `mapstructure:"seeding"`

	Agents []agent.Spec `mapstructure:"agents"`
}

// FeeConfig is the per-order and per-share transaction cost schedule.
type FeeConfig struct {
	PerOrder float64 `mapstructure:"per_order"`
	PerShare float64 `mapstructure:"per_share"`
}

// LatencyConfig parameterizes the Gaussian order-delay model.
type LatencyConfig struct {
	Mean float64 `mapstructure:"mean"`
	Std  float64 `mapstructure:"std"`
}

// FundamentalConfig parameterizes the per-tick fundamental-price walk.
type FundamentalConfig struct {
	Volatility float64 `mapstructure:"volatility"`
	TickWidth  float64 `mapstructure:"tick_width"`
}

// SeedingConfig parameterizes the initial resting-liquidity ladder.
type SeedingConfig struct {
	Levels int     `mapstructure:"levels"`
	Size   int64   `mapstructure:"size"`
	Tick   float64 `mapstructure:"tick"`
}

// Load reads config from a YAML file with MARKETSIM_* environment
// overrides (e.g. MARKETSIM_SEED=7 overrides the seed field).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("MARKETSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the fields the scheduler depends on.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("scenario: at least one symbol is required")
	}
	if c.NumSteps <= 0 {
		return fmt.Errorf("scenario: num_steps must be > 0")
	}
	if c.Latency.Mean < 0 {
		return fmt.Errorf("scenario: latency.mean must be >= 0")
	}
	for _, spec := range c.Agents {
		if spec.Count <= 0 {
			return fmt.Errorf("scenario: agent %q: count must be > 0", spec.Tag)
		}
		if spec.Class == "" {
			return fmt.Errorf("scenario: agent %q: class is required", spec.Tag)
		}
	}
	return nil
}

// defaultAgentPlan is shared by all three presets, matching the original
// prototype's four fee-aware reference policies at two instances each.
func defaultAgentPlan() []agent.Spec {
	return []agent.Spec{
		{Tag: "MM", Count: 2, Class: "market_maker", Args: map[string]any{"spread": 1.0, "size": 1}},
		{Tag: "TF", Count: 2, Class: "trend_follower", Args: map[string]any{"lookback": 3, "threshold": 0.002, "size": 1}},
		{Tag: "MR", Count: 2, Class: "mean_reverter", Args: map[string]any{"lookback": 10, "threshold": 0.005, "size": 1}},
		{Tag: "LT", Count: 2, Class: "liquidity_taker", Args: map[string]any{"order_prob": 0.1, "min_size": 1, "max_size": 5}},
	}
}

// DefaultCalm returns a low-volatility, low-latency preset.
func DefaultCalm(seed int64) *Config {
	return &Config{
		Name:     "calm",
		Seed:     seed,
		Symbols:  []string{"AAPL", "MSFT", "GOOGL"},
		NumSteps: 1000,
		DT:       0.1,
		Fees:     FeeConfig{PerOrder: 0.01, PerShare: 0.002},
		Latency:  LatencyConfig{Mean: 0.02, Std: 0.01},
		Fundamental: FundamentalConfig{Volatility: 0.05, TickWidth: 0.05},
		Seeding:  SeedingConfig{Levels: 5, Size: 10, Tick: 1.0},
		Agents:   defaultAgentPlan(),
	}
}

// DefaultVolatile widens fundamental drift and latency jitter relative
// to calm, stressing the matching engine with larger, faster swings.
func DefaultVolatile(seed int64) *Config {
	cfg := DefaultCalm(seed)
	cfg.Name = "volatile"
	cfg.Fundamental.Volatility = 0.3
	cfg.Latency.Mean = 0.03
	cfg.Latency.Std = 0.02
	for i := range cfg.Agents {
		if cfg.Agents[i].Tag == "LT" {
			cfg.Agents[i].Args["order_prob"] = 0.25
		}
	}
	return cfg
}

// DefaultSparse thins out the seeded book and agent population, useful
// for exercising InsufficientLiquidity paths.
func DefaultSparse(seed int64) *Config {
	cfg := DefaultCalm(seed)
	cfg.Name = "sparse"
	cfg.Seeding.Levels = 2
	cfg.Seeding.Size = 3
	for i := range cfg.Agents {
		cfg.Agents[i].Count = 1
	}
	return cfg
}

// GetPreset returns the named default configuration, or nil if unknown.
func GetPreset(name string, seed int64) *Config {
	switch name {
	case "calm":
		return DefaultCalm(seed)
	case "volatile":
		return DefaultVolatile(seed)
	case "sparse":
		return DefaultSparse(seed)
	default:
		return nil
	}
}
