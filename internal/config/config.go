package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// #region duration

// Duration wraps time.Duration for YAML fields like "1h" or "90s".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	td, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(td)
	return nil
}

// MarshalYAML renders the duration string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// #endregion duration

// #region config

// Config holds all tunable gateway parameters.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DBPath     string `yaml:"db_path"`
	Seed       string `yaml:"seed"` // pipeline key seed

	AcceptThreshold float64  `yaml:"accept_threshold"`
	BaselineScore   float64  `yaml:"baseline_score"`
	LearnThreshold  int      `yaml:"learn_threshold"`
	BreachThreshold int      `yaml:"breach_threshold"`
	DrainThreshold  int      `yaml:"drain_threshold"`
	TuneInterval    Duration `yaml:"tune_interval"`

	AllowedOrigins    []string `yaml:"allowed_origins"`
	AllowedTargets    []string `yaml:"allowed_targets"`
	AllowedRecipients []string `yaml:"allowed_recipients"`
	FixedUnitValue    float64  `yaml:"fixed_unit_value"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr:        ":8470",
		DBPath:            "stablegate.db",
		Seed:              "stablegate-pipeline-key",
		AcceptThreshold:   0.5,
		BaselineScore:     0.5,
		LearnThreshold:    10,
		BreachThreshold:   25,
		DrainThreshold:    50,
		TuneInterval:      Duration(time.Hour),
		AllowedOrigins:    []string{"mining", "rewards", "p2p"},
		AllowedTargets:    []string{"USDC", "USDT", "fiat"},
		AllowedRecipients: []string{"USDC", "USDT", "DAI", "fiat", "stablecoin"},
		FixedUnitValue:    314159,
	}
}

// Load reads a YAML config file over the defaults. A missing path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.AcceptThreshold < 0 || c.AcceptThreshold > 1 {
		return fmt.Errorf("accept_threshold %v outside [0,1]", c.AcceptThreshold)
	}
	if c.BaselineScore < 0 || c.BaselineScore > 1 {
		return fmt.Errorf("baseline_score %v outside [0,1]", c.BaselineScore)
	}
	if c.LearnThreshold < 0 || c.DrainThreshold < 0 || c.BreachThreshold < 0 {
		return fmt.Errorf("thresholds must be non-negative")
	}
	if time.Duration(c.TuneInterval) <= 0 {
		return fmt.Errorf("tune_interval must be positive")
	}
	if c.Seed == "" {
		return fmt.Errorf("seed must not be empty")
	}
	return nil
}

// #endregion config
