package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = "fraudlens.yaml"

// Config represents the top-level fraudlens.yaml configuration.
type Config struct {
	Dataset DatasetConfig `yaml:"dataset"`
	Columns ColumnsConfig `yaml:"columns"`
	Split   SplitConfig   `yaml:"split"`
	Models  ModelsConfig  `yaml:"models"`
	Logging LoggingConfig `yaml:"logging"`
}

// DatasetConfig selects the dataset used when no file is given.
type DatasetConfig struct {
	DefaultPath string `yaml:"default_path"`
	Format      string `yaml:"format,omitempty"` // "", "csv", "tsv", "psv"; empty = by extension
}

// ColumnsConfig names the columns the preprocessor and analytics rely on.
type ColumnsConfig struct {
	ID          string   `yaml:"id"`
	Label       string   `yaml:"label"`
	Numeric     []string `yaml:"numeric"`
	Categorical []string `yaml:"categorical"`
	Drop        []string `yaml:"drop,omitempty"`
	Amount      string   `yaml:"amount"`
	Merchant    string   `yaml:"merchant"`
	Location    string   `yaml:"location"`
	Timestamp   string   `yaml:"timestamp"`
}

// SplitConfig controls the train/held-out partition.
type SplitConfig struct {
	TestRatio float64 `yaml:"test_ratio"`
	Seed      int64   `yaml:"seed"`
}

// ModelsConfig holds hyperparameters for both classifier variants.
type ModelsConfig struct {
	Logistic LogisticConfig `yaml:"logistic"`
	Forest   ForestConfig   `yaml:"forest"`
}

// LogisticConfig configures the logistic regression variant.
type LogisticConfig struct {
	MaxIter      int     `yaml:"max_iter"`
	LearningRate float64 `yaml:"learning_rate"`
	C            float64 `yaml:"c"` // inverse regularization strength
}

// ForestConfig configures the random forest variant.
type ForestConfig struct {
	NEstimators int   `yaml:"n_estimators"`
	MaxDepth    int   `yaml:"max_depth"`              // 0 = unlimited
	MaxFeatures int   `yaml:"max_features,omitempty"` // 0 = sqrt(features)
	Seed        int64 `yaml:"seed"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "auto", "console" or "json"
}

// Load reads a fraudlens.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault reads path, falling back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.Columns.Label == "" {
		return fmt.Errorf("invalid config: columns.label must be set")
	}
	if c.Split.TestRatio <= 0 || c.Split.TestRatio >= 1 {
		return fmt.Errorf("invalid config: split.test_ratio must be in (0, 1), got %v", c.Split.TestRatio)
	}
	if c.Models.Logistic.MaxIter <= 0 {
		return fmt.Errorf("invalid config: models.logistic.max_iter must be positive")
	}
	if c.Models.Forest.NEstimators <= 0 {
		return fmt.Errorf("invalid config: models.forest.n_estimators must be positive")
	}
	if c.Models.Forest.MaxFeatures < 0 {
		return fmt.Errorf("invalid config: models.forest.max_features must not be negative")
	}
	return nil
}

// Default returns a Config matching the bundled transactions dataset.
func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{
			DefaultPath: "transactions_10000.csv",
		},
		Columns: ColumnsConfig{
			ID:          "transaction_id",
			Label:       "is_fraud",
			Numeric:     []string{"amount"},
			Categorical: []string{"merchant", "location"},
			Drop:        []string{"timestamp", "date"},
			Amount:      "amount",
			Merchant:    "merchant",
			Location:    "location",
			Timestamp:   "timestamp",
		},
		Split: SplitConfig{
			TestRatio: 0.2,
			Seed:      42,
		},
		Models: ModelsConfig{
			Logistic: LogisticConfig{
				MaxIter:      1000,
				LearningRate: 0.5,
				C:            1.0,
			},
			Forest: ForestConfig{
				NEstimators: 100,
				Seed:        42,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}
