package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Dataset.DefaultPath = "data/sample.csv"
	cfg.Columns.Categorical = []string{"merchant", "location", "channel"}
	cfg.Models.Forest.NEstimators = 25

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/sample.csv", got.Dataset.DefaultPath)
	assert.Equal(t, cfg.Columns.Label, got.Columns.Label)
	assert.Equal(t, []string{"merchant", "location", "channel"}, got.Columns.Categorical)
	assert.InDelta(t, cfg.Split.TestRatio, got.Split.TestRatio, 0.001)
	assert.Equal(t, cfg.Split.Seed, got.Split.Seed)
	assert.Equal(t, 25, got.Models.Forest.NEstimators)
	assert.Equal(t, cfg.Models.Logistic.MaxIter, got.Models.Logistic.MaxIter)
	assert.Equal(t, cfg.Logging.Level, got.Logging.Level)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "transactions_10000.csv", cfg.Dataset.DefaultPath)
	assert.Equal(t, "transaction_id", cfg.Columns.ID)
	assert.Equal(t, "is_fraud", cfg.Columns.Label)
	assert.Equal(t, []string{"amount"}, cfg.Columns.Numeric)
	assert.Equal(t, []string{"merchant", "location"}, cfg.Columns.Categorical)
	assert.InDelta(t, 0.2, cfg.Split.TestRatio, 0.001)
	assert.Equal(t, int64(42), cfg.Split.Seed)
	assert.Equal(t, 1000, cfg.Models.Logistic.MaxIter)
	assert.Equal(t, 100, cfg.Models.Forest.NEstimators)
	assert.Equal(t, int64(42), cfg.Models.Forest.Seed)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault_Missing(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("split:\n  test_ratio: 0.25\n  seed: 7\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, cfg.Split.TestRatio, 0.001)
	assert.Equal(t, int64(7), cfg.Split.Seed)
	assert.Equal(t, "is_fraud", cfg.Columns.Label)
	assert.Equal(t, 100, cfg.Models.Forest.NEstimators)
}

func TestLoad_InvalidRatio(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("split:\n  test_ratio: 1.5\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test_ratio")
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("columns: [unterminated"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "default_path: transactions_10000.csv")
	assert.Contains(t, contents, "label: is_fraud")
	assert.Contains(t, contents, "test_ratio: 0.2")
	assert.Contains(t, contents, "n_estimators: 100")
}

func TestLoad_ForestMaxFeatures(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("models:\n  forest:\n    max_features: 2\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Models.Forest.MaxFeatures)
	assert.Equal(t, 100, cfg.Models.Forest.NEstimators)

	require.NoError(t, os.WriteFile(path, []byte("models:\n  forest:\n    max_features: -1\n"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_features")
}
