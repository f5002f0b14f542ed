package experiment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	yaml := `
data:
  path: data/train.csv
  target: SalePrice
  drop_high_missing: true
preprocessing:
  scale: true
  log_target: true
split:
  train_ratio: 0.75
  seed: 7
model:
  family: gradient_boosting
  n_estimators: 250
output:
  dir: results
  plots: true
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "data/train.csv", cfg.Data.Path)
	assert.Equal(t, "SalePrice", cfg.Data.Target)
	assert.True(t, cfg.Data.DropHighMissing)
	assert.Equal(t, 0.75, cfg.Split.TrainRatio)
	assert.Equal(t, int64(7), cfg.Split.Seed)
	assert.Equal(t, "gradient_boosting", cfg.Model.Family)
	assert.Equal(t, 250, cfg.Model.NEstimators)
	assert.True(t, cfg.Preprocessing.LogTarget)

	// Defaults fill the unspecified fields.
	assert.Equal(t, "median", cfg.Preprocessing.NumericStrategy)
	assert.Equal(t, "onehot", cfg.Preprocessing.Encoding)
	assert.Equal(t, 0.5, cfg.Data.MissingThreshold)
	assert.Equal(t, 0.1, cfg.Model.LearningRate)
	assert.Equal(t, 3, cfg.Model.MaxDepth, "boosting defaults to shallow trees")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "linear", cfg.Model.Family)
	assert.Equal(t, 0.8, cfg.Split.TrainRatio)
	assert.Equal(t, int64(42), cfg.Split.Seed)
	assert.Equal(t, "median", cfg.Preprocessing.NumericStrategy)
	assert.Equal(t, "most_frequent", cfg.Preprocessing.CategoricalStrategy)
	assert.Equal(t, 100, cfg.Model.NEstimators)
}

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.Data.Path = "train.csv"
	valid.Data.Target = "price"
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"missing_path", func(c *Config) { c.Data.Path = "" }},
		{"missing_target", func(c *Config) { c.Data.Target = "" }},
		{"ratio_zero", func(c *Config) { c.Split.TrainRatio = 0 }},
		{"ratio_one", func(c *Config) { c.Split.TrainRatio = 1 }},
		{"unknown_family", func(c *Config) { c.Model.Family = "xgboost9000" }},
		{"bad_threshold", func(c *Config) {
			c.Data.DropHighMissing = true
			c.Data.MissingThreshold = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mod(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewRegressorFamilies(t *testing.T) {
	for _, family := range FamilyNames() {
		t.Run(family, func(t *testing.T) {
			mc := DefaultConfig().Model
			mc.Family = family
			reg, err := NewRegressor(mc, 42)
			require.NoError(t, err)
			assert.NotNil(t, reg)
		})
	}
}

func TestNewRegressorUnknownFamily(t *testing.T) {
	mc := DefaultConfig().Model
	mc.Family = "svm"
	_, err := NewRegressor(mc, 42)
	require.Error(t, err)
}

func TestNewRegressorLinearAlphaSelectsRidge(t *testing.T) {
	mc := DefaultConfig().Model
	mc.Alpha = 0.5
	reg, err := NewRegressor(mc, 42)
	require.NoError(t, err)

	params, ok := reg.(interface{ GetParams() map[string]interface{} })
	require.True(t, ok)
	assert.Equal(t, 0.5, params.GetParams()["alpha"])
}
