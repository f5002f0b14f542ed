// Package experiment wires the pipeline together: configuration, the
// model registry, a single run producing a metric report, reporting,
// the run-history store and hyperparameter tuning.
package experiment

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
)

// Config is the full configuration of one experiment run.
type Config struct {
	Data          DataConfig          `mapstructure:"data" json:"data"`
	Preprocessing PreprocessingConfig `mapstructure:"preprocessing" json:"preprocessing"`
	Split         SplitConfig         `mapstructure:"split" json:"split"`
	Model         ModelConfig         `mapstructure:"model" json:"model"`
	Output        OutputConfig        `mapstructure:"output" json:"output"`
}

// DataConfig locates the dataset and the target column.
type DataConfig struct {
	// Path is the CSV file to load.
	Path string `mapstructure:"path" json:"path"`

	// Target is the name of the target column.
	Target string `mapstructure:"target" json:"target"`

	// DropHighMissing drops columns whose missing fraction exceeds
	// MissingThreshold before preprocessing.
	DropHighMissing bool `mapstructure:"drop_high_missing" json:"drop_high_missing"`

	// MissingThreshold is the missing fraction above which a column is
	// dropped (default 0.5).
	MissingThreshold float64 `mapstructure:"missing_threshold" json:"missing_threshold"`
}

// PreprocessingConfig selects the feature transformations.
type PreprocessingConfig struct {
	// NumericStrategy fills missing numeric values: mean, median,
	// most_frequent or constant.
	NumericStrategy string `mapstructure:"numeric_strategy" json:"numeric_strategy"`

	// CategoricalStrategy fills missing categorical values:
	// most_frequent or constant.
	CategoricalStrategy string `mapstructure:"categorical_strategy" json:"categorical_strategy"`

	// Encoding is onehot or ordinal.
	Encoding string `mapstructure:"encoding" json:"encoding"`

	// DropFirst drops the first indicator per one-hot encoded column.
	DropFirst bool `mapstructure:"drop_first" json:"drop_first"`

	// Scale enables numeric scaling.
	Scale bool `mapstructure:"scale" json:"scale"`

	// Scaler is standard or minmax.
	Scaler string `mapstructure:"scaler" json:"scaler"`

	// PolyDegree above 1 expands the numeric block with polynomial
	// features.
	PolyDegree int `mapstructure:"poly_degree" json:"poly_degree"`

	// LogTarget trains on log1p of the target and reports metrics on
	// the original scale via expm1.
	LogTarget bool `mapstructure:"log_target" json:"log_target"`
}

// SplitConfig controls the train/evaluation split.
type SplitConfig struct {
	// TrainRatio is the fraction of rows used for training,
	// exclusive of 0 and 1.
	TrainRatio float64 `mapstructure:"train_ratio" json:"train_ratio"`

	// Seed makes the shuffle reproducible.
	Seed int64 `mapstructure:"seed" json:"seed"`
}

// ModelConfig selects the model family and its hyperparameters.
// Fields that a family does not use are ignored.
type ModelConfig struct {
	// Family is one of linear, polynomial, decision_tree,
	// random_forest or gradient_boosting.
	Family string `mapstructure:"family" json:"family"`

	// Alpha is the L2 penalty of the linear families.
	Alpha float64 `mapstructure:"alpha" json:"alpha"`

	// Degree is the polynomial family's basis degree.
	Degree int `mapstructure:"degree" json:"degree"`

	// MaxDepth limits tree depth. 0 means no limit (trees), 3 for
	// boosting.
	MaxDepth int `mapstructure:"max_depth" json:"max_depth"`

	// MinSamplesSplit is the minimum samples needed to split a node.
	MinSamplesSplit int `mapstructure:"min_samples_split" json:"min_samples_split"`

	// MinSamplesLeaf is the minimum samples in each leaf.
	MinSamplesLeaf int `mapstructure:"min_samples_leaf" json:"min_samples_leaf"`

	// MaxFeatures is the number of features sampled per split.
	MaxFeatures int `mapstructure:"max_features" json:"max_features"`

	// NEstimators is the ensemble size.
	NEstimators int `mapstructure:"n_estimators" json:"n_estimators"`

	// LearningRate is the boosting shrinkage.
	LearningRate float64 `mapstructure:"learning_rate" json:"learning_rate"`

	// Subsample is the boosting row fraction per stage.
	Subsample float64 `mapstructure:"subsample" json:"subsample"`

	// Lambda is the boosting L2 leaf penalty.
	Lambda float64 `mapstructure:"lambda" json:"lambda"`

	// Verbose renders progress bars while fitting ensembles.
	Verbose bool `mapstructure:"verbose" json:"verbose"`
}

// OutputConfig controls the run artifacts.
type OutputConfig struct {
	// Dir is the directory artifacts are written to.
	Dir string `mapstructure:"dir" json:"dir"`

	// Plots writes the residual and predicted-vs-actual plots.
	Plots bool `mapstructure:"plots" json:"plots"`

	// SaveModel persists the trained model with gob.
	SaveModel bool `mapstructure:"save_model" json:"save_model"`

	// HistoryDB is the SQLite file recording past runs. Empty disables
	// history.
	HistoryDB string `mapstructure:"history_db" json:"history_db"`
}

// setDefaults registers the default values on a viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("data.missing_threshold", 0.5)
	v.SetDefault("preprocessing.numeric_strategy", "median")
	v.SetDefault("preprocessing.categorical_strategy", "most_frequent")
	v.SetDefault("preprocessing.encoding", "onehot")
	v.SetDefault("preprocessing.scaler", "standard")
	v.SetDefault("split.train_ratio", 0.8)
	v.SetDefault("split.seed", 42)
	v.SetDefault("model.family", "linear")
	v.SetDefault("model.degree", 2)
	v.SetDefault("model.min_samples_split", 2)
	v.SetDefault("model.min_samples_leaf", 1)
	v.SetDefault("model.n_estimators", 100)
	v.SetDefault("model.learning_rate", 0.1)
	v.SetDefault("model.subsample", 1.0)
	v.SetDefault("model.lambda", 1.0)
	v.SetDefault("output.dir", "output")
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always unmarshal cleanly.
	_ = v.Unmarshal(&cfg)
	cfg.Model.MaxDepth = defaultMaxDepth(cfg.Model.Family)
	return cfg
}

// LoadConfig reads a yaml config file, applies defaults and validates
// the result.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.NewDataError(path, "failed to read config", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.NewDataError(path, "failed to parse config", err)
	}
	if cfg.Model.MaxDepth == 0 && !v.IsSet("model.max_depth") {
		cfg.Model.MaxDepth = defaultMaxDepth(cfg.Model.Family)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// defaultMaxDepth is 3 for boosting, unlimited otherwise.
func defaultMaxDepth(family string) int {
	if Family(family) == FamilyGradientBoosting {
		return 3
	}
	return 0
}

// Validate checks the configuration for values the pipeline rejects.
func (c *Config) Validate() error {
	if c.Data.Path == "" {
		return errors.NewValidationError("data.path", "must be set", c.Data.Path)
	}
	if c.Data.Target == "" {
		return errors.NewValidationError("data.target", "must be set", c.Data.Target)
	}
	if c.Split.TrainRatio <= 0 || c.Split.TrainRatio >= 1 {
		return errors.NewValidationError("split.train_ratio", "must be in (0, 1)", c.Split.TrainRatio)
	}
	if c.Data.DropHighMissing && (c.Data.MissingThreshold <= 0 || c.Data.MissingThreshold > 1) {
		return errors.NewValidationError("data.missing_threshold", "must be in (0, 1]", c.Data.MissingThreshold)
	}
	if !knownFamily(c.Model.Family) {
		return errors.NewValidationError("model.family",
			"must be one of "+strings.Join(FamilyNames(), ", "), c.Model.Family)
	}
	return nil
}
