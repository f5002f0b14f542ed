package experiment

import (
	"github.com/c-bata/goptuna"
	"github.com/c-bata/goptuna/tpe"

	"github.com/alineAssuncao/kaggle-regression-lab/metrics"
	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
)

// TuneResult is the outcome of a hyperparameter search.
type TuneResult struct {
	// Family is the tuned model family.
	Family string `json:"family"`

	// Trials is the number of completed trials.
	Trials int `json:"trials"`

	// BestRMSE is the lowest evaluation RMSE found.
	BestRMSE float64 `json:"best_rmse"`

	// BestParams are the suggested values of the best trial.
	BestParams map[string]interface{} `json:"best_params"`

	// BestConfig is the base model config with the best values applied.
	BestConfig ModelConfig `json:"best_config"`
}

// Tuner searches a family's hyperparameter space with TPE. The data
// is loaded, preprocessed and split once; every trial refits the model
// on the same training matrix and scores RMSE on the held-out rows.
type Tuner struct {
	cfg  Config
	prep *prepared

	bestRMSE   float64
	bestConfig ModelConfig
}

// NewTuner prepares the data for cfg once.
func NewTuner(cfg Config) (*Tuner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	family := Family(cfg.Model.Family)
	if family == FamilyLinear && cfg.Model.Alpha == 0 {
		// Plain least squares has nothing to tune; search ridge alpha.
		cfg.Model.Alpha = 1
	}
	prep, err := prepare(cfg)
	if err != nil {
		return nil, err
	}
	return &Tuner{cfg: cfg, prep: prep, bestRMSE: -1}, nil
}

// Objective is the goptuna objective: lower RMSE is better.
func (t *Tuner) Objective(trial goptuna.Trial) (float64, error) {
	mc, err := t.suggest(trial)
	if err != nil {
		return 0, err
	}

	reg, err := NewRegressor(mc, t.cfg.Split.Seed)
	if err != nil {
		return 0, err
	}

	// Mirror Run's target transform so trials are scored under the
	// same objective the winning config will be fit with.
	yFit := t.prep.yTrain
	if t.cfg.Preprocessing.LogTarget {
		yFit = log1pVec(t.prep.yTrain)
	}
	if err := reg.Fit(t.prep.xTrain, yFit); err != nil {
		return 0, err
	}
	predM, err := reg.Predict(t.prep.xTest)
	if err != nil {
		return 0, err
	}
	yPred, err := metrics.ColumnVec(predM)
	if err != nil {
		return 0, err
	}
	if t.cfg.Preprocessing.LogTarget {
		yPred = expm1Vec(yPred)
	}
	rmse, err := metrics.RMSE(t.prep.yTest, yPred)
	if err != nil {
		return 0, err
	}

	if t.bestRMSE < 0 || rmse < t.bestRMSE {
		t.bestRMSE = rmse
		t.bestConfig = mc
	}
	return rmse, nil
}

// suggest draws a hyperparameter set for the configured family.
func (t *Tuner) suggest(trial goptuna.Trial) (ModelConfig, error) {
	mc := t.cfg.Model
	var err error

	switch Family(mc.Family) {
	case FamilyLinear:
		if mc.Alpha, err = trial.SuggestLogFloat("alpha", 1e-4, 100); err != nil {
			return mc, err
		}
	case FamilyPolynomial:
		if mc.Degree, err = trial.SuggestInt("degree", 1, 4); err != nil {
			return mc, err
		}
		if mc.Alpha, err = trial.SuggestLogFloat("alpha", 1e-4, 100); err != nil {
			return mc, err
		}
	case FamilyDecisionTree:
		if mc.MaxDepth, err = trial.SuggestInt("max_depth", 2, 12); err != nil {
			return mc, err
		}
		if mc.MinSamplesLeaf, err = trial.SuggestInt("min_samples_leaf", 1, 10); err != nil {
			return mc, err
		}
	case FamilyRandomForest:
		if mc.NEstimators, err = trial.SuggestStepInt("n_estimators", 50, 300, 50); err != nil {
			return mc, err
		}
		if mc.MaxDepth, err = trial.SuggestInt("max_depth", 2, 16); err != nil {
			return mc, err
		}
		if mc.MinSamplesLeaf, err = trial.SuggestInt("min_samples_leaf", 1, 8); err != nil {
			return mc, err
		}
	case FamilyGradientBoosting:
		if mc.NEstimators, err = trial.SuggestStepInt("n_estimators", 50, 400, 50); err != nil {
			return mc, err
		}
		if mc.LearningRate, err = trial.SuggestLogFloat("learning_rate", 0.01, 0.3); err != nil {
			return mc, err
		}
		if mc.MaxDepth, err = trial.SuggestInt("max_depth", 2, 6); err != nil {
			return mc, err
		}
		if mc.Subsample, err = trial.SuggestDiscreteFloat("subsample", 0.5, 1.0, 0.1); err != nil {
			return mc, err
		}
		if mc.Lambda, err = trial.SuggestLogFloat("lambda", 0.1, 10); err != nil {
			return mc, err
		}
	default:
		return mc, errors.NewValidationError("model.family", "unknown family", mc.Family)
	}
	return mc, nil
}

// Run executes trials and returns the best configuration found.
func (t *Tuner) Run(trials int) (*TuneResult, error) {
	if trials < 1 {
		return nil, errors.NewValidationError("trials", "must be at least 1", trials)
	}

	study, err := goptuna.CreateStudy("reglab-"+t.cfg.Model.Family,
		goptuna.StudyOptionDirection(goptuna.StudyDirectionMinimize),
		goptuna.StudyOptionSampler(tpe.NewSampler()))
	if err != nil {
		return nil, errors.Wrap(err, "tuning: create study")
	}
	if err := study.Optimize(t.Objective, trials); err != nil {
		return nil, errors.Wrap(err, "tuning: optimize")
	}

	params, err := study.GetBestParams()
	if err != nil {
		return nil, errors.Wrap(err, "tuning: best params")
	}
	return &TuneResult{
		Family:     t.cfg.Model.Family,
		Trials:     trials,
		BestRMSE:   t.bestRMSE,
		BestParams: params,
		BestConfig: t.bestConfig,
	}, nil
}
