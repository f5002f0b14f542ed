package ensemble

import (
	"math/rand"

	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/gonum/mat"

	"github.com/alineAssuncao/kaggle-regression-lab/core/model"
	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
	"github.com/alineAssuncao/kaggle-regression-lab/tree"
)

// GradientBoostingRegressor fits shallow regression trees to the
// residuals of the running prediction, shrinking each stage by the
// learning rate. Leaf values carry an L2 penalty controlled by Lambda,
// and each stage can fit on a row subsample.
type GradientBoostingRegressor struct {
	model.BaseEstimator

	// NEstimators is the number of boosting stages (default 100).
	NEstimators int

	// LearningRate shrinks each stage's contribution (default 0.1).
	LearningRate float64

	// MaxDepth limits the stage trees (default 3).
	MaxDepth int

	// MinSamplesSplit is the minimum samples needed to split a node.
	MinSamplesSplit int

	// MinSamplesLeaf is the minimum samples in each leaf.
	MinSamplesLeaf int

	// Subsample is the fraction of rows each stage trains on, drawn
	// without replacement. 1 uses every row.
	Subsample float64

	// Lambda is the L2 penalty on leaf values: a leaf predicts
	// sum(residuals) / (n + lambda).
	Lambda float64

	// RandomState seeds the row subsampling.
	RandomState int64

	// Verbose renders a progress bar on stderr while fitting.
	Verbose bool

	// NFeatures is the number of features seen during Fit.
	NFeatures int

	baseline float64
	trees    []*tree.DecisionTreeRegressor
}

// NewGradientBoostingRegressor creates a booster with default settings.
func NewGradientBoostingRegressor() *GradientBoostingRegressor {
	return &GradientBoostingRegressor{
		NEstimators:     100,
		LearningRate:    0.1,
		MaxDepth:        3,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Subsample:       1.0,
	}
}

// Fit boosts on X and the column vector y. The initial prediction is
// the target mean; every stage fits a tree to the current residuals.
func (gb *GradientBoostingRegressor) Fit(X, y mat.Matrix) error {
	if gb.NEstimators < 1 {
		return errors.NewValidationError("n_estimators", "must be at least 1", gb.NEstimators)
	}
	if gb.LearningRate <= 0 || gb.LearningRate > 1 {
		return errors.NewValidationError("learning_rate", "must be in (0, 1]", gb.LearningRate)
	}
	if gb.Subsample <= 0 || gb.Subsample > 1 {
		return errors.NewValidationError("subsample", "must be in (0, 1]", gb.Subsample)
	}
	if gb.Lambda < 0 {
		return errors.NewValidationError("lambda", "must be non-negative", gb.Lambda)
	}

	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("GradientBoostingRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("GradientBoostingRegressor.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("GradientBoostingRegressor.Fit", "y must be a column vector")
	}
	gb.NFeatures = c

	gb.baseline = 0
	for i := 0; i < r; i++ {
		gb.baseline += y.At(i, 0)
	}
	gb.baseline /= float64(r)

	current := make([]float64, r)
	for i := range current {
		current[i] = gb.baseline
	}

	rng := rand.New(rand.NewSource(gb.RandomState))
	residuals := mat.NewDense(r, 1, nil)

	var bar *progressbar.ProgressBar
	if gb.Verbose {
		bar = progressbar.Default(int64(gb.NEstimators), "boosting")
	}

	gb.trees = make([]*tree.DecisionTreeRegressor, 0, gb.NEstimators)
	for stage := 0; stage < gb.NEstimators; stage++ {
		for i := 0; i < r; i++ {
			residuals.Set(i, 0, y.At(i, 0)-current[i])
		}

		fitX, fitY := mat.Matrix(X), mat.Matrix(residuals)
		if gb.Subsample < 1 {
			fitX, fitY = sampleRows(X, residuals, r, c, gb.Subsample, rng)
		}

		t := tree.NewDecisionTreeRegressor(
			tree.WithMaxDepth(gb.MaxDepth),
			tree.WithMinSamplesSplit(gb.MinSamplesSplit),
			tree.WithMinSamplesLeaf(gb.MinSamplesLeaf),
			tree.WithLeafRegularization(gb.Lambda),
			tree.WithRandomState(gb.RandomState+int64(stage)),
		)
		if err := t.Fit(fitX, fitY); err != nil {
			return errors.Wrap(err, "GradientBoostingRegressor.Fit")
		}
		gb.trees = append(gb.trees, t)

		stagePred, err := t.Predict(X)
		if err != nil {
			return errors.Wrap(err, "GradientBoostingRegressor.Fit")
		}
		for i := 0; i < r; i++ {
			current[i] += gb.LearningRate * stagePred.At(i, 0)
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	gb.SetFitted()
	return nil
}

// Predict sums the baseline and the shrunken stage predictions.
func (gb *GradientBoostingRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !gb.IsFitted() {
		return nil, errors.NewNotFittedError("GradientBoostingRegressor", "Predict")
	}
	r, c := X.Dims()
	if c != gb.NFeatures {
		return nil, errors.NewDimensionError("GradientBoostingRegressor.Predict", gb.NFeatures, c, 1)
	}

	sums := make([]float64, r)
	for i := range sums {
		sums[i] = gb.baseline
	}
	for _, t := range gb.trees {
		pred, err := t.Predict(X)
		if err != nil {
			return nil, err
		}
		for i := 0; i < r; i++ {
			sums[i] += gb.LearningRate * pred.At(i, 0)
		}
	}

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		predictions.Set(i, 0, sums[i])
	}
	return predictions, nil
}

// Score computes R² on the given data.
func (gb *GradientBoostingRegressor) Score(X, y mat.Matrix) (float64, error) {
	if !gb.IsFitted() {
		return 0, errors.NewNotFittedError("GradientBoostingRegressor", "Score")
	}
	yPred, err := gb.Predict(X)
	if err != nil {
		return 0, err
	}
	return r2(y, yPred)
}

// NumStages returns the number of fitted boosting stages.
func (gb *GradientBoostingRegressor) NumStages() int {
	return len(gb.trees)
}

// FeatureImportances averages the stage trees' split-gain importances,
// normalized to sum to 1.
func (gb *GradientBoostingRegressor) FeatureImportances() ([]float64, error) {
	if !gb.IsFitted() {
		return nil, errors.NewNotFittedError("GradientBoostingRegressor", "FeatureImportances")
	}
	return averageImportances(gb.trees, gb.NFeatures)
}

// GetParams returns the model's hyperparameters.
func (gb *GradientBoostingRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":      gb.NEstimators,
		"learning_rate":     gb.LearningRate,
		"max_depth":         gb.MaxDepth,
		"min_samples_split": gb.MinSamplesSplit,
		"min_samples_leaf":  gb.MinSamplesLeaf,
		"subsample":         gb.Subsample,
		"lambda":            gb.Lambda,
		"random_state":      gb.RandomState,
	}
}

// sampleRows draws round(fraction*n) rows without replacement.
func sampleRows(X, y mat.Matrix, n, c int, fraction float64, rng *rand.Rand) (*mat.Dense, *mat.Dense) {
	k := int(fraction*float64(n) + 0.5)
	if k < 1 {
		k = 1
	}
	perm := rng.Perm(n)[:k]

	sx := mat.NewDense(k, c, nil)
	sy := mat.NewDense(k, 1, nil)
	for i, src := range perm {
		for j := 0; j < c; j++ {
			sx.Set(i, j, X.At(src, j))
		}
		sy.Set(i, 0, y.At(src, 0))
	}
	return sx, sy
}
