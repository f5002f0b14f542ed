// Package ensemble implements the tree ensembles: bagged random
// forests and gradient boosted trees.
package ensemble

import (
	"math/rand"

	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/gonum/mat"

	"github.com/alineAssuncao/kaggle-regression-lab/core/model"
	"github.com/alineAssuncao/kaggle-regression-lab/core/parallel"
	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
	"github.com/alineAssuncao/kaggle-regression-lab/tree"
)

// RandomForestRegressor averages CART trees grown on bootstrap
// resamples of the training data.
type RandomForestRegressor struct {
	model.BaseEstimator

	// NEstimators is the number of trees (default 100).
	NEstimators int

	// MaxDepth limits each tree's depth. 0 means no limit.
	MaxDepth int

	// MinSamplesSplit is the minimum samples needed to split a node.
	MinSamplesSplit int

	// MinSamplesLeaf is the minimum samples in each leaf.
	MinSamplesLeaf int

	// MaxFeatures is the number of features sampled per split. 0 uses
	// all features.
	MaxFeatures int

	// RandomState seeds the bootstrap sampling; tree i uses
	// RandomState + i so runs are reproducible.
	RandomState int64

	// Verbose renders a progress bar on stderr while fitting.
	Verbose bool

	// NFeatures is the number of features seen during Fit.
	NFeatures int

	trees []*tree.DecisionTreeRegressor
}

// averageImportances combines per-tree normalized importances into a
// single normalized vector. Shared by the forest and the booster.
func averageImportances(trees []*tree.DecisionTreeRegressor, nFeatures int) ([]float64, error) {
	out := make([]float64, nFeatures)
	for _, t := range trees {
		imp, err := t.FeatureImportances()
		if err != nil {
			return nil, err
		}
		for j, v := range imp {
			out[j] += v
		}
	}
	total := 0.0
	for _, v := range out {
		total += v
	}
	if total > 0 {
		for j := range out {
			out[j] /= total
		}
	}
	return out, nil
}

// NewRandomForestRegressor creates a forest with default settings.
func NewRandomForestRegressor() *RandomForestRegressor {
	return &RandomForestRegressor{
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
}

// Fit grows the forest on X and the column vector y. Trees are grown
// in parallel; each tree sees a bootstrap resample drawn from its own
// seeded source.
func (rf *RandomForestRegressor) Fit(X, y mat.Matrix) error {
	if rf.NEstimators < 1 {
		return errors.NewValidationError("n_estimators", "must be at least 1", rf.NEstimators)
	}

	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("RandomForestRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("RandomForestRegressor.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("RandomForestRegressor.Fit", "y must be a column vector")
	}
	rf.NFeatures = c

	rf.trees = make([]*tree.DecisionTreeRegressor, rf.NEstimators)

	var bar *progressbar.ProgressBar
	if rf.Verbose {
		bar = progressbar.Default(int64(rf.NEstimators), "fitting trees")
	}

	fitErrs := make([]error, rf.NEstimators)
	parallel.Parallelize(rf.NEstimators, func(start, end int) {
		for i := start; i < end; i++ {
			seed := rf.RandomState + int64(i)
			bx, by := bootstrap(X, y, r, c, seed)

			t := tree.NewDecisionTreeRegressor(
				tree.WithMaxDepth(rf.MaxDepth),
				tree.WithMinSamplesSplit(rf.MinSamplesSplit),
				tree.WithMinSamplesLeaf(rf.MinSamplesLeaf),
				tree.WithMaxFeatures(rf.MaxFeatures),
				tree.WithRandomState(seed),
			)
			if err := t.Fit(bx, by); err != nil {
				fitErrs[i] = err
				continue
			}
			rf.trees[i] = t
			if bar != nil {
				_ = bar.Add(1)
			}
		}
	})

	for _, err := range fitErrs {
		if err != nil {
			return errors.Wrap(err, "RandomForestRegressor.Fit")
		}
	}

	rf.SetFitted()
	return nil
}

// Predict averages the trees' predictions as an n×1 matrix.
func (rf *RandomForestRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rf.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestRegressor", "Predict")
	}
	r, c := X.Dims()
	if c != rf.NFeatures {
		return nil, errors.NewDimensionError("RandomForestRegressor.Predict", rf.NFeatures, c, 1)
	}

	sums := make([]float64, r)
	for _, t := range rf.trees {
		pred, err := t.Predict(X)
		if err != nil {
			return nil, err
		}
		for i := 0; i < r; i++ {
			sums[i] += pred.At(i, 0)
		}
	}

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		predictions.Set(i, 0, sums[i]/float64(len(rf.trees)))
	}
	return predictions, nil
}

// Score computes R² on the given data.
func (rf *RandomForestRegressor) Score(X, y mat.Matrix) (float64, error) {
	if !rf.IsFitted() {
		return 0, errors.NewNotFittedError("RandomForestRegressor", "Score")
	}
	yPred, err := rf.Predict(X)
	if err != nil {
		return 0, err
	}
	return r2(y, yPred)
}

// FeatureImportances averages the trees' split-gain importances,
// normalized to sum to 1.
func (rf *RandomForestRegressor) FeatureImportances() ([]float64, error) {
	if !rf.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestRegressor", "FeatureImportances")
	}
	return averageImportances(rf.trees, rf.NFeatures)
}

// GetParams returns the model's hyperparameters.
func (rf *RandomForestRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":      rf.NEstimators,
		"max_depth":         rf.MaxDepth,
		"min_samples_split": rf.MinSamplesSplit,
		"min_samples_leaf":  rf.MinSamplesLeaf,
		"max_features":      rf.MaxFeatures,
		"random_state":      rf.RandomState,
	}
}

// bootstrap draws n rows with replacement from X and y.
func bootstrap(X, y mat.Matrix, n, c int, seed int64) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewSource(seed))
	bx := mat.NewDense(n, c, nil)
	by := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		src := rng.Intn(n)
		for j := 0; j < c; j++ {
			bx.Set(i, j, X.At(src, j))
		}
		by.Set(i, 0, y.At(src, 0))
	}
	return bx, by
}

// r2 computes the coefficient of determination of predictions.
func r2(y, yPred mat.Matrix) (float64, error) {
	r, _ := y.Dims()
	mean := 0.0
	for i := 0; i < r; i++ {
		mean += y.At(i, 0)
	}
	mean /= float64(r)

	var tss, rss float64
	for i := 0; i < r; i++ {
		d := y.At(i, 0) - mean
		e := y.At(i, 0) - yPred.At(i, 0)
		tss += d * d
		rss += e * e
	}
	if tss == 0 {
		return 0, errors.Newf("reglab: total sum of squares is zero")
	}
	return 1 - rss/tss, nil
}
