// Package linear implements the linear model families: ordinary least
// squares, ridge regression and their polynomial-basis variants.
package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/alineAssuncao/kaggle-regression-lab/core/model"
	"github.com/alineAssuncao/kaggle-regression-lab/core/parallel"
	"github.com/alineAssuncao/kaggle-regression-lab/metrics"
	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
)

// LinearRegression fits ordinary least squares via the normal
// equations w = (X^T X)^-1 X^T y, with an explicit intercept term.
type LinearRegression struct {
	model.BaseEstimator

	// Coef holds the learned feature weights.
	Coef *mat.VecDense

	// Intercept is the learned bias term.
	Intercept float64

	// NFeatures is the number of features seen during Fit.
	NFeatures int
}

// NewLinearRegression creates an unfitted LinearRegression.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Fit learns the weights from X and the column vector y.
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	aug, yVec, err := validateAndAugment("LinearRegression.Fit", X, y)
	if err != nil {
		return err
	}
	_, c := X.Dims()
	lr.NFeatures = c

	weights, err := solveNormalEquations("LinearRegression.Fit", aug, yVec, 0)
	if err != nil {
		return err
	}

	lr.Intercept = weights.AtVec(0)
	lr.Coef = mat.NewVecDense(c, nil)
	for i := 0; i < c; i++ {
		lr.Coef.SetVec(i, weights.AtVec(i+1))
	}

	lr.SetFitted()
	return nil
}

// Predict returns the fitted values for X as an n×1 matrix.
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}
	return predictLinear("LinearRegression.Predict", X, lr.Coef, lr.Intercept, lr.NFeatures)
}

// Score computes R² on the given data.
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("LinearRegression", "Score")
	}
	return scoreR2(lr, X, y)
}

// Weights returns the learned coefficients as a slice.
func (lr *LinearRegression) Weights() []float64 {
	return vecSlice(lr.Coef)
}

// GetIntercept returns the learned bias term.
func (lr *LinearRegression) GetIntercept() float64 {
	return lr.Intercept
}

// GetParams returns the model's hyperparameters.
func (lr *LinearRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{}
}

// validateAndAugment checks the shapes of X and y and returns X with a
// leading column of ones for the intercept, plus y as a vector.
func validateAndAugment(op string, X, y mat.Matrix) (*mat.Dense, *mat.VecDense, error) {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return nil, nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return nil, nil, errors.NewDimensionError(op, r, ry, 0)
	}
	if cy != 1 {
		return nil, nil, errors.NewValueError(op, "y must be a column vector")
	}

	aug := mat.NewDense(r, c+1, nil)
	const parallelThreshold = 1000
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			aug.Set(i, 0, 1.0)
			for j := 0; j < c; j++ {
				aug.Set(i, j+1, X.At(i, j))
			}
		}
	})

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}
	return aug, yVec, nil
}

// solveNormalEquations solves (X^T X + alpha*I') w = X^T y where I' is
// the identity with a zero in the intercept position, so the bias term
// is never penalized. alpha 0 gives plain least squares.
func solveNormalEquations(op string, aug *mat.Dense, y *mat.VecDense, alpha float64) (*mat.VecDense, error) {
	var xt mat.Dense
	xt.CloneFrom(aug.T())

	var xtx mat.Dense
	xtx.Mul(&xt, aug)

	if alpha > 0 {
		_, p := aug.Dims()
		for j := 1; j < p; j++ {
			xtx.Set(j, j, xtx.At(j, j)+alpha)
		}
	}

	var xty mat.VecDense
	xty.MulVec(&xt, y)

	_, p := aug.Dims()
	weights := mat.NewVecDense(p, nil)
	if err := weights.SolveVec(&xtx, &xty); err != nil {
		return nil, errors.NewModelError(op, "singular matrix", errors.ErrSingularMatrix)
	}
	return weights, nil
}

// predictLinear computes X*coef + intercept row by row.
func predictLinear(op string, X mat.Matrix, coef *mat.VecDense, intercept float64, nFeatures int) (mat.Matrix, error) {
	r, c := X.Dims()
	if c != nFeatures {
		return nil, errors.NewDimensionError(op, nFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * coef.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}
	return predictions, nil
}

// scoreR2 evaluates R² for any predictor.
func scoreR2(p model.Predictor, X, y mat.Matrix) (float64, error) {
	yPred, err := p.Predict(X)
	if err != nil {
		return 0, err
	}
	yTrueVec, err := metrics.ColumnVec(y)
	if err != nil {
		return 0, err
	}
	yPredVec, err := metrics.ColumnVec(yPred)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(yTrueVec, yPredVec)
}

func vecSlice(v *mat.VecDense) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
