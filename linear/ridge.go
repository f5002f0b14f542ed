package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/alineAssuncao/kaggle-regression-lab/core/model"
	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
)

// Ridge fits linear regression with an L2 penalty on the feature
// weights. The intercept is not penalized.
type Ridge struct {
	model.BaseEstimator

	// Alpha is the regularization strength. Zero reduces to ordinary
	// least squares.
	Alpha float64

	// Coef holds the learned feature weights.
	Coef *mat.VecDense

	// Intercept is the learned bias term.
	Intercept float64

	// NFeatures is the number of features seen during Fit.
	NFeatures int
}

// NewRidge creates an unfitted Ridge model with the given penalty.
func NewRidge(alpha float64) *Ridge {
	return &Ridge{Alpha: alpha}
}

// Fit learns the penalized weights from X and the column vector y.
func (rg *Ridge) Fit(X, y mat.Matrix) error {
	if rg.Alpha < 0 {
		return errors.NewValidationError("alpha", "must be non-negative", rg.Alpha)
	}

	aug, yVec, err := validateAndAugment("Ridge.Fit", X, y)
	if err != nil {
		return err
	}
	_, c := X.Dims()
	rg.NFeatures = c

	weights, err := solveNormalEquations("Ridge.Fit", aug, yVec, rg.Alpha)
	if err != nil {
		return err
	}

	rg.Intercept = weights.AtVec(0)
	rg.Coef = mat.NewVecDense(c, nil)
	for i := 0; i < c; i++ {
		rg.Coef.SetVec(i, weights.AtVec(i+1))
	}

	rg.SetFitted()
	return nil
}

// Predict returns the fitted values for X as an n×1 matrix.
func (rg *Ridge) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rg.IsFitted() {
		return nil, errors.NewNotFittedError("Ridge", "Predict")
	}
	return predictLinear("Ridge.Predict", X, rg.Coef, rg.Intercept, rg.NFeatures)
}

// Score computes R² on the given data.
func (rg *Ridge) Score(X, y mat.Matrix) (float64, error) {
	if !rg.IsFitted() {
		return 0, errors.NewNotFittedError("Ridge", "Score")
	}
	return scoreR2(rg, X, y)
}

// Weights returns the learned coefficients as a slice.
func (rg *Ridge) Weights() []float64 {
	return vecSlice(rg.Coef)
}

// GetIntercept returns the learned bias term.
func (rg *Ridge) GetIntercept() float64 {
	return rg.Intercept
}

// GetParams returns the model's hyperparameters.
func (rg *Ridge) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"alpha": rg.Alpha,
	}
}
