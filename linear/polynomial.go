package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/alineAssuncao/kaggle-regression-lab/core/model"
	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
	"github.com/alineAssuncao/kaggle-regression-lab/preprocessing"
)

// PolynomialRegression expands the features into a polynomial basis
// and fits a linear model on top. With a positive Alpha the inner
// model is ridge regression, which tames the collinearity that higher
// degrees introduce.
type PolynomialRegression struct {
	model.BaseEstimator

	// Degree is the polynomial degree of the basis expansion.
	Degree int

	// Alpha is the L2 penalty of the inner model. Zero uses ordinary
	// least squares.
	Alpha float64

	poly  *preprocessing.PolynomialFeatures
	inner model.Regressor
}

// NewPolynomialRegression creates an unfitted model of the given degree.
func NewPolynomialRegression(degree int) *PolynomialRegression {
	return &PolynomialRegression{Degree: degree}
}

// Fit expands X and fits the inner linear model.
func (pr *PolynomialRegression) Fit(X, y mat.Matrix) error {
	if pr.Degree < 1 {
		return errors.NewValidationError("degree", "must be at least 1", pr.Degree)
	}

	// The inner model supplies its own intercept, so the basis skips
	// the bias column.
	pr.poly = &preprocessing.PolynomialFeatures{Degree: pr.Degree, IncludeBias: false}
	expanded, err := pr.poly.FitTransform(X)
	if err != nil {
		return err
	}

	if pr.Alpha > 0 {
		pr.inner = NewRidge(pr.Alpha)
	} else {
		pr.inner = NewLinearRegression()
	}
	if err := pr.inner.Fit(expanded, y); err != nil {
		return err
	}

	pr.SetFitted()
	return nil
}

// Predict expands X with the fitted basis and predicts with the inner
// model.
func (pr *PolynomialRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !pr.IsFitted() {
		return nil, errors.NewNotFittedError("PolynomialRegression", "Predict")
	}
	expanded, err := pr.poly.Transform(X)
	if err != nil {
		return nil, err
	}
	return pr.inner.Predict(expanded)
}

// Score computes R² on the given data.
func (pr *PolynomialRegression) Score(X, y mat.Matrix) (float64, error) {
	if !pr.IsFitted() {
		return 0, errors.NewNotFittedError("PolynomialRegression", "Score")
	}
	return scoreR2(pr, X, y)
}

// GetParams returns the model's hyperparameters.
func (pr *PolynomialRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"degree": pr.Degree,
		"alpha":  pr.Alpha,
	}
}
