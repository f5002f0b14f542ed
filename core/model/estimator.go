package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for trainable models.
type Fitter interface {
	// Fit trains the model on the feature matrix X and target y.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for models that produce predictions.
type Predictor interface {
	// Predict returns predictions for the rows of X as an n×1 matrix.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// LinearModel is the interface for models with linear coefficients.
type LinearModel interface {
	// Weights returns the learned coefficients.
	Weights() []float64
	// GetIntercept returns the learned intercept.
	GetIntercept() float64
}
