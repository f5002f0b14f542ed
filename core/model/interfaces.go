// Package model provides the shared estimator base, the interfaces
// implemented by every regressor and transformer, and model persistence.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the coefficient of determination R² of the prediction.
	Score(X mat.Matrix, y mat.Matrix) (float64, error)
}

// Regressor combines the interfaces every regression model family
// in this repository implements. The experiment pipeline is written
// against this interface so that no model family is special-cased.
type Regressor interface {
	Fitter
	Predictor
	Scorer
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// Persistable is the interface for models that can be saved and loaded.
type Persistable interface {
	// Save writes the model to a file.
	Save(path string) error
	// Load reads the model from a file.
	Load(path string) error
}
