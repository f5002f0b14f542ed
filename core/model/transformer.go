package model

import "gonum.org/v1/gonum/mat"

// Transformer is the interface for data transformations.
type Transformer interface {
	// Fit learns the parameters required for the transformation.
	Fit(X mat.Matrix) error

	// Transform applies the learned transformation to X.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform fits on X and transforms it in one call.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}
