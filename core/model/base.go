package model

import "fmt"

// EstimatorState represents the training state of a model.
type EstimatorState int

const (
	// NotFitted means the model has not been trained yet.
	NotFitted EstimatorState = iota
	// Fitted means the model has been trained.
	Fitted
)

// BaseEstimator is the common base embedded by every estimator and
// transformer in this repository. It tracks whether Fit has been called.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether the model has been trained.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the model as trained.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the model to its untrained state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}

// GobEncode serializes the training state, so estimators embedding
// BaseEstimator survive a SaveModel/LoadModel round trip.
func (e BaseEstimator) GobEncode() ([]byte, error) {
	return []byte{byte(e.state)}, nil
}

// GobDecode restores the training state written by GobEncode.
func (e *BaseEstimator) GobDecode(data []byte) error {
	if len(data) != 1 {
		return fmt.Errorf("estimator state: unexpected length %d", len(data))
	}
	e.state = EstimatorState(data[0])
	return nil
}
