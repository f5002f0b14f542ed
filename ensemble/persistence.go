package ensemble

import (
	"bytes"
	"encoding/gob"

	"github.com/alineAssuncao/kaggle-regression-lab/tree"
)

// forestGobState carries the forest hyperparameters and the fitted
// trees, which live in an unexported field.
type forestGobState struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	RandomState     int64
	Verbose         bool
	NFeatures       int
	Trees           []*tree.DecisionTreeRegressor
	Fitted          bool
}

// GobEncode serializes the forest, including the fitted trees.
func (rf *RandomForestRegressor) GobEncode() ([]byte, error) {
	state := forestGobState{
		NEstimators:     rf.NEstimators,
		MaxDepth:        rf.MaxDepth,
		MinSamplesSplit: rf.MinSamplesSplit,
		MinSamplesLeaf:  rf.MinSamplesLeaf,
		MaxFeatures:     rf.MaxFeatures,
		RandomState:     rf.RandomState,
		Verbose:         rf.Verbose,
		NFeatures:       rf.NFeatures,
		Trees:           rf.trees,
		Fitted:          rf.IsFitted(),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode restores a forest written by GobEncode.
func (rf *RandomForestRegressor) GobDecode(data []byte) error {
	var state forestGobState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return err
	}
	rf.NEstimators = state.NEstimators
	rf.MaxDepth = state.MaxDepth
	rf.MinSamplesSplit = state.MinSamplesSplit
	rf.MinSamplesLeaf = state.MinSamplesLeaf
	rf.MaxFeatures = state.MaxFeatures
	rf.RandomState = state.RandomState
	rf.Verbose = state.Verbose
	rf.NFeatures = state.NFeatures
	rf.trees = state.Trees
	rf.Reset()
	if state.Fitted {
		rf.SetFitted()
	}
	return nil
}

// gbmGobState carries the boosting hyperparameters, the baseline
// prediction and the stage trees.
type gbmGobState struct {
	NEstimators     int
	LearningRate    float64
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Subsample       float64
	Lambda          float64
	RandomState     int64
	Verbose         bool
	NFeatures       int
	Baseline        float64
	Trees           []*tree.DecisionTreeRegressor
	Fitted          bool
}

// GobEncode serializes the booster, including the baseline and stages.
func (gb *GradientBoostingRegressor) GobEncode() ([]byte, error) {
	state := gbmGobState{
		NEstimators:     gb.NEstimators,
		LearningRate:    gb.LearningRate,
		MaxDepth:        gb.MaxDepth,
		MinSamplesSplit: gb.MinSamplesSplit,
		MinSamplesLeaf:  gb.MinSamplesLeaf,
		Subsample:       gb.Subsample,
		Lambda:          gb.Lambda,
		RandomState:     gb.RandomState,
		Verbose:         gb.Verbose,
		NFeatures:       gb.NFeatures,
		Baseline:        gb.baseline,
		Trees:           gb.trees,
		Fitted:          gb.IsFitted(),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode restores a booster written by GobEncode.
func (gb *GradientBoostingRegressor) GobDecode(data []byte) error {
	var state gbmGobState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return err
	}
	gb.NEstimators = state.NEstimators
	gb.LearningRate = state.LearningRate
	gb.MaxDepth = state.MaxDepth
	gb.MinSamplesSplit = state.MinSamplesSplit
	gb.MinSamplesLeaf = state.MinSamplesLeaf
	gb.Subsample = state.Subsample
	gb.Lambda = state.Lambda
	gb.RandomState = state.RandomState
	gb.Verbose = state.Verbose
	gb.NFeatures = state.NFeatures
	gb.baseline = state.Baseline
	gb.trees = state.Trees
	gb.Reset()
	if state.Fitted {
		gb.SetFitted()
	}
	return nil
}
