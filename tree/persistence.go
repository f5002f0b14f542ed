package tree

import (
	"bytes"
	"encoding/gob"
)

// treeGobState is the serializable form of a tree: the hyperparameters
// plus the grown node structure, which lives in an unexported field.
type treeGobState struct {
	MaxDepth            int
	MinSamplesSplit     int
	MinSamplesLeaf      int
	MaxFeatures         int
	MinImpurityDecrease float64
	RandomState         int64
	LeafLambda          float64
	NFeatures           int
	Root                *node
	Importances         []float64
	Fitted              bool
}

// GobEncode serializes the tree, including the fitted node structure.
func (t *DecisionTreeRegressor) GobEncode() ([]byte, error) {
	state := treeGobState{
		MaxDepth:            t.MaxDepth,
		MinSamplesSplit:     t.MinSamplesSplit,
		MinSamplesLeaf:      t.MinSamplesLeaf,
		MaxFeatures:         t.MaxFeatures,
		MinImpurityDecrease: t.MinImpurityDecrease,
		RandomState:         t.RandomState,
		LeafLambda:          t.LeafLambda,
		NFeatures:           t.NFeatures,
		Root:                t.root,
		Importances:         t.importances,
		Fitted:              t.IsFitted(),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode restores a tree written by GobEncode.
func (t *DecisionTreeRegressor) GobDecode(data []byte) error {
	var state treeGobState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return err
	}
	t.MaxDepth = state.MaxDepth
	t.MinSamplesSplit = state.MinSamplesSplit
	t.MinSamplesLeaf = state.MinSamplesLeaf
	t.MaxFeatures = state.MaxFeatures
	t.MinImpurityDecrease = state.MinImpurityDecrease
	t.RandomState = state.RandomState
	t.LeafLambda = state.LeafLambda
	t.NFeatures = state.NFeatures
	t.root = state.Root
	t.importances = state.Importances
	t.Reset()
	if state.Fitted {
		t.SetFitted()
	}
	return nil
}
