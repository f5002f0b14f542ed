package tree

import (
	"math"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/alineAssuncao/kaggle-regression-lab/core/model"
)

func TestDecisionTreeSaveLoadRoundTrip(t *testing.T) {
	X := mat.NewDense(8, 1, []float64{1, 2, 3, 4, 6, 7, 8, 9})
	y := mat.NewDense(8, 1, []float64{10, 10, 10, 10, 20, 20, 20, 20})

	dt := NewDecisionTreeRegressor(WithMaxDepth(3))
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "tree.gob")
	if err := model.SaveModel(dt, path); err != nil {
		t.Fatalf("SaveModel failed: %v", err)
	}

	loaded := &DecisionTreeRegressor{}
	if err := model.LoadModel(loaded, path); err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	if !loaded.IsFitted() {
		t.Fatal("loaded tree reports unfitted")
	}
	if loaded.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want 3", loaded.MaxDepth)
	}
	if loaded.Depth() != dt.Depth() {
		t.Errorf("depth = %d, want %d", loaded.Depth(), dt.Depth())
	}
	if loaded.NumLeaves() != dt.NumLeaves() {
		t.Errorf("leaves = %d, want %d", loaded.NumLeaves(), dt.NumLeaves())
	}

	want, err := dt.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	got, err := loaded.Predict(X)
	if err != nil {
		t.Fatalf("Predict on loaded tree failed: %v", err)
	}
	for i := 0; i < 8; i++ {
		if math.Abs(got.At(i, 0)-want.At(i, 0)) > 1e-12 {
			t.Errorf("row %d: loaded predicts %v, fitted predicts %v",
				i, got.At(i, 0), want.At(i, 0))
		}
	}
}
