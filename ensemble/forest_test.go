package ensemble

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// syntheticData builds a noisy linear target over two features.
func syntheticData(n int, seed int64) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewSource(seed))
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x1 := rng.Float64() * 10
		x2 := rng.Float64() * 5
		X.Set(i, 0, x1)
		X.Set(i, 1, x2)
		y.Set(i, 0, 3*x1+2*x2+rng.NormFloat64()*0.5)
	}
	return X, y
}

func TestRandomForestFitsSyntheticData(t *testing.T) {
	X, y := syntheticData(200, 1)

	rf := NewRandomForestRegressor()
	rf.NEstimators = 30
	rf.RandomState = 42
	if err := rf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	score, err := rf.Score(X, y)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score < 0.9 {
		t.Errorf("training R² = %v, want at least 0.9", score)
	}
}

func TestRandomForestDeterministic(t *testing.T) {
	X, y := syntheticData(100, 2)

	a := NewRandomForestRegressor()
	a.NEstimators = 10
	a.RandomState = 7
	b := NewRandomForestRegressor()
	b.NEstimators = 10
	b.RandomState = 7

	if err := a.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if err := b.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	predA, err := a.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	predB, err := b.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	r, _ := predA.Dims()
	for i := 0; i < r; i++ {
		if predA.At(i, 0) != predB.At(i, 0) {
			t.Fatalf("same seed produced different forests at row %d", i)
		}
	}
}

func TestRandomForestSmootherThanSingleTree(t *testing.T) {
	X, y := syntheticData(150, 3)

	rf := NewRandomForestRegressor()
	rf.NEstimators = 20
	rf.MaxDepth = 4
	rf.RandomState = 42
	if err := rf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	// Averaging many bootstrapped trees keeps predictions within the
	// target range.
	pred, err := rf.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	r, _ := pred.Dims()
	for i := 0; i < r; i++ {
		v := pred.At(i, 0)
		if math.IsNaN(v) || v < -10 || v > 60 {
			t.Fatalf("row %d prediction %v outside plausible range", i, v)
		}
	}
}

func TestRandomForestErrors(t *testing.T) {
	rf := NewRandomForestRegressor()

	if _, err := rf.Predict(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("expected error when predicting before fitting")
	}

	rf.NEstimators = 0
	X := mat.NewDense(2, 1, []float64{1, 2})
	y := mat.NewDense(2, 1, []float64{1, 2})
	if err := rf.Fit(X, y); err == nil {
		t.Error("expected error for zero estimators")
	}

	rf.NEstimators = 5
	if err := rf.Fit(X, mat.NewDense(3, 1, nil)); err == nil {
		t.Error("expected error on row count mismatch")
	}
}
