package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const tol = 1e-10

func TestStandardScaler(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})

	scaler := NewStandardScalerDefault()
	result, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	r, c := result.Dims()
	if r != 4 || c != 2 {
		t.Fatalf("unexpected shape: got (%d, %d), want (4, 2)", r, c)
	}

	// Every column should have zero mean and unit variance.
	for j := 0; j < c; j++ {
		sum, sumSq := 0.0, 0.0
		for i := 0; i < r; i++ {
			v := result.At(i, j)
			sum += v
			sumSq += v * v
		}
		mean := sum / float64(r)
		variance := sumSq/float64(r) - mean*mean
		if math.Abs(mean) > tol {
			t.Errorf("column %d mean = %v, want 0", j, mean)
		}
		if math.Abs(variance-1) > 1e-9 {
			t.Errorf("column %d variance = %v, want 1", j, variance)
		}
	}
}

func TestStandardScalerIdempotentOnScaledData(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})

	first := NewStandardScalerDefault()
	scaled, err := first.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	// Scaling already-scaled data is the identity: the second fit
	// learns mean 0 and scale 1.
	second := NewStandardScalerDefault()
	rescaled, err := second.FitTransform(scaled)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	r, c := scaled.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if diff := math.Abs(rescaled.At(i, j) - scaled.At(i, j)); diff > 1e-9 {
				t.Errorf("(%d,%d) changed by %v after rescaling", i, j, diff)
			}
		}
	}
}

func TestStandardScalerConstantFeature(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{5, 5, 5})

	scaler := NewStandardScalerDefault()
	result, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	// A constant column maps to zeros instead of dividing by zero.
	for i := 0; i < 3; i++ {
		if v := result.At(i, 0); v != 0 {
			t.Errorf("row %d = %v, want 0", i, v)
		}
	}
	if scaler.Scale[0] != 1.0 {
		t.Errorf("constant feature scale = %v, want 1", scaler.Scale[0])
	}
}

func TestStandardScalerInverseTransform(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1.5, -2,
		3.25, 7,
		-0.5, 4,
	})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}
	back, err := scaler.InverseTransform(scaled)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			if diff := math.Abs(back.At(i, j) - X.At(i, j)); diff > tol {
				t.Errorf("(%d, %d): round trip diff %v", i, j, diff)
			}
		}
	}
}

func TestStandardScalerNotFitted(t *testing.T) {
	scaler := NewStandardScalerDefault()
	if _, err := scaler.Transform(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("expected error when transforming before fitting")
	}
}

func TestStandardScalerDimensionMismatch(t *testing.T) {
	scaler := NewStandardScalerDefault()
	if err := scaler.Fit(mat.NewDense(2, 3, nil)); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if _, err := scaler.Transform(mat.NewDense(2, 2, nil)); err == nil {
		t.Error("expected error on feature count mismatch")
	}
}

func TestMinMaxScaler(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		0, 100,
		5, 200,
		10, 300,
	})

	scaler := NewMinMaxScalerDefault()
	result, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	want := [][]float64{
		{0, 0},
		{0.5, 0.5},
		{1, 1},
	}
	for i := range want {
		for j := range want[i] {
			if diff := math.Abs(result.At(i, j) - want[i][j]); diff > tol {
				t.Errorf("(%d, %d) = %v, want %v", i, j, result.At(i, j), want[i][j])
			}
		}
	}
}

func TestMinMaxScalerCustomRange(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{0, 10})

	scaler := NewMinMaxScaler([2]float64{-1, 1})
	result, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	if v := result.At(0, 0); math.Abs(v-(-1)) > tol {
		t.Errorf("min maps to %v, want -1", v)
	}
	if v := result.At(1, 0); math.Abs(v-1) > tol {
		t.Errorf("max maps to %v, want 1", v)
	}
}
