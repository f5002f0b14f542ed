package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNumericImputerStrategies(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name     string
		strategy ImputeStrategy
		fill     float64
		want     float64
	}{
		{"mean", ImputeMean, 0, 4.0},
		{"median", ImputeMedian, 0, 2.0},
		{"most_frequent", ImputeMostFrequent, 0, 1.0},
		{"constant", ImputeConstant, -1, -1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			X := mat.NewDense(5, 1, []float64{1, 1, 3, nan, 11})

			im := NewNumericImputer(tt.strategy)
			im.FillValue = tt.fill
			result, err := im.FitTransform(X)
			if err != nil {
				t.Fatalf("FitTransform failed: %v", err)
			}
			if got := result.At(3, 0); got != tt.want {
				t.Errorf("filled value = %v, want %v", got, tt.want)
			}
			// Observed values pass through unchanged.
			if got := result.At(0, 0); got != 1 {
				t.Errorf("observed value changed: got %v", got)
			}
		})
	}
}

func TestNumericImputerDefaultsToMedian(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, math.NaN(), 9})

	im := NewNumericImputer("")
	result, err := im.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}
	if im.Strategy != ImputeMedian {
		t.Errorf("default strategy = %q, want %q", im.Strategy, ImputeMedian)
	}
	if got := result.At(1, 0); got != 5 {
		t.Errorf("filled value = %v, want median 5", got)
	}
}

func TestNumericImputerAllMissingColumn(t *testing.T) {
	nan := math.NaN()
	X := mat.NewDense(2, 1, []float64{nan, nan})

	im := NewNumericImputer(ImputeMedian)
	result, err := im.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if got := result.At(i, 0); got != 0 {
			t.Errorf("row %d = %v, want 0 for a fully missing column", i, got)
		}
	}
}

func TestNumericImputerUnknownStrategy(t *testing.T) {
	im := NewNumericImputer("mode")
	if err := im.Fit(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestCategoricalImputerMostFrequent(t *testing.T) {
	cols := [][]string{
		{"a", "b", "b", "", "b"},
		{"x", "", "", "y", "y"},
	}

	im := NewCategoricalImputer(ImputeMostFrequent)
	if err := im.Fit(cols); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	filled, err := im.Transform(cols)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if filled[0][3] != "b" {
		t.Errorf("column 0 fill = %q, want %q", filled[0][3], "b")
	}
	if filled[1][1] != "y" || filled[1][2] != "y" {
		t.Errorf("column 1 fills = %q, %q, want %q", filled[1][1], filled[1][2], "y")
	}
	// Input is left untouched.
	if cols[0][3] != "" {
		t.Error("Transform mutated its input")
	}
}

func TestCategoricalImputerTieBreak(t *testing.T) {
	// "a" and "b" are equally frequent; the lexicographically smaller
	// category wins.
	cols := [][]string{{"b", "a", "b", "a", ""}}

	im := NewCategoricalImputer(ImputeMostFrequent)
	if err := im.Fit(cols); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if im.Fills[0] != "a" {
		t.Errorf("tie-break fill = %q, want %q", im.Fills[0], "a")
	}
}

func TestCategoricalImputerConstant(t *testing.T) {
	cols := [][]string{{"a", ""}}

	im := NewCategoricalImputer(ImputeConstant)
	if err := im.Fit(cols); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	filled, err := im.Transform(cols)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if filled[0][1] != "missing" {
		t.Errorf("constant fill = %q, want %q", filled[0][1], "missing")
	}
}
