package visualization

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func vectors(t *testing.T) (*mat.VecDense, *mat.VecDense) {
	t.Helper()
	yTrue := mat.NewVecDense(5, []float64{1, 2, 3, 4, 5})
	yPred := mat.NewVecDense(5, []float64{1.1, 1.9, 3.2, 3.8, 5.1})
	return yTrue, yPred
}

func TestPredictedVsActual(t *testing.T) {
	yTrue, yPred := vectors(t)
	path := filepath.Join(t.TempDir(), "pva.png")

	if err := PredictedVsActual(yTrue, yPred, "linear", path); err != nil {
		t.Fatalf("PredictedVsActual failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("plot file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("plot file is empty")
	}
}

func TestResidualPlot(t *testing.T) {
	yTrue, yPred := vectors(t)
	path := filepath.Join(t.TempDir(), "residuals.png")

	if err := ResidualPlot(yTrue, yPred, "linear", path); err != nil {
		t.Fatalf("ResidualPlot failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("plot file missing: %v", err)
	}
}

func TestResidualHistogram(t *testing.T) {
	yTrue, yPred := vectors(t)
	path := filepath.Join(t.TempDir(), "hist.png")

	if err := ResidualHistogram(yTrue, yPred, 0, "linear", path); err != nil {
		t.Fatalf("ResidualHistogram failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("plot file missing: %v", err)
	}
}

func TestFeatureImportancePlot(t *testing.T) {
	names := []string{"area", "rooms", "zone=a"}
	importances := []float64{0.6, 0.3, 0.1}
	path := filepath.Join(t.TempDir(), "importance.png")

	if err := FeatureImportancePlot(names, importances, "random_forest", path); err != nil {
		t.Fatalf("FeatureImportancePlot failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("plot file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("plot file is empty")
	}

	if err := FeatureImportancePlot([]string{"a"}, importances, "bad", "unused.png"); err == nil {
		t.Error("expected error on length mismatch")
	}
}

func TestPlotLengthMismatch(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{1, 2, 3})
	yPred := mat.NewVecDense(2, []float64{1, 2})
	if err := PredictedVsActual(yTrue, yPred, "bad", "unused.png"); err == nil {
		t.Error("expected error on length mismatch")
	}
}
