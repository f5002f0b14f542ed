package experiment

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/alineAssuncao/kaggle-regression-lab/core/model"
	"github.com/alineAssuncao/kaggle-regression-lab/tree"
)

// writeSyntheticCSV writes n rows with target = 3*x1 + 2*x2 + noise
// and a categorical zone column.
func writeSyntheticCSV(t *testing.T, dir string, n int, noise float64) string {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	zones := []string{"a", "b", "c"}

	var sb strings.Builder
	sb.WriteString("x1,x2,zone,price\n")
	for i := 0; i < n; i++ {
		x1 := rng.Float64() * 10
		x2 := rng.Float64() * 5
		y := 3*x1 + 2*x2 + rng.NormFloat64()*noise
		fmt.Fprintf(&sb, "%.6f,%.6f,%s,%.6f\n", x1, x2, zones[i%len(zones)], y)
	}

	path := filepath.Join(dir, "train.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func baseConfig(path string) Config {
	cfg := DefaultConfig()
	cfg.Data.Path = path
	cfg.Data.Target = "price"
	cfg.Output.Dir = ""
	return cfg
}

func TestRunLinearEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := writeSyntheticCSV(t, dir, 100, 0.3)

	cfg := baseConfig(path)
	cfg.Output.Dir = filepath.Join(dir, "out")
	cfg.Output.Plots = true

	report, err := Run(cfg)
	require.NoError(t, err)

	assert.Equal(t, "linear", report.Family)
	assert.Equal(t, 80, report.TrainRows)
	assert.Equal(t, 20, report.TestRows)
	assert.NotEmpty(t, report.RunID)
	assert.Greater(t, report.Metrics.R2, 0.8, "low-noise linear data must fit well")
	assert.Greater(t, report.Metrics.RMSE, 0.0)

	// Report JSON and plots land in the output directory.
	entries, err := os.ReadDir(cfg.Output.Dir)
	require.NoError(t, err)
	var jsonCount, pngCount int
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".json":
			jsonCount++
		case ".png":
			pngCount++
		}
	}
	assert.Equal(t, 1, jsonCount)
	assert.Equal(t, 3, pngCount)
}

func TestRunDeterministic(t *testing.T) {
	dir := t.TempDir()
	path := writeSyntheticCSV(t, dir, 80, 0.5)

	cfg := baseConfig(path)

	first, err := Run(cfg)
	require.NoError(t, err)
	second, err := Run(cfg)
	require.NoError(t, err)

	// Bit-identical metrics for identical config and seed.
	assert.Equal(t, first.Metrics, second.Metrics)
	assert.Equal(t, first.TrainRows, second.TrainRows)
	assert.Equal(t, first.TrainScore, second.TrainScore)
}

func TestRunAllFamilies(t *testing.T) {
	dir := t.TempDir()
	path := writeSyntheticCSV(t, dir, 120, 0.5)

	for _, family := range FamilyNames() {
		t.Run(family, func(t *testing.T) {
			cfg := baseConfig(path)
			cfg.Model.Family = family
			cfg.Model.NEstimators = 15
			cfg.Model.MaxDepth = defaultMaxDepth(family)

			report, err := Run(cfg)
			require.NoError(t, err)
			assert.Greater(t, report.Metrics.R2, 0.0,
				"every family must beat the mean predictor here")
		})
	}
}

func TestRunSaveModel(t *testing.T) {
	dir := t.TempDir()
	path := writeSyntheticCSV(t, dir, 100, 0.3)

	cfg := baseConfig(path)
	cfg.Model.Family = "decision_tree"
	cfg.Output.Dir = filepath.Join(dir, "out")
	cfg.Output.SaveModel = true
	cfg.Output.Plots = true

	report, err := Run(cfg)
	require.NoError(t, err)

	stem := fmt.Sprintf("decision_tree_%s", report.RunID[:8])
	gobPath := filepath.Join(cfg.Output.Dir, stem+".gob")
	require.FileExists(t, gobPath)

	// Tree families also emit the importance chart.
	require.FileExists(t, filepath.Join(cfg.Output.Dir, stem+"_importance.png"))

	// The saved model loads back fitted and usable.
	loaded := &tree.DecisionTreeRegressor{}
	require.NoError(t, model.LoadModel(loaded, gobPath))
	assert.True(t, loaded.IsFitted())

	pred, err := loaded.Predict(mat.NewDense(1, loaded.NFeatures, make([]float64, loaded.NFeatures)))
	require.NoError(t, err)
	r, c := pred.Dims()
	assert.Equal(t, 1, r)
	assert.Equal(t, 1, c)
}

func TestRunConstantTarget(t *testing.T) {
	dir := t.TempDir()
	var sb strings.Builder
	sb.WriteString("x1,price\n")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&sb, "%d,5\n", i)
	}
	path := filepath.Join(dir, "const.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))

	cfg := baseConfig(path)

	report, err := Run(cfg)
	require.NoError(t, err)

	// Predicting the constant gives a zero error floor.
	assert.InDelta(t, 0, report.Metrics.RMSE, 1e-9)
	assert.InDelta(t, 0, report.Metrics.MAE, 1e-9)
}

func TestRunZeroConstantTarget(t *testing.T) {
	dir := t.TempDir()
	var sb strings.Builder
	sb.WriteString("x1,price\n")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&sb, "%d,0\n", i)
	}
	path := filepath.Join(dir, "zeros.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))

	cfg := baseConfig(path)

	// MAPE is undefined when every target is zero; the run still
	// succeeds and reports the zero error floor.
	report, err := Run(cfg)
	require.NoError(t, err)
	assert.InDelta(t, 0, report.Metrics.RMSE, 1e-9)
	assert.InDelta(t, 0, report.Metrics.MAE, 1e-9)
	assert.Equal(t, 0.0, report.Metrics.MAPE)
}

func TestRunLogTarget(t *testing.T) {
	dir := t.TempDir()
	path := writeSyntheticCSV(t, dir, 100, 0.2)

	cfg := baseConfig(path)
	cfg.Preprocessing.LogTarget = true

	report, err := Run(cfg)
	require.NoError(t, err)

	// Metrics come back on the original scale.
	assert.Less(t, report.Metrics.RMSE, 10.0)
	assert.Greater(t, report.Metrics.R2, 0.5)
}

func TestRunMissingTarget(t *testing.T) {
	dir := t.TempDir()
	path := writeSyntheticCSV(t, dir, 30, 0.5)

	cfg := baseConfig(path)
	cfg.Data.Target = "not_a_column"

	_, err := Run(cfg)
	require.Error(t, err)
}

func TestRunEmptySplitSubset(t *testing.T) {
	dir := t.TempDir()
	var sb strings.Builder
	sb.WriteString("x1,price\n")
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&sb, "%d,%d\n", i, i*2)
	}
	path := filepath.Join(dir, "tiny.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))

	cfg := baseConfig(path)
	cfg.Split.TrainRatio = 0.95

	// round(0.95 * 5) = 5 leaves no evaluation rows.
	_, err := Run(cfg)
	require.Error(t, err)
}

func TestRunDropHighMissing(t *testing.T) {
	dir := t.TempDir()
	var sb strings.Builder
	sb.WriteString("x1,mostly_missing,price\n")
	for i := 0; i < 40; i++ {
		missing := ""
		if i%10 == 0 {
			missing = "1.0"
		}
		fmt.Fprintf(&sb, "%d,%s,%d\n", i, missing, i*3)
	}
	path := filepath.Join(dir, "gaps.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))

	cfg := baseConfig(path)
	cfg.Data.DropHighMissing = true
	cfg.Data.MissingThreshold = 0.5

	report, err := Run(cfg)
	require.NoError(t, err)
	assert.Contains(t, report.DroppedColumns, "mostly_missing")
}

func TestRunHistoryStore(t *testing.T) {
	dir := t.TempDir()
	path := writeSyntheticCSV(t, dir, 60, 0.5)

	cfg := baseConfig(path)
	cfg.Output.Dir = filepath.Join(dir, "out")
	cfg.Output.HistoryDB = filepath.Join(dir, "runs.db")

	report, err := Run(cfg)
	require.NoError(t, err)

	store, err := OpenRunStore(cfg.Output.HistoryDB)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, report.RunID, runs[0].RunID)
	assert.Equal(t, report.Metrics.RMSE, runs[0].Metrics.RMSE)
}
