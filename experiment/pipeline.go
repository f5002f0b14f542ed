package experiment

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"github.com/alineAssuncao/kaggle-regression-lab/core/model"
	"github.com/alineAssuncao/kaggle-regression-lab/dataset"
	"github.com/alineAssuncao/kaggle-regression-lab/metrics"
	"github.com/alineAssuncao/kaggle-regression-lab/modelselection"
	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
	"github.com/alineAssuncao/kaggle-regression-lab/pkg/log"
	"github.com/alineAssuncao/kaggle-regression-lab/preprocessing"
	"github.com/alineAssuncao/kaggle-regression-lab/visualization"
)

// Run executes the full pipeline for cfg: load, preprocess, split,
// fit, predict, evaluate. It is a single forward pass; every failure
// is terminal.
func Run(cfg Config) (report *Report, err error) {
	defer errors.Recover(&err, "experiment.Run")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	report = &Report{
		RunID:     uuid.NewString(),
		Family:    cfg.Model.Family,
		Dataset:   cfg.Data.Path,
		Target:    cfg.Data.Target,
		Seed:      cfg.Split.Seed,
		StartedAt: started,
	}

	logger := slog.Default().With(
		slog.String(log.RunIDKey, report.RunID),
		slog.String(log.ComponentKey, "experiment"),
	)

	prep, err := prepare(cfg)
	if err != nil {
		return nil, err
	}
	report.TrainRows = prep.trainRows
	report.TestRows = prep.testRows
	report.Features = prep.features
	report.DroppedColumns = prep.dropped

	logger.Info("dataset prepared",
		slog.String(log.DatasetKey, cfg.Data.Path),
		slog.Int(log.SamplesKey, prep.trainRows+prep.testRows),
		slog.Int(log.FeaturesKey, prep.features),
	)

	reg, err := NewRegressor(cfg.Model, cfg.Split.Seed)
	if err != nil {
		return nil, err
	}

	yFit := prep.yTrain
	if cfg.Preprocessing.LogTarget {
		yFit = log1pVec(prep.yTrain)
	}
	if err := reg.Fit(prep.xTrain, yFit); err != nil {
		return nil, err
	}

	predM, err := reg.Predict(prep.xTest)
	if err != nil {
		return nil, err
	}
	yPred, err := metrics.ColumnVec(predM)
	if err != nil {
		return nil, err
	}
	if cfg.Preprocessing.LogTarget {
		yPred = expm1Vec(yPred)
	}

	report.Metrics, err = evaluate(prep.yTest, yPred)
	if err != nil {
		return nil, err
	}
	// A constant training target has no R²; leave the score at zero.
	if ts, serr := reg.Score(prep.xTrain, yFit); serr == nil {
		report.TrainScore = ts
	}
	report.Duration = time.Since(started)

	logger.Info("run finished",
		slog.String(log.ModelNameKey, cfg.Model.Family),
		slog.Float64("metrics.rmse", report.Metrics.RMSE),
		slog.Float64("metrics.r2", report.Metrics.R2),
		slog.Int64(log.DurationMsKey, report.Duration.Milliseconds()),
	)

	if err := writeArtifacts(cfg, report, reg, prep.featureNames, prep.yTest, yPred); err != nil {
		return nil, err
	}
	return report, nil
}

// prepared carries the matrices of one prepared split.
type prepared struct {
	xTrain, xTest *mat.Dense
	yTrain, yTest *mat.VecDense
	featureNames  []string
	dropped       []string
	trainRows     int
	testRows      int
	features      int
}

// prepare loads the dataset, drops high-missing columns when asked,
// splits the rows and fits the preprocessor on the training subset
// only, so no statistic leaks from the evaluation rows.
func prepare(cfg Config) (*prepared, error) {
	table, err := dataset.ReadCSV(cfg.Data.Path)
	if err != nil {
		return nil, err
	}
	if !table.Has(cfg.Data.Target) {
		return nil, errors.Wrapf(errors.ErrMissingTarget, "experiment: %q", cfg.Data.Target)
	}

	var dropped []string
	if cfg.Data.DropHighMissing {
		table, dropped = table.DropHighMissing(cfg.Data.MissingThreshold)
		if lo.Contains(dropped, cfg.Data.Target) {
			return nil, errors.NewValueError("experiment",
				"target column exceeds the missing threshold: "+cfg.Data.Target)
		}
	}

	trainIdx, testIdx, err := modelselection.TrainTestSplit(
		table.NumRows(), cfg.Split.TrainRatio, cfg.Split.Seed)
	if err != nil {
		return nil, err
	}

	trainTab := table.Subset(trainIdx)
	testTab := table.Subset(testIdx)

	trainFeat, yTrain, err := trainTab.SplitTarget(cfg.Data.Target)
	if err != nil {
		return nil, err
	}
	testFeat, yTest, err := testTab.SplitTarget(cfg.Data.Target)
	if err != nil {
		return nil, err
	}

	cp := newPreprocessor(cfg.Preprocessing)
	if err := cp.Fit(trainFeat); err != nil {
		return nil, err
	}
	xTrain, names, err := cp.Transform(trainFeat)
	if err != nil {
		return nil, err
	}
	xTest, _, err := cp.Transform(testFeat)
	if err != nil {
		return nil, err
	}

	return &prepared{
		xTrain:       xTrain,
		xTest:        xTest,
		yTrain:       yTrain,
		yTest:        yTest,
		featureNames: names,
		dropped:      dropped,
		trainRows:    len(trainIdx),
		testRows:     len(testIdx),
		features:     len(names),
	}, nil
}

func newPreprocessor(pc PreprocessingConfig) *preprocessing.ColumnPreprocessor {
	cp := preprocessing.NewColumnPreprocessor()
	if pc.NumericStrategy != "" {
		cp.NumericStrategy = preprocessing.ImputeStrategy(pc.NumericStrategy)
	}
	if pc.CategoricalStrategy != "" {
		cp.CategoricalStrategy = preprocessing.ImputeStrategy(pc.CategoricalStrategy)
	}
	if pc.Encoding != "" {
		cp.Encoding = preprocessing.Encoding(pc.Encoding)
	}
	if pc.Scaler != "" {
		cp.Scaler = preprocessing.ScalerKind(pc.Scaler)
	}
	cp.DropFirst = pc.DropFirst
	cp.ScaleNumeric = pc.Scale
	cp.PolyDegree = pc.PolyDegree
	return cp
}

// evaluate computes the full metric set against the held-out targets.
func evaluate(yTrue, yPred *mat.VecDense) (Metrics, error) {
	var m Metrics
	var err error
	if m.MSE, err = metrics.MSE(yTrue, yPred); err != nil {
		return m, err
	}
	if m.RMSE, err = metrics.RMSE(yTrue, yPred); err != nil {
		return m, err
	}
	if m.MAE, err = metrics.MAE(yTrue, yPred); err != nil {
		return m, err
	}
	if m.R2, err = metrics.R2Score(yTrue, yPred); err != nil {
		// A constant evaluation target leaves R² undefined: score a
		// perfect fit 1 and anything else 0.
		m.R2 = 0
		if m.RMSE == 0 {
			m.R2 = 1
		}
	}
	if m.MAPE, err = metrics.MAPE(yTrue, yPred); err != nil {
		// An all-zero target leaves MAPE undefined; report 0 rather
		// than failing the run.
		errors.Warn(errors.Wrap(err, "evaluation: MAPE undefined, reported as 0"))
		m.MAPE = 0
	}
	if m.ExplainedVariance, err = metrics.ExplainedVarianceScore(yTrue, yPred); err != nil {
		m.ExplainedVariance = m.R2
	}
	return m, nil
}

// featureImportancer is implemented by the tree families.
type featureImportancer interface {
	FeatureImportances() ([]float64, error)
}

// writeArtifacts writes the report JSON and the optional plots, model
// file and history row.
func writeArtifacts(cfg Config, report *Report, reg model.Regressor, featureNames []string, yTrue, yPred *mat.VecDense) error {
	if cfg.Output.Dir == "" {
		return nil
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return errors.NewDataError(cfg.Output.Dir, "failed to create output directory", err)
	}

	stem := fmt.Sprintf("%s_%s", report.Family, report.RunID[:8])
	if err := report.WriteJSON(filepath.Join(cfg.Output.Dir, stem+".json")); err != nil {
		return err
	}

	if cfg.Output.Plots {
		if err := visualization.PredictedVsActual(yTrue, yPred, report.Family,
			filepath.Join(cfg.Output.Dir, stem+"_pred_vs_actual.png")); err != nil {
			return err
		}
		if err := visualization.ResidualPlot(yTrue, yPred, report.Family,
			filepath.Join(cfg.Output.Dir, stem+"_residuals.png")); err != nil {
			return err
		}
		if err := visualization.ResidualHistogram(yTrue, yPred, 0, report.Family,
			filepath.Join(cfg.Output.Dir, stem+"_residual_hist.png")); err != nil {
			return err
		}
		if imp, ok := reg.(featureImportancer); ok {
			vals, err := imp.FeatureImportances()
			if err != nil {
				return err
			}
			if err := visualization.FeatureImportancePlot(featureNames, vals, report.Family,
				filepath.Join(cfg.Output.Dir, stem+"_importance.png")); err != nil {
				return err
			}
		}
	}

	if cfg.Output.SaveModel {
		if err := model.SaveModel(reg, filepath.Join(cfg.Output.Dir, stem+".gob")); err != nil {
			return err
		}
	}

	if cfg.Output.HistoryDB != "" {
		store, err := OpenRunStore(cfg.Output.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(report); err != nil {
			return err
		}
	}
	return nil
}

func log1pVec(v *mat.VecDense) *mat.VecDense {
	out := mat.NewVecDense(v.Len(), nil)
	for i := 0; i < v.Len(); i++ {
		out.SetVec(i, math.Log1p(v.AtVec(i)))
	}
	return out
}

func expm1Vec(v *mat.VecDense) *mat.VecDense {
	out := mat.NewVecDense(v.Len(), nil)
	for i := 0; i < v.Len(); i++ {
		out.SetVec(i, math.Expm1(v.AtVec(i)))
	}
	return out
}
