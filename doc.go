// Package reglab is a regression laboratory for tabular data: it loads
// CSV datasets, preprocesses features, fits several regression model
// families and compares their held-out metrics.
//
// The library follows a scikit-learn-like API so that workflows
// familiar from Python's ecosystem translate directly to Go.
//
// # Features
//
// - Dataset loading with type inference and missing-value profiling
// - Imputation, one-hot/ordinal encoding, scaling and polynomial features
// - Linear, ridge, polynomial, decision tree, random forest and
// gradient boosting regressors
// - Deterministic seeded train/test splitting and k-fold utilities
// - Metric reports, diagnostic plots and a SQLite run history
// - TPE hyperparameter search
//
// # Quick Start
//
// Fit a linear model on a feature matrix:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/alineAssuncao/kaggle-regression-lab/linear"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
//	    y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})
//
//	    model := linear.NewLinearRegression()
//	    if err := model.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    XTest := mat.NewDense(2, 1, []float64{5, 6})
//	    predictions, err := model.Predict(XTest)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(mat.Formatted(predictions))
//	}
//
// Or drive a whole experiment from a config:
//
//	cfg := experiment.DefaultConfig()
//	cfg.Data.Path = "housing.csv"
//	cfg.Data.Target = "price"
//	cfg.Model.Family = "random_forest"
//	report, err := experiment.Run(cfg)
//
// # Packages
//
//   - dataset: CSV loading, typed columns, missing-value handling
//   - preprocessing: imputers, encoders, scalers, polynomial features
//   - modelselection: train/test split and k-fold
//   - linear: least squares, ridge and polynomial regression
//   - tree: CART regression trees
//   - ensemble: random forests and gradient boosting
//   - metrics: MSE, RMSE, MAE, R², MAPE, explained variance
//   - visualization: residual and predicted-vs-actual plots
//   - experiment: config, pipeline, reports, run history, tuning
//   - core/model: core interfaces and fitted-state base type
//   - core/parallel: parallel processing utilities
//
// The reglab command under cmd/reglab exposes run, compare, tune,
// profile, split and history subcommands over the same packages.
package reglab
