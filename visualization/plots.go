// Package visualization renders the diagnostic plots of a model run:
// predicted versus actual values, residuals against predictions and a
// residual histogram, all saved as PNG files.
package visualization

import (
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
)

const (
	plotSize = 5 * vg.Inch

	// maxImportanceBars caps the importance chart so wide one-hot
	// expansions stay readable.
	maxImportanceBars = 20
)

// PredictedVsActual draws actual values against predictions with the
// identity line and saves the plot to path.
func PredictedVsActual(yTrue, yPred *mat.VecDense, title, path string) error {
	if err := checkPair(yTrue, yPred); err != nil {
		return err
	}

	pts := make(plotter.XYs, yTrue.Len())
	lo, hi := yTrue.AtVec(0), yTrue.AtVec(0)
	for i := range pts {
		a, p := yTrue.AtVec(i), yPred.AtVec(i)
		pts[i].X = a
		pts[i].Y = p
		if a < lo {
			lo = a
		}
		if a > hi {
			hi = a
		}
	}

	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "actual"
	pl.Y.Label.Text = "predicted"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "visualization: scatter")
	}
	scatter.GlyphStyle.Radius = vg.Points(2)
	pl.Add(scatter)

	// Identity line: a perfect model puts every point on it.
	ident := plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}}
	line, err := plotter.NewLine(ident)
	if err != nil {
		return errors.Wrap(err, "visualization: identity line")
	}
	line.Color = color.RGBA{R: 220, A: 255}
	pl.Add(line)

	if err := pl.Save(plotSize, plotSize, path); err != nil {
		return errors.Wrap(err, "visualization: save")
	}
	return nil
}

// ResidualPlot draws residuals against predictions with a zero line
// and saves the plot to path.
func ResidualPlot(yTrue, yPred *mat.VecDense, title, path string) error {
	if err := checkPair(yTrue, yPred); err != nil {
		return err
	}

	pts := make(plotter.XYs, yTrue.Len())
	lo, hi := yPred.AtVec(0), yPred.AtVec(0)
	for i := range pts {
		p := yPred.AtVec(i)
		pts[i].X = p
		pts[i].Y = yTrue.AtVec(i) - p
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}

	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "predicted"
	pl.Y.Label.Text = "residual"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "visualization: scatter")
	}
	scatter.GlyphStyle.Radius = vg.Points(2)
	pl.Add(scatter)

	zero := plotter.XYs{{X: lo, Y: 0}, {X: hi, Y: 0}}
	line, err := plotter.NewLine(zero)
	if err != nil {
		return errors.Wrap(err, "visualization: zero line")
	}
	line.Color = color.RGBA{R: 220, A: 255}
	pl.Add(line)

	if err := pl.Save(plotSize, plotSize, path); err != nil {
		return errors.Wrap(err, "visualization: save")
	}
	return nil
}

// ResidualHistogram draws the distribution of residuals and saves the
// plot to path. bins 0 picks a width from the sample count.
func ResidualHistogram(yTrue, yPred *mat.VecDense, bins int, title, path string) error {
	if err := checkPair(yTrue, yPred); err != nil {
		return err
	}

	values := make(plotter.Values, yTrue.Len())
	for i := range values {
		values[i] = yTrue.AtVec(i) - yPred.AtVec(i)
	}
	if bins <= 0 {
		bins = defaultBins(len(values))
	}

	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "residual"
	pl.Y.Label.Text = "count"

	hist, err := plotter.NewHist(values, bins)
	if err != nil {
		return errors.Wrap(err, "visualization: histogram")
	}
	pl.Add(hist)

	if err := pl.Save(plotSize, plotSize, path); err != nil {
		return errors.Wrap(err, "visualization: save")
	}
	return nil
}

// FeatureImportancePlot draws a bar chart of feature importances,
// largest first, and saves the plot to path. At most maxImportanceBars
// features are shown.
func FeatureImportancePlot(names []string, importances []float64, title, path string) error {
	if len(importances) == 0 {
		return errors.NewModelError("visualization", "empty data", errors.ErrEmptyData)
	}
	if len(names) != len(importances) {
		return errors.NewDimensionError("visualization", len(names), len(importances), 0)
	}

	order := make([]int, len(importances))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return importances[order[a]] > importances[order[b]]
	})
	if len(order) > maxImportanceBars {
		order = order[:maxImportanceBars]
	}

	values := make(plotter.Values, len(order))
	labels := make([]string, len(order))
	for k, i := range order {
		values[k] = importances[i]
		labels[k] = names[i]
	}

	pl := plot.New()
	pl.Title.Text = title
	pl.Y.Label.Text = "importance"
	pl.X.Tick.Label.Rotation = math.Pi / 4
	pl.X.Tick.Label.XAlign = draw.XRight
	pl.X.Tick.Label.YAlign = draw.YCenter

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return errors.Wrap(err, "visualization: bar chart")
	}
	pl.Add(bars)
	pl.NominalX(labels...)

	if err := pl.Save(plotSize, plotSize, path); err != nil {
		return errors.Wrap(err, "visualization: save")
	}
	return nil
}

func checkPair(yTrue, yPred *mat.VecDense) error {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return errors.NewModelError("visualization", "empty data", errors.ErrEmptyData)
	}
	if yTrue.Len() != yPred.Len() {
		return errors.NewDimensionError("visualization", yTrue.Len(), yPred.Len(), 0)
	}
	return nil
}

func defaultBins(n int) int {
	bins := 10
	for bins*bins < n {
		bins++
	}
	return bins
}
