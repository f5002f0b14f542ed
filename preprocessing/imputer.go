package preprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/alineAssuncao/kaggle-regression-lab/core/model"
	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
)

// ImputeStrategy selects how missing values are filled.
type ImputeStrategy string

const (
	// ImputeMean fills with the column mean.
	ImputeMean ImputeStrategy = "mean"
	// ImputeMedian fills with the column median.
	ImputeMedian ImputeStrategy = "median"
	// ImputeMostFrequent fills with the most frequent value.
	ImputeMostFrequent ImputeStrategy = "most_frequent"
	// ImputeConstant fills with a fixed value.
	ImputeConstant ImputeStrategy = "constant"
)

// NumericImputer fills NaN entries of a numeric matrix column by
// column using a fixed strategy.
type NumericImputer struct {
	model.BaseEstimator

	// Strategy selects the fill statistic (default median).
	Strategy ImputeStrategy

	// FillValue is used when Strategy is ImputeConstant.
	FillValue float64

	// Statistics holds the learned per-column fill values.
	Statistics []float64

	// NFeatures is the number of features seen during Fit.
	NFeatures int
}

// NewNumericImputer creates an imputer with the given strategy.
func NewNumericImputer(strategy ImputeStrategy) *NumericImputer {
	return &NumericImputer{Strategy: strategy}
}

// Fit learns the per-column fill values from the non-missing entries
// of X. A column with no observed values gets fill value 0.
func (im *NumericImputer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("NumericImputer.Fit", "empty data", errors.ErrEmptyData)
	}

	switch im.Strategy {
	case ImputeMean, ImputeMedian, ImputeMostFrequent, ImputeConstant:
	case "":
		im.Strategy = ImputeMedian
	default:
		return errors.NewValidationError("strategy", "unknown imputation strategy", string(im.Strategy))
	}

	im.NFeatures = c
	im.Statistics = make([]float64, c)

	for j := 0; j < c; j++ {
		if im.Strategy == ImputeConstant {
			im.Statistics[j] = im.FillValue
			continue
		}

		observed := make([]float64, 0, r)
		for i := 0; i < r; i++ {
			if v := X.At(i, j); !math.IsNaN(v) {
				observed = append(observed, v)
			}
		}
		if len(observed) == 0 {
			im.Statistics[j] = 0
			continue
		}

		switch im.Strategy {
		case ImputeMean:
			sum := 0.0
			for _, v := range observed {
				sum += v
			}
			im.Statistics[j] = sum / float64(len(observed))
		case ImputeMedian:
			im.Statistics[j] = median(observed)
		case ImputeMostFrequent:
			im.Statistics[j] = mostFrequent(observed)
		}
	}

	im.SetFitted()
	return nil
}

// Transform replaces NaN entries with the learned fill values.
func (im *NumericImputer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !im.IsFitted() {
		return nil, errors.NewNotFittedError("NumericImputer", "Transform")
	}

	r, c := X.Dims()
	if c != im.NFeatures {
		return nil, errors.NewDimensionError("NumericImputer.Transform", im.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if math.IsNaN(v) {
				v = im.Statistics[j]
			}
			result.Set(i, j, v)
		}
	}

	return result, nil
}

// FitTransform fits on X and transforms it in one call.
func (im *NumericImputer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := im.Fit(X); err != nil {
		return nil, err
	}
	return im.Transform(X)
}

// GetParams returns the imputer's parameters.
func (im *NumericImputer) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"strategy":   string(im.Strategy),
		"fill_value": im.FillValue,
	}
}

// CategoricalImputer fills empty entries of string columns with the
// most frequent category or a fixed constant.
type CategoricalImputer struct {
	model.BaseEstimator

	// Strategy is ImputeMostFrequent (default) or ImputeConstant.
	Strategy ImputeStrategy

	// FillValue is used when Strategy is ImputeConstant
	// (default "missing").
	FillValue string

	// Fills holds the learned per-column fill categories.
	Fills []string
}

// NewCategoricalImputer creates a categorical imputer.
func NewCategoricalImputer(strategy ImputeStrategy) *CategoricalImputer {
	return &CategoricalImputer{Strategy: strategy, FillValue: "missing"}
}

// Fit learns the per-column fill category. cols is column-major: one
// slice of cell values per categorical column.
func (im *CategoricalImputer) Fit(cols [][]string) error {
	switch im.Strategy {
	case ImputeMostFrequent, ImputeConstant:
	case "":
		im.Strategy = ImputeMostFrequent
	default:
		return errors.NewValidationError("strategy", "unsupported categorical strategy", string(im.Strategy))
	}

	im.Fills = make([]string, len(cols))
	for j, col := range cols {
		if im.Strategy == ImputeConstant {
			im.Fills[j] = im.FillValue
			continue
		}
		counts := make(map[string]int)
		for _, v := range col {
			if v != "" {
				counts[v]++
			}
		}
		best, bestCount := im.FillValue, 0
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		// Deterministic tie-break on category name.
		sort.Strings(keys)
		for _, k := range keys {
			if counts[k] > bestCount {
				best, bestCount = k, counts[k]
			}
		}
		im.Fills[j] = best
	}

	im.SetFitted()
	return nil
}

// Transform returns a copy of cols with empty entries filled.
func (im *CategoricalImputer) Transform(cols [][]string) ([][]string, error) {
	if !im.IsFitted() {
		return nil, errors.NewNotFittedError("CategoricalImputer", "Transform")
	}
	if len(cols) != len(im.Fills) {
		return nil, errors.NewDimensionError("CategoricalImputer.Transform", len(im.Fills), len(cols), 1)
	}

	out := make([][]string, len(cols))
	for j, col := range cols {
		filled := make([]string, len(col))
		for i, v := range col {
			if v == "" {
				v = im.Fills[j]
			}
			filled[i] = v
		}
		out[j] = filled
	}
	return out, nil
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func mostFrequent(values []float64) float64 {
	counts := make(map[float64]int)
	for _, v := range values {
		counts[v]++
	}
	keys := make([]float64, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	best, bestCount := keys[0], 0
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}
