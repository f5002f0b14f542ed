package preprocessing

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/alineAssuncao/kaggle-regression-lab/core/model"
	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
)

// OneHotEncoder converts categorical columns into indicator columns.
//
// Categories seen at transform time that were absent during fitting
// are encoded as an all-zero row for that column, matching the
// behavior the original preprocessor configured; a warning is raised
// through the errors package for each occurrence.
type OneHotEncoder struct {
	model.BaseEstimator

	// Categories holds, per input column, the sorted category
	// vocabulary learned during Fit.
	Categories [][]string

	// ColumnNames are the input column names, used for feature naming
	// and warnings.
	ColumnNames []string

	// DropFirst drops the first category of every column to avoid
	// collinearity with an intercept.
	DropFirst bool

	lookup []map[string]int
}

// NewOneHotEncoder creates a OneHotEncoder.
func NewOneHotEncoder(dropFirst bool) *OneHotEncoder {
	return &OneHotEncoder{DropFirst: dropFirst}
}

// Fit learns the category vocabulary of each column. cols is
// column-major; names supplies the matching column names.
func (e *OneHotEncoder) Fit(cols [][]string, names []string) error {
	if len(cols) == 0 {
		return errors.NewModelError("OneHotEncoder.Fit", "no columns", errors.ErrEmptyData)
	}
	if len(names) != len(cols) {
		return errors.NewDimensionError("OneHotEncoder.Fit", len(cols), len(names), 1)
	}

	e.ColumnNames = append([]string(nil), names...)
	e.Categories = make([][]string, len(cols))
	e.lookup = make([]map[string]int, len(cols))

	for j, col := range cols {
		seen := make(map[string]bool)
		for _, v := range col {
			if v != "" {
				seen[v] = true
			}
		}
		cats := make([]string, 0, len(seen))
		for v := range seen {
			cats = append(cats, v)
		}
		sort.Strings(cats)
		e.Categories[j] = cats

		e.lookup[j] = make(map[string]int, len(cats))
		for i, v := range cats {
			e.lookup[j][v] = i
		}
	}

	e.SetFitted()
	return nil
}

// Transform encodes cols into a dense indicator matrix.
func (e *OneHotEncoder) Transform(cols [][]string) (*mat.Dense, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("OneHotEncoder", "Transform")
	}
	if len(cols) != len(e.Categories) {
		return nil, errors.NewDimensionError("OneHotEncoder.Transform", len(e.Categories), len(cols), 1)
	}
	if len(cols[0]) == 0 {
		return nil, errors.NewModelError("OneHotEncoder.Transform", "no rows", errors.ErrEmptyData)
	}

	nRows := len(cols[0])
	nOut := 0
	offsets := make([]int, len(cols))
	for j, cats := range e.Categories {
		offsets[j] = nOut
		nOut += e.width(len(cats))
	}
	if nOut == 0 {
		return nil, errors.NewModelError("OneHotEncoder.Transform", "no output features", errors.ErrEmptyData)
	}

	result := mat.NewDense(nRows, nOut, nil)
	for j, col := range cols {
		for i, v := range col {
			idx, ok := e.lookup[j][v]
			if !ok {
				// Unseen category: leave the row as all zeros.
				errors.Warn(errors.NewUnknownCategoryWarning(
					"OneHotEncoder", e.ColumnNames[j], v, "encoded as all zeros"))
				continue
			}
			if e.DropFirst {
				if idx == 0 {
					continue
				}
				idx--
			}
			result.Set(i, offsets[j]+idx, 1)
		}
	}

	return result, nil
}

// FeatureNames returns the generated output column names, in the same
// order as the Transform output columns.
func (e *OneHotEncoder) FeatureNames() []string {
	if !e.IsFitted() {
		return nil
	}
	var names []string
	for j, cats := range e.Categories {
		start := 0
		if e.DropFirst {
			start = 1
		}
		for _, cat := range cats[start:] {
			names = append(names, e.ColumnNames[j]+"="+cat)
		}
	}
	return names
}

func (e *OneHotEncoder) width(nCats int) int {
	if e.DropFirst {
		if nCats == 0 {
			return 0
		}
		return nCats - 1
	}
	return nCats
}

// OrdinalEncoder maps each category to its index in the sorted
// vocabulary. Unseen categories map to len(categories), a dedicated
// unknown bucket, with a warning.
type OrdinalEncoder struct {
	model.BaseEstimator

	// Categories holds, per input column, the sorted vocabulary.
	Categories [][]string

	// ColumnNames are the input column names.
	ColumnNames []string

	lookup []map[string]int
}

// NewOrdinalEncoder creates an OrdinalEncoder.
func NewOrdinalEncoder() *OrdinalEncoder {
	return &OrdinalEncoder{}
}

// Fit learns the category vocabulary of each column.
func (e *OrdinalEncoder) Fit(cols [][]string, names []string) error {
	if len(cols) == 0 {
		return errors.NewModelError("OrdinalEncoder.Fit", "no columns", errors.ErrEmptyData)
	}
	if len(names) != len(cols) {
		return errors.NewDimensionError("OrdinalEncoder.Fit", len(cols), len(names), 1)
	}

	e.ColumnNames = append([]string(nil), names...)
	e.Categories = make([][]string, len(cols))
	e.lookup = make([]map[string]int, len(cols))

	for j, col := range cols {
		seen := make(map[string]bool)
		for _, v := range col {
			if v != "" {
				seen[v] = true
			}
		}
		cats := make([]string, 0, len(seen))
		for v := range seen {
			cats = append(cats, v)
		}
		sort.Strings(cats)
		e.Categories[j] = cats

		e.lookup[j] = make(map[string]int, len(cats))
		for i, v := range cats {
			e.lookup[j][v] = i
		}
	}

	e.SetFitted()
	return nil
}

// Transform encodes cols into a matrix with one column per input column.
func (e *OrdinalEncoder) Transform(cols [][]string) (*mat.Dense, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("OrdinalEncoder", "Transform")
	}
	if len(cols) != len(e.Categories) {
		return nil, errors.NewDimensionError("OrdinalEncoder.Transform", len(e.Categories), len(cols), 1)
	}
	if len(cols[0]) == 0 {
		return nil, errors.NewModelError("OrdinalEncoder.Transform", "no rows", errors.ErrEmptyData)
	}

	nRows := len(cols[0])
	result := mat.NewDense(nRows, len(cols), nil)
	for j, col := range cols {
		for i, v := range col {
			idx, ok := e.lookup[j][v]
			if !ok {
				// Unknown bucket past the last real category.
				idx = len(e.Categories[j])
				errors.Warn(errors.NewUnknownCategoryWarning(
					"OrdinalEncoder", e.ColumnNames[j], v, "mapped to the unknown bucket"))
			}
			result.Set(i, j, float64(idx))
		}
	}

	return result, nil
}

// FeatureNames returns the output column names.
func (e *OrdinalEncoder) FeatureNames() []string {
	return append([]string(nil), e.ColumnNames...)
}
