package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/alineAssuncao/kaggle-regression-lab/core/model"
	"github.com/alineAssuncao/kaggle-regression-lab/dataset"
	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
)

// Encoding names a categorical encoding scheme.
type Encoding string

const (
	// EncodeOneHot expands each categorical column into indicator columns.
	EncodeOneHot Encoding = "onehot"
	// EncodeOrdinal maps each category to an integer index.
	EncodeOrdinal Encoding = "ordinal"
)

// ScalerKind names a numeric scaling scheme.
type ScalerKind string

const (
	// ScaleStandard centers to zero mean and unit variance.
	ScaleStandard ScalerKind = "standard"
	// ScaleMinMax rescales to the [0, 1] range.
	ScaleMinMax ScalerKind = "minmax"
)

// ColumnPreprocessor turns a typed table into a dense feature matrix.
//
// The stages run in a fixed order: numeric imputation, categorical
// imputation, categorical encoding, numeric scaling, then optional
// polynomial expansion of the numeric block. Fit learns every stage
// from the training table only; Transform applies the learned stages
// to any table with the same schema.
type ColumnPreprocessor struct {
	model.BaseEstimator

	// NumericStrategy fills missing numeric values (default median).
	NumericStrategy ImputeStrategy

	// CategoricalStrategy fills missing categorical values (default
	// most_frequent).
	CategoricalStrategy ImputeStrategy

	// Encoding selects the categorical encoding (default onehot).
	Encoding Encoding

	// DropFirst drops the first indicator column per categorical
	// column when one-hot encoding.
	DropFirst bool

	// ScaleNumeric enables scaling of the numeric block.
	ScaleNumeric bool

	// Scaler selects the scaling scheme (default standard).
	Scaler ScalerKind

	// PolyDegree, when greater than 1, expands the numeric block with
	// polynomial features of that degree (without a bias column).
	PolyDegree int

	numericCols     []string
	categoricalCols []string

	numImputer *NumericImputer
	catImputer *CategoricalImputer
	oneHot     *OneHotEncoder
	ordinal    *OrdinalEncoder
	stdScaler  *StandardScaler
	mmScaler   *MinMaxScaler
	poly       *PolynomialFeatures
}

// NewColumnPreprocessor creates a preprocessor with the default
// stages: median numeric imputation, most frequent categorical
// imputation, one-hot encoding, no scaling, no polynomial expansion.
func NewColumnPreprocessor() *ColumnPreprocessor {
	return &ColumnPreprocessor{
		NumericStrategy:     ImputeMedian,
		CategoricalStrategy: ImputeMostFrequent,
		Encoding:            EncodeOneHot,
		Scaler:              ScaleStandard,
	}
}

// Fit learns all preprocessing stages from the training table.
func (cp *ColumnPreprocessor) Fit(t *dataset.Table) error {
	if t.NumRows() == 0 {
		return errors.NewModelError("ColumnPreprocessor.Fit", "empty table", errors.ErrEmptyData)
	}

	cp.numericCols = nil
	cp.categoricalCols = nil
	for _, c := range t.Columns() {
		if c.Kind == dataset.Numeric {
			cp.numericCols = append(cp.numericCols, c.Name)
		} else {
			cp.categoricalCols = append(cp.categoricalCols, c.Name)
		}
	}
	if len(cp.numericCols) == 0 && len(cp.categoricalCols) == 0 {
		return errors.NewModelError("ColumnPreprocessor.Fit", "no columns", errors.ErrEmptyData)
	}

	if len(cp.numericCols) > 0 {
		numX, err := cp.numericMatrix(t)
		if err != nil {
			return err
		}
		cp.numImputer = NewNumericImputer(cp.NumericStrategy)
		imputed, err := cp.numImputer.FitTransform(numX)
		if err != nil {
			return err
		}

		block := imputed
		if cp.ScaleNumeric {
			scaled, err := cp.fitScaler(imputed)
			if err != nil {
				return err
			}
			block = scaled
		}
		if cp.PolyDegree > 1 {
			cp.poly = &PolynomialFeatures{Degree: cp.PolyDegree, IncludeBias: false}
			if err := cp.poly.Fit(block); err != nil {
				return err
			}
		}
	}

	if len(cp.categoricalCols) > 0 {
		catCols, err := cp.categoricalColumns(t)
		if err != nil {
			return err
		}
		cp.catImputer = NewCategoricalImputer(cp.CategoricalStrategy)
		if err := cp.catImputer.Fit(catCols); err != nil {
			return err
		}
		filled, err := cp.catImputer.Transform(catCols)
		if err != nil {
			return err
		}
		switch cp.Encoding {
		case EncodeOrdinal:
			cp.ordinal = NewOrdinalEncoder()
			if err := cp.ordinal.Fit(filled, cp.categoricalCols); err != nil {
				return err
			}
		case EncodeOneHot, "":
			cp.oneHot = NewOneHotEncoder(cp.DropFirst)
			if err := cp.oneHot.Fit(filled, cp.categoricalCols); err != nil {
				return err
			}
		default:
			return errors.NewValidationError("encoding", "unknown encoding", string(cp.Encoding))
		}
	}

	cp.SetFitted()
	return nil
}

// Transform applies the fitted stages to t and returns the feature
// matrix together with the generated feature names.
func (cp *ColumnPreprocessor) Transform(t *dataset.Table) (*mat.Dense, []string, error) {
	if !cp.IsFitted() {
		return nil, nil, errors.NewNotFittedError("ColumnPreprocessor", "Transform")
	}
	if t.NumRows() == 0 {
		return nil, nil, errors.NewModelError("ColumnPreprocessor.Transform", "empty table", errors.ErrEmptyData)
	}

	var blocks []*mat.Dense
	var names []string

	if len(cp.numericCols) > 0 {
		numX, err := cp.numericMatrix(t)
		if err != nil {
			return nil, nil, err
		}
		imputed, err := cp.numImputer.Transform(numX)
		if err != nil {
			return nil, nil, err
		}
		block := imputed
		if cp.ScaleNumeric {
			scaled, err := cp.applyScaler(imputed)
			if err != nil {
				return nil, nil, err
			}
			block = scaled
		}
		numNames := cp.numericCols
		if cp.poly != nil {
			expanded, err := cp.poly.Transform(block)
			if err != nil {
				return nil, nil, err
			}
			block = expanded
			numNames, err = cp.poly.FeatureNames(cp.numericCols)
			if err != nil {
				return nil, nil, err
			}
		}
		blocks = append(blocks, mat.DenseCopyOf(block))
		names = append(names, numNames...)
	}

	if len(cp.categoricalCols) > 0 {
		catCols, err := cp.categoricalColumns(t)
		if err != nil {
			return nil, nil, err
		}
		filled, err := cp.catImputer.Transform(catCols)
		if err != nil {
			return nil, nil, err
		}
		var encoded *mat.Dense
		if cp.ordinal != nil {
			encoded, err = cp.ordinal.Transform(filled)
			if err != nil {
				return nil, nil, err
			}
			names = append(names, cp.ordinal.FeatureNames()...)
		} else {
			encoded, err = cp.oneHot.Transform(filled)
			if err != nil {
				return nil, nil, err
			}
			names = append(names, cp.oneHot.FeatureNames()...)
		}
		blocks = append(blocks, encoded)
	}

	return hstack(blocks), names, nil
}

// FitTransform fits on t and returns its transformed features.
func (cp *ColumnPreprocessor) FitTransform(t *dataset.Table) (*mat.Dense, []string, error) {
	if err := cp.Fit(t); err != nil {
		return nil, nil, err
	}
	return cp.Transform(t)
}

// NumericColumns returns the numeric column names seen during Fit.
func (cp *ColumnPreprocessor) NumericColumns() []string {
	return append([]string(nil), cp.numericCols...)
}

// CategoricalColumns returns the categorical column names seen during Fit.
func (cp *ColumnPreprocessor) CategoricalColumns() []string {
	return append([]string(nil), cp.categoricalCols...)
}

func (cp *ColumnPreprocessor) fitScaler(X mat.Matrix) (mat.Matrix, error) {
	switch cp.Scaler {
	case ScaleMinMax:
		cp.mmScaler = NewMinMaxScalerDefault()
		return cp.mmScaler.FitTransform(X)
	case ScaleStandard, "":
		cp.stdScaler = NewStandardScalerDefault()
		return cp.stdScaler.FitTransform(X)
	default:
		return nil, errors.NewValidationError("scaler", "unknown scaler", string(cp.Scaler))
	}
}

func (cp *ColumnPreprocessor) applyScaler(X mat.Matrix) (mat.Matrix, error) {
	if cp.mmScaler != nil {
		return cp.mmScaler.Transform(X)
	}
	return cp.stdScaler.Transform(X)
}

// numericMatrix assembles the numeric columns of t, in the order seen
// during Fit, into a dense matrix.
func (cp *ColumnPreprocessor) numericMatrix(t *dataset.Table) (*mat.Dense, error) {
	X := mat.NewDense(t.NumRows(), len(cp.numericCols), nil)
	for j, name := range cp.numericCols {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if col.Kind != dataset.Numeric {
			return nil, errors.NewValueError("ColumnPreprocessor", "column changed type: "+name)
		}
		for i, v := range col.Floats {
			X.Set(i, j, v)
		}
	}
	return X, nil
}

// categoricalColumns assembles the categorical columns of t, in the
// order seen during Fit, column major.
func (cp *ColumnPreprocessor) categoricalColumns(t *dataset.Table) ([][]string, error) {
	cols := make([][]string, len(cp.categoricalCols))
	for j, name := range cp.categoricalCols {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if col.Kind != dataset.Categorical {
			return nil, errors.NewValueError("ColumnPreprocessor", "column changed type: "+name)
		}
		cols[j] = append([]string(nil), col.Strings...)
	}
	return cols, nil
}

// hstack concatenates blocks side by side. Blocks must share the same
// row count and the slice must be non-empty.
func hstack(blocks []*mat.Dense) *mat.Dense {
	if len(blocks) == 1 {
		return blocks[0]
	}
	rows, _ := blocks[0].Dims()
	total := 0
	for _, b := range blocks {
		_, c := b.Dims()
		total += c
	}
	out := mat.NewDense(rows, total, nil)
	off := 0
	for _, b := range blocks {
		_, c := b.Dims()
		out.Slice(0, rows, off, off+c).(*mat.Dense).Copy(b)
		off += c
	}
	return out
}
