// Package dataset provides the in-memory tabular dataset used by the
// experiment pipeline: named, typed columns read from CSV, with NaN
// (numeric) and the empty string (categorical) marking missing values.
package dataset

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
)

// Kind is the type of a column.
type Kind int

const (
	// Numeric columns hold float64 values; NaN marks a missing value.
	Numeric Kind = iota
	// Categorical columns hold string values; "" marks a missing value.
	Categorical
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "categorical"
}

// Column is one named, typed column. Exactly one of Floats or Strings
// is populated, depending on Kind.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// MissingCount returns the number of missing values in the column.
func (c *Column) MissingCount() int {
	count := 0
	if c.Kind == Numeric {
		for _, v := range c.Floats {
			if math.IsNaN(v) {
				count++
			}
		}
		return count
	}
	for _, v := range c.Strings {
		if v == "" {
			count++
		}
	}
	return count
}

// Table is an ordered collection of equally sized columns. All rows
// share the same schema; mutating methods return new tables and leave
// the receiver untouched.
type Table struct {
	cols  []Column
	index map[string]int
}

// NewTable builds a table from columns. All columns must have the same
// length and unique names.
func NewTable(cols ...Column) (*Table, error) {
	if len(cols) == 0 {
		return nil, errors.NewModelError("dataset.NewTable", "no columns", errors.ErrEmptyData)
	}
	n := cols[0].Len()
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if c.Len() != n {
			return nil, errors.NewDimensionError("dataset.NewTable", n, c.Len(), 0)
		}
		if _, dup := index[c.Name]; dup {
			return nil, errors.NewValueError("dataset.NewTable", "duplicate column name: "+c.Name)
		}
		index[c.Name] = i
	}
	return &Table{cols: cols, index: index}, nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.cols)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Has reports whether the table contains a column.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, errors.NewValueError("dataset.Column", "no such column: "+name)
	}
	return &t.cols[i], nil
}

// Columns returns all columns in order.
func (t *Table) Columns() []Column {
	return t.cols
}

// Drop returns a new table without the named columns. Unknown names
// are ignored.
func (t *Table) Drop(names ...string) *Table {
	dropped := make(map[string]bool, len(names))
	for _, n := range names {
		dropped[n] = true
	}
	kept := make([]Column, 0, len(t.cols))
	index := make(map[string]int)
	for _, c := range t.cols {
		if dropped[c.Name] {
			continue
		}
		index[c.Name] = len(kept)
		kept = append(kept, c)
	}
	return &Table{cols: kept, index: index}
}

// Subset returns a new table with the rows selected by idx, in order.
func (t *Table) Subset(idx []int) *Table {
	cols := make([]Column, len(t.cols))
	index := make(map[string]int, len(t.cols))
	for i, c := range t.cols {
		nc := Column{Name: c.Name, Kind: c.Kind}
		if c.Kind == Numeric {
			nc.Floats = make([]float64, len(idx))
			for j, r := range idx {
				nc.Floats[j] = c.Floats[r]
			}
		} else {
			nc.Strings = make([]string, len(idx))
			for j, r := range idx {
				nc.Strings[j] = c.Strings[r]
			}
		}
		cols[i] = nc
		index[c.Name] = i
	}
	return &Table{cols: cols, index: index}
}

// SplitTarget removes the target column from the table and returns the
// remaining features together with the target vector. The target must
// be numeric and present on every row.
func (t *Table) SplitTarget(name string) (*Table, *mat.VecDense, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, nil, errors.Wrapf(errors.ErrMissingTarget, "dataset.SplitTarget: %q", name)
	}
	col := t.cols[i]
	if col.Kind != Numeric {
		return nil, nil, errors.NewValueError("dataset.SplitTarget", "target column must be numeric: "+name)
	}
	y := mat.NewVecDense(col.Len(), nil)
	for j, v := range col.Floats {
		if math.IsNaN(v) {
			return nil, nil, errors.NewValueError("dataset.SplitTarget", "target column has missing values: "+name)
		}
		y.SetVec(j, v)
	}
	features := t.Drop(name)
	if features.NumColumns() == 0 {
		return nil, nil, errors.NewModelError("dataset.SplitTarget", "no feature columns left", errors.ErrEmptyData)
	}
	return features, y, nil
}
