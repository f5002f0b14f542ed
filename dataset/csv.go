package dataset

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
)

// missingTokens are the cell values treated as missing on load, in
// addition to the empty string.
var missingTokens = map[string]bool{
	"":    true,
	"NA":  true,
	"N/A": true,
	"NaN": true,
	"nan": true,
	"null": true,
}

// ReadCSV loads a CSV file with a header row into a Table. Column
// kinds are inferred: a column whose non-missing cells all parse as
// float64 becomes Numeric, anything else Categorical.
func ReadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDataError(path, "cannot open file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewDataError(path, "malformed CSV", err)
	}
	if len(records) < 2 {
		return nil, errors.NewDataError(path, "no data rows", errors.ErrEmptyData)
	}

	header := records[0]
	rows := records[1:]

	cols := make([]Column, len(header))
	for j, name := range header {
		raw := make([]string, len(rows))
		for i, row := range rows {
			raw[i] = row[j]
		}
		cols[j] = inferColumn(name, raw)
	}

	t, err := NewTable(cols...)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset.ReadCSV: %s", path)
	}
	return t, nil
}

// inferColumn decides the kind of a raw string column and converts it.
func inferColumn(name string, raw []string) Column {
	numeric := true
	for _, v := range raw {
		if missingTokens[v] {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			numeric = false
			break
		}
	}

	if numeric {
		floats := make([]float64, len(raw))
		for i, v := range raw {
			if missingTokens[v] {
				floats[i] = math.NaN()
				continue
			}
			f, _ := strconv.ParseFloat(v, 64)
			floats[i] = f
		}
		return Column{Name: name, Kind: Numeric, Floats: floats}
	}

	strs := make([]string, len(raw))
	for i, v := range raw {
		if missingTokens[v] {
			strs[i] = ""
			continue
		}
		strs[i] = v
	}
	return Column{Name: name, Kind: Categorical, Strings: strs}
}

// WriteCSV saves the table to a CSV file with a header row. Missing
// values are written as NA.
func WriteCSV(t *Table, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.NewDataError(path, "cannot create file", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(t.Names()); err != nil {
		return errors.NewDataError(path, "write header", err)
	}

	cols := t.Columns()
	for i := 0; i < t.NumRows(); i++ {
		row := make([]string, len(cols))
		for j, c := range cols {
			if c.Kind == Numeric {
				v := c.Floats[i]
				if math.IsNaN(v) {
					row[j] = "NA"
				} else {
					row[j] = strconv.FormatFloat(v, 'g', -1, 64)
				}
			} else {
				if c.Strings[i] == "" {
					row[j] = "NA"
				} else {
					row[j] = c.Strings[i]
				}
			}
		}
		if err := writer.Write(row); err != nil {
			return errors.NewDataError(path, "write row", err)
		}
	}

	return writer.Error()
}
