package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSVInference(t *testing.T) {
	path := writeTempCSV(t, `LotArea,Neighborhood,SalePrice
8450,CollgCr,208500
9600,Veenker,181500
11250,,223500
NA,CollgCr,140000
`)

	table, err := ReadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, 4, table.NumRows())
	assert.Equal(t, 3, table.NumColumns())

	lot, err := table.Column("LotArea")
	require.NoError(t, err)
	assert.Equal(t, Numeric, lot.Kind)
	assert.True(t, math.IsNaN(lot.Floats[3]), "NA should load as NaN")

	hood, err := table.Column("Neighborhood")
	require.NoError(t, err)
	assert.Equal(t, Categorical, hood.Kind)
	assert.Equal(t, "", hood.Strings[2], "missing categorical should be empty string")
}

func TestReadCSVErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, err)
	})

	t.Run("header only", func(t *testing.T) {
		path := writeTempCSV(t, "a,b\n")
		_, err := ReadCSV(path)
		assert.Error(t, err)
	})

	t.Run("ragged rows", func(t *testing.T) {
		path := writeTempCSV(t, "a,b\n1,2\n3\n")
		_, err := ReadCSV(path)
		assert.Error(t, err)
	})
}

func TestSplitTarget(t *testing.T) {
	path := writeTempCSV(t, `x1,x2,SalePrice
1,2,100
3,4,200
`)
	table, err := ReadCSV(path)
	require.NoError(t, err)

	features, y, err := table.SplitTarget("SalePrice")
	require.NoError(t, err)
	assert.Equal(t, 2, features.NumColumns())
	assert.False(t, features.Has("SalePrice"))
	assert.Equal(t, 100.0, y.AtVec(0))
	assert.Equal(t, 200.0, y.AtVec(1))

	// Original table is untouched.
	assert.True(t, table.Has("SalePrice"))
}

func TestSplitTargetErrors(t *testing.T) {
	t.Run("absent target", func(t *testing.T) {
		path := writeTempCSV(t, "x\n1\n2\n")
		table, err := ReadCSV(path)
		require.NoError(t, err)
		_, _, err = table.SplitTarget("SalePrice")
		assert.Error(t, err)
	})

	t.Run("target with missing values", func(t *testing.T) {
		path := writeTempCSV(t, "x,y\n1,10\n2,NA\n")
		table, err := ReadCSV(path)
		require.NoError(t, err)
		_, _, err = table.SplitTarget("y")
		assert.Error(t, err)
	})
}

func TestSubset(t *testing.T) {
	path := writeTempCSV(t, `x,label
1,a
2,b
3,c
4,d
`)
	table, err := ReadCSV(path)
	require.NoError(t, err)

	sub := table.Subset([]int{2, 0})
	assert.Equal(t, 2, sub.NumRows())

	x, err := sub.Column("x")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1}, x.Floats)

	label, err := sub.Column("label")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, label.Strings)
}

func TestMissingProfile(t *testing.T) {
	path := writeTempCSV(t, `a,b,c
1,x,NA
NA,,NA
3,y,NA
NA,z,7
`)
	table, err := ReadCSV(path)
	require.NoError(t, err)

	profile := table.MissingProfile()
	require.Len(t, profile, 3)
	// Sorted by percentage descending: c (75%), a (50%), b (25%).
	assert.Equal(t, "c", profile[0].Column)
	assert.InDelta(t, 75.0, profile[0].Percent, 1e-9)
	assert.Equal(t, "a", profile[1].Column)
	assert.Equal(t, "b", profile[2].Column)
}

func TestDropHighMissing(t *testing.T) {
	path := writeTempCSV(t, `a,b
1,NA
2,NA
3,NA
4,5
`)
	table, err := ReadCSV(path)
	require.NoError(t, err)

	kept, dropped := table.DropHighMissing(0.5)
	assert.Equal(t, []string{"b"}, dropped)
	assert.False(t, kept.Has("b"))
	assert.True(t, kept.Has("a"))
}

func TestWriteCSVRoundTrip(t *testing.T) {
	path := writeTempCSV(t, `x,label
1,a
NA,
3,c
`)
	table, err := ReadCSV(path)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(table, out))

	again, err := ReadCSV(out)
	require.NoError(t, err)
	assert.Equal(t, table.NumRows(), again.NumRows())
	assert.Equal(t, table.Names(), again.Names())

	x, err := again.Column("x")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(x.Floats[1]))
	assert.Equal(t, 3.0, x.Floats[2])
}
