package dataset

import (
	"sort"

	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
)

// MissingStat summarizes the missing values of one column.
type MissingStat struct {
	Column  string
	Count   int
	Percent float64
}

// MissingProfile returns per-column missing-value statistics for the
// columns that have at least one missing value, sorted by percentage
// descending.
func (t *Table) MissingProfile() []MissingStat {
	n := t.NumRows()
	if n == 0 {
		return nil
	}
	var stats []MissingStat
	for _, c := range t.cols {
		count := c.MissingCount()
		if count == 0 {
			continue
		}
		stats = append(stats, MissingStat{
			Column:  c.Name,
			Count:   count,
			Percent: float64(count) / float64(n) * 100,
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Percent > stats[j].Percent })
	return stats
}

// DropHighMissing returns a new table without the columns whose
// missing-value fraction exceeds threshold, along with the dropped
// column names. A warning is raised for each dropped column.
func (t *Table) DropHighMissing(threshold float64) (*Table, []string) {
	n := t.NumRows()
	if n == 0 {
		return t, nil
	}
	var dropped []string
	for _, c := range t.cols {
		ratio := float64(c.MissingCount()) / float64(n)
		if ratio > threshold {
			dropped = append(dropped, c.Name)
			errors.Warn(errors.NewDroppedColumnWarning(
				c.Name, "missing-value ratio above threshold", ratio))
		}
	}
	if len(dropped) == 0 {
		return t, nil
	}
	return t.Drop(dropped...), dropped
}
