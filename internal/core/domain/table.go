package domain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// FeatureTable is an immutable, row-oriented table of client features.
// One column holds the client identifier; every other column is numeric.
type FeatureTable struct {
	columns  []string
	rows     [][]float64
	idColumn string
	idIndex  int
	byID     map[int64][]int
	means    []float64
	stdDevs  []float64
}

// NewFeatureTable builds a table and its identifier index. A missing identifier
// column is not an error here: lookups report it so every request can fail the same way.
func NewFeatureTable(columns []string, rows [][]float64, idColumn string) (*FeatureTable, error) {
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d", ErrTableParse, i+1, len(row), len(columns))
		}
	}

	t := &FeatureTable{
		columns:  append([]string(nil), columns...),
		rows:     rows,
		idColumn: idColumn,
		idIndex:  -1,
	}

	for i, name := range columns {
		if name == idColumn {
			t.idIndex = i
			break
		}
	}

	if t.idIndex >= 0 {
		t.byID = make(map[int64][]int, len(rows))
		for i, row := range rows {
			v := row[t.idIndex]
			if math.IsNaN(v) || v != math.Trunc(v) {
				return nil, fmt.Errorf("%w: row %d has non-integer %s %v", ErrTableParse, i+1, idColumn, v)
			}
			id := int64(v)
			t.byID[id] = append(t.byID[id], i)
		}
	}

	t.computeStats()
	return t, nil
}

func (t *FeatureTable) computeStats() {
	t.means = make([]float64, len(t.columns))
	t.stdDevs = make([]float64, len(t.columns))

	col := make([]float64, 0, len(t.rows))
	for j := range t.columns {
		col = col[:0]
		for _, row := range t.rows {
			if !math.IsNaN(row[j]) {
				col = append(col, row[j])
			}
		}
		switch len(col) {
		case 0:
			t.means[j] = math.NaN()
		case 1:
			t.means[j] = col[0]
		default:
			t.means[j], t.stdDevs[j] = stat.MeanStdDev(col, nil)
		}
	}
}

// IDColumn returns the configured identifier column name.
func (t *FeatureTable) IDColumn() string { return t.idColumn }

// HasIDColumn reports whether the identifier column is present.
func (t *FeatureTable) HasIDColumn() bool { return t.idIndex >= 0 }

// Len returns the number of rows.
func (t *FeatureTable) Len() int { return len(t.rows) }

// Columns returns all column names in source order.
func (t *FeatureTable) Columns() []string { return append([]string(nil), t.columns...) }

// FeatureColumns returns the column names with the identifier column dropped.
func (t *FeatureTable) FeatureColumns() []string {
	out := make([]string, 0, len(t.columns))
	for i, name := range t.columns {
		if i != t.idIndex {
			out = append(out, name)
		}
	}
	return out
}

// Lookup returns the feature rows (identifier dropped) whose identifier equals id.
func (t *FeatureTable) Lookup(id int64) ([][]float64, error) {
	if !t.HasIDColumn() {
		return nil, fmt.Errorf("%w: column '%s' is missing from the feature table", ErrIDColumnMissing, t.idColumn)
	}

	idx := t.byID[id]
	out := make([][]float64, 0, len(idx))
	for _, i := range idx {
		out = append(out, t.dropID(t.rows[i]))
	}
	return out, nil
}

// FeatureStats returns per-feature means and standard deviations, aligned with FeatureColumns.
func (t *FeatureTable) FeatureStats() (means, stdDevs []float64) {
	return t.dropID(t.means), t.dropID(t.stdDevs)
}

func (t *FeatureTable) dropID(row []float64) []float64 {
	out := make([]float64, 0, len(row))
	for i, v := range row {
		if i != t.idIndex {
			out = append(out, v)
		}
	}
	return out
}
