package dataset

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/davidleathers/dependable-data-quality/internal/domain/errors"
)

// Dataset is an in-memory columnar table: an ordered sequence of named
// columns with a uniform row count. The quality engines treat a Dataset
// as read-only, which makes it safe to share across concurrently
// executing rule evaluations.
type Dataset struct {
	name    string
	order   []string
	columns map[string]*Column
	rows    int
}

// New builds a dataset from columns. Column order is preserved and all
// columns must agree on row count.
func New(name string, columns ...*Column) (*Dataset, error) {
	ds := &Dataset{
		name:    name,
		order:   make([]string, 0, len(columns)),
		columns: make(map[string]*Column, len(columns)),
	}

	for i, col := range columns {
		if col == nil {
			return nil, errors.NewValidationError("NIL_COLUMN",
				fmt.Sprintf("column at position %d is nil", i))
		}
		if _, dup := ds.columns[col.Name()]; dup {
			return nil, errors.NewValidationError("DUPLICATE_COLUMN",
				fmt.Sprintf("column '%s' appears more than once", col.Name()))
		}
		if i == 0 {
			ds.rows = col.Len()
		} else if col.Len() != ds.rows {
			return nil, errors.NewValidationError("RAGGED_COLUMNS",
				fmt.Sprintf("column '%s' has %d rows, expected %d", col.Name(), col.Len(), ds.rows))
		}

		ds.order = append(ds.order, col.Name())
		ds.columns[col.Name()] = col
	}

	return ds, nil
}

// MustNew builds a dataset and panics on error (for tests)
func MustNew(name string, columns ...*Column) *Dataset {
	ds, err := New(name, columns...)
	if err != nil {
		panic(err)
	}
	return ds
}

// Name returns the dataset name
func (d *Dataset) Name() string { return d.name }

// RowCount returns the number of rows
func (d *Dataset) RowCount() int { return d.rows }

// ColumnCount returns the number of columns
func (d *Dataset) ColumnCount() int { return len(d.order) }

// ColumnNames returns the column names in dataset order
func (d *Dataset) ColumnNames() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Column returns the named column, ok is false when absent
func (d *Dataset) Column(name string) (*Column, bool) {
	col, ok := d.columns[name]
	return col, ok
}

// Columns returns the columns in dataset order
func (d *Dataset) Columns() []*Column {
	out := make([]*Column, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.columns[name])
	}
	return out
}

// NullCount returns the total number of null cells across all columns
func (d *Dataset) NullCount() int {
	n := 0
	for _, name := range d.order {
		n += d.columns[name].NullCount()
	}
	return n
}

// CellCount returns rows * columns
func (d *Dataset) CellCount() int {
	return d.rows * len(d.order)
}

// DuplicateRowCount returns the number of rows that are exact duplicates
// of an earlier row (first occurrence is not counted)
func (d *Dataset) DuplicateRowCount() int {
	if d.rows == 0 || len(d.order) == 0 {
		return 0
	}

	seen := make(map[string]struct{}, d.rows)
	dups := 0
	var sb strings.Builder
	for i := 0; i < d.rows; i++ {
		sb.Reset()
		for _, name := range d.order {
			sb.WriteString(d.columns[name].CellKey(i))
			sb.WriteByte('\x1f')
		}
		key := sb.String()
		if _, ok := seen[key]; ok {
			dups++
		} else {
			seen[key] = struct{}{}
		}
	}
	return dups
}

// Sample returns a new dataset holding n rows drawn without replacement
// using the given seed. Row order of the sample follows the original
// dataset so repeated profiling of the same data stays deterministic.
// When n >= RowCount the receiver is returned unchanged.
func (d *Dataset) Sample(n int, seed int64) *Dataset {
	if n >= d.rows {
		return d
	}

	rng := rand.New(rand.NewSource(seed))
	indices := rng.Perm(d.rows)[:n]
	sort.Ints(indices)

	cols := make([]*Column, 0, len(d.order))
	for _, name := range d.order {
		cols = append(cols, d.columns[name].take(indices))
	}

	sampled, _ := New(d.name, cols...)
	return sampled
}

// MemoryUsageMB estimates the in-memory footprint of the dataset in
// megabytes. Cell costs are approximated per kind; text cells add their
// byte length on top of the string header.
func (d *Dataset) MemoryUsageMB() float64 {
	var bytes int64
	for _, name := range d.order {
		col := d.columns[name]
		switch col.Kind() {
		case KindNumeric:
			bytes += int64(col.Len()) * 8
		case KindBool:
			bytes += int64(col.Len())
		case KindTemporal:
			bytes += int64(col.Len()) * int64(24)
		default:
			bytes += int64(col.Len()) * 16
			for i := 0; i < col.Len(); i++ {
				if s, ok := col.StringValue(i); ok {
					bytes += int64(len(s))
				}
			}
		}
		bytes += int64(col.Len()) // validity mask
	}
	return float64(bytes) / 1024 / 1024
}

// MaxTime returns the latest non-null value of a temporal column, used
// for freshness checks. ok is false when the column is missing, not
// temporal, or entirely null.
func (d *Dataset) MaxTime(column string) (time.Time, bool) {
	col, ok := d.columns[column]
	if !ok || col.Kind() != KindTemporal {
		return time.Time{}, false
	}

	var max time.Time
	found := false
	for i := 0; i < col.Len(); i++ {
		if t, ok := col.Time(i); ok {
			if !found || t.After(max) {
				max = t
				found = true
			}
		}
	}
	return max, found
}
