package dataset

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cast"

	"github.com/davidleathers/dependable-data-quality/internal/domain/errors"
)

// Kind identifies the inferred value kind of a column
type Kind string

const (
	KindNumeric  Kind = "numeric"
	KindText     Kind = "text"
	KindBool     Kind = "bool"
	KindTemporal Kind = "temporal"
)

// Column is a named, typed, nullable sequence of values. Columns are
// immutable once constructed; the engines read, never mutate, so a
// column is safe to share across concurrent rule evaluations.
type Column struct {
	name string
	kind Kind

	numeric []float64
	text    []string
	times   []time.Time
	bools   []bool

	// valid[i] == false means the cell at row i is null
	valid []bool
}

// NewColumn builds a column from raw values, inferring the kind from the
// first non-nil value. A nil entry is a null cell. Numeric inputs accept
// any int/uint/float width via cast; temporal inputs accept time.Time.
func NewColumn(name string, values []interface{}) (*Column, error) {
	if name == "" {
		return nil, errors.NewValidationError("EMPTY_COLUMN_NAME", "column name cannot be empty")
	}

	kind := inferKind(values)
	col := newTypedColumn(name, kind, len(values))

	for i, v := range values {
		if v == nil {
			continue
		}

		switch kind {
		case KindNumeric:
			f, err := cast.ToFloat64E(v)
			if err != nil {
				return nil, errors.NewValidationError("MIXED_COLUMN_VALUES",
					fmt.Sprintf("column '%s' row %d: %v is not numeric", name, i, v))
			}
			col.numeric[i] = f
		case KindBool:
			b, ok := v.(bool)
			if !ok {
				return nil, errors.NewValidationError("MIXED_COLUMN_VALUES",
					fmt.Sprintf("column '%s' row %d: %v is not a bool", name, i, v))
			}
			col.bools[i] = b
		case KindTemporal:
			t, ok := v.(time.Time)
			if !ok {
				return nil, errors.NewValidationError("MIXED_COLUMN_VALUES",
					fmt.Sprintf("column '%s' row %d: %v is not a time", name, i, v))
			}
			col.times[i] = t
		default:
			s, err := cast.ToStringE(v)
			if err != nil {
				return nil, errors.NewValidationError("MIXED_COLUMN_VALUES",
					fmt.Sprintf("column '%s' row %d: cannot represent %v as text", name, i, v))
			}
			col.text[i] = s
		}
		col.valid[i] = true
	}

	return col, nil
}

// MustNewColumn builds a column and panics on error (for tests)
func MustNewColumn(name string, values []interface{}) *Column {
	col, err := NewColumn(name, values)
	if err != nil {
		panic(err)
	}
	return col
}

// NewNumericColumn builds a numeric column; math.NaN entries are not
// treated as nulls, pass valid=false positions via NewColumn with nil.
func NewNumericColumn(name string, values []float64) *Column {
	col := newTypedColumn(name, KindNumeric, len(values))
	copy(col.numeric, values)
	for i := range col.valid {
		col.valid[i] = true
	}
	col.name = name
	return col
}

func newTypedColumn(name string, kind Kind, n int) *Column {
	col := &Column{
		name:  name,
		kind:  kind,
		valid: make([]bool, n),
	}

	switch kind {
	case KindNumeric:
		col.numeric = make([]float64, n)
	case KindBool:
		col.bools = make([]bool, n)
	case KindTemporal:
		col.times = make([]time.Time, n)
	default:
		col.text = make([]string, n)
	}

	return col
}

// inferKind picks the column kind from the first non-nil value. An
// entirely-null column defaults to text; nothing downstream computes
// kind-specific statistics over it anyway.
func inferKind(values []interface{}) Kind {
	for _, v := range values {
		if v == nil {
			continue
		}
		switch v.(type) {
		case bool:
			return KindBool
		case time.Time:
			return KindTemporal
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			return KindNumeric
		default:
			return KindText
		}
	}
	return KindText
}

// Name returns the column name
func (c *Column) Name() string { return c.name }

// Kind returns the inferred value kind
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of rows including nulls
func (c *Column) Len() int { return len(c.valid) }

// IsNull reports whether the cell at row i is null
func (c *Column) IsNull(i int) bool { return !c.valid[i] }

// NullCount returns the number of null cells
func (c *Column) NullCount() int {
	n := 0
	for _, ok := range c.valid {
		if !ok {
			n++
		}
	}
	return n
}

// NonNullCount returns the number of populated cells
func (c *Column) NonNullCount() int {
	return c.Len() - c.NullCount()
}

// Float returns the numeric value at row i; ok is false for nulls and
// non-numeric columns
func (c *Column) Float(i int) (float64, bool) {
	if c.kind != KindNumeric || !c.valid[i] {
		return 0, false
	}
	return c.numeric[i], true
}

// Time returns the temporal value at row i; ok is false for nulls and
// non-temporal columns
func (c *Column) Time(i int) (time.Time, bool) {
	if c.kind != KindTemporal || !c.valid[i] {
		return time.Time{}, false
	}
	return c.times[i], true
}

// StringValue returns the canonical string form of the cell at row i;
// ok is false for nulls
func (c *Column) StringValue(i int) (string, bool) {
	if !c.valid[i] {
		return "", false
	}

	switch c.kind {
	case KindNumeric:
		return strconv.FormatFloat(c.numeric[i], 'g', -1, 64), true
	case KindBool:
		return strconv.FormatBool(c.bools[i]), true
	case KindTemporal:
		return c.times[i].Format(time.RFC3339), true
	default:
		return c.text[i], true
	}
}

// Value returns the cell at row i as an untyped value, nil for nulls
func (c *Column) Value(i int) interface{} {
	if !c.valid[i] {
		return nil
	}

	switch c.kind {
	case KindNumeric:
		return c.numeric[i]
	case KindBool:
		return c.bools[i]
	case KindTemporal:
		return c.times[i]
	default:
		return c.text[i]
	}
}

// CellKey returns a canonical key for the cell at row i, used for
// uniqueness and duplicate-row detection. All nulls share one key.
func (c *Column) CellKey(i int) string {
	if !c.valid[i] {
		return "\x00null"
	}
	s, _ := c.StringValue(i)
	return s
}

// UniqueCount returns the number of distinct non-null values
func (c *Column) UniqueCount() int {
	seen := make(map[string]struct{}, c.Len())
	for i := range c.valid {
		if !c.valid[i] {
			continue
		}
		seen[c.CellKey(i)] = struct{}{}
	}
	return len(seen)
}

// Floats returns the non-null numeric values in row order. The slice is
// freshly allocated and safe to sort or mutate.
func (c *Column) Floats() []float64 {
	if c.kind != KindNumeric {
		return nil
	}
	out := make([]float64, 0, c.Len())
	for i, ok := range c.valid {
		if ok {
			out = append(out, c.numeric[i])
		}
	}
	return out
}

// take builds a new column from the given row indices
func (c *Column) take(indices []int) *Column {
	out := newTypedColumn(c.name, c.kind, len(indices))
	for j, i := range indices {
		out.valid[j] = c.valid[i]
		switch c.kind {
		case KindNumeric:
			out.numeric[j] = c.numeric[i]
		case KindBool:
			out.bools[j] = c.bools[i]
		case KindTemporal:
			out.times[j] = c.times[i]
		default:
			out.text[j] = c.text[i]
		}
	}
	return out
}
