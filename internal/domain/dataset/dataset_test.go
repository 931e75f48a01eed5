package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewColumnInference(t *testing.T) {
	tests := []struct {
		name   string
		values []interface{}
		want   Kind
	}{
		{"ints are numeric", []interface{}{1, 2, 3}, KindNumeric},
		{"floats are numeric", []interface{}{1.5, nil, 2.5}, KindNumeric},
		{"strings are text", []interface{}{"a", "b"}, KindText},
		{"bools", []interface{}{true, false}, KindBool},
		{"times are temporal", []interface{}{time.Now()}, KindTemporal},
		{"leading nulls skipped", []interface{}{nil, nil, 7}, KindNumeric},
		{"all nulls default to text", []interface{}{nil, nil}, KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, err := NewColumn("c", tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, col.Kind())
		})
	}
}

func TestNewColumnRejectsMixedValues(t *testing.T) {
	_, err := NewColumn("c", []interface{}{1, "two"})
	require.Error(t, err)

	_, err = NewColumn("", []interface{}{1})
	require.Error(t, err)
}

func TestColumnNullAccounting(t *testing.T) {
	col := MustNewColumn("c", []interface{}{1, nil, 3, nil})

	assert.Equal(t, 4, col.Len())
	assert.Equal(t, 2, col.NullCount())
	assert.Equal(t, 2, col.NonNullCount())
	assert.True(t, col.IsNull(1))
	assert.False(t, col.IsNull(0))

	_, ok := col.Float(1)
	assert.False(t, ok)
	v, ok := col.Float(2)
	require.True(t, ok)
	assert.Equal(t, 3.0, v)

	assert.Nil(t, col.Value(1))
	assert.Equal(t, []float64{1, 3}, col.Floats())
}

func TestColumnUniqueCountIgnoresNulls(t *testing.T) {
	col := MustNewColumn("c", []interface{}{"a", "a", "b", nil, nil})
	assert.Equal(t, 2, col.UniqueCount())
}

func TestNewDatasetValidation(t *testing.T) {
	a := MustNewColumn("a", []interface{}{1, 2})
	b := MustNewColumn("b", []interface{}{"x", "y"})
	short := MustNewColumn("short", []interface{}{1})
	dup := MustNewColumn("a", []interface{}{9, 9})

	ds, err := New("t", a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, []string{"a", "b"}, ds.ColumnNames())

	_, err = New("t", a, short)
	require.Error(t, err)

	_, err = New("t", a, dup)
	require.Error(t, err)

	_, err = New("t", a, nil)
	require.Error(t, err)
}

func TestDuplicateRowCount(t *testing.T) {
	ds := MustNew("t",
		MustNewColumn("a", []interface{}{1, 1, 1, 2}),
		MustNewColumn("b", []interface{}{"x", "x", "y", nil}),
	)

	// rows 0 and 1 are identical; the first occurrence is not counted
	assert.Equal(t, 1, ds.DuplicateRowCount())
}

func TestDuplicateRowCountTreatsNullsAsEqual(t *testing.T) {
	ds := MustNew("t",
		MustNewColumn("a", []interface{}{nil, nil}),
		MustNewColumn("b", []interface{}{nil, nil}),
	)
	assert.Equal(t, 1, ds.DuplicateRowCount())
}

func TestSampleIsDeterministic(t *testing.T) {
	values := make([]interface{}, 100)
	for i := range values {
		values[i] = i
	}
	ds := MustNew("t", MustNewColumn("a", values))

	s1 := ds.Sample(10, 42)
	s2 := ds.Sample(10, 42)

	require.Equal(t, 10, s1.RowCount())
	col1, _ := s1.Column("a")
	col2, _ := s2.Column("a")
	assert.Equal(t, col1.Floats(), col2.Floats())

	// sampled rows keep the original order
	floats := col1.Floats()
	for i := 1; i < len(floats); i++ {
		assert.Greater(t, floats[i], floats[i-1])
	}
}

func TestSampleLargerThanDatasetReturnsReceiver(t *testing.T) {
	ds := MustNew("t", MustNewColumn("a", []interface{}{1, 2, 3}))
	assert.Same(t, ds, ds.Sample(10, 42))
}

func TestMaxTime(t *testing.T) {
	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	ds := MustNew("t",
		MustNewColumn("created_at", []interface{}{early, late, nil}),
		MustNewColumn("name", []interface{}{"a", "b", "c"}),
	)

	got, ok := ds.MaxTime("created_at")
	require.True(t, ok)
	assert.Equal(t, late, got)

	_, ok = ds.MaxTime("name")
	assert.False(t, ok)
	_, ok = ds.MaxTime("missing")
	assert.False(t, ok)
}

func TestCellAndNullCounts(t *testing.T) {
	ds := MustNew("t",
		MustNewColumn("a", []interface{}{1, nil, 3, 4}),
		MustNewColumn("b", []interface{}{"w", "x", nil, "z"}),
	)

	assert.Equal(t, 8, ds.CellCount())
	assert.Equal(t, 2, ds.NullCount())
}
