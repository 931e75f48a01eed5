package testutil

import (
	"testing"
	"time"

	"github.com/davidleathers/dependable-data-quality/internal/domain/dataset"
)

// NumericColumn builds a numeric column where nil entries are nulls
func NumericColumn(t *testing.T, name string, values ...interface{}) *dataset.Column {
	t.Helper()
	return dataset.MustNewColumn(name, values)
}

// TextColumn builds a text column where nil entries are nulls
func TextColumn(t *testing.T, name string, values ...interface{}) *dataset.Column {
	t.Helper()
	return dataset.MustNewColumn(name, values)
}

// TimeColumn builds a temporal column from RFC3339 strings; empty
// strings are nulls
func TimeColumn(t *testing.T, name string, values ...string) *dataset.Column {
	t.Helper()
	raw := make([]interface{}, len(values))
	for i, s := range values {
		if s == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t.Fatalf("bad time fixture %q: %v", s, err)
		}
		raw[i] = ts
	}
	return dataset.MustNewColumn(name, raw)
}

// SimpleDataset builds a small mixed-kind dataset used across engine
// tests: three rows with an id, a name with one null, and an amount.
func SimpleDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	return dataset.MustNew("orders",
		NumericColumn(t, "id", 1, 2, 3),
		TextColumn(t, "name", "alpha", nil, "gamma"),
		NumericColumn(t, "amount", 10.5, 20.0, 30.25),
	)
}

// EmptyDataset builds a dataset with columns but zero rows
func EmptyDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	return dataset.MustNew("empty",
		dataset.MustNewColumn("id", nil),
		dataset.MustNewColumn("name", nil),
	)
}
