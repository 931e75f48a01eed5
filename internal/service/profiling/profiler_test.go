package profiling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidleathers/dependable-data-quality/internal/domain/dataset"
	"github.com/davidleathers/dependable-data-quality/internal/testutil"
)

func newProfiler() *Profiler {
	return NewProfiler(DefaultConfig(), nil)
}

func TestProfileOverallCompleteness(t *testing.T) {
	ds := dataset.MustNew("t",
		dataset.MustNewColumn("a", []interface{}{1, nil, 3, 4}),
		dataset.MustNewColumn("b", []interface{}{"w", "x", nil, "z"}),
	)

	report := newProfiler().Profile(ds, "t", 0)

	// 6 of 8 cells populated
	assert.InDelta(t, 0.75, report.OverallCompleteness, 1e-9)
	assert.Equal(t, 4, report.RowCount)
	assert.Equal(t, 2, report.ColumnCount)
	assert.Equal(t, []string{"a", "b"}, report.ColumnOrder)
}

func TestProfileMixedKinds(t *testing.T) {
	report := newProfiler().Profile(testutil.SimpleDataset(t), "orders", 0)

	// 8 of 9 cells populated
	assert.InDelta(t, 8.0/9.0, report.OverallCompleteness, 1e-9)
	assert.Equal(t, dataset.KindNumeric, report.Columns["id"].Kind)
	assert.Equal(t, dataset.KindText, report.Columns["name"].Kind)
	require.NotNil(t, report.Columns["amount"].Mean)
}

func TestProfileEmptyDataset(t *testing.T) {
	ds := testutil.EmptyDataset(t)

	report := newProfiler().Profile(ds, "empty", 0)

	assert.Equal(t, 0, report.RowCount)
	assert.Equal(t, 0.0, report.OverallCompleteness)
	assert.Equal(t, 0.0, report.OverallUniqueness)
	assert.Equal(t, 0, report.DuplicateRows)
}

func TestProfileNumericColumn(t *testing.T) {
	ds := dataset.MustNew("t",
		dataset.MustNewColumn("x", []interface{}{1.0, 2.0, 3.0, 4.0, 5.0}),
	)

	report := newProfiler().Profile(ds, "t", 0)
	cp := report.Columns["x"]
	require.NotNil(t, cp)

	require.NotNil(t, cp.Mean)
	assert.InDelta(t, 3.0, *cp.Mean, 1e-9)
	require.NotNil(t, cp.Min)
	assert.Equal(t, 1.0, *cp.Min)
	require.NotNil(t, cp.Max)
	assert.Equal(t, 5.0, *cp.Max)
	require.NotNil(t, cp.Median)
	assert.InDelta(t, 3.0, *cp.Median, 1e-9)
	assert.Contains(t, cp.Percentiles, "p50")
	assert.Contains(t, cp.Percentiles, "p99")
	require.NotNil(t, cp.Skewness)
	assert.InDelta(t, 0.0, *cp.Skewness, 1e-9)
	assert.Equal(t, 0, cp.OutliersCount)

	// every value unique, ties break to the smallest
	assert.Equal(t, 1.0, cp.Mode)
	assert.Equal(t, 1, cp.ModeFrequency)
}

func TestProfilePercentileKeysRounded(t *testing.T) {
	cfg := DefaultConfig()
	// both multiply to 28.999... / 56.999... in float64
	cfg.Percentiles = []float64{0.29, 0.57}
	p := NewProfiler(cfg, nil)

	ds := dataset.MustNew("t",
		dataset.MustNewColumn("x", []interface{}{1.0, 2.0, 3.0}),
	)

	report := p.Profile(ds, "t", 0)
	cp := report.Columns["x"]

	assert.Contains(t, cp.Percentiles, "p29")
	assert.Contains(t, cp.Percentiles, "p57")
	assert.Len(t, cp.Percentiles, 2)
}

func TestProfileEntirelyNullColumn(t *testing.T) {
	ds := dataset.MustNew("t",
		dataset.MustNewColumn("x", []interface{}{nil, nil, nil}),
	)

	report := newProfiler().Profile(ds, "t", 0)
	cp := report.Columns["x"]

	assert.Equal(t, 3, cp.NullCount)
	assert.InDelta(t, 100.0, cp.NullPercentage, 1e-9)
	assert.Nil(t, cp.Mean)
	assert.Contains(t, cp.Warnings, "Column is entirely null")
}

func TestProfileCategoricalColumn(t *testing.T) {
	ds := dataset.MustNew("t",
		dataset.MustNewColumn("status", []interface{}{"open", "open", "closed", nil}),
	)

	report := newProfiler().Profile(ds, "t", 0)
	cp := report.Columns["status"]

	assert.Equal(t, "open", cp.Mode)
	assert.Equal(t, 2, cp.ModeFrequency)
	require.NotEmpty(t, cp.TopValues)
	assert.Equal(t, "open", cp.TopValues[0].Value)
	assert.Equal(t, 2, cp.TopValues[0].Count)
	require.NotNil(t, cp.MinLength)
	assert.Equal(t, 4, *cp.MinLength)
	require.NotNil(t, cp.MaxLength)
	assert.Equal(t, 6, *cp.MaxLength)
}

func TestProfileTemporalColumn(t *testing.T) {
	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)
	ds := dataset.MustNew("t",
		testutil.TimeColumn(t, "when", "2025-01-01T00:00:00Z", "2025-01-11T00:00:00Z", ""),
	)

	report := newProfiler().Profile(ds, "t", 0)
	cp := report.Columns["when"]

	require.NotNil(t, cp.MinTime)
	assert.Equal(t, early, *cp.MinTime)
	require.NotNil(t, cp.MaxTime)
	assert.Equal(t, late, *cp.MaxTime)
	require.NotNil(t, cp.DateRangeDays)
	assert.Equal(t, 10, *cp.DateRangeDays)
}

func TestProfileCorrelations(t *testing.T) {
	ds := dataset.MustNew("t",
		dataset.MustNewColumn("a", []interface{}{1.0, 2.0, 3.0, 4.0}),
		dataset.MustNewColumn("b", []interface{}{2.0, 4.0, 6.0, 8.0}),
		dataset.MustNewColumn("name", []interface{}{"w", "x", "y", "z"}),
	)

	report := newProfiler().Profile(ds, "t", 0)

	require.NotNil(t, report.Correlations)
	assert.InDelta(t, 1.0, report.Correlations["a"]["b"], 1e-9)
	require.Len(t, report.HighCorrelations, 1)
	assert.Equal(t, "a", report.HighCorrelations[0].Column1)
	assert.Equal(t, "b", report.HighCorrelations[0].Column2)
}

func TestProfileSingleNumericColumnSkipsCorrelations(t *testing.T) {
	ds := dataset.MustNew("t",
		dataset.MustNewColumn("a", []interface{}{1.0, 2.0}),
	)

	report := newProfiler().Profile(ds, "t", 0)
	assert.Nil(t, report.Correlations)
	assert.Empty(t, report.HighCorrelations)
}

func TestProfileSamplingIsDeterministic(t *testing.T) {
	values := make([]interface{}, 200)
	for i := range values {
		values[i] = float64(i)
	}
	ds := dataset.MustNew("t", dataset.MustNewColumn("a", values))

	p := newProfiler()
	r1 := p.Profile(ds, "t", 50)
	r2 := p.Profile(ds, "t", 50)

	assert.Equal(t, 50, r1.RowCount)
	assert.Equal(t, *r1.Columns["a"].Mean, *r2.Columns["a"].Mean)
	assert.Equal(t, *r1.Columns["a"].Min, *r2.Columns["a"].Min)
}

func TestProfileWarningsAndRecommendations(t *testing.T) {
	mostlyNull := make([]interface{}, 10)
	mostlyNull[0] = "a"
	ds := dataset.MustNew("t",
		dataset.MustNewColumn("sparse", mostlyNull),
	)

	report := newProfiler().Profile(ds, "t", 0)
	cp := report.Columns["sparse"]

	assert.NotEmpty(t, cp.Warnings)
	assert.Contains(t, cp.Recommendations, "Consider imputation or investigating data source")
	assert.NotEmpty(t, report.Warnings)
}

func TestProfileDuplicateRows(t *testing.T) {
	ds := dataset.MustNew("t",
		dataset.MustNewColumn("a", []interface{}{1, 1, 2}),
		dataset.MustNewColumn("b", []interface{}{"x", "x", "y"}),
	)

	report := newProfiler().Profile(ds, "t", 0)
	assert.Equal(t, 1, report.DuplicateRows)
	assert.InDelta(t, 33.33, report.DuplicatePercentage, 0.01)
}
