package profiling

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/davidleathers/dependable-data-quality/internal/domain/dataset"
	"github.com/davidleathers/dependable-data-quality/internal/domain/profile"
	"github.com/davidleathers/dependable-data-quality/internal/domain/values"
)

// sampleSeed fixes the sampling permutation so repeated profiling of
// the same dataset yields identical reports
const sampleSeed = 42

// Config controls which statistics the profiler computes
type Config struct {
	EnableStatistics     bool
	EnableDistributions  bool
	EnableCorrelations   bool
	CorrelationThreshold float64
	OutlierMethod        values.OutlierMethod
	Percentiles          []float64
}

// DefaultConfig returns the standard profiler configuration
func DefaultConfig() Config {
	return Config{
		EnableStatistics:     true,
		EnableDistributions:  true,
		EnableCorrelations:   true,
		CorrelationThreshold: 0.7,
		OutlierMethod:        values.IQR(),
		Percentiles:          []float64{0.1, 0.25, 0.5, 0.75, 0.9, 0.95, 0.99},
	}
}

// Profiler computes per-column statistics and dataset-level quality
// aggregates. It reads the dataset and never mutates it.
type Profiler struct {
	config Config
	logger *zap.Logger
}

// NewProfiler creates a profiler
func NewProfiler(config Config, logger *zap.Logger) *Profiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.CorrelationThreshold <= 0 {
		config.CorrelationThreshold = 0.7
	}
	if config.OutlierMethod.IsZero() {
		config.OutlierMethod = values.IQR()
	}
	if len(config.Percentiles) == 0 {
		config.Percentiles = DefaultConfig().Percentiles
	}

	return &Profiler{config: config, logger: logger}
}

// Profile generates the complete profile for a dataset. When sampleSize
// is positive and the dataset is larger, a deterministic random sample
// is profiled instead and all reported counts reflect the sample.
func (p *Profiler) Profile(ds *dataset.Dataset, datasetName string, sampleSize int) *profile.ProfileReport {
	if sampleSize > 0 && ds.RowCount() > sampleSize {
		p.logger.Debug("sampling dataset",
			zap.String("dataset", datasetName),
			zap.Int("rows", ds.RowCount()),
			zap.Int("sample_size", sampleSize))
		ds = ds.Sample(sampleSize, sampleSeed)
	}

	rowCount := ds.RowCount()
	duplicates := ds.DuplicateRowCount()
	duplicatePct := 0.0
	if rowCount > 0 {
		duplicatePct = float64(duplicates) / float64(rowCount) * 100
	}

	columns := make(map[string]*profile.ColumnProfile, ds.ColumnCount())
	for _, col := range ds.Columns() {
		columns[col.Name()] = p.profileColumn(col)
	}

	var matrix map[string]map[string]float64
	var highCorr []profile.CorrelationPair
	if p.config.EnableCorrelations {
		var names []string
		matrix, names = correlationMatrix(ds)
		if matrix != nil {
			highCorr = highCorrelations(matrix, names, p.config.CorrelationThreshold)
		}
	}

	totalCells := ds.CellCount()
	completeness := 0.0
	uniqueness := 0.0
	if totalCells > 0 {
		nulls := 0
		uniques := 0
		for _, cp := range columns {
			nulls += cp.NullCount
			uniques += cp.UniqueCount
		}
		completeness = 1 - float64(nulls)/float64(totalCells)
		uniqueness = float64(uniques) / float64(totalCells)
	}

	report := &profile.ProfileReport{
		DatasetName:         datasetName,
		ProfiledAt:          time.Now(),
		RowCount:            rowCount,
		ColumnCount:         ds.ColumnCount(),
		MemoryUsageMB:       ds.MemoryUsageMB(),
		Columns:             columns,
		ColumnOrder:         ds.ColumnNames(),
		Correlations:        matrix,
		HighCorrelations:    highCorr,
		OverallCompleteness: completeness,
		OverallUniqueness:   uniqueness,
		DuplicateRows:       duplicates,
		DuplicatePercentage: duplicatePct,
	}
	report.Warnings = datasetWarnings(columns, duplicatePct)
	report.Recommendations = datasetRecommendations(ds.ColumnNames(), columns)

	p.logger.Info("profiling complete",
		zap.String("dataset", datasetName),
		zap.Int("rows", rowCount),
		zap.Int("columns", ds.ColumnCount()),
		zap.Float64("completeness", completeness))

	return report
}

func (p *Profiler) profileColumn(col *dataset.Column) *profile.ColumnProfile {
	cp := &profile.ColumnProfile{
		Name:      col.Name(),
		Kind:      col.Kind(),
		Count:     col.Len(),
		NullCount: col.NullCount(),
	}

	if cp.Count > 0 {
		cp.NullPercentage = float64(cp.NullCount) / float64(cp.Count) * 100
	}
	cp.UniqueCount = col.UniqueCount()
	if cp.Count > 0 {
		cp.UniquePercentage = float64(cp.UniqueCount) / float64(cp.Count) * 100
	}

	if col.NonNullCount() == 0 {
		cp.Warnings = append(cp.Warnings, "Column is entirely null")
		return cp
	}

	switch col.Kind() {
	case dataset.KindNumeric:
		p.profileNumeric(col, cp)
	case dataset.KindTemporal:
		p.profileTemporal(col, cp)
	default:
		p.profileCategorical(col, cp)
	}

	cp.Warnings = append(cp.Warnings, columnWarnings(cp)...)
	cp.Recommendations = append(cp.Recommendations, columnRecommendations(cp)...)

	return cp
}

func (p *Profiler) profileNumeric(col *dataset.Column, cp *profile.ColumnProfile) {
	sorted := col.Floats()
	sort.Float64s(sorted)
	n := len(sorted)

	if p.config.EnableStatistics {
		d := describeSample(sorted)
		cp.Mean = &d.mean
		cp.Std = &d.std
		cp.Min = &d.min
		cp.Max = &d.max
		cp.Median = &d.median

		cp.Percentiles = make(map[string]float64, len(p.config.Percentiles))
		for _, q := range p.config.Percentiles {
			key := fmt.Sprintf("p%d", int(math.Round(q*100)))
			cp.Percentiles[key] = quantile(q, sorted)
		}
	}

	if p.config.EnableDistributions {
		skew := stat.Skew(sorted, nil)
		kurt := stat.ExKurtosis(sorted, nil)
		cp.Skewness = &skew
		cp.Kurtosis = &kurt

		if isNormal, ok := normalTest(sorted); ok {
			cp.IsNormal = &isNormal
		}

		if p.config.OutlierMethod.String() == values.OutlierMethodZScore {
			cp.OutliersCount = outlierCountZScore(sorted)
		} else {
			cp.OutliersCount = outlierCountIQR(sorted)
		}
		if n > 0 {
			cp.OutliersPercentage = float64(cp.OutliersCount) / float64(n) * 100
		}
	}

	mode, freq := modeOf(sorted)
	cp.Mode = mode
	cp.ModeFrequency = freq
}

func (p *Profiler) profileCategorical(col *dataset.Column, cp *profile.ColumnProfile) {
	counts := make(map[string]int, col.Len())
	var lengthSum int
	minLen, maxLen := -1, -1
	for i := 0; i < col.Len(); i++ {
		s, ok := col.StringValue(i)
		if !ok {
			continue
		}
		counts[s]++

		n := len([]rune(s))
		lengthSum += n
		if minLen < 0 || n < minLen {
			minLen = n
		}
		if n > maxLen {
			maxLen = n
		}
	}

	ranked := make([]profile.ValueCount, 0, len(counts))
	for v, c := range counts {
		ranked = append(ranked, profile.ValueCount{Value: v, Count: c})
	}
	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].Count != ranked[b].Count {
			return ranked[a].Count > ranked[b].Count
		}
		return ranked[a].Value < ranked[b].Value
	})

	top := len(ranked)
	if top > 10 {
		top = 10
	}
	cp.TopValues = ranked[:top]

	if len(ranked) > 0 {
		cp.Mode = ranked[0].Value
		cp.ModeFrequency = ranked[0].Count
	}

	if nonNull := col.NonNullCount(); nonNull > 0 {
		avg := float64(lengthSum) / float64(nonNull)
		cp.MinLength = &minLen
		cp.MaxLength = &maxLen
		cp.AvgLength = &avg
	}
}

func (p *Profiler) profileTemporal(col *dataset.Column, cp *profile.ColumnProfile) {
	var min, max time.Time
	found := false
	for i := 0; i < col.Len(); i++ {
		t, ok := col.Time(i)
		if !ok {
			continue
		}
		if !found {
			min, max = t, t
			found = true
			continue
		}
		if t.Before(min) {
			min = t
		}
		if t.After(max) {
			max = t
		}
	}
	if !found {
		return
	}

	rangeDays := int(max.Sub(min).Hours() / 24)
	cp.MinTime = &min
	cp.MaxTime = &max
	cp.DateRangeDays = &rangeDays
}

// Threshold-driven advisory text. The thresholds are fixed constants
// of the design, not configuration.

func columnWarnings(cp *profile.ColumnProfile) []string {
	var warnings []string

	if cp.NullPercentage > 50 {
		warnings = append(warnings, fmt.Sprintf("High null rate: %.1f%%", cp.NullPercentage))
	}
	if cp.UniquePercentage < 1 && cp.Count > 100 {
		warnings = append(warnings, fmt.Sprintf("Very low uniqueness: %.2f%%", cp.UniquePercentage))
	}
	if cp.OutliersPercentage > 5 {
		warnings = append(warnings, fmt.Sprintf("High outlier rate: %.1f%%", cp.OutliersPercentage))
	}
	if cp.Skewness != nil && (*cp.Skewness > 2 || *cp.Skewness < -2) {
		warnings = append(warnings, fmt.Sprintf("Highly skewed distribution: %.2f", *cp.Skewness))
	}

	return warnings
}

func columnRecommendations(cp *profile.ColumnProfile) []string {
	var recommendations []string

	if cp.NullPercentage > 20 {
		recommendations = append(recommendations, "Consider imputation or investigating data source")
	}
	if cp.UniqueCount == cp.Count && cp.Count > 10 {
		recommendations = append(recommendations, "Consider using as primary key")
	}
	if cp.OutliersPercentage > 10 {
		recommendations = append(recommendations, "Review outliers - may indicate data quality issues")
	}

	return recommendations
}

func datasetWarnings(columns map[string]*profile.ColumnProfile, duplicatePct float64) []string {
	var warnings []string

	if duplicatePct > 10 {
		warnings = append(warnings, fmt.Sprintf("High duplicate row rate: %.1f%%", duplicatePct))
	}

	highNull := 0
	for _, cp := range columns {
		if cp.NullPercentage > 50 {
			highNull++
		}
	}
	if highNull > 0 {
		warnings = append(warnings, fmt.Sprintf("%d columns have >50%% null values", highNull))
	}

	return warnings
}

func datasetRecommendations(order []string, columns map[string]*profile.ColumnProfile) []string {
	var idCandidates []string
	for _, name := range order {
		cp := columns[name]
		if cp.UniquePercentage > 95 && cp.NullPercentage < 5 {
			idCandidates = append(idCandidates, name)
		}
	}

	if len(idCandidates) == 0 {
		return nil
	}

	joined := idCandidates[0]
	for _, name := range idCandidates[1:] {
		joined += ", " + name
	}
	return []string{fmt.Sprintf("Potential ID columns: %s", joined)}
}
