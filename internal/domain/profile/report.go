package profile

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ProfileReport is the complete profiling output for one dataset. The
// report is owned by the caller after creation and never mutated by the
// profiler.
type ProfileReport struct {
	DatasetName string    `json:"dataset_name"`
	ProfiledAt  time.Time `json:"profiled_at"`

	// Dataset level statistics
	RowCount      int     `json:"row_count"`
	ColumnCount   int     `json:"column_count"`
	MemoryUsageMB float64 `json:"memory_usage_mb"`

	// Column profiles keyed by column name; ColumnOrder preserves the
	// dataset's column sequence for deterministic rendering
	Columns     map[string]*ColumnProfile `json:"columns"`
	ColumnOrder []string                  `json:"column_order"`

	// Correlations across numeric columns; the matrix is keyed by
	// column name on both axes
	Correlations     map[string]map[string]float64 `json:"correlations,omitempty"`
	HighCorrelations []CorrelationPair             `json:"high_correlations,omitempty"`

	// Data quality aggregates
	OverallCompleteness float64 `json:"overall_completeness"`
	OverallUniqueness   float64 `json:"overall_uniqueness"`
	DuplicateRows       int     `json:"duplicate_rows"`
	DuplicatePercentage float64 `json:"duplicate_percentage"`

	Warnings        []string `json:"warnings,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Summary renders a human-readable multi-line overview
func (r *ProfileReport) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dataset Profile: %s\n", r.DatasetName)
	fmt.Fprintf(&sb, "Profiled at: %s\n\n", r.ProfiledAt.Format(time.RFC3339))
	sb.WriteString("Dataset Overview:\n")
	fmt.Fprintf(&sb, "  Rows: %d\n", r.RowCount)
	fmt.Fprintf(&sb, "  Columns: %d\n", r.ColumnCount)
	fmt.Fprintf(&sb, "  Memory Usage: %.2f MB\n", r.MemoryUsageMB)
	fmt.Fprintf(&sb, "  Duplicate Rows: %d (%.2f%%)\n\n", r.DuplicateRows, r.DuplicatePercentage)
	sb.WriteString("Data Quality Metrics:\n")
	fmt.Fprintf(&sb, "  Overall Completeness: %.2f%%\n", r.OverallCompleteness*100)
	fmt.Fprintf(&sb, "  Overall Uniqueness: %.2f%%\n\n", r.OverallUniqueness*100)

	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&sb, "  ! %s\n", w)
		}
		sb.WriteString("\n")
	}

	if len(r.HighCorrelations) > 0 {
		sb.WriteString("High Correlations:\n")
		limit := len(r.HighCorrelations)
		if limit > 5 {
			limit = 5
		}
		for _, p := range r.HighCorrelations[:limit] {
			fmt.Fprintf(&sb, "  %s <-> %s: %.3f\n", p.Column1, p.Column2, p.Correlation)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToMap returns a JSON-serializable projection for external reporters
func (r *ProfileReport) ToMap() map[string]interface{} {
	columns := make(map[string]interface{}, len(r.Columns))
	for name, col := range r.Columns {
		columns[name] = map[string]interface{}{
			"name":              col.Name,
			"kind":              string(col.Kind),
			"count":             col.Count,
			"null_count":        col.NullCount,
			"null_percentage":   col.NullPercentage,
			"unique_count":      col.UniqueCount,
			"unique_percentage": col.UniquePercentage,
			"mean":              col.Mean,
			"std":               col.Std,
			"min":               col.Min,
			"max":               col.Max,
			"median":            col.Median,
			"percentiles":       col.Percentiles,
			"skewness":          col.Skewness,
			"kurtosis":          col.Kurtosis,
			"top_values":        col.TopValues,
			"warnings":          col.Warnings,
			"recommendations":   col.Recommendations,
		}
	}

	highCorr := make([]map[string]interface{}, 0, len(r.HighCorrelations))
	for _, p := range r.HighCorrelations {
		highCorr = append(highCorr, map[string]interface{}{
			"column1":     p.Column1,
			"column2":     p.Column2,
			"correlation": p.Correlation,
		})
	}

	return map[string]interface{}{
		"dataset_name":         r.DatasetName,
		"profiled_at":          r.ProfiledAt.Format(time.RFC3339),
		"row_count":            r.RowCount,
		"column_count":         r.ColumnCount,
		"memory_usage_mb":      r.MemoryUsageMB,
		"overall_completeness": r.OverallCompleteness,
		"overall_uniqueness":   r.OverallUniqueness,
		"duplicate_rows":       r.DuplicateRows,
		"duplicate_percentage": r.DuplicatePercentage,
		"columns":              columns,
		"high_correlations":    highCorr,
		"warnings":             r.Warnings,
		"recommendations":      r.Recommendations,
	}
}

// ToJSON renders the projection as indented JSON
func (r *ProfileReport) ToJSON() (string, error) {
	data, err := json.MarshalIndent(r.ToMap(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
