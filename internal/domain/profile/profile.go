package profile

import (
	"time"

	"github.com/davidleathers/dependable-data-quality/internal/domain/dataset"
)

// ValueCount is one entry of a categorical frequency ranking
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ColumnProfile holds the descriptive statistics of a single column.
// Pointer fields are nil when the statistic does not apply to the
// column's kind or could not be computed.
type ColumnProfile struct {
	Name string       `json:"name"`
	Kind dataset.Kind `json:"kind"`

	// Basic statistics
	Count            int     `json:"count"`
	NullCount        int     `json:"null_count"`
	NullPercentage   float64 `json:"null_percentage"`
	UniqueCount      int     `json:"unique_count"`
	UniquePercentage float64 `json:"unique_percentage"`

	// Numeric statistics
	Mean        *float64           `json:"mean,omitempty"`
	Std         *float64           `json:"std,omitempty"`
	Min         *float64           `json:"min,omitempty"`
	Max         *float64           `json:"max,omitempty"`
	Median      *float64           `json:"median,omitempty"`
	Percentiles map[string]float64 `json:"percentiles,omitempty"`

	// Distribution
	Skewness *float64 `json:"skewness,omitempty"`
	Kurtosis *float64 `json:"kurtosis,omitempty"`
	IsNormal *bool    `json:"is_normal,omitempty"`

	// Categorical statistics
	Mode          interface{}  `json:"mode,omitempty"`
	ModeFrequency int          `json:"mode_frequency,omitempty"`
	TopValues     []ValueCount `json:"top_values,omitempty"`

	// String statistics
	MinLength *int     `json:"min_length,omitempty"`
	MaxLength *int     `json:"max_length,omitempty"`
	AvgLength *float64 `json:"avg_length,omitempty"`

	// Temporal statistics
	MinTime       *time.Time `json:"min_time,omitempty"`
	MaxTime       *time.Time `json:"max_time,omitempty"`
	DateRangeDays *int       `json:"date_range_days,omitempty"`

	// Quality indicators
	OutliersCount      int     `json:"outliers_count"`
	OutliersPercentage float64 `json:"outliers_percentage"`

	Warnings        []string `json:"warnings,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// CorrelationPair is a highly correlated column pair, ordered by
// descending absolute correlation
type CorrelationPair struct {
	Column1     string  `json:"column1"`
	Column2     string  `json:"column2"`
	Correlation float64 `json:"correlation"`
}
