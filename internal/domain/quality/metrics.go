package quality

import (
	"time"

	"github.com/davidleathers/dependable-data-quality/internal/domain/values"
)

// ScoreWeights weights the five quality dimensions when combining them
// into a single score. Weights are not required to sum to 1: under
// skewed custom weights the score can exceed 1 or fall below 0, which is
// accepted behavior, not validated or clamped.
type ScoreWeights struct {
	Completeness float64 `json:"completeness"`
	Uniqueness   float64 `json:"uniqueness"`
	Validity     float64 `json:"validity"`
	Consistency  float64 `json:"consistency"`
	Timeliness   float64 `json:"timeliness"`
}

// DefaultScoreWeights returns the standard weight vector
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Completeness: 0.25,
		Uniqueness:   0.15,
		Validity:     0.30,
		Consistency:  0.20,
		Timeliness:   0.10,
	}
}

// QualityMetrics is a point-in-time quality measurement for one dataset.
// A metrics value is created once per measurement and never mutated
// afterwards, except that the next measurement references it as
// "previous" for trend classification.
type QualityMetrics struct {
	DatasetName string    `json:"dataset_name"`
	MeasuredAt  time.Time `json:"measured_at"`

	// Completeness
	Completeness   float64 `json:"completeness"`
	NullPercentage float64 `json:"null_percentage"`

	// Uniqueness
	Uniqueness          float64 `json:"uniqueness"`
	DuplicatePercentage float64 `json:"duplicate_percentage"`

	// Validity
	Validity           float64 `json:"validity"`
	ValidationFailures int     `json:"validation_failures"`

	// Consistency (placeholder dimension for cross-field checks)
	Consistency float64 `json:"consistency"`

	// Timeliness
	DataAgeHours float64 `json:"data_age_hours"`
	IsFresh      bool    `json:"is_fresh"`

	// Volume
	RowCount int `json:"row_count"`

	// Overall score
	QualityScore float64 `json:"quality_score"`

	// Historical comparison
	PreviousScore *float64     `json:"previous_score,omitempty"`
	ScoreChange   *float64     `json:"score_change,omitempty"`
	Trend         values.Trend `json:"trend,omitempty"`
}

// CalculateQualityScore combines the dimensions under the given weights
// and stores the result on the metrics. Timeliness contributes 1.0 when
// the data is fresh and 0.5 otherwise.
func (m *QualityMetrics) CalculateQualityScore(weights ScoreWeights) float64 {
	timeliness := 0.5
	if m.IsFresh {
		timeliness = 1.0
	}

	m.QualityScore = weights.Completeness*m.Completeness +
		weights.Uniqueness*m.Uniqueness +
		weights.Validity*m.Validity +
		weights.Consistency*m.Consistency +
		weights.Timeliness*timeliness

	return m.QualityScore
}

// MetricValue resolves a named metric for alert condition evaluation.
// ok is false for unrecognized names.
func (m *QualityMetrics) MetricValue(name string) (float64, bool) {
	switch name {
	case "completeness":
		return m.Completeness, true
	case "null_percentage":
		return m.NullPercentage, true
	case "uniqueness":
		return m.Uniqueness, true
	case "duplicate_percentage":
		return m.DuplicatePercentage, true
	case "validity":
		return m.Validity, true
	case "validation_failures":
		return float64(m.ValidationFailures), true
	case "consistency":
		return m.Consistency, true
	case "data_age_hours":
		return m.DataAgeHours, true
	case "quality_score":
		return m.QualityScore, true
	case "row_count":
		return float64(m.RowCount), true
	}
	return 0, false
}
