package quality

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/davidleathers/dependable-data-quality/internal/domain/errors"
)

// Comparator is a boolean comparison operator in an alert condition
type Comparator string

const (
	CompareLT Comparator = "<"
	CompareLE Comparator = "<="
	CompareGT Comparator = ">"
	CompareGE Comparator = ">="
	CompareEQ Comparator = "=="
	CompareNE Comparator = "!="
)

// Condition is a structured alert predicate: one named metric compared
// against a numeric threshold. Restricting conditions to this shape
// removes any need for sandboxed expression evaluation and makes the
// metric name and threshold exact rather than heuristically extracted.
type Condition struct {
	Metric     string     `json:"metric"`
	Comparator Comparator `json:"comparator"`
	Threshold  float64    `json:"threshold"`
}

// conditionMetrics enumerates the metric names a condition may reference
var conditionMetrics = map[string]bool{
	"completeness":         true,
	"null_percentage":      true,
	"uniqueness":           true,
	"duplicate_percentage": true,
	"validity":             true,
	"validation_failures":  true,
	"consistency":          true,
	"data_age_hours":       true,
	"quality_score":        true,
	"row_count":            true,
}

// ParseCondition parses a single-comparison expression such as
// "quality_score < 0.8". Compound expressions are rejected.
func ParseCondition(expr string) (Condition, error) {
	fields := strings.Fields(expr)
	if len(fields) != 3 {
		return Condition{}, errors.NewConfigurationError("MALFORMED_CONDITION",
			fmt.Sprintf("condition '%s' must have the form '<metric> <comparator> <threshold>'", expr))
	}

	metric := strings.ToLower(fields[0])
	if !conditionMetrics[metric] {
		return Condition{}, errors.NewConfigurationError("UNKNOWN_CONDITION_METRIC",
			fmt.Sprintf("condition '%s' references unknown metric '%s'", expr, fields[0]))
	}

	var cmp Comparator
	switch fields[1] {
	case "<", "<=", ">", ">=", "==", "!=":
		cmp = Comparator(fields[1])
	default:
		return Condition{}, errors.NewConfigurationError("UNKNOWN_COMPARATOR",
			fmt.Sprintf("condition '%s' uses unsupported comparator '%s'", expr, fields[1]))
	}

	threshold, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Condition{}, errors.NewConfigurationError("MALFORMED_THRESHOLD",
			fmt.Sprintf("condition '%s' has non-numeric threshold '%s'", expr, fields[2]))
	}

	return Condition{Metric: metric, Comparator: cmp, Threshold: threshold}, nil
}

// MustParseCondition parses a condition and panics on error (for tests)
func MustParseCondition(expr string) Condition {
	c, err := ParseCondition(expr)
	if err != nil {
		panic(err)
	}
	return c
}

// Evaluate applies the predicate to a measurement. Only the named
// metrics are visible to the condition, no ambient capabilities.
func (c Condition) Evaluate(m *QualityMetrics) bool {
	value, ok := m.MetricValue(c.Metric)
	if !ok {
		return false
	}

	switch c.Comparator {
	case CompareLT:
		return value < c.Threshold
	case CompareLE:
		return value <= c.Threshold
	case CompareGT:
		return value > c.Threshold
	case CompareGE:
		return value >= c.Threshold
	case CompareEQ:
		return value == c.Threshold
	case CompareNE:
		return value != c.Threshold
	}
	return false
}

// String renders the condition in its source form
func (c Condition) String() string {
	return fmt.Sprintf("%s %s %g", c.Metric, c.Comparator, c.Threshold)
}
