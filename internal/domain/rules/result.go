package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/davidleathers/dependable-data-quality/internal/domain/values"
)

// ValidationFailure captures the diagnostics of one failed rule
type ValidationFailure struct {
	RuleName          string            `json:"rule_name"`
	Column            string            `json:"column"`
	Kind              values.RuleKind   `json:"rule_kind"`
	Description       string            `json:"description"`
	Severity          values.Severity   `json:"severity"`
	FailureCount      int               `json:"failure_count"`
	FailurePercentage float64           `json:"failure_percentage"`
	SampleValues      []interface{}     `json:"sample_values,omitempty"`
}

// ValidationResult aggregates the outcome of validating a dataset
// against a rule list. Failures are partitioned by the rule's configured
// severity; the partitions are disjoint and their sizes sum to
// FailedRules.
type ValidationResult struct {
	DatasetName string    `json:"dataset_name"`
	ValidatedAt time.Time `json:"validated_at"`
	TotalRows   int       `json:"total_rows"`
	TotalRules  int       `json:"total_rules"`

	PassedRules int  `json:"passed_rules"`
	FailedRules int  `json:"failed_rules"`
	IsValid     bool `json:"is_valid"`

	CriticalFailures []ValidationFailure `json:"critical_failures"`
	HighFailures     []ValidationFailure `json:"high_failures"`
	MediumFailures   []ValidationFailure `json:"medium_failures"`
	LowFailures      []ValidationFailure `json:"low_failures"`
}

// NewResult initializes an empty result for a validation run
func NewResult(datasetName string, totalRows, totalRules int) *ValidationResult {
	return &ValidationResult{
		DatasetName: datasetName,
		ValidatedAt: time.Now(),
		TotalRows:   totalRows,
		TotalRules:  totalRules,
		IsValid:     true,
	}
}

// AddFailure buckets a failure into its severity partition
func (r *ValidationResult) AddFailure(f ValidationFailure) {
	r.FailedRules++

	switch f.Severity.String() {
	case values.SeverityCritical:
		r.CriticalFailures = append(r.CriticalFailures, f)
	case values.SeverityHigh:
		r.HighFailures = append(r.HighFailures, f)
	case values.SeverityLow:
		r.LowFailures = append(r.LowFailures, f)
	default:
		r.MediumFailures = append(r.MediumFailures, f)
	}
}

// Finalize computes the pass count and validity flag once all rules
// have been evaluated
func (r *ValidationResult) Finalize() {
	r.PassedRules = r.TotalRules - r.FailedRules
	r.IsValid = r.FailedRules == 0
}

// Failures returns all failures ordered critical, high, medium, low
func (r *ValidationResult) Failures() []ValidationFailure {
	out := make([]ValidationFailure, 0, r.FailedRules)
	out = append(out, r.CriticalFailures...)
	out = append(out, r.HighFailures...)
	out = append(out, r.MediumFailures...)
	out = append(out, r.LowFailures...)
	return out
}

// FailuresBySeverity returns the partition for one severity
func (r *ValidationResult) FailuresBySeverity(sev values.Severity) []ValidationFailure {
	switch sev.String() {
	case values.SeverityCritical:
		return r.CriticalFailures
	case values.SeverityHigh:
		return r.HighFailures
	case values.SeverityMedium:
		return r.MediumFailures
	case values.SeverityLow:
		return r.LowFailures
	}
	return nil
}

// FailureCount returns the total number of row-level violations across
// all recorded failures
func (r *ValidationResult) FailureCount() int {
	n := 0
	for _, f := range r.Failures() {
		n += f.FailureCount
	}
	return n
}

// Summary renders a human-readable multi-line overview
func (r *ValidationResult) Summary() string {
	status := "VALID"
	if !r.IsValid {
		status = "INVALID"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Validation Results: %s\n", r.DatasetName)
	fmt.Fprintf(&sb, "Validated at: %s\n\n", r.ValidatedAt.Format(time.RFC3339))
	sb.WriteString("Overview:\n")
	fmt.Fprintf(&sb, "  Total Rows: %d\n", r.TotalRows)
	fmt.Fprintf(&sb, "  Total Rules: %d\n", r.TotalRules)
	fmt.Fprintf(&sb, "  Passed: %d\n", r.PassedRules)
	fmt.Fprintf(&sb, "  Failed: %d\n", r.FailedRules)
	fmt.Fprintf(&sb, "  Status: %s\n\n", status)

	if len(r.CriticalFailures) > 0 {
		fmt.Fprintf(&sb, "Critical Failures (%d):\n", len(r.CriticalFailures))
		for _, f := range r.CriticalFailures {
			fmt.Fprintf(&sb, "  %s: %s\n", f.Column, f.Description)
		}
		sb.WriteString("\n")
	}

	if len(r.HighFailures) > 0 {
		fmt.Fprintf(&sb, "High Severity Failures (%d):\n", len(r.HighFailures))
		limit := len(r.HighFailures)
		if limit > 5 {
			limit = 5
		}
		for _, f := range r.HighFailures[:limit] {
			fmt.Fprintf(&sb, "  %s: %s\n", f.Column, f.Description)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToMap returns a JSON-serializable projection for external reporters
func (r *ValidationResult) ToMap() map[string]interface{} {
	failures := make([]map[string]interface{}, 0, r.FailedRules)
	for _, f := range r.Failures() {
		failures = append(failures, map[string]interface{}{
			"rule_name":          f.RuleName,
			"column":             f.Column,
			"rule_kind":          f.Kind.String(),
			"description":        f.Description,
			"severity":           f.Severity.String(),
			"failure_count":      f.FailureCount,
			"failure_percentage": f.FailurePercentage,
			"sample_values":      f.SampleValues,
		})
	}

	return map[string]interface{}{
		"dataset_name": r.DatasetName,
		"validated_at": r.ValidatedAt.Format(time.RFC3339),
		"total_rows":   r.TotalRows,
		"total_rules":  r.TotalRules,
		"passed_rules": r.PassedRules,
		"failed_rules": r.FailedRules,
		"is_valid":     r.IsValid,
		"failures":     failures,
	}
}
