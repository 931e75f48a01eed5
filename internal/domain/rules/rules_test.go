package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidleathers/dependable-data-quality/internal/domain/errors"
	"github.com/davidleathers/dependable-data-quality/internal/domain/values"
)

func TestNewRule(t *testing.T) {
	tests := []struct {
		name     string
		column   string
		kind     string
		severity string
		wantErr  bool
	}{
		{"builtin kind", "email", "email", "high", false},
		{"default severity", "id", "not_null", "", false},
		{"unknown kind accepted at construction", "x", "frobnicate", "low", false},
		{"empty column", "", "not_null", "high", true},
		{"empty kind", "id", "", "high", true},
		{"bad severity", "id", "not_null", "urgent", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRule(tt.column, tt.kind, "", tt.severity)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrorTypeConfiguration))
				return
			}
			require.NoError(t, err)
			if tt.severity == "" {
				assert.Equal(t, values.Medium(), r.Severity)
			}
		})
	}
}

func TestRuleName(t *testing.T) {
	r := MustNewRule("amount", "range", "", "high")
	assert.Equal(t, "amount_range", r.Name())
}

func TestRuleChaining(t *testing.T) {
	r := MustNewRule("amount", "range", "", "high").
		WithParams(map[string]interface{}{"min": 0, "max": 100}).
		WithAllowNull(true)

	assert.True(t, r.AllowNull)
	assert.Equal(t, 0, r.Params["min"])
}

func TestResultSeverityPartitions(t *testing.T) {
	result := NewResult("orders", 100, 4)

	result.AddFailure(ValidationFailure{RuleName: "a", Severity: values.Critical(), FailureCount: 3})
	result.AddFailure(ValidationFailure{RuleName: "b", Severity: values.High(), FailureCount: 2})
	result.AddFailure(ValidationFailure{RuleName: "c", Severity: values.Low(), FailureCount: 1})
	// zero severity buckets as medium
	result.AddFailure(ValidationFailure{RuleName: "d", FailureCount: 4})
	result.Finalize()

	assert.Equal(t, 4, result.FailedRules)
	assert.Equal(t, 0, result.PassedRules)
	assert.False(t, result.IsValid)
	assert.Len(t, result.CriticalFailures, 1)
	assert.Len(t, result.HighFailures, 1)
	assert.Len(t, result.MediumFailures, 1)
	assert.Len(t, result.LowFailures, 1)
	assert.Equal(t, 10, result.FailureCount())

	ordered := result.Failures()
	require.Len(t, ordered, 4)
	assert.Equal(t, "a", ordered[0].RuleName)
	assert.Equal(t, "b", ordered[1].RuleName)
	assert.Equal(t, "d", ordered[2].RuleName)
	assert.Equal(t, "c", ordered[3].RuleName)
}

func TestResultEmptyRunIsValid(t *testing.T) {
	result := NewResult("empty", 0, 0)
	result.Finalize()

	assert.True(t, result.IsValid)
	assert.Equal(t, 0, result.TotalRules)
	assert.Equal(t, 0, result.PassedRules)
	assert.Equal(t, 0, result.FailureCount())
}

func TestResultToMap(t *testing.T) {
	result := NewResult("orders", 10, 1)
	result.AddFailure(ValidationFailure{
		RuleName: "id_unique", Column: "id",
		Kind:     values.MustNewRuleKind("unique"),
		Severity: values.High(), FailureCount: 2, FailurePercentage: 20,
	})
	result.Finalize()

	m := result.ToMap()
	assert.Equal(t, false, m["is_valid"])
	assert.Equal(t, 1, m["failed_rules"])
	failures, ok := m["failures"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, failures, 1)
	assert.Equal(t, "id_unique", failures[0]["rule_name"])
}
