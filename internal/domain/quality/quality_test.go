package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidleathers/dependable-data-quality/internal/domain/errors"
	"github.com/davidleathers/dependable-data-quality/internal/domain/values"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		want    Condition
		wantErr bool
	}{
		{
			name: "simple threshold",
			expr: "quality_score < 0.8",
			want: Condition{Metric: "quality_score", Comparator: CompareLT, Threshold: 0.8},
		},
		{
			name: "greater or equal",
			expr: "null_percentage >= 20",
			want: Condition{Metric: "null_percentage", Comparator: CompareGE, Threshold: 20},
		},
		{
			name: "metric name case folded",
			expr: "Validity == 1",
			want: Condition{Metric: "validity", Comparator: CompareEQ, Threshold: 1},
		},
		{name: "missing threshold", expr: "quality_score <", wantErr: true},
		{name: "compound expression", expr: "quality_score < 0.8 and validity < 1", wantErr: true},
		{name: "unknown metric", expr: "latency > 10", wantErr: true},
		{name: "unknown comparator", expr: "validity ~ 1", wantErr: true},
		{name: "non numeric threshold", expr: "validity < low", wantErr: true},
		{name: "empty", expr: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCondition(tt.expr)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrorTypeConfiguration))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConditionEvaluate(t *testing.T) {
	m := &QualityMetrics{
		QualityScore:   0.75,
		NullPercentage: 20,
		RowCount:       1000,
	}

	tests := []struct {
		expr string
		want bool
	}{
		{"quality_score < 0.8", true},
		{"quality_score > 0.8", false},
		{"null_percentage >= 20", true},
		{"null_percentage > 20", false},
		{"row_count == 1000", true},
		{"row_count != 1000", false},
		{"quality_score <= 0.75", true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParseCondition(tt.expr).Evaluate(m))
		})
	}
}

func TestCalculateQualityScore(t *testing.T) {
	m := &QualityMetrics{
		Completeness: 0.9,
		Uniqueness:   0.5,
		Validity:     1.0,
		Consistency:  1.0,
		IsFresh:      true,
	}

	score := m.CalculateQualityScore(DefaultScoreWeights())
	assert.InDelta(t, 0.25*0.9+0.15*0.5+0.30*1.0+0.20*1.0+0.10*1.0, score, 1e-9)
	assert.Equal(t, score, m.QualityScore)
}

func TestCalculateQualityScoreStaleDataHalvesTimeliness(t *testing.T) {
	fresh := &QualityMetrics{Completeness: 1, Uniqueness: 1, Validity: 1, Consistency: 1, IsFresh: true}
	stale := &QualityMetrics{Completeness: 1, Uniqueness: 1, Validity: 1, Consistency: 1, IsFresh: false}

	w := DefaultScoreWeights()
	assert.InDelta(t, 1.0, fresh.CalculateQualityScore(w), 1e-9)
	assert.InDelta(t, 0.95, stale.CalculateQualityScore(w), 1e-9)
}

func TestCalculateQualityScoreWeightsAreNotClamped(t *testing.T) {
	m := &QualityMetrics{Completeness: 1, Uniqueness: 1, Validity: 1, Consistency: 1, IsFresh: true}

	score := m.CalculateQualityScore(ScoreWeights{
		Completeness: 2, Uniqueness: 2, Validity: 2, Consistency: 2, Timeliness: 2,
	})
	assert.InDelta(t, 10.0, score, 1e-9)
}

func TestMetricValue(t *testing.T) {
	m := &QualityMetrics{Validity: 0.5, ValidationFailures: 7}

	v, ok := m.MetricValue("validity")
	require.True(t, ok)
	assert.Equal(t, 0.5, v)

	v, ok = m.MetricValue("validation_failures")
	require.True(t, ok)
	assert.Equal(t, 7.0, v)

	_, ok = m.MetricValue("nonsense")
	assert.False(t, ok)
}

func TestAlertLifecycle(t *testing.T) {
	alert := &Alert{ID: "a1", Status: values.Active()}

	require.NoError(t, alert.Acknowledge())
	assert.Equal(t, values.Acknowledged(), alert.Status)
	require.NotNil(t, alert.AcknowledgedAt)

	// acknowledged alerts cannot be resolved or re-acknowledged
	require.Error(t, alert.Resolve())
	require.Error(t, alert.Acknowledge())
}

func TestAlertResolveFromActive(t *testing.T) {
	alert := &Alert{ID: "a2", Status: values.Active()}

	require.NoError(t, alert.Resolve())
	assert.Equal(t, values.Resolved(), alert.Status)
	require.NotNil(t, alert.ResolvedAt)

	require.Error(t, alert.Acknowledge())
}
