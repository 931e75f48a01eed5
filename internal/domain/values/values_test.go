package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeverity(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"critical", "critical", "critical", false},
		{"uppercase normalized", "HIGH", "high", false},
		{"whitespace trimmed", "  medium  ", "medium", false},
		{"low", "low", "low", false},
		{"empty", "", "", true},
		{"unknown", "urgent", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSeverity(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.String())
		})
	}
}

func TestSeverityRank(t *testing.T) {
	assert.True(t, Critical().MoreSevereThan(High()))
	assert.True(t, High().MoreSevereThan(Medium()))
	assert.True(t, Medium().MoreSevereThan(Low()))
	assert.False(t, Low().MoreSevereThan(Critical()))
}

func TestNewRuleKind(t *testing.T) {
	k, err := NewRuleKind("not_null")
	require.NoError(t, err)
	assert.True(t, k.IsBuiltin())

	k, err = NewRuleKind("my_special_check")
	require.NoError(t, err)
	assert.False(t, k.IsBuiltin())
	assert.Equal(t, "my_special_check", k.String())

	_, err = NewRuleKind("")
	require.Error(t, err)
}

func TestAlertStatusTransitions(t *testing.T) {
	tests := []struct {
		name   string
		from   AlertStatus
		to     AlertStatus
		legal  bool
	}{
		{"active to acknowledged", Active(), Acknowledged(), true},
		{"active to resolved", Active(), Resolved(), true},
		{"acknowledged to resolved", Acknowledged(), Resolved(), false},
		{"resolved to acknowledged", Resolved(), Acknowledged(), false},
		{"resolved to active", Resolved(), Active(), false},
		{"active to active", Active(), Active(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.legal, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTrendFromChange(t *testing.T) {
	tests := []struct {
		name   string
		change float64
		want   string
	}{
		{"large gain", 0.2, TrendImproving},
		{"exactly the threshold improves", 0.01, TrendImproving},
		{"just under the threshold is stable", 0.0099, TrendStable},
		{"zero change", 0, TrendStable},
		{"just above negative threshold is stable", -0.0099, TrendStable},
		{"exactly negative threshold degrades", -0.01, TrendDegrading},
		{"large drop", -0.5, TrendDegrading},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrendFromChange(tt.change).String())
		})
	}
}

func TestNewOutlierMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"iqr", OutlierMethodIQR, false},
		{"IQR", OutlierMethodIQR, false},
		{"z-score", OutlierMethodZScore, false},
		{"zscore", OutlierMethodZScore, false},
		{"z_score", OutlierMethodZScore, false},
		{"mahalanobis", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := NewOutlierMethod(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.String())
		})
	}
}
