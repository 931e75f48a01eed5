package values

import "encoding/json"

// Trend classifies quality-score movement between two consecutive
// measurements for the same dataset.
type Trend struct {
	trend string
}

const (
	TrendImproving = "improving"
	TrendDegrading = "degrading"
	TrendStable    = "stable"
)

// stableThreshold is the score delta below which movement is noise.
// A delta of exactly 0.01 classifies as improving or degrading.
const stableThreshold = 0.01

// TrendFromChange classifies a score delta
func TrendFromChange(change float64) Trend {
	switch {
	case change >= stableThreshold:
		return Trend{trend: TrendImproving}
	case change <= -stableThreshold:
		return Trend{trend: TrendDegrading}
	default:
		return Trend{trend: TrendStable}
	}
}

func Improving() Trend { return Trend{trend: TrendImproving} }
func Degrading() Trend { return Trend{trend: TrendDegrading} }
func Stable() Trend    { return Trend{trend: TrendStable} }

// String returns the canonical trend name
func (t Trend) String() string {
	return t.trend
}

// IsZero reports whether the trend is unset (first measurement)
func (t Trend) IsZero() bool {
	return t.trend == ""
}

// MarshalJSON implements json.Marshaler
func (t Trend) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.trend)
}
