package values

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/davidleathers/dependable-data-quality/internal/domain/errors"
)

// Severity represents the ordinal importance of a validation rule
// (critical > high > medium > low)
type Severity struct {
	severity string
}

// Supported severity levels
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

var (
	supportedSeverities = map[string]bool{
		SeverityCritical: true,
		SeverityHigh:     true,
		SeverityMedium:   true,
		SeverityLow:      true,
	}

	// Rank for ordering, higher is more severe
	severityRank = map[string]int{
		SeverityCritical: 4,
		SeverityHigh:     3,
		SeverityMedium:   2,
		SeverityLow:      1,
	}
)

// NewSeverity creates a new Severity value object with validation
func NewSeverity(severity string) (Severity, error) {
	if severity == "" {
		return Severity{}, errors.NewValidationError("EMPTY_SEVERITY",
			"severity cannot be empty")
	}

	normalized := strings.ToLower(strings.TrimSpace(severity))
	if !supportedSeverities[normalized] {
		return Severity{}, errors.NewValidationError("UNSUPPORTED_SEVERITY",
			fmt.Sprintf("severity '%s' is not supported", severity))
	}

	return Severity{severity: normalized}, nil
}

// MustNewSeverity creates Severity and panics on error (for constants/tests)
func MustNewSeverity(severity string) Severity {
	s, err := NewSeverity(severity)
	if err != nil {
		panic(err)
	}
	return s
}

// Standard severities
func Critical() Severity { return Severity{severity: SeverityCritical} }
func High() Severity     { return Severity{severity: SeverityHigh} }
func Medium() Severity   { return Severity{severity: SeverityMedium} }
func Low() Severity      { return Severity{severity: SeverityLow} }

// String returns the canonical severity name
func (s Severity) String() string {
	return s.severity
}

// IsZero reports whether the severity is unset
func (s Severity) IsZero() bool {
	return s.severity == ""
}

// Rank returns the ordinal rank of the severity, higher is more severe
func (s Severity) Rank() int {
	return severityRank[s.severity]
}

// MoreSevereThan reports whether s outranks other
func (s Severity) MoreSevereThan(other Severity) bool {
	return s.Rank() > other.Rank()
}

// MarshalJSON implements json.Marshaler
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.severity)
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	severity, err := NewSeverity(raw)
	if err != nil {
		return err
	}

	*s = severity
	return nil
}
