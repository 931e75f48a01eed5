package values

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/davidleathers/dependable-data-quality/internal/domain/errors"
)

// AlertStatus represents the lifecycle state of a quality alert.
// Valid transitions: active -> acknowledged, active -> resolved.
type AlertStatus struct {
	status string
}

// Supported alert statuses
const (
	AlertStatusActive       = "active"
	AlertStatusAcknowledged = "acknowledged"
	AlertStatusResolved     = "resolved"
)

var supportedAlertStatuses = map[string]bool{
	AlertStatusActive:       true,
	AlertStatusAcknowledged: true,
	AlertStatusResolved:     true,
}

// NewAlertStatus creates a new AlertStatus value object with validation
func NewAlertStatus(status string) (AlertStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if !supportedAlertStatuses[normalized] {
		return AlertStatus{}, errors.NewValidationError("UNSUPPORTED_ALERT_STATUS",
			fmt.Sprintf("alert status '%s' is not supported", status))
	}

	return AlertStatus{status: normalized}, nil
}

// Standard statuses
func Active() AlertStatus       { return AlertStatus{status: AlertStatusActive} }
func Acknowledged() AlertStatus { return AlertStatus{status: AlertStatusAcknowledged} }
func Resolved() AlertStatus     { return AlertStatus{status: AlertStatusResolved} }

// String returns the canonical status name
func (s AlertStatus) String() string {
	return s.status
}

// IsActive reports whether the alert still requires attention
func (s AlertStatus) IsActive() bool {
	return s.status == AlertStatusActive
}

// CanTransitionTo reports whether the transition to target is legal
func (s AlertStatus) CanTransitionTo(target AlertStatus) bool {
	return s.status == AlertStatusActive && target.status != AlertStatusActive
}

// MarshalJSON implements json.Marshaler
func (s AlertStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.status)
}

// UnmarshalJSON implements json.Unmarshaler
func (s *AlertStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	status, err := NewAlertStatus(raw)
	if err != nil {
		return err
	}

	*s = status
	return nil
}
