package quality

import (
	"time"

	"github.com/davidleathers/dependable-data-quality/internal/domain/errors"
	"github.com/davidleathers/dependable-data-quality/internal/domain/values"
)

// AlertRule configures one alert condition evaluated after every
// quality measurement
type AlertRule struct {
	Condition   Condition       `json:"condition"`
	Severity    values.Severity `json:"severity"`
	Channels    []string        `json:"channels"`
	Description string          `json:"description"`
}

// Alert records one triggered alert rule and its lifecycle. Status
// transitions strictly active -> acknowledged or active -> resolved.
type Alert struct {
	ID          string             `json:"id"`
	DatasetName string             `json:"dataset_name"`
	TriggeredAt time.Time          `json:"triggered_at"`
	Severity    values.Severity    `json:"severity"`
	Condition   Condition          `json:"condition"`
	Description string             `json:"description"`
	MetricName  string             `json:"metric_name"`
	MetricValue float64            `json:"metric_value"`
	Threshold   float64            `json:"threshold"`
	Status      values.AlertStatus `json:"status"`

	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`

	// Channels that dispatch was requested for; the dispatch itself is
	// an external collaborator's concern
	NotificationsSent []string `json:"notifications_sent"`
}

// Acknowledge transitions the alert to acknowledged and stamps the time
func (a *Alert) Acknowledge() error {
	if !a.Status.CanTransitionTo(values.Acknowledged()) {
		return errors.NewValidationError("INVALID_ALERT_TRANSITION",
			"only active alerts can be acknowledged")
	}

	now := time.Now()
	a.Status = values.Acknowledged()
	a.AcknowledgedAt = &now
	return nil
}

// Resolve transitions the alert to resolved and stamps the time
func (a *Alert) Resolve() error {
	if !a.Status.CanTransitionTo(values.Resolved()) {
		return errors.NewValidationError("INVALID_ALERT_TRANSITION",
			"only active alerts can be resolved")
	}

	now := time.Now()
	a.Status = values.Resolved()
	a.ResolvedAt = &now
	return nil
}
