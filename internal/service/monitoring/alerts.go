package monitoring

import (
	"sync"

	"github.com/davidleathers/dependable-data-quality/internal/domain/errors"
	"github.com/davidleathers/dependable-data-quality/internal/domain/quality"
	"github.com/davidleathers/dependable-data-quality/internal/domain/values"
)

// alertLog tracks active alerts and the full alert history. Resolving
// removes an alert from the active set but keeps it in the history.
type alertLog struct {
	mu      sync.RWMutex
	active  []*quality.Alert
	history []*quality.Alert
}

func newAlertLog() *alertLog {
	return &alertLog{}
}

func (l *alertLog) add(alert *quality.Alert) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = append(l.active, alert)
	l.history = append(l.history, alert)
}

// activeAlerts returns active alerts, optionally filtered by dataset
// name and/or severity; empty filter values match everything
func (l *alertLog) activeAlerts(datasetName string, severity values.Severity) []*quality.Alert {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*quality.Alert
	for _, alert := range l.active {
		if !alert.Status.IsActive() {
			continue
		}
		if datasetName != "" && alert.DatasetName != datasetName {
			continue
		}
		if !severity.IsZero() && alert.Severity != severity {
			continue
		}
		out = append(out, alert)
	}
	return out
}

func (l *alertLog) allAlerts() []*quality.Alert {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*quality.Alert, len(l.history))
	copy(out, l.history)
	return out
}

func (l *alertLog) acknowledge(alertID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, alert := range l.active {
		if alert.ID == alertID {
			return alert.Acknowledge()
		}
	}
	return errors.NewValidationError("ALERT_NOT_FOUND", "no active alert with id "+alertID)
}

func (l *alertLog) resolve(alertID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, alert := range l.active {
		if alert.ID != alertID {
			continue
		}
		if err := alert.Resolve(); err != nil {
			return err
		}
		l.active = append(l.active[:i], l.active[i+1:]...)
		return nil
	}
	return errors.NewValidationError("ALERT_NOT_FOUND", "no active alert with id "+alertID)
}
