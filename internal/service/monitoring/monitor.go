package monitoring

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davidleathers/dependable-data-quality/internal/domain/dataset"
	"github.com/davidleathers/dependable-data-quality/internal/domain/quality"
	"github.com/davidleathers/dependable-data-quality/internal/domain/rules"
	"github.com/davidleathers/dependable-data-quality/internal/domain/values"
	"github.com/davidleathers/dependable-data-quality/internal/metrics"
)

// DefaultMaxAgeHours is the freshness window applied when a measurement
// does not override it
const DefaultMaxAgeHours = 24

// Config controls the monitor
type Config struct {
	// EnableHistory appends each measurement to the per-dataset store
	// and enables trend classification
	EnableHistory bool

	// RetentionDays bounds the history window, measured from prune time
	RetentionDays int

	// Weights combine the quality dimensions into the overall score.
	// They are not validated to sum to 1; out-of-range scores under
	// skewed weights are preserved, not clamped.
	Weights quality.ScoreWeights

	// AlertRules are evaluated against every measurement
	AlertRules []quality.AlertRule
}

// DefaultConfig returns the standard monitor configuration
func DefaultConfig() Config {
	return Config{
		EnableHistory: true,
		RetentionDays: 90,
		Weights:       quality.DefaultScoreWeights(),
	}
}

// MeasureOptions carries the per-measurement inputs
type MeasureOptions struct {
	// ValidationResult feeds the validity dimension when present
	ValidationResult *rules.ValidationResult

	// TimestampColumn names the temporal column used for freshness
	TimestampColumn string

	// MaxAgeHours is the freshness window; zero means DefaultMaxAgeHours
	MaxAgeHours float64
}

// Monitor measures dataset quality over time, tracks history and trend,
// and evaluates alert rules. One Monitor instance owns its history and
// alert stores; concurrent measurements for the same dataset are
// serialized only at the store level, callers wanting a strict
// measurement order need a single writer per dataset name.
type Monitor struct {
	config   Config
	logger   *zap.Logger
	store    *MetricsStore
	alerts   *alertLog
	exporter *metrics.Registry
}

// NewMonitor creates a monitor. exporter may be nil when Prometheus
// export is not wanted.
func NewMonitor(config Config, logger *zap.Logger, exporter *metrics.Registry) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.RetentionDays <= 0 {
		config.RetentionDays = 90
	}
	zero := quality.ScoreWeights{}
	if config.Weights == zero {
		config.Weights = quality.DefaultScoreWeights()
	}

	return &Monitor{
		config:   config,
		logger:   logger,
		store:    NewMetricsStore(config.RetentionDays),
		alerts:   newAlertLog(),
		exporter: exporter,
	}
}

// MeasureQuality computes a point-in-time quality measurement for the
// dataset, classifies the trend against the previous stored score, and
// evaluates the configured alert rules.
func (m *Monitor) MeasureQuality(ds *dataset.Dataset, datasetName string, opts MeasureOptions) *quality.QualityMetrics {
	qm := &quality.QualityMetrics{
		DatasetName: datasetName,
		MeasuredAt:  time.Now(),
		RowCount:    ds.RowCount(),
		Consistency: 1.0,
		Validity:    1.0,
		IsFresh:     true,
	}

	totalCells := ds.CellCount()
	if totalCells > 0 {
		nulls := ds.NullCount()
		qm.Completeness = 1 - float64(nulls)/float64(totalCells)
		qm.NullPercentage = float64(nulls) / float64(totalCells) * 100

		uniques := 0
		for _, col := range ds.Columns() {
			uniques += col.UniqueCount()
		}
		qm.Uniqueness = float64(uniques) / float64(totalCells)
	}

	if ds.RowCount() > 0 {
		qm.DuplicatePercentage = float64(ds.DuplicateRowCount()) / float64(ds.RowCount()) * 100
	}

	if opts.ValidationResult != nil {
		vr := opts.ValidationResult
		qm.ValidationFailures = vr.FailureCount()
		denom := ds.RowCount() * vr.TotalRules
		if denom > 0 {
			qm.Validity = 1 - float64(qm.ValidationFailures)/float64(denom)
		} else {
			qm.Validity = 0
		}
	}

	maxAge := opts.MaxAgeHours
	if maxAge <= 0 {
		maxAge = DefaultMaxAgeHours
	}
	if opts.TimestampColumn != "" {
		if latest, ok := ds.MaxTime(opts.TimestampColumn); ok {
			qm.DataAgeHours = time.Since(latest).Hours()
			qm.IsFresh = qm.DataAgeHours <= maxAge
		}
	}

	qm.CalculateQualityScore(m.config.Weights)

	if m.config.EnableHistory {
		if previous, ok := m.store.Latest(datasetName); ok {
			prev := previous.QualityScore
			change := qm.QualityScore - prev
			qm.PreviousScore = &prev
			qm.ScoreChange = &change
			qm.Trend = values.TrendFromChange(change)
		}
		m.store.Append(qm)
	}

	m.exporter.RecordMeasurement(qm)
	m.checkAlerts(qm)

	m.logger.Info("quality measured",
		zap.String("dataset", datasetName),
		zap.Float64("quality_score", qm.QualityScore),
		zap.String("trend", qm.Trend.String()))

	return qm
}

// checkAlerts evaluates every configured alert rule against the
// measurement and records triggered alerts. Channel dispatch is
// recorded only; sending is an external collaborator's concern.
func (m *Monitor) checkAlerts(qm *quality.QualityMetrics) {
	for _, rule := range m.config.AlertRules {
		if !rule.Condition.Evaluate(qm) {
			continue
		}

		value, _ := qm.MetricValue(rule.Condition.Metric)
		description := rule.Description
		if description == "" {
			description = rule.Condition.String()
		}
		severity := rule.Severity
		if severity.IsZero() {
			severity = values.Medium()
		}

		alert := &quality.Alert{
			ID:                uuid.NewString(),
			DatasetName:       qm.DatasetName,
			TriggeredAt:       time.Now(),
			Severity:          severity,
			Condition:         rule.Condition,
			Description:       description,
			MetricName:        rule.Condition.Metric,
			MetricValue:       value,
			Threshold:         rule.Condition.Threshold,
			Status:            values.Active(),
			NotificationsSent: append([]string(nil), rule.Channels...),
		}

		m.alerts.add(alert)
		m.exporter.RecordAlert(alert)

		m.logger.Warn("quality alert triggered",
			zap.String("dataset", qm.DatasetName),
			zap.String("alert_id", alert.ID),
			zap.String("condition", rule.Condition.String()),
			zap.String("severity", severity.String()),
			zap.Float64("metric_value", value))
	}
}

// MetricsHistory returns the stored measurements for a dataset from the
// last N days
func (m *Monitor) MetricsHistory(datasetName string, days int) []*quality.QualityMetrics {
	return m.store.Since(datasetName, days)
}

// ActiveAlerts returns active alerts filtered by dataset name and/or
// severity; zero values match everything
func (m *Monitor) ActiveAlerts(datasetName string, severity values.Severity) []*quality.Alert {
	return m.alerts.activeAlerts(datasetName, severity)
}

// AlertHistory returns every alert ever triggered, including resolved
func (m *Monitor) AlertHistory() []*quality.Alert {
	return m.alerts.allAlerts()
}

// AcknowledgeAlert transitions an active alert to acknowledged
func (m *Monitor) AcknowledgeAlert(alertID string) error {
	return m.alerts.acknowledge(alertID)
}

// ResolveAlert transitions an active alert to resolved and removes it
// from the active set; it remains in the history
func (m *Monitor) ResolveAlert(alertID string) error {
	return m.alerts.resolve(alertID)
}
