package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/davidleathers/dependable-data-quality/internal/domain/quality"
	"github.com/davidleathers/dependable-data-quality/internal/domain/rules"
)

// Registry holds the domain-specific Prometheus collectors for the
// quality engines
type Registry struct {
	// Monitoring metrics, labeled by dataset
	QualityScore *prometheus.GaugeVec
	Completeness *prometheus.GaugeVec
	Uniqueness   *prometheus.GaugeVec
	Validity     *prometheus.GaugeVec
	DataAgeHours *prometheus.GaugeVec

	// Validation metrics
	ValidationRuns     *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec

	// Alerting metrics, labeled by dataset and severity
	AlertsTriggered *prometheus.CounterVec
}

// NewRegistry creates the collectors and registers them with reg
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		QualityScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dataquality_quality_score",
			Help: "Weighted overall quality score of the latest measurement",
		}, []string{"dataset"}),
		Completeness: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dataquality_completeness_ratio",
			Help: "Fraction of non-null cells in the latest measurement",
		}, []string{"dataset"}),
		Uniqueness: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dataquality_uniqueness_ratio",
			Help: "Distinct values over total cells in the latest measurement",
		}, []string{"dataset"}),
		Validity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dataquality_validity_ratio",
			Help: "Fraction of rule evaluations that passed in the latest measurement",
		}, []string{"dataset"}),
		DataAgeHours: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dataquality_data_age_hours",
			Help: "Age of the freshest row in the latest measurement",
		}, []string{"dataset"}),
		ValidationRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dataquality_validation_runs_total",
			Help: "Completed validation runs",
		}, []string{"dataset"}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dataquality_validation_failures_total",
			Help: "Failed rules across validation runs",
		}, []string{"dataset"}),
		AlertsTriggered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dataquality_alerts_triggered_total",
			Help: "Quality alerts triggered",
		}, []string{"dataset", "severity"}),
	}

	reg.MustRegister(
		r.QualityScore, r.Completeness, r.Uniqueness, r.Validity,
		r.DataAgeHours, r.ValidationRuns, r.ValidationFailures,
		r.AlertsTriggered,
	)

	return r
}

// RecordMeasurement exports the dimensions of one quality measurement
func (r *Registry) RecordMeasurement(m *quality.QualityMetrics) {
	if r == nil {
		return
	}
	labels := prometheus.Labels{"dataset": m.DatasetName}
	r.QualityScore.With(labels).Set(m.QualityScore)
	r.Completeness.With(labels).Set(m.Completeness)
	r.Uniqueness.With(labels).Set(m.Uniqueness)
	r.Validity.With(labels).Set(m.Validity)
	r.DataAgeHours.With(labels).Set(m.DataAgeHours)
}

// RecordValidation exports the outcome of one validation run
func (r *Registry) RecordValidation(result *rules.ValidationResult) {
	if r == nil {
		return
	}
	r.ValidationRuns.With(prometheus.Labels{"dataset": result.DatasetName}).Inc()
	r.ValidationFailures.With(prometheus.Labels{"dataset": result.DatasetName}).
		Add(float64(result.FailedRules))
}

// RecordAlert exports one triggered alert
func (r *Registry) RecordAlert(alert *quality.Alert) {
	if r == nil {
		return
	}
	r.AlertsTriggered.With(prometheus.Labels{
		"dataset":  alert.DatasetName,
		"severity": alert.Severity.String(),
	}).Inc()
}
