package quality

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/davidleathers/dependable-data-quality/internal/domain/dataset"
	"github.com/davidleathers/dependable-data-quality/internal/domain/errors"
	"github.com/davidleathers/dependable-data-quality/internal/domain/profile"
	domainquality "github.com/davidleathers/dependable-data-quality/internal/domain/quality"
	"github.com/davidleathers/dependable-data-quality/internal/domain/rules"
	"github.com/davidleathers/dependable-data-quality/internal/metrics"
	"github.com/davidleathers/dependable-data-quality/internal/service/monitoring"
	"github.com/davidleathers/dependable-data-quality/internal/service/profiling"
	"github.com/davidleathers/dependable-data-quality/internal/service/validation"
)

// Service runs the three quality engines as one coordinated check.
// Each engine can also be used on its own; the service only sequences
// them and shares the dataset between them.
type Service struct {
	profiler  *profiling.Profiler
	validator *validation.Validator
	monitor   *monitoring.Monitor
	rules     []rules.ValidationRule
	logger    *zap.Logger
	exporter  *metrics.Registry
}

// Options toggles the engines for one check and carries their
// per-check inputs
type Options struct {
	Profile  bool
	Validate bool
	Monitor  bool

	// SampleSize caps the rows the profiler reads; zero profiles all
	SampleSize int

	// TimestampColumn and MaxAgeHours feed the freshness dimension
	TimestampColumn string
	MaxAgeHours     float64
}

// DefaultOptions enables all three engines
func DefaultOptions() Options {
	return Options{Profile: true, Validate: true, Monitor: true}
}

// Report aggregates the engine outputs of one check. Sections for
// disabled engines are nil.
type Report struct {
	DatasetName string                        `json:"dataset_name"`
	CheckedAt   time.Time                     `json:"checked_at"`
	Duration    time.Duration                 `json:"duration"`
	Profile     *profile.ProfileReport        `json:"profile,omitempty"`
	Validation  *rules.ValidationResult       `json:"validation,omitempty"`
	Metrics     *domainquality.QualityMetrics `json:"metrics,omitempty"`
}

// WriteJSON writes the report to path as indented JSON
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewDataSourceError(path, "failed to write report file").WithCause(err)
	}
	return nil
}

// NewService wires the engines together. exporter may be nil.
func NewService(
	profiler *profiling.Profiler,
	validator *validation.Validator,
	monitor *monitoring.Monitor,
	ruleList []rules.ValidationRule,
	logger *zap.Logger,
	exporter *metrics.Registry,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		profiler:  profiler,
		validator: validator,
		monitor:   monitor,
		rules:     ruleList,
		logger:    logger,
		exporter:  exporter,
	}
}

// Rules returns the configured validation rules
func (s *Service) Rules() []rules.ValidationRule {
	return s.rules
}

// Monitor exposes the monitor for alert lifecycle and history queries
func (s *Service) Monitor() *monitoring.Monitor {
	return s.monitor
}

// RunQualityCheck executes the enabled engines against the dataset.
// Validation runs before monitoring so the validity dimension reflects
// this check's failures.
func (s *Service) RunQualityCheck(ctx context.Context, ds *dataset.Dataset, datasetName string, opts Options) (*Report, error) {
	if ds == nil {
		return nil, errors.ErrNoDataProvided
	}

	start := time.Now()
	report := &Report{
		DatasetName: datasetName,
		CheckedAt:   start,
	}

	if opts.Profile {
		report.Profile = s.profiler.Profile(ds, datasetName, opts.SampleSize)
	}

	if opts.Validate {
		report.Validation = s.validator.Validate(ctx, ds, s.rules, datasetName)
		s.exporter.RecordValidation(report.Validation)
	}

	if opts.Monitor {
		report.Metrics = s.monitor.MeasureQuality(ds, datasetName, monitoring.MeasureOptions{
			ValidationResult: report.Validation,
			TimestampColumn:  opts.TimestampColumn,
			MaxAgeHours:      opts.MaxAgeHours,
		})
	}

	report.Duration = time.Since(start)

	s.logger.Info("quality check complete",
		zap.String("dataset", datasetName),
		zap.Duration("duration", report.Duration),
		zap.Bool("profiled", report.Profile != nil),
		zap.Bool("validated", report.Validation != nil),
		zap.Bool("monitored", report.Metrics != nil))

	return report, nil
}
