package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"

	playground "github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/davidleathers/dependable-data-quality/internal/domain/quality"
	"github.com/davidleathers/dependable-data-quality/internal/domain/rules"
	"github.com/davidleathers/dependable-data-quality/internal/domain/values"
	"github.com/davidleathers/dependable-data-quality/internal/service/monitoring"
	"github.com/davidleathers/dependable-data-quality/internal/service/profiling"
	"github.com/davidleathers/dependable-data-quality/internal/service/validation"
)

type Config struct {
	Version     string `koanf:"version"`
	Environment string `koanf:"environment" validate:"oneof=development staging production"`
	LogLevel    string `koanf:"log_level" validate:"oneof=debug info warn error"`

	Profiling  ProfilingConfig  `koanf:"profiling"`
	Validation ValidationConfig `koanf:"validation"`
	Monitoring MonitoringConfig `koanf:"monitoring"`
}

type ProfilingConfig struct {
	EnableStatistics     bool      `koanf:"enable_statistics"`
	EnableDistributions  bool      `koanf:"enable_distributions"`
	EnableCorrelations   bool      `koanf:"enable_correlations"`
	CorrelationThreshold float64   `koanf:"correlation_threshold" validate:"gt=0,lte=1"`
	OutlierMethod        string    `koanf:"outlier_method"`
	SampleSize           int       `koanf:"sample_size" validate:"gte=0"`
	Percentiles          []float64 `koanf:"percentiles" validate:"dive,gt=0,lt=1"`
}

type ValidationConfig struct {
	FailFast       bool         `koanf:"fail_fast"`
	Parallel       bool         `koanf:"parallel"`
	MaxWorkers     int          `koanf:"max_workers" validate:"gte=1"`
	SampleFailures int          `koanf:"sample_failures" validate:"gte=1"`
	Rules          []RuleConfig `koanf:"rules" validate:"dive"`
}

// RuleConfig is the file representation of one validation rule.
// Custom predicates cannot be declared in a file; they are registered
// programmatically.
type RuleConfig struct {
	Column      string                 `koanf:"column" validate:"required"`
	Kind        string                 `koanf:"kind" validate:"required"`
	Description string                 `koanf:"description"`
	Severity    string                 `koanf:"severity"`
	AllowNull   bool                   `koanf:"allow_null"`
	Params      map[string]interface{} `koanf:"params"`
}

type MonitoringConfig struct {
	EnableHistory   bool          `koanf:"enable_history"`
	RetentionDays   int           `koanf:"retention_days" validate:"gte=1"`
	TimestampColumn string        `koanf:"timestamp_column"`
	MaxAgeHours     float64       `koanf:"max_age_hours" validate:"gte=0"`
	Weights         WeightsConfig `koanf:"weights"`
	Alerts          []AlertConfig `koanf:"alerts" validate:"dive"`
}

// WeightsConfig carries the score weight vector. The weights are used
// as given, not normalized, so skewed vectors produce out-of-range
// scores on purpose.
type WeightsConfig struct {
	Completeness float64 `koanf:"completeness"`
	Uniqueness   float64 `koanf:"uniqueness"`
	Validity     float64 `koanf:"validity"`
	Consistency  float64 `koanf:"consistency"`
	Timeliness   float64 `koanf:"timeliness"`
}

// AlertConfig is the file representation of one alert rule. Condition
// holds a single comparison such as "quality_score < 0.8".
type AlertConfig struct {
	Condition   string   `koanf:"condition" validate:"required"`
	Severity    string   `koanf:"severity"`
	Channels    []string `koanf:"channels"`
	Description string   `koanf:"description"`
}

// Load reads configuration from defaults, then the YAML file at path
// (optional when empty or missing), then DQ_-prefixed environment
// variables. A double underscore separates sections so snake_case keys
// stay intact: DQ_VALIDATION__MAX_WORKERS maps to validation.max_workers.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !stderrors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider("DQ_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "DQ_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := playground.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func defaults() *Config {
	return &Config{
		Version:     "dev",
		Environment: "development",
		LogLevel:    "info",
		Profiling: ProfilingConfig{
			EnableStatistics:     true,
			EnableDistributions:  true,
			EnableCorrelations:   true,
			CorrelationThreshold: 0.7,
			OutlierMethod:        values.OutlierMethodIQR,
		},
		Validation: ValidationConfig{
			Parallel:       true,
			MaxWorkers:     4,
			SampleFailures: 5,
		},
		Monitoring: MonitoringConfig{
			EnableHistory: true,
			RetentionDays: 90,
			MaxAgeHours:   24,
			Weights: WeightsConfig{
				Completeness: 0.25,
				Uniqueness:   0.15,
				Validity:     0.30,
				Consistency:  0.20,
				Timeliness:   0.10,
			},
		},
	}
}

// ProfilerConfig converts the file section into the engine configuration
func (c *Config) ProfilerConfig() (profiling.Config, error) {
	method, err := values.NewOutlierMethod(c.Profiling.OutlierMethod)
	if err != nil {
		return profiling.Config{}, err
	}

	cfg := profiling.Config{
		EnableStatistics:     c.Profiling.EnableStatistics,
		EnableDistributions:  c.Profiling.EnableDistributions,
		EnableCorrelations:   c.Profiling.EnableCorrelations,
		CorrelationThreshold: c.Profiling.CorrelationThreshold,
		OutlierMethod:        method,
		Percentiles:          c.Profiling.Percentiles,
	}
	return cfg, nil
}

// ValidatorConfig converts the file section into the engine configuration
func (c *Config) ValidatorConfig() validation.Config {
	return validation.Config{
		FailFast:       c.Validation.FailFast,
		Parallel:       c.Validation.Parallel,
		MaxWorkers:     c.Validation.MaxWorkers,
		SampleFailures: c.Validation.SampleFailures,
	}
}

// MonitorConfig converts the file section into the engine configuration.
// Alert conditions are parsed here so malformed expressions fail the
// load rather than surfacing during a measurement.
func (c *Config) MonitorConfig() (monitoring.Config, error) {
	alerts, err := c.AlertRules()
	if err != nil {
		return monitoring.Config{}, err
	}

	return monitoring.Config{
		EnableHistory: c.Monitoring.EnableHistory,
		RetentionDays: c.Monitoring.RetentionDays,
		Weights: quality.ScoreWeights{
			Completeness: c.Monitoring.Weights.Completeness,
			Uniqueness:   c.Monitoring.Weights.Uniqueness,
			Validity:     c.Monitoring.Weights.Validity,
			Consistency:  c.Monitoring.Weights.Consistency,
			Timeliness:   c.Monitoring.Weights.Timeliness,
		},
		AlertRules: alerts,
	}, nil
}

// ValidationRules builds the declared rules. The rule list order is
// preserved; it is the evaluation order in sequential mode.
func (c *Config) ValidationRules() ([]rules.ValidationRule, error) {
	out := make([]rules.ValidationRule, 0, len(c.Validation.Rules))
	for _, rc := range c.Validation.Rules {
		r, err := rules.NewRule(rc.Column, rc.Kind, rc.Description, rc.Severity)
		if err != nil {
			return nil, err
		}
		if rc.Params != nil {
			r = r.WithParams(rc.Params)
		}
		r = r.WithAllowNull(rc.AllowNull)
		out = append(out, r)
	}
	return out, nil
}

// AlertRules builds the declared alert rules
func (c *Config) AlertRules() ([]quality.AlertRule, error) {
	out := make([]quality.AlertRule, 0, len(c.Monitoring.Alerts))
	for _, ac := range c.Monitoring.Alerts {
		condition, err := quality.ParseCondition(ac.Condition)
		if err != nil {
			return nil, err
		}

		severity := values.Medium()
		if ac.Severity != "" {
			severity, err = values.NewSeverity(ac.Severity)
			if err != nil {
				return nil, err
			}
		}

		out = append(out, quality.AlertRule{
			Condition:   condition,
			Severity:    severity,
			Channels:    ac.Channels,
			Description: ac.Description,
		})
	}
	return out, nil
}
