package validation

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/davidleathers/dependable-data-quality/internal/domain/dataset"
	"github.com/davidleathers/dependable-data-quality/internal/domain/rules"
	"github.com/davidleathers/dependable-data-quality/internal/domain/values"
)

// Config controls validator execution
type Config struct {
	// FailFast halts evaluation at the first observed failure. In
	// parallel mode rules already dispatched may still complete and be
	// recorded; the failure set is a best-effort snapshot.
	FailFast bool `json:"fail_fast"`

	// Parallel dispatches rules to a bounded worker pool. Failures are
	// recorded in completion order, which is non-deterministic.
	Parallel bool `json:"parallel"`

	// MaxWorkers bounds the pool size in parallel mode
	MaxWorkers int `json:"max_workers"`

	// SampleFailures bounds the offending values retained per failure
	SampleFailures int `json:"sample_failures"`
}

// DefaultConfig returns the standard validator configuration
func DefaultConfig() Config {
	return Config{
		FailFast:       false,
		Parallel:       true,
		MaxWorkers:     4,
		SampleFailures: 5,
	}
}

// Validator evaluates declarative rules against a dataset. Evaluators
// for additional rule kinds can be registered; registration must happen
// before Validate runs, the registry is not synchronized against
// concurrent validation.
type Validator struct {
	config     Config
	logger     *zap.Logger
	mu         sync.RWMutex
	evaluators map[string]Evaluator
}

// NewValidator creates a validator with all builtin rule kinds registered
func NewValidator(config Config, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = DefaultConfig().MaxWorkers
	}
	if config.SampleFailures <= 0 {
		config.SampleFailures = DefaultConfig().SampleFailures
	}

	return &Validator{
		config:     config,
		logger:     logger,
		evaluators: builtinEvaluators(),
	}
}

// RegisterEvaluator adds an evaluator for a named rule kind. Builtins
// are only replaced on a name collision.
func (v *Validator) RegisterEvaluator(name string, fn Evaluator) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.evaluators[name] = fn
}

// Validate evaluates the rules against the dataset. Per-rule problems
// (missing column, unknown kind, evaluator errors or panics) degrade
// into high-severity failure records; Validate never returns an error
// for a single rule's failure.
func (v *Validator) Validate(ctx context.Context, ds *dataset.Dataset, ruleList []rules.ValidationRule, datasetName string) *rules.ValidationResult {
	result := rules.NewResult(datasetName, ds.RowCount(), len(ruleList))

	v.logger.Debug("starting validation",
		zap.String("dataset", datasetName),
		zap.Int("rules", len(ruleList)),
		zap.Bool("parallel", v.config.Parallel))

	if v.config.Parallel && len(ruleList) > 1 {
		v.validateParallel(ctx, ds, ruleList, result)
	} else {
		v.validateSequential(ctx, ds, ruleList, result)
	}

	result.Finalize()

	v.logger.Info("validation complete",
		zap.String("dataset", datasetName),
		zap.Int("passed", result.PassedRules),
		zap.Int("failed", result.FailedRules),
		zap.Bool("is_valid", result.IsValid))

	return result
}

// validateSequential evaluates rules in list order; failures land in
// the result in that same order
func (v *Validator) validateSequential(ctx context.Context, ds *dataset.Dataset, ruleList []rules.ValidationRule, result *rules.ValidationResult) {
	for _, rule := range ruleList {
		if ctx.Err() != nil {
			return
		}

		failure := v.evaluateRule(ds, rule)
		if failure == nil {
			continue
		}

		result.AddFailure(*failure)
		if v.config.FailFast {
			return
		}
	}
}

// validateParallel dispatches rules to a bounded worker pool. Fail-fast
// stops further dispatch, but evaluations in flight when the halt is
// requested still complete and are recorded.
func (v *Validator) validateParallel(ctx context.Context, ds *dataset.Dataset, ruleList []rules.ValidationRule, result *rules.ValidationResult) {
	outcomes := make(chan *rules.ValidationFailure, len(ruleList))
	halt := make(chan struct{})
	var haltOnce sync.Once

	var wg sync.WaitGroup
	sem := make(chan struct{}, v.config.MaxWorkers)

	go func() {
	dispatch:
		for _, rule := range ruleList {
			select {
			case <-halt:
				break dispatch
			case <-ctx.Done():
				break dispatch
			case sem <- struct{}{}:
			}

			wg.Add(1)
			go func(r rules.ValidationRule) {
				defer wg.Done()
				defer func() { <-sem }()
				outcomes <- v.evaluateRule(ds, r)
			}(rule)
		}

		wg.Wait()
		close(outcomes)
	}()

	for failure := range outcomes {
		if failure == nil {
			continue
		}

		result.AddFailure(*failure)
		if v.config.FailFast {
			haltOnce.Do(func() { close(halt) })
		}
	}
}

// evaluateRule runs one rule and converts every kind of problem into a
// failure record. A nil return means the rule passed.
func (v *Validator) evaluateRule(ds *dataset.Dataset, rule rules.ValidationRule) (failure *rules.ValidationFailure) {
	// An evaluator panic is recorded as a failure, never propagated
	defer func() {
		if r := recover(); r != nil {
			v.logger.Warn("rule evaluation panicked",
				zap.String("rule", rule.Name()),
				zap.Any("panic", r))
			failure = v.errorFailure(rule, fmt.Sprintf("Validation error: %v", r))
		}
	}()

	v.mu.RLock()
	evaluator, ok := v.evaluators[rule.Kind.String()]
	v.mu.RUnlock()
	if !ok {
		return v.errorFailure(rule, fmt.Sprintf("Unknown rule type: %s", rule.Kind))
	}

	col, ok := ds.Column(rule.Column)
	if !ok {
		return v.errorFailure(rule, fmt.Sprintf("Column '%s' not found", rule.Column))
	}

	mask, err := evaluator(col, rule)
	if err != nil {
		return v.errorFailure(rule, fmt.Sprintf("Validation error: %v", err))
	}

	if rule.AllowNull {
		for i := range mask {
			if col.IsNull(i) {
				mask[i] = false
			}
		}
	}

	count := 0
	for _, invalid := range mask {
		if invalid {
			count++
		}
	}
	if count == 0 {
		return nil
	}

	percentage := 0.0
	if ds.RowCount() > 0 {
		percentage = float64(count) / float64(ds.RowCount()) * 100
	}

	samples := make([]interface{}, 0, v.config.SampleFailures)
	for i := range mask {
		if !mask[i] {
			continue
		}
		samples = append(samples, col.Value(i))
		if len(samples) == v.config.SampleFailures {
			break
		}
	}

	return &rules.ValidationFailure{
		RuleName:          rule.Name(),
		Column:            rule.Column,
		Kind:              rule.Kind,
		Description:       rule.Description,
		Severity:          rule.Severity,
		FailureCount:      count,
		FailurePercentage: percentage,
		SampleValues:      samples,
	}
}

// errorFailure shapes evaluation problems as high-severity failures
// with a zero row count, per the engine's error policy
func (v *Validator) errorFailure(rule rules.ValidationRule, description string) *rules.ValidationFailure {
	return &rules.ValidationFailure{
		RuleName:          rule.Name(),
		Column:            rule.Column,
		Kind:              rule.Kind,
		Description:       description,
		Severity:          values.High(),
		FailureCount:      0,
		FailurePercentage: 0,
	}
}
