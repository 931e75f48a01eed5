package rules

import (
	"fmt"

	"github.com/davidleathers/dependable-data-quality/internal/domain/dataset"
	"github.com/davidleathers/dependable-data-quality/internal/domain/errors"
	"github.com/davidleathers/dependable-data-quality/internal/domain/values"
)

// CustomPredicate computes a per-row invalid mask over a column. The
// returned slice must be sized to the column length; true marks a
// violating row.
type CustomPredicate func(col *dataset.Column) ([]bool, error)

// ValidationRule declares a single check against one column of a dataset
type ValidationRule struct {
	Column      string
	Kind        values.RuleKind
	Description string
	Severity    values.Severity

	// AllowNull excludes null cells from the invalid mask; when false
	// each rule kind applies its own null semantics
	AllowNull bool

	// Params carries rule-specific parameters (min, max, pattern, ...)
	Params map[string]interface{}

	// Custom is the escape hatch evaluated by the "custom" rule kind
	Custom CustomPredicate
}

// NewRule builds a validation rule. The kind is not checked against the
// evaluator registry here: unknown kinds surface as failures when the
// rule is evaluated.
func NewRule(column, kind, description, severity string) (ValidationRule, error) {
	if column == "" {
		return ValidationRule{}, errors.NewConfigurationError("EMPTY_RULE_COLUMN",
			"rule column cannot be empty")
	}

	k, err := values.NewRuleKind(kind)
	if err != nil {
		return ValidationRule{}, errors.NewConfigurationError("INVALID_RULE_KIND",
			fmt.Sprintf("rule on column '%s': %v", column, err))
	}

	sev := values.Medium()
	if severity != "" {
		sev, err = values.NewSeverity(severity)
		if err != nil {
			return ValidationRule{}, errors.NewConfigurationError("INVALID_RULE_SEVERITY",
				fmt.Sprintf("rule '%s_%s': %v", column, kind, err))
		}
	}

	return ValidationRule{
		Column:      column,
		Kind:        k,
		Description: description,
		Severity:    sev,
		Params:      make(map[string]interface{}),
	}, nil
}

// MustNewRule builds a rule and panics on error (for tests)
func MustNewRule(column, kind, description, severity string) ValidationRule {
	r, err := NewRule(column, kind, description, severity)
	if err != nil {
		panic(err)
	}
	return r
}

// WithParams sets rule parameters and returns the rule for chaining
func (r ValidationRule) WithParams(params map[string]interface{}) ValidationRule {
	r.Params = params
	return r
}

// WithAllowNull sets the null exclusion flag and returns the rule
func (r ValidationRule) WithAllowNull(allow bool) ValidationRule {
	r.AllowNull = allow
	return r
}

// WithCustom attaches a custom predicate and returns the rule
func (r ValidationRule) WithCustom(fn CustomPredicate) ValidationRule {
	r.Custom = fn
	return r
}

// Name returns the rule identity, derived from column and kind
func (r ValidationRule) Name() string {
	return fmt.Sprintf("%s_%s", r.Column, r.Kind)
}
