package validation

import (
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/spf13/cast"

	"github.com/davidleathers/dependable-data-quality/internal/domain/dataset"
	"github.com/davidleathers/dependable-data-quality/internal/domain/rules"
	"github.com/davidleathers/dependable-data-quality/internal/domain/values"
)

// Evaluator computes a per-row invalid mask for one rule over one
// column. The mask must be sized to the column length; true marks a
// violating row. Evaluators never mutate the column.
type Evaluator func(col *dataset.Column, rule rules.ValidationRule) ([]bool, error)

// Null handling per kind, when allow_null is false:
//   - presence and format kinds (not_null, in_list, regex, email, phone,
//     url) flag null cells as invalid
//   - comparison kinds (range, greater_than, less_than, between, the
//     date kinds, string_length, positive, negative) skip null cells
//   - unique treats all nulls as one shared value
//
// When allow_null is true the engine clears null rows from every mask
// after evaluation, so nulls are vacuously valid regardless of kind.

const (
	emailPattern = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	phonePattern = `^\+?[1-9]\d{1,14}$`
	urlPattern   = `^https?://[^\s<>"{}|\\^` + "`" + `\[\]]+$`
)

func builtinEvaluators() map[string]Evaluator {
	return map[string]Evaluator{
		values.RuleKindNotNull:       evaluateNotNull,
		values.RuleKindUnique:        evaluateUnique,
		values.RuleKindRange:         evaluateRange,
		values.RuleKindGreaterThan:   evaluateGreaterThan,
		values.RuleKindLessThan:      evaluateLessThan,
		values.RuleKindBetween:       evaluateRange,
		values.RuleKindInList:        evaluateInList,
		values.RuleKindRegex:         evaluateRegex,
		values.RuleKindEmail:         fixedPattern(emailPattern),
		values.RuleKindPhone:         fixedPattern(phonePattern),
		values.RuleKindURL:           fixedPattern(urlPattern),
		values.RuleKindDateNotFuture: evaluateDateNotFuture,
		values.RuleKindDateNotPast:   evaluateDateNotPast,
		values.RuleKindDateRange:     evaluateDateRange,
		values.RuleKindStringLength:  evaluateStringLength,
		values.RuleKindPositive:      fixedThreshold(evaluateGreaterThan, 0),
		values.RuleKindNegative:      fixedThreshold(evaluateLessThan, 0),
		values.RuleKindCustom:        evaluateCustom,
	}
}

func evaluateNotNull(col *dataset.Column, _ rules.ValidationRule) ([]bool, error) {
	mask := make([]bool, col.Len())
	for i := range mask {
		mask[i] = col.IsNull(i)
	}
	return mask, nil
}

// evaluateUnique flags every occurrence of a duplicated value, not just
// the repeats after the first
func evaluateUnique(col *dataset.Column, _ rules.ValidationRule) ([]bool, error) {
	counts := make(map[string]int, col.Len())
	for i := 0; i < col.Len(); i++ {
		counts[col.CellKey(i)]++
	}

	mask := make([]bool, col.Len())
	for i := range mask {
		mask[i] = counts[col.CellKey(i)] > 1
	}
	return mask, nil
}

func evaluateRange(col *dataset.Column, rule rules.ValidationRule) ([]bool, error) {
	if col.Kind() != dataset.KindNumeric {
		return nil, fmt.Errorf("rule '%s' requires a numeric column", rule.Name())
	}

	min, err := floatParam(rule.Params, "min")
	if err != nil {
		return nil, err
	}
	max, err := floatParam(rule.Params, "max")
	if err != nil {
		return nil, err
	}

	mask := make([]bool, col.Len())
	for i := range mask {
		if v, ok := col.Float(i); ok {
			mask[i] = v < min || v > max
		}
	}
	return mask, nil
}

func evaluateGreaterThan(col *dataset.Column, rule rules.ValidationRule) ([]bool, error) {
	if col.Kind() != dataset.KindNumeric {
		return nil, fmt.Errorf("rule '%s' requires a numeric column", rule.Name())
	}

	value, err := floatParamDefault(rule.Params, "value", 0)
	if err != nil {
		return nil, err
	}

	mask := make([]bool, col.Len())
	for i := range mask {
		if v, ok := col.Float(i); ok {
			mask[i] = v <= value
		}
	}
	return mask, nil
}

func evaluateLessThan(col *dataset.Column, rule rules.ValidationRule) ([]bool, error) {
	if col.Kind() != dataset.KindNumeric {
		return nil, fmt.Errorf("rule '%s' requires a numeric column", rule.Name())
	}

	value, err := floatParamDefault(rule.Params, "value", 0)
	if err != nil {
		return nil, err
	}

	mask := make([]bool, col.Len())
	for i := range mask {
		if v, ok := col.Float(i); ok {
			mask[i] = v >= value
		}
	}
	return mask, nil
}

func evaluateInList(col *dataset.Column, rule rules.ValidationRule) ([]bool, error) {
	raw, ok := rule.Params["allowed_values"]
	if !ok {
		return nil, fmt.Errorf("rule '%s' is missing parameter 'allowed_values'", rule.Name())
	}

	items, err := cast.ToSliceE(raw)
	if err != nil {
		return nil, fmt.Errorf("rule '%s': allowed_values must be a list: %w", rule.Name(), err)
	}

	allowed := make(map[string]bool, len(items))
	for _, item := range items {
		s, err := cast.ToStringE(item)
		if err != nil {
			return nil, fmt.Errorf("rule '%s': allowed value %v is not comparable: %w", rule.Name(), item, err)
		}
		allowed[s] = true
	}

	mask := make([]bool, col.Len())
	for i := range mask {
		s, ok := col.StringValue(i)
		mask[i] = !ok || !allowed[s]
	}
	return mask, nil
}

func evaluateRegex(col *dataset.Column, rule rules.ValidationRule) ([]bool, error) {
	pattern, err := stringParam(rule.Params, "pattern")
	if err != nil {
		return nil, err
	}
	return matchPattern(col, rule, pattern)
}

// fixedPattern derives a regex specialization with a preset pattern
func fixedPattern(pattern string) Evaluator {
	return func(col *dataset.Column, rule rules.ValidationRule) ([]bool, error) {
		return matchPattern(col, rule, pattern)
	}
}

func matchPattern(col *dataset.Column, rule rules.ValidationRule, pattern string) ([]bool, error) {
	// Anchor at the start so a pattern constrains the value prefix
	// rather than matching anywhere inside it
	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return nil, fmt.Errorf("rule '%s': invalid pattern: %w", rule.Name(), err)
	}

	mask := make([]bool, col.Len())
	for i := range mask {
		s, ok := col.StringValue(i)
		mask[i] = !ok || !re.MatchString(s)
	}
	return mask, nil
}

func evaluateDateNotFuture(col *dataset.Column, rule rules.ValidationRule) ([]bool, error) {
	if col.Kind() != dataset.KindTemporal {
		return nil, fmt.Errorf("rule '%s' requires a temporal column", rule.Name())
	}

	now := time.Now()
	mask := make([]bool, col.Len())
	for i := range mask {
		if t, ok := col.Time(i); ok {
			mask[i] = t.After(now)
		}
	}
	return mask, nil
}

func evaluateDateNotPast(col *dataset.Column, rule rules.ValidationRule) ([]bool, error) {
	if col.Kind() != dataset.KindTemporal {
		return nil, fmt.Errorf("rule '%s' requires a temporal column", rule.Name())
	}

	now := time.Now()
	mask := make([]bool, col.Len())
	for i := range mask {
		if t, ok := col.Time(i); ok {
			mask[i] = t.Before(now)
		}
	}
	return mask, nil
}

func evaluateDateRange(col *dataset.Column, rule rules.ValidationRule) ([]bool, error) {
	if col.Kind() != dataset.KindTemporal {
		return nil, fmt.Errorf("rule '%s' requires a temporal column", rule.Name())
	}

	minDate, err := timeParam(rule.Params, "min_date")
	if err != nil {
		return nil, err
	}
	maxDate, err := timeParam(rule.Params, "max_date")
	if err != nil {
		return nil, err
	}

	mask := make([]bool, col.Len())
	for i := range mask {
		if t, ok := col.Time(i); ok {
			mask[i] = t.Before(minDate) || t.After(maxDate)
		}
	}
	return mask, nil
}

func evaluateStringLength(col *dataset.Column, rule rules.ValidationRule) ([]bool, error) {
	minLen, err := intParamDefault(rule.Params, "min_length", 0)
	if err != nil {
		return nil, err
	}
	maxLen, err := intParamDefault(rule.Params, "max_length", math.MaxInt32)
	if err != nil {
		return nil, err
	}

	mask := make([]bool, col.Len())
	for i := range mask {
		if s, ok := col.StringValue(i); ok {
			n := len([]rune(s))
			mask[i] = n < minLen || n > maxLen
		}
	}
	return mask, nil
}

// fixedThreshold derives a sign check from a comparison evaluator
func fixedThreshold(base Evaluator, value float64) Evaluator {
	return func(col *dataset.Column, rule rules.ValidationRule) ([]bool, error) {
		derived := rule
		derived.Params = map[string]interface{}{"value": value}
		return base(col, derived)
	}
}

func evaluateCustom(col *dataset.Column, rule rules.ValidationRule) ([]bool, error) {
	if rule.Custom == nil {
		return make([]bool, col.Len()), nil
	}

	mask, err := rule.Custom(col)
	if err != nil {
		return nil, err
	}
	if len(mask) != col.Len() {
		return nil, fmt.Errorf("rule '%s': custom predicate returned %d rows, expected %d",
			rule.Name(), len(mask), col.Len())
	}
	return mask, nil
}

// Parameter extraction helpers. Rule parameters arrive as an untyped
// map from configuration, cast handles the numeric width variations.

func floatParam(params map[string]interface{}, key string) (float64, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("missing parameter '%s'", key)
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, fmt.Errorf("parameter '%s': %w", key, err)
	}
	return v, nil
}

func floatParamDefault(params map[string]interface{}, key string, def float64) (float64, error) {
	if _, ok := params[key]; !ok {
		return def, nil
	}
	return floatParam(params, key)
}

func intParamDefault(params map[string]interface{}, key string, def int) (int, error) {
	raw, ok := params[key]
	if !ok {
		return def, nil
	}
	v, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("parameter '%s': %w", key, err)
	}
	return v, nil
}

func stringParam(params map[string]interface{}, key string) (string, error) {
	raw, ok := params[key]
	if !ok {
		return "", fmt.Errorf("missing parameter '%s'", key)
	}
	v, err := cast.ToStringE(raw)
	if err != nil {
		return "", fmt.Errorf("parameter '%s': %w", key, err)
	}
	return v, nil
}

func timeParam(params map[string]interface{}, key string) (time.Time, error) {
	raw, ok := params[key]
	if !ok {
		return time.Time{}, fmt.Errorf("missing parameter '%s'", key)
	}
	v, err := cast.ToTimeE(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parameter '%s': %w", key, err)
	}
	return v, nil
}
