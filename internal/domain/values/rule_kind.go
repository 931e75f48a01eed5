package values

import (
	"encoding/json"
	"strings"

	"github.com/davidleathers/dependable-data-quality/internal/domain/errors"
)

// RuleKind identifies the evaluation semantics of a validation rule.
// The builtin kinds form a closed set, but the constructor accepts any
// non-empty name: kinds without a registered evaluator surface as
// failures at evaluation time, not at construction.
type RuleKind struct {
	kind string
}

// Builtin rule kinds
const (
	RuleKindNotNull       = "not_null"
	RuleKindUnique        = "unique"
	RuleKindRange         = "range"
	RuleKindGreaterThan   = "greater_than"
	RuleKindLessThan      = "less_than"
	RuleKindBetween       = "between"
	RuleKindInList        = "in_list"
	RuleKindRegex         = "regex"
	RuleKindEmail         = "email"
	RuleKindPhone         = "phone"
	RuleKindURL           = "url"
	RuleKindDateNotFuture = "date_not_future"
	RuleKindDateNotPast   = "date_not_past"
	RuleKindDateRange     = "date_range"
	RuleKindStringLength  = "string_length"
	RuleKindPositive      = "positive"
	RuleKindNegative      = "negative"
	RuleKindCustom        = "custom"
)

var builtinRuleKinds = map[string]bool{
	RuleKindNotNull:       true,
	RuleKindUnique:        true,
	RuleKindRange:         true,
	RuleKindGreaterThan:   true,
	RuleKindLessThan:      true,
	RuleKindBetween:       true,
	RuleKindInList:        true,
	RuleKindRegex:         true,
	RuleKindEmail:         true,
	RuleKindPhone:         true,
	RuleKindURL:           true,
	RuleKindDateNotFuture: true,
	RuleKindDateNotPast:   true,
	RuleKindDateRange:     true,
	RuleKindStringLength:  true,
	RuleKindPositive:      true,
	RuleKindNegative:      true,
	RuleKindCustom:        true,
}

// NewRuleKind creates a new RuleKind value object
func NewRuleKind(kind string) (RuleKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(kind))
	if normalized == "" {
		return RuleKind{}, errors.NewValidationError("EMPTY_RULE_KIND",
			"rule kind cannot be empty")
	}

	return RuleKind{kind: normalized}, nil
}

// MustNewRuleKind creates RuleKind and panics on error (for constants/tests)
func MustNewRuleKind(kind string) RuleKind {
	k, err := NewRuleKind(kind)
	if err != nil {
		panic(err)
	}
	return k
}

// String returns the canonical kind name
func (k RuleKind) String() string {
	return k.kind
}

// IsZero reports whether the kind is unset
func (k RuleKind) IsZero() bool {
	return k.kind == ""
}

// IsBuiltin reports whether the kind has a builtin evaluator
func (k RuleKind) IsBuiltin() bool {
	return builtinRuleKinds[k.kind]
}

// MarshalJSON implements json.Marshaler
func (k RuleKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.kind)
}

// UnmarshalJSON implements json.Unmarshaler
func (k *RuleKind) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	kind, err := NewRuleKind(raw)
	if err != nil {
		return err
	}

	*k = kind
	return nil
}
