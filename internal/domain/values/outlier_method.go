package values

import (
	"fmt"
	"strings"

	"github.com/davidleathers/dependable-data-quality/internal/domain/errors"
)

// OutlierMethod selects the outlier detection strategy used by the profiler
type OutlierMethod struct {
	method string
}

const (
	// OutlierMethodIQR flags values outside [Q1 - 1.5*IQR, Q3 + 1.5*IQR]
	OutlierMethodIQR = "iqr"
	// OutlierMethodZScore flags values with absolute standard score > 3
	OutlierMethodZScore = "z-score"
)

var supportedOutlierMethods = map[string]bool{
	OutlierMethodIQR:    true,
	OutlierMethodZScore: true,
}

// NewOutlierMethod creates a new OutlierMethod value object with validation
func NewOutlierMethod(method string) (OutlierMethod, error) {
	normalized := strings.ToLower(strings.TrimSpace(method))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	if normalized == "zscore" {
		normalized = OutlierMethodZScore
	}

	if !supportedOutlierMethods[normalized] {
		return OutlierMethod{}, errors.NewValidationError("UNSUPPORTED_OUTLIER_METHOD",
			fmt.Sprintf("outlier method '%s' is not supported", method))
	}

	return OutlierMethod{method: normalized}, nil
}

// Standard methods
func IQR() OutlierMethod    { return OutlierMethod{method: OutlierMethodIQR} }
func ZScore() OutlierMethod { return OutlierMethod{method: OutlierMethodZScore} }

// String returns the canonical method name
func (m OutlierMethod) String() string {
	return m.method
}

// IsZero reports whether the method is unset
func (m OutlierMethod) IsZero() bool {
	return m.method == ""
}
