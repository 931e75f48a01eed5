package quality

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidleathers/dependable-data-quality/internal/domain/dataset"
	"github.com/davidleathers/dependable-data-quality/internal/domain/errors"
	"github.com/davidleathers/dependable-data-quality/internal/domain/rules"
	"github.com/davidleathers/dependable-data-quality/internal/service/monitoring"
	"github.com/davidleathers/dependable-data-quality/internal/service/profiling"
	"github.com/davidleathers/dependable-data-quality/internal/service/validation"
	"github.com/davidleathers/dependable-data-quality/internal/testutil"
)

func newTestService(ruleList []rules.ValidationRule) *Service {
	return NewService(
		profiling.NewProfiler(profiling.DefaultConfig(), nil),
		validation.NewValidator(validation.DefaultConfig(), nil),
		monitoring.NewMonitor(monitoring.DefaultConfig(), nil, nil),
		ruleList,
		nil,
		nil,
	)
}

func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	return dataset.MustNew("orders",
		dataset.MustNewColumn("id", []interface{}{1, 1, 2, 3}),
		dataset.MustNewColumn("amount", []interface{}{10.0, -5.0, 20.0, nil}),
	)
}

func TestRunQualityCheckRequiresDataset(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.RunQualityCheck(testutil.TestContext(t), nil, "orders", DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInsufficientInput))
}

func TestRunQualityCheckAllEngines(t *testing.T) {
	ruleList := []rules.ValidationRule{
		rules.MustNewRule("id", "unique", "", "high"),
		rules.MustNewRule("amount", "positive", "", "medium"),
	}
	svc := newTestService(ruleList)

	report, err := svc.RunQualityCheck(testutil.TestContext(t), testDataset(t), "orders", DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "orders", report.DatasetName)
	require.NotNil(t, report.Profile)
	require.NotNil(t, report.Validation)
	require.NotNil(t, report.Metrics)

	// id duplicated twice, one negative amount
	assert.False(t, report.Validation.IsValid)
	assert.Equal(t, 2, report.Validation.FailedRules)

	// validity reflects this run's failures: 3 violations over 4 rows x 2 rules
	assert.InDelta(t, 1-3.0/8.0, report.Metrics.Validity, 1e-9)
}

func TestRunQualityCheckEngineToggles(t *testing.T) {
	svc := newTestService(nil)

	report, err := svc.RunQualityCheck(testutil.TestContext(t), testDataset(t), "orders", Options{
		Profile: true,
	})
	require.NoError(t, err)
	assert.NotNil(t, report.Profile)
	assert.Nil(t, report.Validation)
	assert.Nil(t, report.Metrics)

	report, err = svc.RunQualityCheck(testutil.TestContext(t), testDataset(t), "orders", Options{
		Monitor: true,
	})
	require.NoError(t, err)
	assert.Nil(t, report.Profile)
	assert.Nil(t, report.Validation)
	require.NotNil(t, report.Metrics)

	// without validation the validity dimension defaults to perfect
	assert.Equal(t, 1.0, report.Metrics.Validity)
}

func TestReportWriteJSON(t *testing.T) {
	svc := newTestService(nil)

	report, err := svc.RunQualityCheck(testutil.TestContext(t), testDataset(t), "orders", DefaultOptions())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, report.WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "orders", decoded["dataset_name"])
	assert.Contains(t, decoded, "profile")
	assert.Contains(t, decoded, "validation")
	assert.Contains(t, decoded, "metrics")
}

func TestReportWriteJSONBadPath(t *testing.T) {
	report := &Report{DatasetName: "orders"}

	err := report.WriteJSON(filepath.Join(t.TempDir(), "missing", "report.json"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDataSource))
}

func TestRunQualityCheckMonitorSeesHistory(t *testing.T) {
	svc := newTestService(nil)
	opts := Options{Monitor: true}

	_, err := svc.RunQualityCheck(testutil.TestContext(t), testDataset(t), "orders", opts)
	require.NoError(t, err)
	report, err := svc.RunQualityCheck(testutil.TestContext(t), testDataset(t), "orders", opts)
	require.NoError(t, err)

	require.NotNil(t, report.Metrics.PreviousScore)
	assert.Len(t, svc.Monitor().MetricsHistory("orders", 1), 2)
}
