package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidleathers/dependable-data-quality/internal/domain/dataset"
	"github.com/davidleathers/dependable-data-quality/internal/domain/errors"
)

func TestReadInfersColumnKinds(t *testing.T) {
	input := `id,name,amount,active,created_at
1,alice,10.5,true,2025-01-01T00:00:00Z
2,bob,20,false,2025-02-01T00:00:00Z
3,carol,,true,2025-03-01T00:00:00Z
`

	ds, err := Read(strings.NewReader(input), "users")
	require.NoError(t, err)

	assert.Equal(t, "users", ds.Name())
	assert.Equal(t, 3, ds.RowCount())
	assert.Equal(t, []string{"id", "name", "amount", "active", "created_at"}, ds.ColumnNames())

	id, _ := ds.Column("id")
	assert.Equal(t, dataset.KindNumeric, id.Kind())

	name, _ := ds.Column("name")
	assert.Equal(t, dataset.KindText, name.Kind())

	amount, _ := ds.Column("amount")
	assert.Equal(t, dataset.KindNumeric, amount.Kind())
	assert.Equal(t, 1, amount.NullCount())

	active, _ := ds.Column("active")
	assert.Equal(t, dataset.KindBool, active.Kind())

	created, _ := ds.Column("created_at")
	assert.Equal(t, dataset.KindTemporal, created.Kind())
	ts, ok := created.Time(0)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), ts)
}

func TestReadMixedCellsFallBackToText(t *testing.T) {
	input := "code\n12\nabc\n"

	ds, err := Read(strings.NewReader(input), "t")
	require.NoError(t, err)

	code, _ := ds.Column("code")
	assert.Equal(t, dataset.KindText, code.Kind())
}

func TestReadDateOnlyLayout(t *testing.T) {
	input := "day\n2025-01-01\n2025-01-02\n"

	ds, err := Read(strings.NewReader(input), "t")
	require.NoError(t, err)

	day, _ := ds.Column("day")
	assert.Equal(t, dataset.KindTemporal, day.Kind())
}

func TestReadAllEmptyColumnIsText(t *testing.T) {
	input := "a,b\n1,\n2,\n"

	ds, err := Read(strings.NewReader(input), "t")
	require.NoError(t, err)

	b, _ := ds.Column("b")
	assert.Equal(t, dataset.KindText, b.Kind())
	assert.Equal(t, 2, b.NullCount())
}

func TestReadEmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""), "t")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDataSource))
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,amount\n1,10\n2,20\n"), 0o644))

	ds, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "orders", ds.Name())
	assert.Equal(t, 2, ds.RowCount())
}

func TestReadFileRejectsUnsupportedExtension(t *testing.T) {
	_, err := ReadFile("data.parquet")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDataSource))
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDataSource))
}
