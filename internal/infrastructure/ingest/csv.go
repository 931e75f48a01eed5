package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/davidleathers/dependable-data-quality/internal/domain/dataset"
	"github.com/davidleathers/dependable-data-quality/internal/domain/errors"
)

// Layouts accepted for temporal cells, tried in order
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ReadFile loads a delimited file into a dataset. The dataset name is
// the file's base name without extension. Only .csv files are
// supported; other extensions return a data source error.
func ReadFile(path string) (*dataset.Dataset, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" {
		return nil, errors.NewDataSourceError(path,
			fmt.Sprintf("unsupported file format '%s', expected .csv", ext))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDataSourceError(path, "cannot open file").WithCause(err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Read(f, name)
}

// Read parses CSV content into a dataset. The first record is the
// header; empty cells are nulls. Each column's kind is inferred from
// its non-empty cells: numeric when all parse as numbers, bool when
// all parse as booleans, temporal when all parse under a known time
// layout, text otherwise.
func Read(r io.Reader, datasetName string) (*dataset.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewDataSourceError(datasetName, "input has no header row")
	}
	if err != nil {
		return nil, errors.NewDataSourceError(datasetName, "malformed header").WithCause(err)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewDataSourceError(datasetName, "malformed rows").WithCause(err)
	}

	cols := make([]*dataset.Column, 0, len(header))
	for j, colName := range header {
		raw := make([]string, len(records))
		for i, record := range records {
			raw[i] = record[j]
		}

		col, err := buildColumn(strings.TrimSpace(colName), raw)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}

	return dataset.New(datasetName, cols...)
}

func buildColumn(name string, raw []string) (*dataset.Column, error) {
	values := make([]interface{}, len(raw))

	switch inferCellKind(raw) {
	case dataset.KindNumeric:
		for i, s := range raw {
			if s == "" {
				continue
			}
			f, _ := strconv.ParseFloat(s, 64)
			values[i] = f
		}
	case dataset.KindBool:
		for i, s := range raw {
			if s == "" {
				continue
			}
			b, _ := strconv.ParseBool(s)
			values[i] = b
		}
	case dataset.KindTemporal:
		for i, s := range raw {
			if s == "" {
				continue
			}
			values[i], _ = parseTime(s)
		}
	default:
		for i, s := range raw {
			if s == "" {
				continue
			}
			values[i] = s
		}
	}

	return dataset.NewColumn(name, values)
}

// inferCellKind classifies a column from its non-empty cells. The most
// specific kind that fits every cell wins; a column of all empty cells
// is text.
func inferCellKind(raw []string) dataset.Kind {
	numeric, boolean, temporal := true, true, true
	seen := false

	for _, s := range raw {
		if s == "" {
			continue
		}
		seen = true

		if numeric {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				numeric = false
			}
		}
		if boolean {
			if _, err := strconv.ParseBool(s); err != nil {
				boolean = false
			}
		}
		if temporal {
			if _, ok := parseTime(s); !ok {
				temporal = false
			}
		}
		if !numeric && !boolean && !temporal {
			return dataset.KindText
		}
	}

	switch {
	case !seen:
		return dataset.KindText
	case numeric:
		return dataset.KindNumeric
	case boolean:
		return dataset.KindBool
	case temporal:
		return dataset.KindTemporal
	default:
		return dataset.KindText
	}
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
